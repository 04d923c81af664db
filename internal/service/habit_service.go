package service

import (
	"errors"
	"habitloop_backend/internal/config"
	"habitloop_backend/internal/model"
	"habitloop_backend/internal/repository"
	"habitloop_backend/internal/streak"
	"habitloop_backend/internal/util"
	"habitloop_backend/pkg/monitoring"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type HabitService struct {
	HabitRepo   *repository.HabitRepository
	CheckInRepo *repository.CheckInRepository
	DB          *gorm.DB
	Cfg         *config.Config
}

func NewHabitService(habitRepo *repository.HabitRepository, checkInRepo *repository.CheckInRepository, db *gorm.DB, cfg *config.Config) *HabitService {
	return &HabitService{
		HabitRepo:   habitRepo,
		CheckInRepo: checkInRepo,
		DB:          db,
		Cfg:         cfg,
	}
}

type HabitRequest struct {
	Title          string `json:"title" binding:"required,max=100"`
	MotivationText string `json:"motivationText" binding:"max=255"`
	Icon           string `json:"icon" binding:"max=50"`
}

type CheckInRequest struct {
	Note     string `json:"note" binding:"max=500"`
	PhotoURL string `json:"photoUrl" binding:"max=255"`
}

type HabitResponse struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	MotivationText string     `json:"motivationText"`
	Icon           string     `json:"icon"`
	Streak         int        `json:"streak"`
	CheckedToday   bool       `json:"checkedToday"`
	LastCheckInAt  *time.Time `json:"lastCheckInAt"`
	CreatedAt      time.Time  `json:"createdAt"`
}

type HabitDetailResponse struct {
	HabitResponse
	History []model.CheckIn `json:"history"`
	// CheckedDays 去重后的打卡自然日，供日历视图渲染
	CheckedDays []time.Time `json:"checkedDays"`
}

type TodayProgress struct {
	Completed int `json:"completed"`
	Total     int `json:"total"`
}

func (s *HabitService) Create(ownerID uint, req HabitRequest) (*model.Habit, error) {
	count, err := s.HabitRepo.CountByOwner(ownerID)
	if err != nil {
		return nil, err
	}
	if count >= model.MaxActiveHabits {
		return nil, util.ErrHabitLimit
	}

	habit := &model.Habit{
		OwnerID:        ownerID,
		Title:          req.Title,
		MotivationText: req.MotivationText,
		Icon:           req.Icon,
	}
	if err := s.HabitRepo.Create(habit); err != nil {
		return nil, err
	}
	return habit, nil
}

func (s *HabitService) List(ownerID uint) ([]HabitResponse, error) {
	habits, err := s.HabitRepo.FindByOwner(ownerID)
	if err != nil {
		return nil, err
	}

	loc := s.Cfg.Location()
	today := streak.DayOf(time.Now(), loc)

	responses := make([]HabitResponse, len(habits))
	for i, habit := range habits {
		responses[i] = s.toResponse(&habit, today, loc)
	}
	return responses, nil
}

func (s *HabitService) Detail(ownerID uint, habitID string) (*HabitDetailResponse, error) {
	habit, err := s.ownedHabit(ownerID, habitID)
	if err != nil {
		return nil, err
	}

	history, err := s.CheckInRepo.History(habitID)
	if err != nil {
		return nil, err
	}

	loc := s.Cfg.Location()
	today := streak.DayOf(time.Now(), loc)

	instants := make([]time.Time, len(history))
	for i, c := range history {
		instants[i] = c.CheckedAt
	}

	resp := &HabitDetailResponse{
		HabitResponse: s.toResponse(habit, today, loc),
		History:       history,
		CheckedDays:   streak.SortedDays(instants, loc),
	}
	// 详情页用历史重新算展示连击，而不是直接信缓存
	resp.Streak = streak.CurrentStreak(instants, today, loc)
	resp.CheckedToday = streak.IsCheckedIn(instants, today, loc)
	return resp, nil
}

func (s *HabitService) Update(ownerID uint, habitID string, req HabitRequest) (*model.Habit, error) {
	habit, err := s.ownedHabit(ownerID, habitID)
	if err != nil {
		return nil, err
	}

	habit.Title = req.Title
	habit.MotivationText = req.MotivationText
	habit.Icon = req.Icon
	if err := s.HabitRepo.Update(habit); err != nil {
		return nil, err
	}
	return habit, nil
}

func (s *HabitService) Delete(ownerID uint, habitID string) error {
	if _, err := s.ownedHabit(ownerID, habitID); err != nil {
		return err
	}
	return s.HabitRepo.Delete(habitID)
}

// CheckIn 记录一次打卡。整个"查今天是否已打卡、算连击、落库、刷缓存"
// 在同一个事务里完成并对习惯行加锁，双击提交也只会成功一次；
// habit_id + day 的唯一索引兜底并发下的漏网。
func (s *HabitService) CheckIn(ownerID uint, habitID string, req CheckInRequest) (*model.CheckIn, error) {
	loc := s.Cfg.Location()
	now := time.Now()
	day := streak.DayOf(now, loc)

	var created *model.CheckIn
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var habit model.Habit
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&habit, "id = ?", habitID).Error; err != nil {
			return util.ErrHabitNotFound
		}
		if habit.OwnerID != ownerID {
			return util.ErrPermissionDenied
		}

		var existing model.CheckIn
		err := tx.Where("habit_id = ? AND day = ?", habitID, day).First(&existing).Error
		if err == nil {
			return streak.ErrDuplicateCheckIn
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}

		newStreak, err := streak.NextStreak(habit.Streak, habit.LastCheckInAt, now, loc)
		if err != nil {
			return err
		}

		checkIn := &model.CheckIn{
			HabitID:     habitID,
			Day:         day,
			CheckedAt:   now,
			Note:        req.Note,
			PhotoURL:    req.PhotoURL,
			StreakAfter: newStreak,
		}
		if err := tx.Create(checkIn).Error; err != nil {
			return err
		}

		habit.Streak = newStreak
		habit.LastCheckInAt = &now
		if err := tx.Save(&habit).Error; err != nil {
			return err
		}

		created = checkIn
		return nil
	})

	if err != nil {
		return nil, err
	}

	monitoring.CheckInCounter.Inc()
	return created, nil
}

// Progress 今日习惯完成进度，仪表盘和扩展同步接口的权威数据源
func (s *HabitService) Progress(ownerID uint) (*TodayProgress, error) {
	loc := s.Cfg.Location()
	today := streak.DayOf(time.Now(), loc)

	total, err := s.HabitRepo.CountByOwner(ownerID)
	if err != nil {
		return nil, err
	}
	completed, err := s.CheckInRepo.CountCompletedOnDay(ownerID, today)
	if err != nil {
		return nil, err
	}

	return &TodayProgress{Completed: int(completed), Total: int(total)}, nil
}

func (s *HabitService) ownedHabit(ownerID uint, habitID string) (*model.Habit, error) {
	habit, err := s.HabitRepo.FindByID(habitID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrHabitNotFound
		}
		return nil, err
	}
	if habit.OwnerID != ownerID {
		return nil, util.ErrPermissionDenied
	}
	return habit, nil
}

func (s *HabitService) toResponse(habit *model.Habit, today time.Time, loc *time.Location) HabitResponse {
	checkedToday := false
	displayStreak := 0
	if habit.LastCheckInAt != nil {
		lastDay := streak.DayOf(*habit.LastCheckInAt, loc)
		gap := streak.DaysBetween(lastDay, today)
		checkedToday = gap == 0
		// 列表页走缓存值，间隔超过宽限期才归零
		if gap <= 1 {
			displayStreak = habit.Streak
		}
	}

	return HabitResponse{
		ID:             habit.ID,
		Title:          habit.Title,
		MotivationText: habit.MotivationText,
		Icon:           habit.Icon,
		Streak:         displayStreak,
		CheckedToday:   checkedToday,
		LastCheckInAt:  habit.LastCheckInAt,
		CreatedAt:      habit.CreatedAt,
	}
}
