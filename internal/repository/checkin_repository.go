package repository

import (
	"habitloop_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type CheckInRepository struct {
	DB *gorm.DB
}

func NewCheckInRepository(db *gorm.DB) *CheckInRepository {
	return &CheckInRepository{DB: db}
}

func (r *CheckInRepository) Create(checkIn *model.CheckIn) error {
	return r.DB.Create(checkIn).Error
}

func (r *CheckInRepository) FindByID(id string) (*model.CheckIn, error) {
	var checkIn model.CheckIn
	err := r.DB.First(&checkIn, "id = ?", id).Error
	return &checkIn, err
}

// FindByHabitAndDay 查某个习惯在指定自然日的打卡，day 必须是日零点
func (r *CheckInRepository) FindByHabitAndDay(habitID string, day time.Time) (*model.CheckIn, error) {
	var checkIn model.CheckIn
	err := r.DB.Where("habit_id = ? AND day = ?", habitID, day).First(&checkIn).Error
	if err != nil {
		return nil, err
	}
	return &checkIn, nil
}

// MarkShared 打上已分享标记。打卡记录本身不可变，仅此辅助标志例外
func (r *CheckInRepository) MarkShared(id string) error {
	return r.DB.Model(&model.CheckIn{}).
		Where("id = ?", id).
		Update("shared", true).Error
}

// History 某习惯的全部打卡历史，按打卡时刻升序
func (r *CheckInRepository) History(habitID string) ([]model.CheckIn, error) {
	var checkIns []model.CheckIn
	err := r.DB.Where("habit_id = ?", habitID).
		Order("checked_at ASC").
		Find(&checkIns).Error
	return checkIns, err
}

// HistorySince 近期历史，供日历视图使用
func (r *CheckInRepository) HistorySince(habitID string, since time.Time) ([]model.CheckIn, error) {
	var checkIns []model.CheckIn
	err := r.DB.Where("habit_id = ? AND day >= ?", habitID, since).
		Order("checked_at ASC").
		Find(&checkIns).Error
	return checkIns, err
}

// CountCompletedOnDay 某用户在指定自然日完成打卡的习惯数
func (r *CheckInRepository) CountCompletedOnDay(ownerID uint, day time.Time) (int64, error) {
	var count int64
	err := r.DB.Model(&model.CheckIn{}).
		Joins("JOIN habits ON habits.id = check_ins.habit_id").
		Where("habits.owner_id = ? AND check_ins.day = ?", ownerID, day).
		Count(&count).Error
	return count, err
}

// CountSharedOnDay 某用户当日已分享到动态的打卡数，用于每日分享上限
func (r *CheckInRepository) CountSharedOnDay(ownerID uint, day time.Time) (int64, error) {
	var count int64
	err := r.DB.Model(&model.FeedPost{}).
		Joins("JOIN check_ins ON check_ins.id = feed_posts.check_in_id").
		Where("feed_posts.author_id = ? AND check_ins.day = ?", ownerID, day).
		Count(&count).Error
	return count, err
}
