package service

import (
	"context"
	"errors"
	"mime/multipart"
	"time"

	"habitloop_backend/internal/config"
	"habitloop_backend/internal/model"
	"habitloop_backend/internal/repository"
	"habitloop_backend/internal/streak"
	"habitloop_backend/internal/util"

	"golang.org/x/crypto/bcrypt"
)

// UserFilter 定义用户筛选条件
// swagger:model UserFilter
type UserFilter struct {
	Role   string
	Status string
	Search string
}

// ProfileResponse 个人主页聚合：基本信息 + 习惯统计
type ProfileResponse struct {
	ID            uint       `json:"id"`
	Name          string     `json:"name"`
	Email         string     `json:"email"`
	Avatar        string     `json:"avatar"`
	Bio           string     `json:"bio"`
	Role          string     `json:"role"`
	JoinedAt      time.Time `json:"joinedAt"`
	LastSeen      time.Time `json:"lastSeen"`
	HabitCount    int64     `json:"habitCount"`
	TotalCheckIns int64     `json:"totalCheckIns"`
	BestStreak    int       `json:"bestStreak"`
	CurrentBest   int       `json:"currentBest"`
	FriendCount   int       `json:"friendCount"`
}

type ProfileUpdateRequest struct {
	Name string `json:"name" binding:"omitempty,min=2,max=50"`
	Bio  string `json:"bio" binding:"max=200"`
}

type PasswordChangeRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=8"`
}

// UserService 处理用户相关的业务逻辑
type UserService struct {
	UserRepo   *repository.UserRepository
	HabitRepo  *repository.HabitRepository
	FriendRepo *repository.FriendshipRepository
	Storage    *StorageService
	Cfg        *config.Config
}

func NewUserService(
	userRepo *repository.UserRepository,
	habitRepo *repository.HabitRepository,
	friendRepo *repository.FriendshipRepository,
	storage *StorageService,
	cfg *config.Config,
) *UserService {
	return &UserService{
		UserRepo:   userRepo,
		HabitRepo:  habitRepo,
		FriendRepo: friendRepo,
		Storage:    storage,
		Cfg:        cfg,
	}
}

// GetProfile 获取用户主页信息。viewerID 用于控制邮箱可见性：只有本人能看到。
func (s *UserService) GetProfile(userID, viewerID uint) (*ProfileResponse, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return nil, util.ErrUserNotFound
	}

	resp := &ProfileResponse{
		ID:       user.ID,
		Name:     user.Name,
		Avatar:   user.Avatar,
		Bio:      user.Bio,
		Role:     string(user.Role),
		JoinedAt: user.CreatedAt,
		LastSeen: user.LastSeen,
	}
	if userID == viewerID {
		resp.Email = user.Email
	}

	habits, err := s.HabitRepo.FindByOwner(userID)
	if err != nil {
		return nil, err
	}
	resp.HabitCount = int64(len(habits))

	loc := s.Cfg.Location()
	now := time.Now()
	for _, h := range habits {
		if h.LastCheckInAt != nil && streak.DaysBetween(streak.DayOf(*h.LastCheckInAt, loc), streak.DayOf(now, loc)) <= 1 {
			if h.Streak > resp.CurrentBest {
				resp.CurrentBest = h.Streak
			}
		}
	}

	// 历史最佳连击和总打卡数从打卡记录聚合
	s.UserRepo.DB.Model(&model.CheckIn{}).
		Joins("JOIN habits ON habits.id = check_ins.habit_id").
		Where("habits.owner_id = ?", userID).
		Count(&resp.TotalCheckIns)

	var best int
	s.UserRepo.DB.Model(&model.CheckIn{}).
		Select("COALESCE(MAX(streak_after), 0)").
		Joins("JOIN habits ON habits.id = check_ins.habit_id").
		Where("habits.owner_id = ?", userID).
		Scan(&best)
	resp.BestStreak = best

	friendIDs, err := s.FriendRepo.GetFriendIDs(userID)
	if err == nil {
		resp.FriendCount = len(friendIDs)
	}

	return resp, nil
}

// UpdateProfile 更新昵称和简介
func (s *UserService) UpdateProfile(userID uint, req ProfileUpdateRequest) (*model.User, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return nil, util.ErrUserNotFound
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	user.Bio = req.Bio
	user.UpdatedAt = time.Now()

	if err := s.UserRepo.Update(user); err != nil {
		return nil, err
	}
	user.Password = ""
	return user, nil
}

// ChangePassword 校验旧密码后更新密码
func (s *UserService) ChangePassword(userID uint, req PasswordChangeRequest) error {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return util.ErrUserNotFound
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.OldPassword)); err != nil {
		return errors.New("旧密码不正确")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user.Password = string(hashed)
	user.UpdatedAt = time.Now()
	return s.UserRepo.Update(user)
}

// UploadAvatar 上传头像并更新用户记录
func (s *UserService) UploadAvatar(ctx context.Context, userID uint, file *multipart.FileHeader) (string, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return "", util.ErrUserNotFound
	}

	url, err := s.Storage.UploadImage(ctx, "avatars", file)
	if err != nil {
		return "", err
	}

	user.Avatar = url
	user.UpdatedAt = time.Now()
	if err := s.UserRepo.Update(user); err != nil {
		return "", err
	}
	return url, nil
}

// GetUsers 管理端用户列表，支持分页和筛选
func (s *UserService) GetUsers(page, pageSize int, filter UserFilter) ([]model.User, int, error) {
	var users []model.User
	var total int64

	query := s.UserRepo.DB.Model(&model.User{})

	if filter.Role != "" {
		query = query.Where("role = ?", filter.Role)
	}

	if filter.Status == "online" {
		query = query.Where("last_seen > ?", time.Now().Add(-5*time.Minute))
	} else if filter.Status == "disabled" {
		query = query.Where("disabled = ?", true)
	}

	if filter.Search != "" {
		searchTerm := "%" + filter.Search + "%"
		query = query.Where("name LIKE ? OR email LIKE ?", searchTerm, searchTerm)
	}

	query.Count(&total)

	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).Order("created_at DESC").Find(&users).Error
	for i := range users {
		users[i].Password = ""
	}

	return users, int(total), err
}

// DisableUser 禁用/启用用户
func (s *UserService) DisableUser(id uint, disable bool) error {
	user, err := s.UserRepo.FindByID(id)
	if err != nil {
		return util.ErrUserNotFound
	}

	user.Disabled = disable
	user.UpdatedAt = time.Now()
	return s.UserRepo.Update(user)
}
