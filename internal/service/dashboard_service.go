package service

import (
	"time"

	"habitloop_backend/internal/config"
	"habitloop_backend/internal/util"
)

// DashboardService 聚合首页数据：今日习惯、完成进度、激励短句和好友动态
type DashboardService struct {
	HabitService      *HabitService
	FeedService       *FeedService
	MotivationService *MotivationService
	Cfg               *config.Config
}

func NewDashboardService(
	habitService *HabitService,
	feedService *FeedService,
	motivationService *MotivationService,
	cfg *config.Config,
) *DashboardService {
	return &DashboardService{
		HabitService:      habitService,
		FeedService:       feedService,
		MotivationService: motivationService,
		Cfg:               cfg,
	}
}

type DashboardResponse struct {
	Date       string             `json:"date"`
	Motivation string             `json:"motivation"`
	Progress   TodayProgress      `json:"progress"`
	Habits     []HabitResponse    `json:"habits"`
	FriendFeed []FeedPostResponse `json:"friendFeed"`
}

// GetDashboard 组装首页。好友动态取不到不影响主体数据。
func (s *DashboardService) GetDashboard(userID uint) (*DashboardResponse, error) {
	habits, err := s.HabitService.List(userID)
	if err != nil {
		return nil, err
	}

	progress, err := s.HabitService.Progress(userID)
	if err != nil {
		return nil, err
	}

	resp := &DashboardResponse{
		Date:     time.Now().In(s.Cfg.Location()).Format(util.DateFormat),
		Progress: *progress,
		Habits:   habits,
	}

	if motivation, err := s.MotivationService.GetCurrentMotivation(); err == nil {
		resp.Motivation = motivation
	}

	if feed, _, err := s.FeedService.GetFeed(userID, 1, 5); err == nil {
		resp.FriendFeed = feed
	}

	return resp, nil
}
