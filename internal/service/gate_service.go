package service

import (
	"habitloop_backend/internal/config"
	"habitloop_backend/internal/gate"
	"habitloop_backend/internal/model"
	"habitloop_backend/internal/repository"
	"habitloop_backend/pkg/monitoring"
	"strings"
	"time"
)

// GateService 浏览器扩展侧"每日门禁"的服务端。
// 扩展的页面观察器把今日进度快照同步上来，之后每次导航评估
// 只读快照，不做任何权威校验——门禁是行为提醒，不是访问控制。
type GateService struct {
	GateRepo     *repository.GateRepository
	HabitService *HabitService
	Cfg          *config.Config
}

func NewGateService(gateRepo *repository.GateRepository, habitService *HabitService, cfg *config.Config) *GateService {
	return &GateService{
		GateRepo:     gateRepo,
		HabitService: habitService,
		Cfg:          cfg,
	}
}

type GateSettingsRequest struct {
	RequiredCount int      `json:"requiredCount" binding:"min=0"`
	AllowedHosts  []string `json:"allowedHosts"`
	Enabled       *bool    `json:"enabled"`
}

type GateStatusResponse struct {
	Enabled       bool          `json:"enabled"`
	RequiredCount int           `json:"requiredCount"`
	AllowedHosts  []string      `json:"allowedHosts"`
	Progress      gate.Progress `json:"progress"`
	// Authoritative 数据库里的真实进度，快照只是它的滞后近似
	Authoritative *TodayProgress `json:"authoritative,omitempty"`
}

type EvaluateRequest struct {
	URL string `json:"url" binding:"required"`
}

type EvaluateResponse struct {
	Decision  gate.Decision `json:"decision"`
	Needed    int           `json:"needed"`
	Completed int           `json:"completed"`
	// RedirectURL 拦截时扩展应跳转的页面
	RedirectURL string `json:"redirectUrl,omitempty"`
}

// Status 扩展启动/弹窗时拉取策略与进度
func (s *GateService) Status(userID uint) (*GateStatusResponse, error) {
	settings, err := s.GateRepo.GetSettings(userID)
	if err != nil {
		return nil, err
	}

	snapshot, err := s.GateRepo.GetSnapshot(userID)
	if err != nil {
		return nil, err
	}

	resp := &GateStatusResponse{
		Enabled:       settings.Enabled,
		RequiredCount: settings.RequiredCount,
		AllowedHosts:  splitHosts(settings.AllowedHosts),
		Progress:      snapshot,
	}

	// 顺带带上权威进度，扩展可以用它校正本地快照
	if authoritative, err := s.HabitService.Progress(userID); err == nil {
		resp.Authoritative = authoritative
	}
	return resp, nil
}

func (s *GateService) UpdateSettings(userID uint, req GateSettingsRequest) (*model.GateSettings, error) {
	settings, err := s.GateRepo.GetSettings(userID)
	if err != nil {
		return nil, err
	}

	settings.RequiredCount = req.RequiredCount
	settings.AllowedHosts = strings.Join(normalizeHosts(req.AllowedHosts), ",")
	if req.Enabled != nil {
		settings.Enabled = *req.Enabled
	}

	if err := s.GateRepo.SaveSettings(settings); err != nil {
		return nil, err
	}
	return settings, nil
}

// ReportProgress 扩展观察器上报今日进度，最后写入者胜
func (s *GateService) ReportProgress(userID uint, progress gate.Progress) error {
	if progress.Completed < 0 || progress.Total < 0 || progress.Completed > progress.Total {
		// 观察器解析页面难免出错，丢弃明显非法的快照
		return nil
	}
	loc := s.Cfg.Location()
	return s.GateRepo.SaveSnapshot(userID, progress, time.Now(), loc)
}

// Evaluate 判定一次导航。门禁被关闭时一律放行。
func (s *GateService) Evaluate(userID uint, rawURL string) (*EvaluateResponse, error) {
	settings, err := s.GateRepo.GetSettings(userID)
	if err != nil {
		return nil, err
	}

	snapshot, err := s.GateRepo.GetSnapshot(userID)
	if err != nil {
		return nil, err
	}

	policy := gate.Policy{
		RequiredCount: settings.RequiredCount,
		AllowedHosts:  splitHosts(settings.AllowedHosts),
	}
	gateCfg := s.Cfg.GateSnapshot()

	decision := gate.Allowed
	if settings.Enabled {
		decision = gate.Evaluate(rawURL, gateCfg.AppHost, snapshot, policy)
	}

	monitoring.GateDecisionCounter.WithLabelValues(string(decision)).Inc()

	resp := &EvaluateResponse{
		Decision:  decision,
		Needed:    policy.Needed(snapshot.Total),
		Completed: snapshot.Completed,
	}
	if decision == gate.Blocked {
		resp.RedirectURL = gateCfg.BlockPageURL
	}
	return resp, nil
}

func splitHosts(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

func normalizeHosts(hosts []string) []string {
	var out []string
	seen := make(map[string]struct{}, len(hosts))
	for _, h := range hosts {
		h = strings.ToLower(strings.TrimSpace(h))
		if h == "" {
			continue
		}
		if _, ok := seen[h]; ok {
			continue
		}
		seen[h] = struct{}{}
		out = append(out, h)
	}
	return out
}
