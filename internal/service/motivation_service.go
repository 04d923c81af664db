package service

import (
	"errors"
	"math/rand"
	"time"

	"habitloop_backend/internal/model"
	"habitloop_backend/internal/repository"
)

// 激励短句轮换间隔
const motivationRotateInterval = 24 * time.Hour

type MotivationService struct {
	MotivationRepo *repository.MotivationRepository
}

func NewMotivationService(motivationRepo *repository.MotivationRepository) *MotivationService {
	return &MotivationService{MotivationRepo: motivationRepo}
}

// 获取所有激励短句
func (s *MotivationService) GetAllMotivations() ([]*model.Motivation, error) {
	return s.MotivationRepo.GetAll()
}

// GetCurrentMotivation 获取当前展示的激励短句，每天轮换一次。
// 仪表盘和拦截页共用同一条。
func (s *MotivationService) GetCurrentMotivation() (string, error) {
	current, err := s.MotivationRepo.GetCurrent()
	if err != nil {
		enabled, err := s.MotivationRepo.GetEnabled()
		if err != nil || len(enabled) == 0 {
			return "", err
		}
		s.MotivationRepo.SetCurrent(enabled[0].ID)
		return enabled[0].Content, nil
	}

	elapsed := time.Since(current.LastUsedAt)
	enabled, err := s.MotivationRepo.GetEnabled()

	// 只有一条启用的就不轮换
	if err == nil && len(enabled) > 1 && elapsed >= motivationRotateInterval {
		var candidates []*model.Motivation
		for _, m := range enabled {
			if m.ID != current.ID {
				candidates = append(candidates, m)
			}
		}
		if len(candidates) > 0 {
			next := candidates[rand.Intn(len(candidates))]
			s.MotivationRepo.SetCurrent(next.ID)
			return next.Content, nil
		}
	}

	return current.Content, nil
}

// 创建新的激励短句
func (s *MotivationService) CreateMotivation(content string) error {
	motivation := &model.Motivation{
		Content:         content,
		IsEnabled:       true,
		IsCurrentlyUsed: false,
	}
	return s.MotivationRepo.Create(motivation)
}

// 更新激励短句
func (s *MotivationService) UpdateMotivation(id uint, content string, isEnabled bool) error {
	var motivation model.Motivation
	if err := s.MotivationRepo.DB.First(&motivation, id).Error; err != nil {
		return err
	}

	current, err := s.MotivationRepo.GetCurrent()
	if err == nil && current.ID == id && !isEnabled {
		enabled, err := s.MotivationRepo.GetEnabled()
		if err != nil {
			return err
		}
		if len(enabled) <= 1 {
			return errors.New("至少需要保留一个启用的激励短句")
		}
	}

	motivation.Content = content
	motivation.IsEnabled = isEnabled
	return s.MotivationRepo.Update(&motivation)
}

// 删除激励短句
func (s *MotivationService) DeleteMotivation(id uint) error {
	current, err := s.MotivationRepo.GetCurrent()
	if err == nil && current.ID == id {
		enabled, err := s.MotivationRepo.GetEnabled()
		if err != nil {
			return err
		}
		if len(enabled) <= 1 {
			return errors.New("至少需要保留一个启用的激励短句")
		}
	}

	return s.MotivationRepo.Delete(id)
}

// SwitchToMotivation 立即切换到指定的激励短句
func (s *MotivationService) SwitchToMotivation(id uint) error {
	motivations, err := s.MotivationRepo.GetAll()
	if err != nil {
		return err
	}

	found := false
	for _, m := range motivations {
		if m.ID == id {
			found = true
			if !m.IsEnabled {
				return errors.New("该激励短句未启用")
			}
			break
		}
	}
	if !found {
		return errors.New("未找到指定的激励短句")
	}

	return s.MotivationRepo.SetCurrent(id)
}
