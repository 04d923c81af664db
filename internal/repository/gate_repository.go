package repository

import (
	"context"
	"fmt"
	"habitloop_backend/internal/gate"
	"habitloop_backend/internal/model"
	"habitloop_backend/pkg/logger"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// GateRepository 策略落库，进度快照走 Redis。
// 快照由扩展观察页面得出，只是近似值，观察端是唯一写方、
// 取后写覆盖即可，不需要事务保证。
type GateRepository struct {
	DB    *gorm.DB
	Redis *redis.Client
	ctx   context.Context
}

func NewGateRepository(db *gorm.DB, rdb *redis.Client) *GateRepository {
	return &GateRepository{
		DB:    db,
		Redis: rdb,
		ctx:   context.Background(),
	}
}

// GetSettings 取用户的拦截策略，不存在时落一条默认值
func (r *GateRepository) GetSettings(userID uint) (*model.GateSettings, error) {
	var settings model.GateSettings
	err := r.DB.Where("user_id = ?", userID).First(&settings).Error
	if err == gorm.ErrRecordNotFound {
		settings = model.GateSettings{
			UserID:  userID,
			Enabled: true,
		}
		if err := r.DB.Create(&settings).Error; err != nil {
			return nil, err
		}
		return &settings, nil
	}
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

func (r *GateRepository) SaveSettings(settings *model.GateSettings) error {
	return r.DB.Save(settings).Error
}

// SaveSnapshot 缓存今日进度，自然日结束时过期
func (r *GateRepository) SaveSnapshot(userID uint, progress gate.Progress, now time.Time, loc *time.Location) error {
	if r.Redis == nil {
		return nil
	}

	key := snapshotKey(userID)
	local := now.In(loc)
	endOfDay := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc).AddDate(0, 0, 1)

	pipe := r.Redis.Pipeline()
	pipe.HSet(r.ctx, key, "completed", progress.Completed, "total", progress.Total)
	pipe.ExpireAt(r.ctx, key, endOfDay)
	_, err := pipe.Exec(r.ctx)
	return err
}

// GetSnapshot 读取今日进度缓存。无缓存或 Redis 不可用时一律返回零值，
// 评估端按 total==0 放行，缓存故障不能挡住用户的正常浏览。
func (r *GateRepository) GetSnapshot(userID uint) (gate.Progress, error) {
	if r.Redis == nil {
		return gate.Progress{}, nil
	}

	values, err := r.Redis.HGetAll(r.ctx, snapshotKey(userID)).Result()
	if err != nil {
		logger.Log.Warn("Gate snapshot read failed, failing open", zap.Error(err))
		return gate.Progress{}, nil
	}
	if len(values) == 0 {
		return gate.Progress{}, nil
	}

	var progress gate.Progress
	fmt.Sscanf(values["completed"], "%d", &progress.Completed)
	fmt.Sscanf(values["total"], "%d", &progress.Total)
	return progress, nil
}

func snapshotKey(userID uint) string {
	return fmt.Sprintf("gate:progress:%d", userID)
}
