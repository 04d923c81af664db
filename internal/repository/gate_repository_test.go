package repository

import (
	"testing"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 快照缓存不可用时必须放行（返回零值），不能把缓存错误抛给评估端。
func TestGetSnapshotRedisDownFailsOpen(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	defer rdb.Close()

	repo := NewGateRepository(nil, rdb)
	progress, err := repo.GetSnapshot(42)

	require.NoError(t, err)
	assert.Equal(t, 0, progress.Completed)
	assert.Equal(t, 0, progress.Total)
}

func TestGetSnapshotNilRedis(t *testing.T) {
	repo := NewGateRepository(nil, nil)
	progress, err := repo.GetSnapshot(42)

	require.NoError(t, err)
	assert.Equal(t, 0, progress.Completed)
	assert.Equal(t, 0, progress.Total)
}
