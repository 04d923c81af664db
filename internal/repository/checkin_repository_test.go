package repository

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func dryRunDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(mysql.New(mysql.Config{
		DSN:                       "user:pass@tcp(127.0.0.1:1)/habitloop",
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		DryRun:                 true,
		DisableAutomaticPing:   true,
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	return db
}

// 分享标记走独立的 UPDATE，不回写整条打卡记录
func TestMarkSharedBuildsUpdate(t *testing.T) {
	repo := NewCheckInRepository(dryRunDB(t))
	require.NoError(t, repo.MarkShared("some-checkin-id"))
}
