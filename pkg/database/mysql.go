package database

import (
	"fmt"
	"habitloop_backend/internal/config"
	"habitloop_backend/internal/model"
	"log"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	err = db.AutoMigrate(
		&model.User{},
		&model.Habit{},
		&model.CheckIn{},
		&model.FeedPost{},
		&model.FeedComment{},
		&model.FeedLike{},
		&model.Friendship{},
		&model.FriendRequest{},
		&model.Conversation{},
		&model.ConversationMember{},
		&model.Message{},
		&model.GateSettings{},
		&model.Motivation{},
	)

	if err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	// 默认的激励短句
	var count int64
	db.Model(&model.Motivation{}).Count(&count)
	if count == 0 {
		defaultMotivations := []string{
			"每一次打卡，都是对昨天的自己的一次超越。",
			"习惯不是一天养成的，但每一天都算数。",
			"Small habits, repeated daily, become who you are.",
			"连击会断，但只要今天打卡，它就重新开始。",
			"Don't break the chain.",
		}
		for _, content := range defaultMotivations {
			db.Create(&model.Motivation{Content: content, IsEnabled: true})
		}
		log.Println("Seeded default motivations")
	}

	return db, nil
}
