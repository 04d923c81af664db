package model

import (
	"time"
)

// MaxActiveHabits 每个用户最多同时拥有的习惯数
const MaxActiveHabits = 5

// Habit 用户创建的每日习惯任务。
// Streak 和 LastCheckInAt 是展示用的冗余缓存，只在新打卡落库时
// 由连击计算结果一并更新。
type Habit struct {
	UUIDBase
	OwnerID        uint       `gorm:"index;type:bigint unsigned;not null" json:"ownerId"`
	Owner          User       `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Title          string     `gorm:"size:100;not null" json:"title"`
	MotivationText string     `gorm:"size:255" json:"motivationText"`
	Icon           string     `gorm:"size:50" json:"icon"`
	Streak         int        `gorm:"default:0" json:"streak"`
	LastCheckInAt  *time.Time `json:"lastCheckInAt"`
	CheckIns       []CheckIn  `gorm:"foreignKey:HabitID;constraint:OnDelete:CASCADE" json:"checkIns,omitempty"`
}

func (Habit) TableName() string {
	return "habits"
}

// CheckIn 某个习惯在某个自然日的一次打卡。
// HabitID + Day 唯一索引是"一天只打一次卡"的最终防线，
// 服务层的事务检查只是预判。
type CheckIn struct {
	UUIDBase
	HabitID     string    `gorm:"index;type:varchar(36);not null;uniqueIndex:idx_habit_day" json:"habitId"`
	Day         time.Time `gorm:"not null;uniqueIndex:idx_habit_day" json:"day"` // 自然日零点
	CheckedAt   time.Time `gorm:"not null" json:"checkedAt"`                     // 实际打卡时刻
	Note        string    `gorm:"size:500" json:"note"`
	PhotoURL    string    `gorm:"size:255" json:"photoUrl"`
	Shared      bool      `gorm:"default:false" json:"shared"`
	StreakAfter int       `gorm:"default:1" json:"streakAfter"` // 本次打卡后的连击值
}

func (CheckIn) TableName() string {
	return "check_ins"
}
