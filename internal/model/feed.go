package model

import (
	"time"
)

// FeedPost 分享到社区动态的一条打卡。
// 每条动态都由一次 CheckIn 派生，正文可以在分享时补充。
type FeedPost struct {
	UUIDBase
	AuthorID  uint          `gorm:"index;type:bigint unsigned;not null" json:"authorId"`
	Author    User          `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	CheckInID string        `gorm:"index;type:varchar(36);not null" json:"checkInId"`
	CheckIn   CheckIn       `gorm:"foreignKey:CheckInID" json:"checkIn,omitempty"`
	Content   string        `gorm:"size:500" json:"content"`
	PhotoURL  string        `gorm:"size:255" json:"photoUrl"`
	Public    bool          `gorm:"default:false" json:"public"` // false 仅好友可见
	Upvotes   int           `gorm:"default:0" json:"likes"`
	Views     int           `gorm:"default:0" json:"views"`
	Comments  []FeedComment `gorm:"foreignKey:PostID" json:"comments,omitempty"`
}

func (FeedPost) TableName() string {
	return "feed_posts"
}

// FeedComment 动态下的评论，支持一层回复
type FeedComment struct {
	UUIDBase
	PostID      string  `gorm:"index;type:varchar(36);not null" json:"postId"`
	AuthorID    uint    `gorm:"index;type:bigint unsigned" json:"authorId"`
	Author      User    `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Content     string  `gorm:"type:text;not null" json:"content"`
	Upvotes     int     `gorm:"default:0" json:"likes"`
	ParentID    *string `gorm:"index;type:varchar(36)" json:"parentId"`
	ReplyToUID  *uint   `gorm:"index;type:bigint unsigned" json:"replyToUid"`
	ReplyToUser *User   `gorm:"foreignKey:ReplyToUID" json:"replyToUser,omitempty"`
}

func (FeedComment) TableName() string {
	return "feed_comments"
}

// FeedLike 点赞记录，user + content 联合唯一保证一人一赞
type FeedLike struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt   time.Time `json:"createdAt"`
	UserID      uint      `gorm:"uniqueIndex:idx_user_content;type:bigint unsigned" json:"userId"`
	ContentType string    `gorm:"uniqueIndex:idx_user_content;size:20" json:"contentType"` // post, comment
	ContentID   string    `gorm:"uniqueIndex:idx_user_content;size:36" json:"contentId"`
}

func (FeedLike) TableName() string {
	return "feed_likes"
}
