package model

import (
	"time"
)

// Conversation 私聊会话，好友之间一对一
type Conversation struct {
	UUIDBase
	CreatorID uint                 `gorm:"index" json:"creatorId"`
	Members   []ConversationMember `gorm:"foreignKey:ConversationID" json:"members,omitempty"`
	MemberIDs []uint               `gorm:"-" json:"memberIds"`
	Messages  []Message            `gorm:"foreignKey:ConversationID" json:"messages,omitempty"`
}

func (Conversation) TableName() string {
	return "conversations"
}

// ConversationMember 成员关系与已读位置
type ConversationMember struct {
	ConversationID  string     `gorm:"primaryKey;type:varchar(36)" json:"conversationId"`
	UserID          uint       `gorm:"primaryKey;index" json:"userId"`
	User            User       `gorm:"foreignKey:UserID" json:"user,omitempty"`
	LastReadMsgID   string     `gorm:"type:varchar(36);default:''" json:"lastReadMsgId"`
	LastReadMsgTime *time.Time `json:"lastReadMsgTime"`
	HiddenAt        *time.Time `gorm:"index" json:"hiddenAt,omitempty"` // 用户隐藏会话的时间，nil 表示未隐藏
	JoinedAt        time.Time  `gorm:"autoCreateTime" json:"joinedAt"`
}

func (ConversationMember) TableName() string {
	return "conversation_members"
}

// Message 消息记录
type Message struct {
	UUIDBase
	ConversationID string    `gorm:"index;index:idx_conv_created;type:varchar(36);not null" json:"conversationId"`
	CreatedAt      time.Time `gorm:"index:idx_conv_created" json:"createdAt"` // (conversation_id, created_at) 优化历史查询
	SenderID       *uint     `gorm:"index" json:"senderId"`
	Sender         User      `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
	Type           string    `gorm:"type:enum('text','image','system');default:'text'" json:"type"`
	Content        string    `gorm:"type:text" json:"content"`
	IsRevoked      bool      `gorm:"default:false" json:"isRevoked"`
	ClientMsgID    string    `gorm:"size:50;index" json:"clientMsgId"` // 客户端去重用
	SeqID          uint64    `gorm:"index" json:"seqId"`
}

func (Message) TableName() string {
	return "messages"
}
