package repository

import (
	"context"
	"fmt"
	"habitloop_backend/internal/model"
	"time"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

type ChatRepository struct {
	DB    *gorm.DB
	Redis *redis.Client
	ctx   context.Context
}

func NewChatRepository(db *gorm.DB, rdb *redis.Client) *ChatRepository {
	return &ChatRepository{
		DB:    db,
		Redis: rdb,
		ctx:   context.Background(),
	}
}

func (r *ChatRepository) CreateConversation(conv *model.Conversation) error {
	return r.DB.Create(conv).Error
}

func (r *ChatRepository) GetConversation(id string) (*model.Conversation, error) {
	var conv model.Conversation
	err := r.DB.Preload("Members").Preload("Members.User").First(&conv, "id = ?", id).Error
	return &conv, err
}

// FindPrivateConversation 找两个用户之间已有的私聊会话
func (r *ChatRepository) FindPrivateConversation(userID1, userID2 uint) (*model.Conversation, error) {
	var conv model.Conversation
	err := r.DB.
		Joins("JOIN conversation_members m1 ON m1.conversation_id = conversations.id AND m1.user_id = ?", userID1).
		Joins("JOIN conversation_members m2 ON m2.conversation_id = conversations.id AND m2.user_id = ?", userID2).
		First(&conv).Error
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

// GetUserConversations 某用户的会话列表（未隐藏的），按最近活跃排序
func (r *ChatRepository) GetUserConversations(userID uint, limit, offset int) ([]model.Conversation, int64, error) {
	var convs []model.Conversation
	var total int64

	db := r.DB.Model(&model.Conversation{}).
		Joins("JOIN conversation_members ON conversation_members.conversation_id = conversations.id").
		Where("conversation_members.user_id = ? AND conversation_members.hidden_at IS NULL", userID)

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Preload("Members").Preload("Members.User").
		Order("conversations.updated_at DESC").
		Limit(limit).Offset(offset).
		Find(&convs).Error
	return convs, total, err
}

func (r *ChatRepository) AddMember(member *model.ConversationMember) error {
	return r.DB.Create(member).Error
}

func (r *ChatRepository) GetMember(convID string, userID uint) (*model.ConversationMember, error) {
	var member model.ConversationMember
	err := r.DB.Where("conversation_id = ? AND user_id = ?", convID, userID).First(&member).Error
	return &member, err
}

func (r *ChatRepository) HideConversation(convID string, userID uint) error {
	now := time.Now()
	return r.DB.Model(&model.ConversationMember{}).
		Where("conversation_id = ? AND user_id = ?", convID, userID).
		Update("hidden_at", now).Error
}

// UnhideConversation 有新消息时恢复所有成员的会话可见性
func (r *ChatRepository) UnhideConversation(convID string) error {
	return r.DB.Model(&model.ConversationMember{}).
		Where("conversation_id = ? AND hidden_at IS NOT NULL", convID).
		Update("hidden_at", nil).Error
}

// CreateMessage 写入消息；SeqID 用 Redis 原子递增生成，保证会话内单调
func (r *ChatRepository) CreateMessage(msg *model.Message) error {
	if msg.ID == "" {
		msg.ID = model.GenerateUUID()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}

	if r.Redis != nil {
		seqKey := fmt.Sprintf("chat:seq:%s", msg.ConversationID)
		if seq, err := r.Redis.Incr(r.ctx, seqKey).Result(); err == nil {
			msg.SeqID = uint64(seq)
		}
	}

	// 有新消息时取消隐藏状态
	go r.UnhideConversation(msg.ConversationID)

	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(msg).Error; err != nil {
			return err
		}
		return tx.Model(&model.Conversation{}).
			Where("id = ?", msg.ConversationID).
			Update("updated_at", msg.CreatedAt).Error
	})
}

// GetMessages 分页拉历史，beforeID 向前翻页
func (r *ChatRepository) GetMessages(convID string, limit int, beforeID string) ([]model.Message, error) {
	db := r.DB.Preload("Sender").Where("conversation_id = ?", convID)

	if beforeID != "" {
		var anchor model.Message
		if err := r.DB.First(&anchor, "id = ?", beforeID).Error; err == nil {
			db = db.Where("created_at < ?", anchor.CreatedAt)
		}
	}

	var messages []model.Message
	err := db.Order("created_at DESC").Limit(limit).Find(&messages).Error
	if err != nil {
		return nil, err
	}

	// 倒序取出后翻回升序
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

func (r *ChatRepository) UpdateLastReadMessage(convID string, userID uint, msgID string) error {
	now := time.Now()
	return r.DB.Model(&model.ConversationMember{}).
		Where("conversation_id = ? AND user_id = ?", convID, userID).
		Updates(map[string]interface{}{
			"last_read_msg_id":   msgID,
			"last_read_msg_time": now,
		}).Error
}

// CountUnread 某成员在会话中的未读消息数
func (r *ChatRepository) CountUnread(convID string, userID uint) (int64, error) {
	member, err := r.GetMember(convID, userID)
	if err != nil {
		return 0, err
	}

	db := r.DB.Model(&model.Message{}).
		Where("conversation_id = ? AND (sender_id IS NULL OR sender_id != ?)", convID, userID)
	if member.LastReadMsgTime != nil {
		db = db.Where("created_at > ?", *member.LastReadMsgTime)
	}

	var count int64
	err = db.Count(&count).Error
	return count, err
}

// RevokeMessage 撤回消息，只允许发送者在 2 分钟内撤回
func (r *ChatRepository) RevokeMessage(msgID string, senderID uint) (*model.Message, error) {
	var msg model.Message
	if err := r.DB.First(&msg, "id = ?", msgID).Error; err != nil {
		return nil, err
	}
	if msg.SenderID == nil || *msg.SenderID != senderID {
		return nil, gorm.ErrRecordNotFound
	}
	if time.Since(msg.CreatedAt) > 2*time.Minute {
		return nil, fmt.Errorf("message too old to revoke")
	}

	msg.IsRevoked = true
	msg.Content = ""
	if err := r.DB.Save(&msg).Error; err != nil {
		return nil, err
	}
	return &msg, nil
}

// GetConversationMemberIDs 会话内全部成员 ID，用于 hub 推送
func (r *ChatRepository) GetConversationMemberIDs(convID string) ([]uint, error) {
	var ids []uint
	err := r.DB.Model(&model.ConversationMember{}).
		Where("conversation_id = ?", convID).
		Pluck("user_id", &ids).Error
	return ids, err
}
