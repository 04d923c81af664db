package service

import (
	"errors"

	"habitloop_backend/internal/model"
	"habitloop_backend/internal/repository"
	"habitloop_backend/internal/util"

	"gorm.io/gorm"
)

type ChatService struct {
	ChatRepo   *repository.ChatRepository
	FriendRepo *repository.FriendshipRepository
}

func NewChatService(chatRepo *repository.ChatRepository, friendRepo *repository.FriendshipRepository) *ChatService {
	return &ChatService{ChatRepo: chatRepo, FriendRepo: friendRepo}
}

// ConversationResponse 会话列表项：对端信息 + 最近一条消息 + 未读数
type ConversationResponse struct {
	ID          string         `json:"id"`
	Peer        model.User     `json:"peer"`
	LastMessage *model.Message `json:"lastMessage,omitempty"`
	Unread      int64          `json:"unread"`
	UpdatedAt   string         `json:"updatedAt"`
}

// GetOrCreateConversation 打开和某个好友的私聊，没有就建一个。
// 只允许好友之间发起会话。
func (s *ChatService) GetOrCreateConversation(userID, peerID uint) (*model.Conversation, error) {
	if userID == peerID {
		return nil, errors.New("不能和自己创建私聊")
	}

	isFriend, err := s.FriendRepo.IsFriend(userID, peerID)
	if err != nil {
		return nil, err
	}
	if !isFriend {
		return nil, util.ErrNotFriends
	}

	conv, err := s.ChatRepo.FindPrivateConversation(userID, peerID)
	if err == nil {
		return conv, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	newConv := &model.Conversation{CreatorID: userID}
	if err := s.ChatRepo.CreateConversation(newConv); err != nil {
		return nil, err
	}

	for _, id := range []uint{userID, peerID} {
		member := &model.ConversationMember{
			ConversationID: newConv.ID,
			UserID:         id,
		}
		if err := s.ChatRepo.AddMember(member); err != nil {
			return nil, err
		}
	}

	return s.ChatRepo.GetConversation(newConv.ID)
}

// SendMessage 发送消息，调用方需已确认成员身份由本方法兜底校验
func (s *ChatService) SendMessage(senderID uint, convID string, msgType string, content string, clientMsgID string) (*model.Message, error) {
	if _, err := s.ChatRepo.GetMember(convID, senderID); err != nil {
		return nil, errors.New("你不是该会话成员")
	}

	if msgType != "text" && msgType != "image" {
		return nil, errors.New("不支持的消息类型")
	}
	if content == "" {
		return nil, errors.New("消息内容不能为空")
	}

	msg := &model.Message{
		ConversationID: convID,
		SenderID:       &senderID,
		Type:           msgType,
		Content:        content,
		ClientMsgID:    clientMsgID,
	}
	if err := s.ChatRepo.CreateMessage(msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// GetHistory 拉取历史消息，beforeID 向前翻页
func (s *ChatService) GetHistory(userID uint, convID string, limit int, beforeID string) ([]model.Message, error) {
	if _, err := s.ChatRepo.GetMember(convID, userID); err != nil {
		return nil, errors.New("你不是该会话成员")
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.ChatRepo.GetMessages(convID, limit, beforeID)
}

// GetConversations 会话列表，带未读数和最近一条消息
func (s *ChatService) GetConversations(userID uint, limit, offset int) ([]ConversationResponse, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	convs, total, err := s.ChatRepo.GetUserConversations(userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]ConversationResponse, 0, len(convs))
	for _, conv := range convs {
		resp := ConversationResponse{
			ID:        conv.ID,
			UpdatedAt: conv.UpdatedAt.Format(util.TimeFormat),
		}

		for _, m := range conv.Members {
			if m.UserID != userID {
				peer := m.User
				peer.Password = ""
				resp.Peer = peer
			}
		}

		if msgs, err := s.ChatRepo.GetMessages(conv.ID, 1, ""); err == nil && len(msgs) > 0 {
			resp.LastMessage = &msgs[0]
		}

		if unread, err := s.ChatRepo.CountUnread(conv.ID, userID); err == nil {
			resp.Unread = unread
		}

		responses = append(responses, resp)
	}
	return responses, total, nil
}

// MarkAsRead 推进已读位置
func (s *ChatService) MarkAsRead(userID uint, convID string, msgID string) error {
	if _, err := s.ChatRepo.GetMember(convID, userID); err != nil {
		return errors.New("你不是该会话成员")
	}
	return s.ChatRepo.UpdateLastReadMessage(convID, userID, msgID)
}

// RevokeMessage 撤回自己的消息
func (s *ChatService) RevokeMessage(userID uint, msgID string) (*model.Message, error) {
	return s.ChatRepo.RevokeMessage(msgID, userID)
}

// HideConversation 从列表隐藏会话，有新消息会自动恢复
func (s *ChatService) HideConversation(userID uint, convID string) error {
	if _, err := s.ChatRepo.GetMember(convID, userID); err != nil {
		return errors.New("你不是该会话成员")
	}
	return s.ChatRepo.HideConversation(convID, userID)
}

// MemberIDs 会话内全部成员，hub 推送用
func (s *ChatService) MemberIDs(convID string) ([]uint, error) {
	return s.ChatRepo.GetConversationMemberIDs(convID)
}
