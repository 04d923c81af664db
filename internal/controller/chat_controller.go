package controller

import (
	"strconv"

	"habitloop_backend/internal/service"
	"habitloop_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// ChatController 私聊相关的HTTP请求
type ChatController struct {
	ChatService *service.ChatService
	Hub         *service.ChatHub
}

func NewChatController(chatService *service.ChatService, hub *service.ChatHub) *ChatController {
	return &ChatController{
		ChatService: chatService,
		Hub:         hub,
	}
}

// CreatePrivateChatRequest 创建私聊请求
type CreatePrivateChatRequest struct {
	TargetUserID uint `json:"targetUserId" binding:"required" example:"2"`
}

// SendMessageRequest 发送消息请求
type SendMessageRequest struct {
	Type        string `json:"type" binding:"required" example:"text"`
	Content     string `json:"content" binding:"required" example:"今天也打卡了！"`
	ClientMsgID string `json:"clientMsgId" example:"uuid-123"`
}

// MarkReadRequest 标记已读请求
type MarkReadRequest struct {
	MessageID string `json:"messageId" binding:"required"`
}

// HandleWS godoc
// @Summary WebSocket 连接
// @Description 建立 WebSocket 连接以接收实时消息
// @Tags 私聊
// @Security ApiKeyAuth
// @Param   token query string true "JWT Token"
// @Success 101 {string} string "Switching Protocols"
// @Router /api/chat/ws [get]
func (ctrl *ChatController) HandleWS(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		util.Unauthorized(c)
		return
	}
	service.ServeWs(ctrl.Hub, c.Writer, c.Request, claims.UserID)
}

// CreatePrivateChat godoc
// @Summary 发起私聊
// @Description 打开和某个好友的会话，不存在则创建（仅限好友）
// @Tags 私聊
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   request body CreatePrivateChatRequest true "目标用户"
// @Success 200 {object} util.Response{data=model.Conversation} "成功"
// @Failure 400 {object} util.Response "不是好友"
// @Router /api/chat/conversations [post]
func (ctrl *ChatController) CreatePrivateChat(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		util.Unauthorized(c)
		return
	}

	var req CreatePrivateChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	conv, err := ctrl.ChatService.GetOrCreateConversation(claims.UserID, req.TargetUserID)
	if err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	util.Success(c, conv)
}

// GetConversations godoc
// @Summary 会话列表
// @Description 按最近活跃排序，带未读数和最近一条消息
// @Tags 私聊
// @Produce  json
// @Security ApiKeyAuth
// @Param   page query int false "页码"
// @Param   limit query int false "每页数量"
// @Success 200 {object} util.Response{data=util.PageResponse} "成功"
// @Router /api/chat/conversations [get]
func (ctrl *ChatController) GetConversations(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		util.Unauthorized(c)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}

	convs, total, err := ctrl.ChatService.GetConversations(claims.UserID, limit, (page-1)*limit)
	if err != nil {
		util.LogInternalError(c, err)
		return
	}

	util.Success(c, util.PageResponse{
		List:  convs,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

// SendMessage godoc
// @Summary 发送消息
// @Description 发送消息并实时推送给会话内其他成员
// @Tags 私聊
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "会话ID"
// @Param   request body SendMessageRequest true "消息内容"
// @Success 201 {object} util.Response{data=model.Message} "成功"
// @Failure 400 {object} util.Response "参数错误或非会话成员"
// @Router /api/chat/conversations/{id}/messages [post]
func (ctrl *ChatController) SendMessage(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		util.Unauthorized(c)
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	convID := c.Param("id")
	msg, err := ctrl.ChatService.SendMessage(claims.UserID, convID, req.Type, req.Content, req.ClientMsgID)
	if err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	if memberIDs, err := ctrl.ChatService.MemberIDs(convID); err == nil {
		ctrl.Hub.PushToUsers(memberIDs, service.WSMessage{
			Type: "NEW_MESSAGE",
			Data: msg,
		})
	}

	util.Created(c, msg)
}

// GetMessages godoc
// @Summary 历史消息
// @Description 按时间升序返回，beforeId 向前翻页
// @Tags 私聊
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "会话ID"
// @Param   limit query int false "数量上限"
// @Param   beforeId query string false "翻页锚点消息ID"
// @Success 200 {object} util.Response{data=[]model.Message} "成功"
// @Router /api/chat/conversations/{id}/messages [get]
func (ctrl *ChatController) GetMessages(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		util.Unauthorized(c)
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	messages, err := ctrl.ChatService.GetHistory(claims.UserID, c.Param("id"), limit, c.Query("beforeId"))
	if err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	util.Success(c, messages)
}

// MarkAsRead godoc
// @Summary 标记已读
// @Tags 私聊
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "会话ID"
// @Param   request body MarkReadRequest true "已读到的消息ID"
// @Success 200 {object} util.Response "成功"
// @Router /api/chat/conversations/{id}/read [put]
func (ctrl *ChatController) MarkAsRead(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		util.Unauthorized(c)
		return
	}

	var req MarkReadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	if err := ctrl.ChatService.MarkAsRead(claims.UserID, c.Param("id"), req.MessageID); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	util.Success(c, nil)
}

// RevokeMessage godoc
// @Summary 撤回消息
// @Description 发送者在 2 分钟内可撤回自己的消息
// @Tags 私聊
// @Produce  json
// @Security ApiKeyAuth
// @Param   msgId path string true "消息ID"
// @Success 200 {object} util.Response{data=model.Message} "成功"
// @Failure 400 {object} util.Response "超时或非本人消息"
// @Router /api/chat/messages/{msgId}/revoke [put]
func (ctrl *ChatController) RevokeMessage(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		util.Unauthorized(c)
		return
	}

	msg, err := ctrl.ChatService.RevokeMessage(claims.UserID, c.Param("msgId"))
	if err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	if memberIDs, err := ctrl.ChatService.MemberIDs(msg.ConversationID); err == nil {
		ctrl.Hub.PushToUsers(memberIDs, service.WSMessage{
			Type: "MESSAGE_REVOKED",
			Data: gin.H{"conversationId": msg.ConversationID, "messageId": msg.ID},
		})
	}

	util.Success(c, msg)
}

// HideConversation godoc
// @Summary 隐藏会话
// @Description 从列表隐藏，有新消息时自动恢复
// @Tags 私聊
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "会话ID"
// @Success 200 {object} util.Response "成功"
// @Router /api/chat/conversations/{id} [delete]
func (ctrl *ChatController) HideConversation(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		util.Unauthorized(c)
		return
	}

	if err := ctrl.ChatService.HideConversation(claims.UserID, c.Param("id")); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	util.Success(c, nil)
}

// GetOnlineStatus godoc
// @Summary 查询在线状态
// @Tags 私聊
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "用户ID"
// @Success 200 {object} util.Response{data=object} "成功"
// @Router /api/chat/online/{id} [get]
func (ctrl *ChatController) GetOnlineStatus(c *gin.Context) {
	userID := util.MustParseUint(c.Param("id"))
	util.Success(c, gin.H{
		"userId": userID,
		"online": ctrl.Hub.IsUserOnline(userID),
	})
}
