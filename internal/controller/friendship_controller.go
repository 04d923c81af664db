package controller

import (
	"strconv"

	"habitloop_backend/internal/service"
	"habitloop_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type FriendshipController struct {
	FriendshipService *service.FriendshipService
	Hub               *service.ChatHub
}

func NewFriendshipController(friendshipService *service.FriendshipService, hub *service.ChatHub) *FriendshipController {
	return &FriendshipController{
		FriendshipService: friendshipService,
		Hub:               hub,
	}
}

// SendFriendRequestRequest 发送好友申请请求
type SendFriendRequestRequest struct {
	ReceiverID uint   `json:"receiverId" binding:"required" example:"2"`
	Message    string `json:"message" binding:"max=200" example:"一起打卡吧"`
}

// HandleFriendRequestRequest 处理好友申请请求
type HandleFriendRequestRequest struct {
	Accept bool `json:"accept"`
}

// SearchUsers godoc
// @Summary 搜索用户
// @Description 按邮箱精确查找，或按昵称模糊搜索
// @Tags 好友
// @Produce  json
// @Security ApiKeyAuth
// @Param   email query string false "邮箱（精确）"
// @Param   query query string false "昵称（模糊）"
// @Success 200 {object} util.Response{data=[]model.User} "成功"
// @Failure 404 {object} util.Response "用户不存在"
// @Router /api/friends/search [get]
func (c *FriendshipController) SearchUsers(ctx *gin.Context) {
	if email := ctx.Query("email"); email != "" {
		user, err := c.FriendshipService.SearchUserByEmail(email)
		if err != nil {
			util.NotFound(ctx)
			return
		}
		util.Success(ctx, []interface{}{user})
		return
	}

	query := ctx.Query("query")
	if query == "" {
		util.BadRequest(ctx, "缺少搜索条件")
		return
	}

	users, err := c.FriendshipService.FuzzySearchUsers(query)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, users)
}

// SendFriendRequest godoc
// @Summary 发送好友申请
// @Tags 好友
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body SendFriendRequestRequest true "申请信息"
// @Success 200 {object} util.Response "成功"
// @Failure 400 {object} util.Response "已是好友或参数错误"
// @Router /api/friends/requests [post]
func (c *FriendshipController) SendFriendRequest(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req SendFriendRequestRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.FriendshipService.SendFriendRequest(claims.UserID, req.ReceiverID, req.Message); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	// 对方在线的话实时提醒
	if c.Hub != nil {
		c.Hub.PushToUsers([]uint{req.ReceiverID}, service.WSMessage{
			Type: "FRIEND_REQUEST",
			Data: gin.H{"senderId": claims.UserID},
		})
	}

	util.Success(ctx, nil)
}

// HandleFriendRequest godoc
// @Summary 处理好友申请
// @Description 同意或拒绝一条待处理的好友申请
// @Tags 好友
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "申请ID"
// @Param   body body HandleFriendRequestRequest true "处理结果"
// @Success 200 {object} util.Response "成功"
// @Failure 400 {object} util.Response "申请不存在或已处理"
// @Router /api/friends/requests/{id} [put]
func (c *FriendshipController) HandleFriendRequest(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req HandleFriendRequestRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.FriendshipService.HandleFriendRequest(ctx.Param("id"), claims.UserID, req.Accept); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	util.Success(ctx, nil)
}

// GetFriends godoc
// @Summary 好友列表
// @Tags 好友
// @Produce  json
// @Security ApiKeyAuth
// @Param   query query string false "按昵称筛选"
// @Success 200 {object} util.Response{data=[]model.User} "成功"
// @Router /api/friends [get]
func (c *FriendshipController) GetFriends(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	friends, err := c.FriendshipService.GetFriends(claims.UserID, ctx.Query("query"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, friends)
}

// GetFriendRequests godoc
// @Summary 好友申请列表
// @Tags 好友
// @Produce  json
// @Security ApiKeyAuth
// @Param   page query int false "页码"
// @Param   limit query int false "每页数量"
// @Success 200 {object} util.Response{data=util.PageResponse} "成功"
// @Router /api/friends/requests [get]
func (c *FriendshipController) GetFriendRequests(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	requests, total, err := c.FriendshipService.GetFriendRequests(claims.UserID, limit, (page-1)*limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{
		List:  requests,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

// DeleteFriend godoc
// @Summary 删除好友
// @Tags 好友
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "好友用户ID"
// @Success 200 {object} util.Response "成功"
// @Router /api/friends/{id} [delete]
func (c *FriendshipController) DeleteFriend(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	friendID := util.MustParseUint(ctx.Param("id"))
	if err := c.FriendshipService.DeleteFriend(claims.UserID, friendID); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, nil)
}
