package controller

import (
	"errors"
	"strconv"

	"habitloop_backend/internal/service"
	"habitloop_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// FeedController 社区动态相关的HTTP请求
type FeedController struct {
	FeedService *service.FeedService
}

func NewFeedController(feedService *service.FeedService) *FeedController {
	return &FeedController{FeedService: feedService}
}

// SharePost godoc
// @Summary 分享打卡
// @Description 把一次打卡分享到动态，每天最多 3 条
// @Tags 社区
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body service.ShareRequest true "分享内容"
// @Success 201 {object} util.Response{data=model.FeedPost} "分享成功"
// @Failure 400 {object} util.Response "超出每日分享上限"
// @Failure 404 {object} util.Response "打卡记录不存在"
// @Router /api/feed [post]
func (c *FeedController) SharePost(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.ShareRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	post, err := c.FeedService.Share(claims.UserID, req)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrDailyShareLimit):
			util.BadRequest(ctx, "每天最多分享 3 条打卡")
		case errors.Is(err, util.ErrCheckInNotFound), errors.Is(err, util.ErrHabitNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrPermissionDenied):
			util.Forbidden(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, post)
}

// GetFeed godoc
// @Summary 动态流
// @Description 公开的打卡动态；登录后额外包含自己和好友的非公开动态
// @Tags 社区
// @Produce  json
// @Param   page query int false "页码"
// @Param   limit query int false "每页数量"
// @Success 200 {object} util.Response{data=util.PageResponse} "成功"
// @Router /api/feed [get]
func (c *FeedController) GetFeed(ctx *gin.Context) {
	// 可选认证：游客只能看到公开动态
	var viewerID uint
	if claims := util.GetUserFromContext(ctx); claims != nil {
		viewerID = claims.UserID
	}

	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = 20
	}

	posts, total, err := c.FeedService.GetFeed(viewerID, page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{
		List:  posts,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

// GetPostDetail godoc
// @Summary 动态详情
// @Description 动态详情与评论列表
// @Tags 社区
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "动态ID"
// @Success 200 {object} util.Response{data=service.FeedDetailResponse} "成功"
// @Failure 404 {object} util.Response "不存在"
// @Router /api/feed/{id} [get]
func (c *FeedController) GetPostDetail(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	detail, err := c.FeedService.GetPostDetail(claims.UserID, ctx.Param("id"))
	if err != nil {
		c.renderFeedError(ctx, err)
		return
	}

	util.Success(ctx, detail)
}

// DeletePost godoc
// @Summary 删除动态
// @Tags 社区
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "动态ID"
// @Success 200 {object} util.Response "成功"
// @Failure 404 {object} util.Response "不存在"
// @Router /api/feed/{id} [delete]
func (c *FeedController) DeletePost(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.FeedService.DeletePost(claims.UserID, ctx.Param("id")); err != nil {
		c.renderFeedError(ctx, err)
		return
	}

	util.Success(ctx, nil)
}

// CreateComment godoc
// @Summary 发表评论
// @Description 评论动态，支持一层回复
// @Tags 社区
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "动态ID"
// @Param   body body service.CommentCreateRequest true "评论内容"
// @Success 201 {object} util.Response{data=model.FeedComment} "成功"
// @Failure 404 {object} util.Response "动态不存在"
// @Router /api/feed/{id}/comments [post]
func (c *FeedController) CreateComment(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.CommentCreateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	comment, err := c.FeedService.CreateComment(claims.UserID, ctx.Param("id"), req)
	if err != nil {
		c.renderFeedError(ctx, err)
		return
	}

	util.Created(ctx, comment)
}

// DeleteComment godoc
// @Summary 删除评论
// @Tags 社区
// @Produce  json
// @Security ApiKeyAuth
// @Param   commentId path string true "评论ID"
// @Success 200 {object} util.Response "成功"
// @Router /api/feed/comments/{commentId} [delete]
func (c *FeedController) DeleteComment(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.FeedService.DeleteComment(claims.UserID, ctx.Param("commentId")); err != nil {
		c.renderFeedError(ctx, err)
		return
	}

	util.Success(ctx, nil)
}

// ToggleLikeRequest 点赞请求
type ToggleLikeRequest struct {
	ContentType string `json:"contentType" binding:"required,oneof=post comment"`
	ContentID   string `json:"contentId" binding:"required"`
}

// ToggleLike godoc
// @Summary 点赞/取消点赞
// @Description 对动态或评论点赞，重复调用取消
// @Tags 社区
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body ToggleLikeRequest true "点赞目标"
// @Success 200 {object} util.Response{data=object} "成功"
// @Router /api/feed/like [post]
func (c *FeedController) ToggleLike(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req ToggleLikeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	liked, err := c.FeedService.ToggleLike(claims.UserID, req.ContentType, req.ContentID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"liked": liked})
}

func (c *FeedController) renderFeedError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrPostNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrPermissionDenied):
		util.Forbidden(ctx)
	default:
		util.LogInternalError(ctx, err)
	}
}
