package controller

import (
	"errors"

	"habitloop_backend/internal/service"
	"habitloop_backend/internal/streak"
	"habitloop_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// HabitController 习惯与打卡相关的HTTP请求
type HabitController struct {
	HabitService   *service.HabitService
	StorageService *service.StorageService
}

func NewHabitController(habitService *service.HabitService, storageService *service.StorageService) *HabitController {
	return &HabitController{
		HabitService:   habitService,
		StorageService: storageService,
	}
}

// CreateHabit godoc
// @Summary 创建习惯
// @Description 创建一个新习惯，每个用户最多 5 个
// @Tags 习惯
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body service.HabitRequest true "习惯信息"
// @Success 201 {object} util.Response{data=model.Habit} "创建成功"
// @Failure 400 {object} util.Response "参数错误或超出数量上限"
// @Router /api/habits [post]
func (c *HabitController) CreateHabit(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.HabitRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	habit, err := c.HabitService.Create(claims.UserID, req)
	if err != nil {
		if errors.Is(err, util.ErrHabitLimit) {
			util.BadRequest(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, habit)
}

// ListHabits godoc
// @Summary 习惯列表
// @Description 当前用户的全部习惯，带连击和今日打卡状态
// @Tags 习惯
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]service.HabitResponse} "成功"
// @Router /api/habits [get]
func (c *HabitController) ListHabits(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	habits, err := c.HabitService.List(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, habits)
}

// GetHabit godoc
// @Summary 习惯详情
// @Description 单个习惯的详情，含打卡历史和日历数据
// @Tags 习惯
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "习惯ID"
// @Success 200 {object} util.Response{data=service.HabitDetailResponse} "成功"
// @Failure 404 {object} util.Response "不存在"
// @Router /api/habits/{id} [get]
func (c *HabitController) GetHabit(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	detail, err := c.HabitService.Detail(claims.UserID, ctx.Param("id"))
	if err != nil {
		c.renderHabitError(ctx, err)
		return
	}

	util.Success(ctx, detail)
}

// UpdateHabit godoc
// @Summary 更新习惯
// @Tags 习惯
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "习惯ID"
// @Param   body body service.HabitRequest true "习惯信息"
// @Success 200 {object} util.Response{data=model.Habit} "成功"
// @Failure 404 {object} util.Response "不存在"
// @Router /api/habits/{id} [put]
func (c *HabitController) UpdateHabit(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.HabitRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	habit, err := c.HabitService.Update(claims.UserID, ctx.Param("id"), req)
	if err != nil {
		c.renderHabitError(ctx, err)
		return
	}

	util.Success(ctx, habit)
}

// DeleteHabit godoc
// @Summary 删除习惯
// @Description 删除习惯及其全部打卡记录
// @Tags 习惯
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "习惯ID"
// @Success 200 {object} util.Response "成功"
// @Failure 404 {object} util.Response "不存在"
// @Router /api/habits/{id} [delete]
func (c *HabitController) DeleteHabit(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.HabitService.Delete(claims.UserID, ctx.Param("id")); err != nil {
		c.renderHabitError(ctx, err)
		return
	}

	util.Success(ctx, nil)
}

// CheckIn godoc
// @Summary 打卡
// @Description 为习惯记录今日打卡，同一天重复提交返回 409
// @Tags 习惯
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "习惯ID"
// @Param   body body service.CheckInRequest true "打卡备注与配图"
// @Success 201 {object} util.Response{data=model.CheckIn} "打卡成功"
// @Failure 404 {object} util.Response "不存在"
// @Failure 409 {object} util.Response "今天已经打过卡"
// @Router /api/habits/{id}/check-in [post]
func (c *HabitController) CheckIn(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.CheckInRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	checkIn, err := c.HabitService.CheckIn(claims.UserID, ctx.Param("id"), req)
	if err != nil {
		if errors.Is(err, streak.ErrDuplicateCheckIn) {
			util.Conflict(ctx, err.Error())
		} else {
			c.renderHabitError(ctx, err)
		}
		return
	}

	util.Created(ctx, checkIn)
}

// UploadCheckInPhoto godoc
// @Summary 上传打卡配图
// @Description 上传图片并返回 URL，随后在打卡请求里引用
// @Tags 习惯
// @Accept  multipart/form-data
// @Produce  json
// @Security ApiKeyAuth
// @Param   file formData file true "图片文件"
// @Success 200 {object} util.Response{data=object} "成功"
// @Failure 400 {object} util.Response "文件非法"
// @Router /api/habits/photo [post]
func (c *HabitController) UploadCheckInPhoto(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	file, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "缺少文件")
		return
	}

	url, err := c.StorageService.UploadImage(ctx.Request.Context(), "checkins", file)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	util.Success(ctx, gin.H{"url": url})
}

// GetProgress godoc
// @Summary 今日进度
// @Description 今日已完成/总习惯数
// @Tags 习惯
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=service.TodayProgress} "成功"
// @Router /api/habits/progress [get]
func (c *HabitController) GetProgress(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	progress, err := c.HabitService.Progress(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, progress)
}

func (c *HabitController) renderHabitError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrHabitNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrPermissionDenied):
		util.Forbidden(ctx)
	default:
		util.LogInternalError(ctx, err)
	}
}
