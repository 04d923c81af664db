package controller

import (
	"habitloop_backend/internal/gate"
	"habitloop_backend/internal/service"
	"habitloop_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// GateController 浏览器扩展"每日门禁"的同步与评估接口
type GateController struct {
	GateService *service.GateService
}

func NewGateController(gateService *service.GateService) *GateController {
	return &GateController{GateService: gateService}
}

// ReportProgressRequest 扩展观察器上报的进度快照
type ReportProgressRequest struct {
	Completed int `json:"completed" binding:"min=0"`
	Total     int `json:"total" binding:"min=0"`
}

// GetStatus godoc
// @Summary 门禁状态
// @Description 扩展启动/弹窗时拉取策略、快照与权威进度
// @Tags 门禁
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=service.GateStatusResponse} "成功"
// @Router /api/gate/status [get]
func (c *GateController) GetStatus(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	status, err := c.GateService.Status(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, status)
}

// UpdateSettings godoc
// @Summary 更新门禁设置
// @Description 设置需要完成的习惯数和放行域名白名单
// @Tags 门禁
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body service.GateSettingsRequest true "门禁设置"
// @Success 200 {object} util.Response{data=model.GateSettings} "成功"
// @Router /api/gate/settings [put]
func (c *GateController) UpdateSettings(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.GateSettingsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	settings, err := c.GateService.UpdateSettings(claims.UserID, req)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, settings)
}

// ReportProgress godoc
// @Summary 上报进度快照
// @Description 扩展的页面观察器同步今日进度，最后写入者胜
// @Tags 门禁
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body ReportProgressRequest true "进度快照"
// @Success 200 {object} util.Response "成功"
// @Router /api/gate/progress [post]
func (c *GateController) ReportProgress(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req ReportProgressRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	err := c.GateService.ReportProgress(claims.UserID, gate.Progress{
		Completed: req.Completed,
		Total:     req.Total,
	})
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, nil)
}

// Evaluate godoc
// @Summary 导航评估
// @Description 判定一次导航放行还是拦截，拦截时返回跳转页面
// @Tags 门禁
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body service.EvaluateRequest true "目标URL"
// @Success 200 {object} util.Response{data=service.EvaluateResponse} "成功"
// @Router /api/gate/evaluate [post]
func (c *GateController) Evaluate(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.EvaluateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.GateService.Evaluate(claims.UserID, req.URL)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, result)
}
