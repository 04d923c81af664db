package controller

import (
	"habitloop_backend/internal/service"
	"habitloop_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type DashboardController struct {
	DashboardService *service.DashboardService
}

func NewDashboardController(dashboardService *service.DashboardService) *DashboardController {
	return &DashboardController{DashboardService: dashboardService}
}

// GetDashboard godoc
// @Summary 仪表盘
// @Description 今日习惯、完成进度、激励短句和好友动态的聚合
// @Tags 仪表盘
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=service.DashboardResponse} "成功"
// @Router /api/dashboard [get]
func (c *DashboardController) GetDashboard(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	dashboard, err := c.DashboardService.GetDashboard(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, dashboard)
}
