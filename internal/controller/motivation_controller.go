package controller

import (
	"habitloop_backend/internal/service"
	"habitloop_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type MotivationController struct {
	MotivationService *service.MotivationService
}

func NewMotivationController(motivationService *service.MotivationService) *MotivationController {
	return &MotivationController{MotivationService: motivationService}
}

// MotivationRequest 激励短句的创建/更新请求
type MotivationRequest struct {
	Content   string `json:"content" binding:"required,max=500"`
	IsEnabled bool   `json:"isEnabled"`
}

// GetCurrent godoc
// @Summary 当前激励短句
// @Description 仪表盘和拦截页展示的短句，每天轮换
// @Tags 激励短句
// @Produce  json
// @Success 200 {object} util.Response{data=object} "成功"
// @Router /api/motivation/current [get]
func (c *MotivationController) GetCurrent(ctx *gin.Context) {
	content, err := c.MotivationService.GetCurrentMotivation()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"content": content})
}

// GetAll godoc
// @Summary 激励短句列表（管理员）
// @Tags 激励短句
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.Motivation} "成功"
// @Router /api/admin/motivations [get]
func (c *MotivationController) GetAll(ctx *gin.Context) {
	motivations, err := c.MotivationService.GetAllMotivations()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, motivations)
}

// Create godoc
// @Summary 新增激励短句（管理员）
// @Tags 激励短句
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body MotivationRequest true "短句内容"
// @Success 201 {object} util.Response "成功"
// @Router /api/admin/motivations [post]
func (c *MotivationController) Create(ctx *gin.Context) {
	var req MotivationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.MotivationService.CreateMotivation(req.Content); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, nil)
}

// Update godoc
// @Summary 更新激励短句（管理员）
// @Tags 激励短句
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "短句ID"
// @Param   body body MotivationRequest true "短句内容"
// @Success 200 {object} util.Response "成功"
// @Router /api/admin/motivations/{id} [put]
func (c *MotivationController) Update(ctx *gin.Context) {
	var req MotivationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	id := util.MustParseUint(ctx.Param("id"))
	if err := c.MotivationService.UpdateMotivation(id, req.Content, req.IsEnabled); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	util.Success(ctx, nil)
}

// Delete godoc
// @Summary 删除激励短句（管理员）
// @Tags 激励短句
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "短句ID"
// @Success 200 {object} util.Response "成功"
// @Router /api/admin/motivations/{id} [delete]
func (c *MotivationController) Delete(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	if err := c.MotivationService.DeleteMotivation(id); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	util.Success(ctx, nil)
}

// Switch godoc
// @Summary 切换当前短句（管理员）
// @Tags 激励短句
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "短句ID"
// @Success 200 {object} util.Response "成功"
// @Router /api/admin/motivations/{id}/switch [put]
func (c *MotivationController) Switch(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	if err := c.MotivationService.SwitchToMotivation(id); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	util.Success(ctx, nil)
}
