package controller

import (
	"errors"
	"strconv"

	"habitloop_backend/internal/service"
	"habitloop_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	UserService *service.UserService
}

func NewUserController(userService *service.UserService) *UserController {
	return &UserController{UserService: userService}
}

// GetUserProfile godoc
// @Summary 查看用户主页
// @Description 查看指定用户的公开主页（邮箱仅本人可见）
// @Tags 用户
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "用户ID"
// @Success 200 {object} util.Response{data=service.ProfileResponse} "成功"
// @Failure 404 {object} util.Response "不存在"
// @Router /api/users/{id} [get]
func (c *UserController) GetUserProfile(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	userID := util.MustParseUint(ctx.Param("id"))
	profile, err := c.UserService.GetProfile(userID, claims.UserID)
	if err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, profile)
}

// UpdateProfile godoc
// @Summary 更新个人资料
// @Tags 用户
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body service.ProfileUpdateRequest true "昵称与简介"
// @Success 200 {object} util.Response{data=model.User} "成功"
// @Router /api/users/profile [put]
func (c *UserController) UpdateProfile(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.ProfileUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, err := c.UserService.UpdateProfile(claims.UserID, req)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, user)
}

// ChangePassword godoc
// @Summary 修改密码
// @Tags 用户
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body service.PasswordChangeRequest true "旧密码和新密码"
// @Success 200 {object} util.Response "成功"
// @Failure 400 {object} util.Response "旧密码不正确"
// @Router /api/users/password [put]
func (c *UserController) ChangePassword(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.PasswordChangeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.UserService.ChangePassword(claims.UserID, req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	util.Success(ctx, nil)
}

// UploadAvatar godoc
// @Summary 上传头像
// @Tags 用户
// @Accept  multipart/form-data
// @Produce  json
// @Security ApiKeyAuth
// @Param   file formData file true "头像图片"
// @Success 200 {object} util.Response{data=object} "成功"
// @Failure 400 {object} util.Response "文件非法"
// @Router /api/users/avatar [post]
func (c *UserController) UploadAvatar(ctx *gin.Context) {
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

	url, err := c.UserService.UploadAvatar(ctx.Request.Context(), claims.UserID, file)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	util.Success(ctx, gin.H{"avatar": url})
}

// GetUsers godoc
// @Summary 用户列表（管理员）
// @Tags 用户
// @Produce  json
// @Security ApiKeyAuth
// @Param   page query int false "页码"
// @Param   limit query int false "每页数量"
// @Param   role query string false "角色筛选"
// @Param   status query string false "状态筛选 online/disabled"
// @Param   search query string false "搜索昵称或邮箱"
// @Success 200 {object} util.Response{data=util.PageResponse} "成功"
// @Router /api/admin/users [get]
func (c *UserController) GetUsers(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	filter := service.UserFilter{
		Role:   ctx.Query("role"),
		Status: ctx.Query("status"),
		Search: ctx.Query("search"),
	}

	users, total, err := c.UserService.GetUsers(page, limit, filter)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{
		List:  users,
		Total: int64(total),
		Page:  page,
		Limit: limit,
	})
}

// DisableUser godoc
// @Summary 禁用/启用用户（管理员）
// @Tags 用户
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "用户ID"
// @Param   body body object true "{\"disabled\": true}"
// @Success 200 {object} util.Response "成功"
// @Router /api/admin/users/{id}/disable [put]
func (c *UserController) DisableUser(ctx *gin.Context) {
	var req struct {
		Disabled bool `json:"disabled"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	userID := util.MustParseUint(ctx.Param("id"))
	if err := c.UserService.DisableUser(userID, req.Disabled); err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, nil)
}
