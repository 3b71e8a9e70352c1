package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/xiebiao/bookshop/internal/application/profile"
	"github.com/xiebiao/bookshop/internal/interface/http/dto"
	"github.com/xiebiao/bookshop/internal/interface/http/middleware"
	"github.com/xiebiao/bookshop/pkg/response"
)

// ProfileHandler 个人资料处理器
type ProfileHandler struct {
	get            *profile.GetProfileUseCase
	update         *profile.UpdateProfileUseCase
	changePassword *profile.ChangePasswordUseCase
}

// NewProfileHandler 创建处理器
func NewProfileHandler(
	get *profile.GetProfileUseCase,
	update *profile.UpdateProfileUseCase,
	changePassword *profile.ChangePasswordUseCase,
) *ProfileHandler {
	return &ProfileHandler{get: get, update: update, changePassword: changePassword}
}

// GetProfile 查询个人资料
// @Summary      查询个人资料
// @Tags         个人资料
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=user.UserInfo}
// @Failure      401 {object} response.Response "未登录"
// @Failure      404 {object} response.Response "用户不存在"
// @Router       /profile [get]
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	info, err := h.get.Execute(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, info)
}

// UpdateProfile 修改个人资料
// @Summary      修改个人资料
// @Description  修改用户名或邮箱，至少提供一个字段
// @Tags         个人资料
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.UpdateProfileRequest true "资料"
// @Success      200 {object} response.Response{data=user.UserInfo}
// @Failure      400 {object} response.Response "参数错误"
// @Failure      409 {object} response.Response "用户名或邮箱已存在"
// @Router       /profile [put]
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	var req dto.UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	info, err := h.update.Execute(c.Request.Context(), middleware.GetUserID(c), profile.UpdateProfileRequest{
		Username: req.Username,
		Email:    req.Email,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, info)
}

// ChangePassword 修改密码
// @Summary      修改密码
// @Tags         个人资料
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.ChangePasswordRequest true "密码"
// @Success      200 {object} response.Response "密码修改成功"
// @Failure      400 {object} response.Response "参数错误或当前密码错误"
// @Router       /profile/password [patch]
func (h *ProfileHandler) ChangePassword(c *gin.Context) {
	var req dto.ChangePasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	err := h.changePassword.Execute(c.Request.Context(), middleware.GetUserID(c), profile.ChangePasswordRequest{
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, profile.ChangePasswordMessage)
}
