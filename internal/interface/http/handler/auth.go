package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/xiebiao/bookshop/internal/application/auth"
	"github.com/xiebiao/bookshop/internal/interface/http/dto"
	"github.com/xiebiao/bookshop/internal/interface/http/middleware"
	"github.com/xiebiao/bookshop/pkg/response"
)

// AuthHandler 认证HTTP处理器
// 设计说明：
// 1. Handler只负责HTTP相关的事情：解析请求、调用应用层、返回响应
// 2. 不包含业务逻辑（业务逻辑在domain和application层）
type AuthHandler struct {
	register *auth.RegisterUseCase
	login    *auth.LoginUseCase
	logout   *auth.LogoutUseCase
	forgot   *auth.ForgotPasswordUseCase
	reset    *auth.ResetPasswordUseCase
}

// NewAuthHandler 创建认证处理器
func NewAuthHandler(
	register *auth.RegisterUseCase,
	login *auth.LoginUseCase,
	logout *auth.LogoutUseCase,
	forgot *auth.ForgotPasswordUseCase,
	reset *auth.ResetPasswordUseCase,
) *AuthHandler {
	return &AuthHandler{
		register: register,
		login:    login,
		logout:   logout,
		forgot:   forgot,
		reset:    reset,
	}
}

// Register 用户注册
// @Summary      用户注册
// @Description  创建账号并直接返回Token
// @Tags         认证
// @Accept       json
// @Produce      json
// @Param        request body dto.RegisterRequest true "注册信息"
// @Success      201 {object} response.Response{data=auth.AuthResponse} "注册成功"
// @Failure      400 {object} response.Response "参数错误"
// @Failure      409 {object} response.Response "用户名或邮箱已存在"
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.register.Execute(c.Request.Context(), auth.RegisterRequest{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// Login 用户登录
// @Summary      用户登录
// @Description  使用用户名或邮箱登录，每次登录签发新Token
// @Tags         认证
// @Accept       json
// @Produce      json
// @Param        request body dto.LoginRequest true "登录信息"
// @Success      200 {object} response.Response{data=auth.AuthResponse} "登录成功"
// @Failure      400 {object} response.Response "参数错误"
// @Failure      401 {object} response.Response "账号或密码错误"
// @Failure      429 {object} response.Response "请求过于频繁"
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.login.Execute(c.Request.Context(), auth.LoginRequest{
		Identifier: req.Identifier,
		Password:   req.Password,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Logout 退出登录
// @Summary      退出登录
// @Description  删除当前Token的会话，其他设备的Token不受影响
// @Tags         认证
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response "已退出登录"
// @Failure      401 {object} response.Response "未登录"
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.logout.Execute(c.Request.Context(), middleware.GetToken(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, auth.LogoutMessage)
}

// ForgotPassword 找回密码
// @Summary      找回密码
// @Description  向邮箱发送6位验证码（10分钟有效）。无论邮箱是否注册都返回相同提示
// @Tags         认证
// @Accept       json
// @Produce      json
// @Param        request body dto.ForgotPasswordRequest true "邮箱"
// @Success      200 {object} response.Response "提示信息"
// @Failure      400 {object} response.Response "参数错误"
// @Failure      429 {object} response.Response "请求过于频繁"
// @Router       /auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req dto.ForgotPasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.forgot.Execute(c.Request.Context(), req.Email); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, auth.ForgotPasswordMessage)
}

// ResetPassword 重置密码
// @Summary      重置密码
// @Description  使用邮箱收到的验证码设置新密码
// @Tags         认证
// @Accept       json
// @Produce      json
// @Param        request body dto.ResetPasswordRequest true "重置信息"
// @Success      200 {object} response.Response "密码重置成功"
// @Failure      400 {object} response.Response "参数错误或验证码无效"
// @Failure      404 {object} response.Response "用户不存在"
// @Router       /auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req dto.ResetPasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	err := h.reset.Execute(c.Request.Context(), auth.ResetPasswordRequest{
		Email:           req.Email,
		OTP:             req.OTP,
		NewPassword:     req.NewPassword,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, auth.ResetPasswordMessage)
}
