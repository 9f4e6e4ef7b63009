// Package handler 提供 HTTP 请求处理器
// 本文件处理账号相关的 API 请求
package handler

import (
	"github.com/gin-gonic/gin"

	"pulse_chat_server/internal/dto/request"
	"pulse_chat_server/internal/infrastructure/middleware"
	"pulse_chat_server/internal/service"
)

// AuthHandler 账号请求处理器
type AuthHandler struct {
	svc service.AuthService
}

// NewAuthHandler 构造函数
func NewAuthHandler(svc service.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// Register 用户注册
// POST /auth/register
// 请求体: request.RegisterRequest
// 响应: respond.RegisterRespond
func (h *AuthHandler) Register(c *gin.Context) {
	var req request.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.svc.Register(req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// VerifyEmail 校验邮箱验证码
// POST /auth/verifyEmail
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	var req request.VerifyEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if err := h.svc.VerifyEmail(req); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// ResendVerification 重发验证码
// POST /auth/resendVerification
func (h *AuthHandler) ResendVerification(c *gin.Context) {
	var req request.ResendVerificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if err := h.svc.ResendVerification(req.Email); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// Login 密码登录
// POST /auth/login
// 响应: respond.LoginRespond
func (h *AuthHandler) Login(c *gin.Context) {
	var req request.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.svc.Login(req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// RefreshToken 刷新双令牌
// POST /auth/refreshToken
// 响应: respond.TokenRespond
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req request.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.svc.RefreshToken(req.RefreshToken)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// Logout 登出
// POST /auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.svc.Logout(middleware.GetUserID(c)); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// CheckAuth 校验登录态并返回当前用户信息
// GET /auth/checkAuth
// 响应: respond.UserInfoRespond
func (h *AuthHandler) CheckAuth(c *gin.Context) {
	userId := middleware.GetUserID(c)
	data, err := h.svc.GetProfile(userId, userId)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// ForgotPassword 发送密码重置邮件
// POST /auth/forgotPassword
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req request.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if err := h.svc.ForgotPassword(req.Email); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// ResetPassword 通过邮件令牌重置密码
// POST /auth/resetPassword
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req request.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if err := h.svc.ResetPassword(req); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// GetProfile 查看用户资料
// GET /user/profile/:uuid
// 响应: respond.UserInfoRespond
func (h *AuthHandler) GetProfile(c *gin.Context) {
	data, err := h.svc.GetProfile(middleware.GetUserID(c), c.Param("uuid"))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// UpdateProfile 更新个人资料
// POST /user/updateProfile
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var req request.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if err := h.svc.UpdateProfile(middleware.GetUserID(c), req); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// ChangePassword 修改密码
// POST /user/changePassword
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req request.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if err := h.svc.ChangePassword(middleware.GetUserID(c), req); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// DeleteAccount 注销账号
// POST /user/deleteAccount
func (h *AuthHandler) DeleteAccount(c *gin.Context) {
	var req request.DeleteAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if err := h.svc.DeleteAccount(middleware.GetUserID(c), req.Password); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// SearchUsers 搜索用户
// GET /user/search?keyword=xxx
// 响应: []respond.UserInfoRespond
func (h *AuthHandler) SearchUsers(c *gin.Context) {
	data, err := h.svc.SearchUsers(middleware.GetUserID(c), c.Query("keyword"))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// GetSidebarUsers 会话侧栏用户列表
// GET /user/sidebar
// 响应: []respond.UserInfoRespond
func (h *AuthHandler) GetSidebarUsers(c *gin.Context) {
	data, err := h.svc.GetSidebarUsers(middleware.GetUserID(c))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}
