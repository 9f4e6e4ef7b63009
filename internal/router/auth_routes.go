// Package router 提供 HTTP 路由注册
// 本文件定义认证相关的路由
package router

import (
	"github.com/gin-gonic/gin"

	"pulse_chat_server/internal/infrastructure/middleware"
)

// RegisterAuthRoutes 注册认证相关路由
// 除 logout 外都是公开接口
func (rt *Router) RegisterAuthRoutes(rg *gin.RouterGroup) {
	authGroup := rg.Group("/auth")
	{
		authGroup.POST("/register", rt.handlers.Auth.Register)                        // 注册并发送验证码
		authGroup.POST("/verifyEmail", rt.handlers.Auth.VerifyEmail)                  // 校验邮箱验证码
		authGroup.POST("/resendVerification", rt.handlers.Auth.ResendVerification)    // 重发验证码
		authGroup.POST("/login", rt.handlers.Auth.Login)                              // 登录换取双 Token
		authGroup.POST("/refreshToken", rt.handlers.Auth.RefreshToken)                // 刷新 Access Token
		authGroup.POST("/forgotPassword", rt.handlers.Auth.ForgotPassword)            // 发送重置密码邮件
		authGroup.POST("/resetPassword", rt.handlers.Auth.ResetPassword)              // 用重置令牌改密码
		authGroup.POST("/logout", middleware.JWTAuth(), rt.handlers.Auth.Logout)      // 注销当前会话
		authGroup.GET("/checkAuth", middleware.JWTAuth(), rt.handlers.Auth.CheckAuth) // 校验登录态并返回个人信息
	}
}
