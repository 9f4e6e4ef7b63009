// Package router 提供 HTTP 路由注册
// 本文件定义管理员相关的路由
package router

import (
	"github.com/gin-gonic/gin"

	"pulse_chat_server/internal/infrastructure/middleware"
)

// RegisterAdminRoutes 注册管理员相关路由（需要认证 + 管理员权限）
func (rt *Router) RegisterAdminRoutes(rg *gin.RouterGroup) {
	adminGroup := rg.Group("/admin", middleware.AdminOnly(rt.userRepo))
	{
		adminGroup.POST("/publishVersion", rt.handlers.Admin.PublishVersion)       // 发布客户端版本
		adminGroup.POST("/resetUserPassword", rt.handlers.Admin.ResetUserPassword) // 重置用户密码
		adminGroup.GET("/users", rt.handlers.Admin.ListUsers)                      // 用户列表
	}
}
