// Package router 提供 HTTP 路由注册
// 本文件定义用户资料相关的路由
package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterUserRoutes 注册用户相关路由（需要认证）
func (rt *Router) RegisterUserRoutes(rg *gin.RouterGroup) {
	userGroup := rg.Group("/user")
	{
		userGroup.GET("/profile/:uuid", rt.handlers.Auth.GetProfile)       // 查看用户资料（邮箱按可见性过滤）
		userGroup.POST("/updateProfile", rt.handlers.Auth.UpdateProfile)   // 修改昵称/头像/邮箱可见性
		userGroup.POST("/changePassword", rt.handlers.Auth.ChangePassword) // 修改密码
		userGroup.POST("/deleteAccount", rt.handlers.Auth.DeleteAccount)   // 软删除账号（7 天内可恢复）
		userGroup.GET("/search", rt.handlers.Auth.SearchUsers)             // 按昵称/邮箱搜索用户
		userGroup.GET("/sidebar", rt.handlers.Auth.GetSidebarUsers)        // 会话侧栏用户列表
	}
}
