// Package router 提供 HTTP 路由注册
// 本文件定义群组相关的路由
package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterGroupRoutes 注册群组相关路由（需要认证）
func (rt *Router) RegisterGroupRoutes(rg *gin.RouterGroup) {
	groupGroup := rg.Group("/group")
	{
		groupGroup.POST("/create", rt.handlers.Group.CreateGroup)                // 创建群组
		groupGroup.GET("/myGroups", rt.handlers.Group.GetMyGroups)               // 我加入的群组
		groupGroup.GET("/members/:groupUuid", rt.handlers.Group.GetGroupMembers) // 群成员列表
		groupGroup.POST("/update", rt.handlers.Group.UpdateGroup)                // 修改群名（群主）
		groupGroup.POST("/addMember", rt.handlers.Group.AddMember)               // 添加成员（群主）
		groupGroup.POST("/removeMember", rt.handlers.Group.RemoveMember)         // 移除成员（群主）
		groupGroup.POST("/leave", rt.handlers.Group.LeaveGroup)                  // 退群
	}
}
