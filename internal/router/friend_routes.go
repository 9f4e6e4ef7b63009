// Package router 提供 HTTP 路由注册
// 本文件定义好友关系相关的路由
package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterFriendRoutes 注册好友相关路由（需要认证）
func (rt *Router) RegisterFriendRoutes(rg *gin.RouterGroup) {
	friendGroup := rg.Group("/friend")
	{
		friendGroup.POST("/sendRequest", rt.handlers.Friend.SendFriendRequest)     // 发起好友请求
		friendGroup.POST("/acceptRequest", rt.handlers.Friend.AcceptFriendRequest) // 接受请求
		friendGroup.POST("/rejectRequest", rt.handlers.Friend.RejectFriendRequest) // 拒绝请求
		friendGroup.POST("/cancelRequest", rt.handlers.Friend.CancelFriendRequest) // 发起方撤回请求
		friendGroup.GET("/pendingRequests", rt.handlers.Friend.GetPendingRequests) // 收到的待处理请求
		friendGroup.GET("/sentRequests", rt.handlers.Friend.GetSentRequests)       // 发出的待处理请求
		friendGroup.GET("/list", rt.handlers.Friend.GetFriendList)                 // 好友列表
		friendGroup.POST("/remove", rt.handlers.Friend.RemoveFriend)               // 删除好友（双向解除）
		friendGroup.POST("/block", rt.handlers.Friend.BlockUser)                   // 拉黑
		friendGroup.POST("/unblock", rt.handlers.Friend.UnblockUser)               // 取消拉黑
		friendGroup.GET("/blocked", rt.handlers.Friend.GetBlockedUsers)            // 黑名单列表
	}
}
