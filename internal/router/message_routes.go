// Package router 提供 HTTP 路由注册
// 本文件定义消息相关的路由
package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterMessageRoutes 注册消息相关路由（需要认证）
func (rt *Router) RegisterMessageRoutes(rg *gin.RouterGroup) {
	messageGroup := rg.Group("/message")
	{
		messageGroup.POST("/send", rt.handlers.Message.SendMessage)                      // 发送单聊/群聊消息
		messageGroup.GET("/direct/:peerId", rt.handlers.Message.GetDirectMessages)       // 单聊历史
		messageGroup.GET("/group/:groupUuid", rt.handlers.Message.GetGroupMessages)      // 群聊历史
		messageGroup.POST("/react", rt.handlers.Message.ReactToMessage)                  // 设置表情反应
		messageGroup.POST("/removeReaction", rt.handlers.Message.RemoveReaction)         // 移除表情反应
		messageGroup.POST("/unsend", rt.handlers.Message.UnsendMessage)                  // 撤回消息
		messageGroup.POST("/hide", rt.handlers.Message.HideMessage)                      // 仅对我删除
		messageGroup.POST("/markSeen", rt.handlers.Message.MarkSeen)                     // 标记已读
		messageGroup.POST("/deleteConversation", rt.handlers.Message.DeleteConversation) // 删除会话记录
	}
}
