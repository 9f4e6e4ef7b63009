// Package handler 提供 HTTP 请求处理器
// 本文件定义 Handler 聚合结构和构造函数
// 遵循依赖倒置原则，通过构造函数注入 Service 依赖
package handler

import (
	"pulse_chat_server/internal/service"
	"pulse_chat_server/internal/service/chat"
)

// Handlers 聚合所有 Handler 实例
// 作为依赖注入的入口，Router 层通过此结构访问各个 Handler
type Handlers struct {
	Auth    *AuthHandler
	Friend  *FriendHandler
	Group   *GroupHandler
	Message *MessageHandler
	Admin   *AdminHandler
	Version *VersionHandler
	Ws      *WsHandler
}

// NewHandlers 创建并注入所有 Handler 实例
func NewHandlers(svc *service.Services, chatServer *chat.ChatServer) *Handlers {
	return &Handlers{
		Auth:    NewAuthHandler(svc.Auth),
		Friend:  NewFriendHandler(svc.Friend),
		Group:   NewGroupHandler(svc.Group),
		Message: NewMessageHandler(svc.Message),
		Admin:   NewAdminHandler(svc.Admin),
		Version: NewVersionHandler(svc.Version),
		Ws:      NewWsHandler(chatServer),
	}
}
