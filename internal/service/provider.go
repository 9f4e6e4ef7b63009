// Package service 提供业务逻辑层
// 本文件实现 Service 层的依赖注入和聚合
package service

import (
	"pulse_chat_server/internal/dao/mysql/repository"
	myredis "pulse_chat_server/internal/dao/redis"
	"pulse_chat_server/internal/infrastructure/email"
	"pulse_chat_server/internal/service/admin"
	"pulse_chat_server/internal/service/auth"
	"pulse_chat_server/internal/service/chat"
	"pulse_chat_server/internal/service/friend"
	"pulse_chat_server/internal/service/group"
	"pulse_chat_server/internal/service/message"
	"pulse_chat_server/internal/service/version"
)

// Services 聚合所有 Service 实例
// 作为依赖注入的入口，Handler 层通过此聚合访问各个 Service
type Services struct {
	Auth    AuthService
	Friend  FriendService
	Group   GroupService
	Message MessageService
	Admin   AdminService
	Version VersionService
}

// NewServices 创建并注入所有 Service 实例
// 依赖注入流程：
//  1. 接收 Repository 聚合、缓存、邮件和事件路由器
//  2. 创建各个 Service 实例并注入依赖
//  3. 把消息服务接回网关作为已读标记入口
func NewServices(
	repos *repository.Repositories,
	cache myredis.CacheService,
	mailer email.Mailer,
	chatServer *chat.ChatServer,
) *Services {
	authSvc := auth.NewAuthService(repos, cache, mailer)
	friendSvc := friend.NewFriendService(repos, chatServer.Router)
	groupSvc := group.NewGroupService(repos)
	messageSvc := message.NewMessageService(repos, chatServer.Router)
	adminSvc := admin.NewAdminService(repos, cache)
	versionSvc := version.NewVersionService(repos)

	// 网关的上行已读标记由消息服务处理
	chatServer.Gateway.SetSeenMarker(messageSvc)

	return &Services{
		Auth:    authSvc,
		Friend:  friendSvc,
		Group:   groupSvc,
		Message: messageSvc,
		Admin:   adminSvc,
		Version: versionSvc,
	}
}
