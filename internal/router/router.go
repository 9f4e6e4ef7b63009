// Package router 提供 HTTP 路由注册
// 本文件是路由注册的入口，聚合所有子模块的路由
package router

import (
	"github.com/gin-gonic/gin"

	"pulse_chat_server/internal/dao/mysql/repository"
	"pulse_chat_server/internal/handler"
	"pulse_chat_server/internal/infrastructure/middleware"
)

// Router 路由管理器，持有 Handler 聚合对象
type Router struct {
	handlers *handler.Handlers
	userRepo repository.UserRepository // 管理员路由的权限校验需要查库
}

// NewRouter 构造函数
func NewRouter(handlers *handler.Handlers, userRepo repository.UserRepository) *Router {
	return &Router{handlers: handlers, userRepo: userRepo}
}

// RegisterRoutes 注册所有路由
// 在 https_server.Init() 中调用
// 公开路由不经过认证中间件，其余路由统一要求 JWT
func (rt *Router) RegisterRoutes(engine *gin.Engine) {
	// 公开路由：注册 / 登录 / 验证 / 版本检查
	public := engine.Group("/")
	rt.RegisterAuthRoutes(public)
	rt.RegisterVersionRoutes(public)

	// WebSocket 路由在握手阶段自行校验 token，不走 JWT 中间件
	rt.RegisterWebSocketRoutes(public)

	// 认证路由：其余所有业务接口
	authed := engine.Group("/", middleware.JWTAuth())
	rt.RegisterUserRoutes(authed)
	rt.RegisterFriendRoutes(authed)
	rt.RegisterGroupRoutes(authed)
	rt.RegisterMessageRoutes(authed)
	rt.RegisterAdminRoutes(authed)
}
