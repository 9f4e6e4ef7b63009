// Package https_server 提供 HTTP/HTTPS 服务器的初始化和配置
// 负责创建 Gin 引擎实例并配置中间件、静态资源和路由
package https_server

import (
	"pulse_chat_server/internal/config"
	"pulse_chat_server/internal/dao/mysql/repository"
	"pulse_chat_server/internal/handler"
	"pulse_chat_server/internal/infrastructure/logger"
	"pulse_chat_server/internal/router"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Init 初始化 HTTP/HTTPS 服务器并返回 Gin 引擎实例
// handlers: 通过依赖注入传入的 handler 聚合对象
// 配置顺序：
//  1. 创建 Gin 引擎（空白，不含默认中间件）
//  2. 注册日志和恢复中间件
//  3. 配置 CORS 跨域规则
//  4. 映射静态资源目录
//  5. 注册业务路由
func Init(handlers *handler.Handlers, userRepo repository.UserRepository) *gin.Engine {
	conf := config.GetConfig()
	if conf.MainConfig.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	// 注册自定义 Zap 日志中间件，替代 Gin 默认的日志
	engine.Use(logger.GinLogger())

	// Panic 恢复中间件，捕获 panic 并记录堆栈
	engine.Use(logger.GinRecovery(true))

	// CORS 跨域规则
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"*"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	engine.Use(cors.New(corsConfig))

	// TLS 重定向中间件（可选，如果由 Nginx 处理 SSL 则保持注释）
	// engine.Use(middleware.TlsHandler(conf.MainConfig.Host, conf.MainConfig.Port))

	// 静态资源目录
	engine.Static("/static/avatars", conf.StaticAvatarPath)
	engine.Static("/static/files", conf.StaticFilePath)

	// 注册所有业务路由
	rt := router.NewRouter(handlers, userRepo)
	rt.RegisterRoutes(engine)

	return engine
}
