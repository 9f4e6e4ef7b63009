package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"pulse_chat_server/internal/config"
	dao "pulse_chat_server/internal/dao/mysql"
	myredis "pulse_chat_server/internal/dao/redis"
	"pulse_chat_server/internal/handler"
	"pulse_chat_server/internal/https_server"
	"pulse_chat_server/internal/infrastructure/email"
	"pulse_chat_server/internal/infrastructure/logger"
	"pulse_chat_server/internal/infrastructure/queue"
	"pulse_chat_server/internal/service"
	"pulse_chat_server/internal/service/chat"
	"pulse_chat_server/pkg/util/jwt"
	"pulse_chat_server/pkg/util/snowflake"
)

func main() {
	// 1. 加载配置
	conf := config.GetConfig()

	// 2. 初始化日志
	if err := logger.Init(&conf.LogConfig, conf.MainConfig.Mode); err != nil {
		log.Fatalf("init logger failed: %v", err)
	}
	zap.L().Info("日志初始化成功")

	// 3. 初始化雪花算法节点（消息 ID 生成）
	snowflake.Init(conf.SnowflakeConfig.MachineID)

	// 4. 初始化 JWT
	jwt.Init(conf.JWTConfig.Secret, conf.JWTConfig.AccessTokenExpiry, conf.JWTConfig.RefreshTokenExpiry)
	zap.L().Info("JWT 初始化成功")

	// 5. 初始化数据库
	repos := dao.Init()
	zap.L().Info("数据库初始化成功")

	// 6. 初始化 Redis
	myredis.Init()
	zap.L().Info("Redis 初始化成功")

	// 7. 初始化参数校验翻译器
	if err := handler.InitTrans("zh"); err != nil {
		zap.L().Fatal("初始化翻译器失败", zap.Error(err))
	}

	// 8. 初始化实时服务（会话目录 / 事件路由 / 在线状态）
	chatServer := chat.NewChatServer(chat.ChatServerConfig{
		Mode:            conf.KafkaConfig.EventMode,
		Kafka:           &conf.KafkaConfig,
		UserRepo:        repos.User,
		GroupMemberRepo: repos.GroupMember,
	})
	go chatServer.Start()
	zap.L().Info("实时服务初始化成功", zap.String("mode", conf.KafkaConfig.EventMode))

	// 9. 初始化 Service 层（依赖注入）
	mailer := email.NewSMTPMailer(&conf.EmailConfig)
	services := service.NewServices(repos, myredis.GetCacheService(), mailer, chatServer)
	handlers := handler.NewHandlers(services, chatServer)
	zap.L().Info("Service 层初始化成功")

	// 10. 启动后台清理任务（过期软删除账号的硬清理）
	cleanup := queue.NewCleanupWorker(conf, repos)
	if err := cleanup.Start(); err != nil {
		zap.L().Fatal("启动后台清理任务失败", zap.Error(err))
	}
	zap.L().Info("后台清理任务启动成功")

	// 11. 初始化 HTTP 服务器
	engine := https_server.Init(handlers, repos.User)
	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", conf.MainConfig.Host, conf.MainConfig.Port),
		Handler: engine,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zap.L().Fatal("server running fault", zap.Error(err))
		}
	}()
	zap.L().Info("服务器启动成功", zap.String("addr", srv.Addr))

	// 等待退出信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zap.L().Info("关闭服务器...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zap.L().Error("服务器关闭异常", zap.Error(err))
	}

	cleanup.Shutdown()
	chatServer.Close()

	zap.L().Info("服务器已关闭")
}
