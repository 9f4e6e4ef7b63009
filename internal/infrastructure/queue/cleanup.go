// Package queue 基于 asynq 的后台任务调度
// 负责已注销账号超过恢复期后的数据清理
package queue

import (
	"context"
	"strconv"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"pulse_chat_server/internal/config"
	"pulse_chat_server/internal/dao/mysql/repository"
	"pulse_chat_server/pkg/constants"
)

// TypeCleanupDeletedAccounts 清理已注销账号的任务类型
const TypeCleanupDeletedAccounts = "cleanup:deleted_accounts"

// 每天凌晨 2 点执行清理
const cleanupCron = "0 2 * * *"

// CleanupWorker 账号清理任务处理器
type CleanupWorker struct {
	repos     *repository.Repositories
	server    *asynq.Server
	scheduler *asynq.Scheduler
}

// NewCleanupWorker 创建清理 Worker，复用主 Redis 实例作为任务存储
func NewCleanupWorker(conf *config.Config, repos *repository.Repositories) *CleanupWorker {
	opt := asynq.RedisClientOpt{
		Addr:     conf.RedisConfig.Host + ":" + strconv.Itoa(conf.RedisConfig.Port),
		Password: conf.RedisConfig.Password,
		DB:       conf.RedisConfig.Db,
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: 2,
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			zap.L().Error("asynq task failed", zap.String("type", task.Type()), zap.Error(err))
		}),
	})

	scheduler := asynq.NewScheduler(opt, &asynq.SchedulerOpts{
		Location: time.Local,
	})

	return &CleanupWorker{
		repos:     repos,
		server:    server,
		scheduler: scheduler,
	}
}

// Start 注册定时任务并启动调度器与消费端
func (w *CleanupWorker) Start() error {
	if _, err := w.scheduler.Register(cleanupCron,
		asynq.NewTask(TypeCleanupDeletedAccounts, nil),
		asynq.MaxRetry(3)); err != nil {
		return err
	}

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeCleanupDeletedAccounts, w.HandleCleanupDeletedAccounts)

	if err := w.server.Start(mux); err != nil {
		return err
	}
	if err := w.scheduler.Start(); err != nil {
		w.server.Shutdown()
		return err
	}
	zap.L().Info("cleanup scheduler started", zap.String("cron", cleanupCron))
	return nil
}

// Shutdown 优雅停止任务调度
func (w *CleanupWorker) Shutdown() {
	w.scheduler.Shutdown()
	w.server.Shutdown()
}

// HandleCleanupDeletedAccounts 物理清除恢复期已过的注销账号及其全部关联数据
func (w *CleanupWorker) HandleCleanupDeletedAccounts(ctx context.Context, task *asynq.Task) error {
	cutoff := time.Now().Add(-constants.DELETE_GRACE_PERIOD)
	users, err := w.repos.User.FindDeletedBefore(cutoff)
	if err != nil {
		return err
	}
	if len(users) == 0 {
		zap.L().Info("cleanup: no expired deleted accounts")
		return nil
	}

	for _, user := range users {
		if err := w.purgeUser(user.Uuid); err != nil {
			zap.L().Error("cleanup: purge user failed", zap.String("uuid", user.Uuid), zap.Error(err))
			continue
		}
		zap.L().Info("cleanup: purged deleted account", zap.String("uuid", user.Uuid))
	}
	return nil
}

// purgeUser 删除用户的全部关联数据，最后删除用户本身
func (w *CleanupWorker) purgeUser(uuid string) error {
	if err := w.repos.Message.HardDeleteAllFor(uuid); err != nil {
		return err
	}
	if err := w.repos.Friendship.DeleteAllFor(uuid); err != nil {
		return err
	}
	if err := w.repos.FriendRequest.HardDeleteAllFor(uuid); err != nil {
		return err
	}
	if err := w.repos.Block.DeleteAllFor(uuid); err != nil {
		return err
	}
	if err := w.repos.GroupMember.DeleteAllForUser(uuid); err != nil {
		return err
	}
	return w.repos.User.HardDeleteByUuid(uuid)
}
