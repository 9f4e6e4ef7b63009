// Package mysql 提供数据访问层的初始化和 Repository 聚合
// 负责建立 MySQL 连接、自动迁移表结构、构造 Repository 实例
package mysql

import (
	"fmt"

	"pulse_chat_server/internal/config"
	"pulse_chat_server/internal/dao/mysql/repository"
	"pulse_chat_server/internal/model"

	"go.uber.org/zap"
	mysqldriver "gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// Init 初始化数据库连接并返回 Repository 层实例
func Init() *repository.Repositories {
	conf := config.GetConfig()

	// DSN 格式：user:password@tcp(host:port)/database?params
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		conf.MysqlConfig.User,
		conf.MysqlConfig.Password,
		conf.MysqlConfig.Host,
		conf.MysqlConfig.Port,
		conf.MysqlConfig.DatabaseName,
	)

	db, err := gorm.Open(mysqldriver.Open(dsn), &gorm.Config{})
	if err != nil {
		zap.L().Fatal(err.Error())
	}

	// AutoMigrate：表不存在则创建，字段变更则更新结构，不删除已有数据
	err = db.AutoMigrate(
		&model.User{},
		&model.Friendship{},
		&model.UserBlock{},
		&model.FriendRequest{},
		&model.Group{},
		&model.GroupMember{},
		&model.Message{},
		&model.MessageReaction{},
		&model.MessageHide{},
		&model.AppVersion{},
	)
	if err != nil {
		zap.L().Fatal(err.Error())
	}

	return repository.NewRepositories(db)
}
