// Package config 提供应用程序的配置加载和管理功能
// 使用 TOML 格式的配置文件，支持多路径查找
package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// MainConfig 主配置，包含应用基本信息
type MainConfig struct {
	AppName string `toml:"appName"` // 应用名称，用于日志标识等
	Host    string `toml:"host"`    // 服务器监听地址，如 "0.0.0.0"
	Port    int    `toml:"port"`    // 服务器监听端口，如 8000
	Mode    string `toml:"mode"`    // 运行模式: dev / release
}

// MysqlConfig MySQL 数据库连接配置
type MysqlConfig struct {
	Host         string `toml:"host"`
	Port         int    `toml:"port"`
	User         string `toml:"user"`
	Password     string `toml:"password"`
	DatabaseName string `toml:"databaseName"`
}

// RedisConfig Redis 连接配置
type RedisConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	Password string `toml:"password"` // 无密码留空
	Db       int    `toml:"db"`
}

// LogConfig 日志配置，使用 lumberjack 进行日志轮转
type LogConfig struct {
	LogPath    string `toml:"logPath"`    // 日志文件存储目录
	FileName   string `toml:"fileName"`   // 日志文件名
	MaxSize    int    `toml:"maxSize"`    // 单个日志文件最大大小（MB）
	MaxBackups int    `toml:"maxBackups"` // 保留旧日志文件的最大个数
	MaxAge     int    `toml:"maxAge"`     // 保留旧日志文件的最大天数
	Level      string `toml:"level"`      // 日志级别：debug, info, warn, error
}

// JWTConfig JWT 配置
type JWTConfig struct {
	Secret             string `toml:"secret"`
	AccessTokenExpiry  int    `toml:"accessTokenExpiry"`  // Access Token 有效期（分钟）
	RefreshTokenExpiry int    `toml:"refreshTokenExpiry"` // Refresh Token 有效期（小时）
}

// KafkaConfig 事件转发 Kafka 配置
// eventMode 为 "channel" 时不启用 Kafka，事件在进程内直接分发
type KafkaConfig struct {
	EventMode  string `toml:"eventMode"`  // "channel" 或 "kafka"
	HostPort   string `toml:"hostPort"`   // Kafka broker 地址
	EventTopic string `toml:"eventTopic"` // 实时事件主题
	Partition  int    `toml:"partition"`
	Timeout    int    `toml:"timeout"` // 读写超时（秒）
}

// EmailConfig SMTP 邮件服务配置（验证码与密码重置邮件）
type EmailConfig struct {
	Host      string `toml:"host"`
	Port      int    `toml:"port"`
	Username  string `toml:"username"`
	Password  string `toml:"password"`
	FromName  string `toml:"fromName"`
	FromEmail string `toml:"fromEmail"`
}

// SnowflakeConfig 雪花算法配置
type SnowflakeConfig struct {
	MachineID int64 `toml:"machineID"` // 节点 ID，范围 0-1023
}

// Config 聚合所有配置段
type Config struct {
	MainConfig       `toml:"mainConfig"`
	MysqlConfig      `toml:"mysqlConfig"`
	RedisConfig      `toml:"redisConfig"`
	LogConfig        `toml:"logConfig"`
	JWTConfig        `toml:"jwtConfig"`
	KafkaConfig      `toml:"kafkaConfig"`
	EmailConfig      `toml:"emailConfig"`
	SnowflakeConfig  `toml:"snowflakeConfig"`
	StaticAvatarPath string `toml:"staticAvatarPath"` // 头像文件目录
	StaticFilePath   string `toml:"staticFilePath"`   // 普通上传文件目录
}

// 全局配置实例
var config *Config

// LoadConfig 加载配置文件
// 按顺序尝试加载，找到第一个可用的配置文件即停止
func LoadConfig() error {
	// 候选配置文件路径（优先加载本地配置）
	paths := []string{
		"configs/config_local.toml",
		"configs/config.toml",
		"../../configs/config_local.toml",
		"../../configs/config.toml",
	}

	for _, path := range paths {
		if _, err := toml.DecodeFile(path, config); err == nil {
			return nil
		}
	}

	return fmt.Errorf("could not find configuration file in any of the search paths")
}

// GetConfig 获取全局配置实例（单例模式）
// 首次调用时会自动加载配置文件
func GetConfig() *Config {
	if config == nil {
		config = new(Config)
		_ = LoadConfig() // 忽略加载错误，使用默认值
	}
	return config
}
