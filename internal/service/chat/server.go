// Package chat 实现了聊天系统的实时核心
// server.go
// 核心职责：实时组件的聚合与生命周期管理
// 按配置选择 ChannelBroker 或 KafkaBroker，串联目录、路由器、网关
package chat

import (
	"pulse_chat_server/internal/config"
	"pulse_chat_server/internal/dao/mysql/repository"
)

// ChatServer 实时服务聚合结构
type ChatServer struct {
	Directory *SessionDirectory
	Broker    MessageBroker
	Router    *EventRouter
	Presence  *PresencePublisher
	Gateway   *Gateway
}

// ChatServerConfig 实时服务配置
type ChatServerConfig struct {
	// Mode "channel" 或 "kafka"
	Mode            string
	Kafka           *config.KafkaConfig
	UserRepo        repository.UserRepository
	GroupMemberRepo repository.GroupMemberRepository
}

// NewChatServer 创建实时服务实例
func NewChatServer(cfg ChatServerConfig) *ChatServer {
	var broker MessageBroker
	if cfg.Mode == "kafka" {
		broker = NewKafkaBroker(cfg.Kafka)
	} else {
		broker = NewChannelBroker()
	}

	directory := NewSessionDirectory()
	router := NewEventRouter(directory, broker, cfg.GroupMemberRepo)
	presence := NewPresencePublisher(directory, router)
	gateway := NewGateway(directory, router, presence, cfg.UserRepo)

	return &ChatServer{
		Directory: directory,
		Broker:    broker,
		Router:    router,
		Presence:  presence,
		Gateway:   gateway,
	}
}

// Start 启动事件消费循环
func (cs *ChatServer) Start() {
	cs.Broker.Start(cs.Router.HandleTransport)
}

// Close 关闭实时服务
func (cs *ChatServer) Close() {
	cs.Broker.Close()
}
