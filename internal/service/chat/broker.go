// Package chat 实现了聊天系统的实时核心
// broker.go
// 核心职责：定义事件传输代理接口及单机 Channel 实现
// 抽象路由事件的发布与消费，支持 Kafka 和 Channel 两种实现
package chat

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"pulse_chat_server/pkg/constants"
	"pulse_chat_server/pkg/errorx"
)

// MessageBroker 事件传输代理接口
// 支持多种实现：KafkaBroker (分布式), ChannelBroker (单机)
type MessageBroker interface {
	// Publish 发布一条路由事件
	Publish(ctx context.Context, msg []byte) error
	// Start 启动消费循环，逐条调用 handle
	Start(handle func(msg []byte))
	// Close 关闭代理资源
	Close()
}

// ChannelBroker 单机模式实现，进程内 channel 直接转发
// 不依赖外部消息队列，适合小规模或开发环境
type ChannelBroker struct {
	transmit  chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

// NewChannelBroker 创建单机代理
func NewChannelBroker() *ChannelBroker {
	return &ChannelBroker{
		transmit: make(chan []byte, constants.CHANNEL_SIZE),
		done:     make(chan struct{}),
	}
}

// Publish 发布事件，通道满时阻塞直到可写或 ctx 取消
func (b *ChannelBroker) Publish(ctx context.Context, msg []byte) error {
	select {
	case b.transmit <- msg:
		return nil
	case <-ctx.Done():
		return errorx.Wrap(ctx.Err(), errorx.CodeServerBusy, "事件通道已满")
	case <-b.done:
		return errorx.New(errorx.CodeServerBusy, "事件代理已关闭")
	}
}

// Start 启动消费循环
func (b *ChannelBroker) Start(handle func(msg []byte)) {
	go func() {
		zap.L().Info("channel broker started")
		for {
			select {
			case msg := <-b.transmit:
				handle(msg)
			case <-b.done:
				return
			}
		}
	}()
}

// Close 关闭代理
func (b *ChannelBroker) Close() {
	b.closeOnce.Do(func() {
		close(b.done)
	})
}

var _ MessageBroker = (*ChannelBroker)(nil)
