// Package chat 实现了聊天系统的实时核心
// kafka_broker.go
// 核心职责：MessageBroker 的 Kafka 实现
// 多实例部署时事件经 Kafka 广播，由持有目标连接的实例投递
package chat

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"pulse_chat_server/internal/config"
	"pulse_chat_server/pkg/errorx"
)

// KafkaBroker 基于 segmentio/kafka-go 的事件代理
type KafkaBroker struct {
	producer  *kafka.Writer
	consumer  *kafka.Reader
	partition []byte
	done      chan struct{}
	closeOnce sync.Once
}

// NewKafkaBroker 从配置创建 Kafka 代理
func NewKafkaBroker(cfg *config.KafkaConfig) *KafkaBroker {
	producer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.HostPort),
		Topic:                  cfg.EventTopic,
		Balancer:               &kafka.Hash{},
		WriteTimeout:           time.Duration(cfg.Timeout) * time.Second,
		RequiredAcks:           kafka.RequireNone,
		AllowAutoTopicCreation: false,
	}
	consumer := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        []string{cfg.HostPort},
		Topic:          cfg.EventTopic,
		CommitInterval: time.Duration(cfg.Timeout) * time.Second,
		GroupID:        "chat_events",
		StartOffset:    kafka.LastOffset,
	})
	return &KafkaBroker{
		producer:  producer,
		consumer:  consumer,
		partition: []byte(strconv.Itoa(cfg.Partition)),
		done:      make(chan struct{}),
	}
}

// Publish 写入事件到 Kafka
func (b *KafkaBroker) Publish(ctx context.Context, msg []byte) error {
	err := b.producer.WriteMessages(ctx, kafka.Message{
		Key:   b.partition,
		Value: msg,
	})
	if err != nil {
		return errorx.Wrap(err, errorx.CodeServerBusy, "kafka 写入事件")
	}
	return nil
}

// Start 启动消费循环
func (b *KafkaBroker) Start(handle func(msg []byte)) {
	go func() {
		zap.L().Info("kafka broker started")
		for {
			select {
			case <-b.done:
				return
			default:
			}
			message, err := b.consumer.ReadMessage(context.Background())
			if err != nil {
				select {
				case <-b.done:
					return
				default:
				}
				zap.L().Error("kafka read failed", zap.Error(err))
				continue
			}
			handle(message.Value)
		}
	}()
}

// Close 关闭生产者和消费者
func (b *KafkaBroker) Close() {
	b.closeOnce.Do(func() {
		close(b.done)
		if err := b.producer.Close(); err != nil {
			zap.L().Error("kafka producer close", zap.Error(err))
		}
		if err := b.consumer.Close(); err != nil {
			zap.L().Error("kafka consumer close", zap.Error(err))
		}
	})
}

var _ MessageBroker = (*KafkaBroker)(nil)
