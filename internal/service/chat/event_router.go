// Package chat 实现了聊天系统的实时核心
// event_router.go
// 核心职责：领域事件到在线连接的路由
// 1. 业务侧发布：目标用户 + 事件名 + 载荷 -> Broker
// 2. 消费侧投递：查会话目录，在线则推送，离线静默丢弃
// 3. 群事件扇出：解析群成员并排除操作者本人
package chat

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"pulse_chat_server/pkg/errorx"
)

// GroupMemberResolver 解析群成员列表
// 由 repository.GroupMemberRepository 满足
type GroupMemberResolver interface {
	FindMemberUuids(groupUuid string) ([]string, error)
}

// EventRouter 领域事件路由器
type EventRouter struct {
	directory *SessionDirectory
	broker    MessageBroker
	groups    GroupMemberResolver
}

// NewEventRouter 创建事件路由器
func NewEventRouter(directory *SessionDirectory, broker MessageBroker, groups GroupMemberResolver) *EventRouter {
	return &EventRouter{
		directory: directory,
		broker:    broker,
		groups:    groups,
	}
}

// EmitToUser 向单个用户发布事件
// 目标离线时事件在投递侧被静默丢弃，发布自身不报错
func (r *EventRouter) EmitToUser(targetId, event string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return errorx.Wrapf(err, errorx.CodeServerBusy, "序列化事件 %s", event)
	}
	return r.publish(targetId, event, payload)
}

// EmitToUsers 向多个用户发布同一事件，单个目标失败不影响其余
func (r *EventRouter) EmitToUsers(targetIds []string, event string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return errorx.Wrapf(err, errorx.CodeServerBusy, "序列化事件 %s", event)
	}
	for _, targetId := range targetIds {
		if err := r.publish(targetId, event, payload); err != nil {
			zap.L().Error("事件发布失败", zap.String("event", event),
				zap.String("target", targetId), zap.Error(err))
		}
	}
	return nil
}

// EmitToGroup 向群成员扇出事件，排除操作者本人
func (r *EventRouter) EmitToGroup(groupUuid, actorId, event string, data interface{}) error {
	members, err := r.groups.FindMemberUuids(groupUuid)
	if err != nil {
		return err
	}
	targets := make([]string, 0, len(members))
	for _, member := range members {
		if member == actorId {
			continue
		}
		targets = append(targets, member)
	}
	return r.EmitToUsers(targets, event, data)
}

func (r *EventRouter) publish(targetId, event string, payload json.RawMessage) error {
	routed, err := json.Marshal(routedEvent{
		TargetId: targetId,
		Event:    event,
		Data:     payload,
	})
	if err != nil {
		return errorx.Wrapf(err, errorx.CodeServerBusy, "序列化路由事件 %s", event)
	}
	return r.broker.Publish(context.Background(), routed)
}

// HandleTransport Broker 消费回调，把路由事件投递到本实例的连接
// 目标不在本实例目录中时静默丢弃
func (r *EventRouter) HandleTransport(raw []byte) {
	var routed routedEvent
	if err := json.Unmarshal(raw, &routed); err != nil {
		zap.L().Error("路由事件反序列化失败", zap.Error(err))
		return
	}
	conn := r.directory.Get(routed.TargetId)
	if conn == nil {
		return
	}
	message, err := encodeEnvelope(routed.Event, routed.Data)
	if err != nil {
		zap.L().Error("下行事件编码失败", zap.String("event", routed.Event), zap.Error(err))
		return
	}
	conn.Enqueue(message)
}
