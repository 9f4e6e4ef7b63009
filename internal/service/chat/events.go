// Package chat 实现了聊天系统的实时核心
// events.go
// 核心职责：定义 WebSocket 事件名、线格式和事件载荷
// 事件名与载荷字段构成与前端的契约，改名即破坏兼容
package chat

import "encoding/json"

// 服务端下行事件
const (
	// EventOnlineUsers 在线用户列表，整体替换语义
	EventOnlineUsers = "getOnlineUsers"
	// EventNewMessage 新消息，载荷为完整消息对象
	EventNewMessage = "newMessage"
	// EventMessageReaction 反应变更，emoji 为 null 表示移除
	EventMessageReaction = "messageReaction"
	// EventMessageUnsent 消息被撤回
	EventMessageUnsent = "messageUnsent"
	// EventTyping 对方开始输入
	EventTyping = "typing"
	// EventStopTyping 对方停止输入
	EventStopTyping = "stopTyping"
	// EventMessagesSeen 消息被对方读取
	EventMessagesSeen = "messagesSeen"
	// EventNewFriendRequest 收到好友申请
	EventNewFriendRequest = "newFriendRequest"
	// EventFriendRequestAccepted 好友申请被接受
	EventFriendRequestAccepted = "friendRequestAccepted"
)

// 客户端上行事件
const (
	// EventMarkMessagesAsSeen 标记某人发来的消息为已读
	EventMarkMessagesAsSeen = "markMessagesAsSeen"
)

// Envelope WebSocket 线格式，上下行统一为 {"event":..., "data":...}
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// routedEvent Broker 传输格式，在 Envelope 之外携带路由目标
// 经 Kafka 时该结构在实例间序列化传输
type routedEvent struct {
	TargetId string          `json:"target_id"`
	Event    string          `json:"event"`
	Data     json.RawMessage `json:"data"`
}

// encodeEnvelope 将事件和载荷编码为下行线格式
func encodeEnvelope(event string, data json.RawMessage) ([]byte, error) {
	return json.Marshal(Envelope{Event: event, Data: data})
}

// TypingPayload typing/stopTyping 下行载荷
type TypingPayload struct {
	SenderId string `json:"senderId"`
}

// ClientTypingPayload typing/stopTyping 上行载荷
type ClientTypingPayload struct {
	ReceiverId string `json:"receiverId"`
}

// MessagesSeenPayload messagesSeen 下行载荷，ReceiverId 为读取方
type MessagesSeenPayload struct {
	ReceiverId string `json:"receiverId"`
}

// MarkSeenPayload markMessagesAsSeen 上行载荷，SenderId 为消息发送方
type MarkSeenPayload struct {
	SenderId string `json:"senderId"`
}

// ReactionPayload messageReaction 下行载荷，Emoji 为 nil 表示移除
type ReactionPayload struct {
	MessageId string  `json:"messageId"`
	UserId    string  `json:"userId"`
	Emoji     *string `json:"emoji"`
}

// UnsentPayload messageUnsent 下行载荷
type UnsentPayload struct {
	MessageId string `json:"messageId"`
}

// FriendRequestAcceptedPayload friendRequestAccepted 下行载荷
type FriendRequestAcceptedPayload struct {
	AccepterName string `json:"accepterName"`
	AccepterId   string `json:"accepterId"`
}
