package respond

// ReactionRespond 单条消息上的一个用户反应
type ReactionRespond struct {
	UserUuid string `json:"user_uuid"`
	Emoji    string `json:"emoji"`
}

// MessageRespond 消息响应
// MessageId 为雪花 ID 的十进制字符串，避免 JS 精度丢失
// 使用位置:
//   - internal/service/message/service.go: SendMessage, GetDirectMessages, GetGroupMessages
//   - internal/service/chat 事件载荷
type MessageRespond struct {
	MessageId  string            `json:"message_id"`
	SenderId   string            `json:"sender_id"`
	ReceiverId string            `json:"receiver_id,omitempty"`
	GroupUuid  string            `json:"group_uuid,omitempty"`
	Text       string            `json:"text,omitempty"`
	ImageUrl   string            `json:"image_url,omitempty"`
	AudioUrl   string            `json:"audio_url,omitempty"`
	Status     string            `json:"status"`
	SeenAt     string            `json:"seen_at,omitempty"`
	Reactions  []ReactionRespond `json:"reactions"`
	CreatedAt  string            `json:"created_at"`
}
