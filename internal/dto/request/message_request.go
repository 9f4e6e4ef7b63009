package request

// SendMessageRequest 发送消息请求
// ReceiverId 和 GroupUuid 二者有且仅有其一
// 使用位置:
//   - internal/handler/message_handler.go: SendMessage
//   - internal/service/message/service.go: SendMessage
type SendMessageRequest struct {
	ReceiverId string `json:"receiver_id" binding:"omitempty,len=20"`
	GroupUuid  string `json:"group_uuid" binding:"omitempty,len=20"`
	Text       string `json:"text" binding:"omitempty,max=5000"`
	ImageUrl   string `json:"image_url" binding:"omitempty,max=255"`
	AudioUrl   string `json:"audio_url" binding:"omitempty,max=255"`
}

// ReactionRequest 消息反应请求
// MessageId 为雪花 ID 的十进制字符串，避免 JS 精度丢失
type ReactionRequest struct {
	MessageId string `json:"message_id" binding:"required"`
	Emoji     string `json:"emoji" binding:"required,max=20"`
}

// MessageIdRequest 按消息 ID 操作的通用请求（撤回、移除反应、仅对我删除）
type MessageIdRequest struct {
	MessageId string `json:"message_id" binding:"required"`
}

// MarkSeenRequest 标记已读请求，将对方发来的全部未读消息置为已读
type MarkSeenRequest struct {
	SenderId string `json:"sender_id" binding:"required,len=20"`
}

// DeleteConversationRequest 删除单聊会话全部消息请求
type DeleteConversationRequest struct {
	PeerId string `json:"peer_id" binding:"required,len=20"`
}
