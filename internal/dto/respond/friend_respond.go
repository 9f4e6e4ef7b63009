package respond

// FriendRequestRespond 好友申请响应
// 使用位置:
//   - internal/service/friend/service.go: SendFriendRequest, GetPendingRequests
type FriendRequestRespond struct {
	Uuid           string `json:"uuid"`
	SenderId       string `json:"sender_id"`
	SenderName     string `json:"sender_name"`
	SenderAvatar   string `json:"sender_avatar"`
	ReceiverId     string `json:"receiver_id"`
	ReceiverName   string `json:"receiver_name,omitempty"`
	ReceiverAvatar string `json:"receiver_avatar,omitempty"`
	Status         string `json:"status"`
	CreatedAt      string `json:"created_at"`
}

// FriendRespond 好友列表项，附带最近一条单聊消息用于会话排序
// 使用位置:
//   - internal/service/friend/service.go: GetFriendList
type FriendRespond struct {
	UserInfoRespond
	LastMessage   string `json:"last_message,omitempty"`
	LastMessageAt string `json:"last_message_at,omitempty"`
	LastSenderId  string `json:"last_sender_id,omitempty"`
}
