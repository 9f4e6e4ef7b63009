package request

// SendFriendRequestRequest 发送好友申请请求
// 使用位置:
//   - internal/handler/friend_handler.go: SendFriendRequest
//   - internal/service/friend/service.go: SendFriendRequest
type SendFriendRequestRequest struct {
	ReceiverId string `json:"receiver_id" binding:"required,len=20"`
}

// HandleFriendRequestRequest 处理好友申请（接受/拒绝）请求
type HandleFriendRequestRequest struct {
	RequestUuid string `json:"request_uuid" binding:"required"`
}

// RemoveFriendRequest 删除好友请求
type RemoveFriendRequest struct {
	FriendId string `json:"friend_id" binding:"required,len=20"`
}

// BlockUserRequest 拉黑/取消拉黑请求
type BlockUserRequest struct {
	TargetId string `json:"target_id" binding:"required,len=20"`
}
