package model

import "gorm.io/gorm"

// 好友申请状态
// 不持久化"已拒绝"状态：拒绝/取消直接删行，允许立即重新申请
const (
	FriendRequestPending  int8 = iota // 申请中
	FriendRequestAccepted             // 已通过（镜像写入双方好友列表后保留记录）
)

// FriendRequest 好友申请
// 约束：同一无序 (sender, receiver) 对至多存在一条 pending 记录，
// 由创建前的双向查询保证
type FriendRequest struct {
	gorm.Model
	Uuid       string `gorm:"column:uuid;uniqueIndex;type:char(20);comment:申请id"`
	SenderId   string `gorm:"column:sender_id;index;type:char(20);not null;comment:申请人uuid"`
	ReceiverId string `gorm:"column:receiver_id;index;type:char(20);not null;comment:接收人uuid"`
	Status     int8   `gorm:"column:status;not null;comment:申请状态，0.申请中，1.已通过"`
}

func (FriendRequest) TableName() string {
	return "friend_request"
}
