package model

import "gorm.io/gorm"

// Friendship 好友关系
// 关系恒为对称：A-B 成为好友时同一事务内写入 (A,B) 和 (B,A) 两行
type Friendship struct {
	gorm.Model
	UserId   string `gorm:"column:user_id;index:idx_friend_pair,unique;type:char(20);not null;comment:用户uuid"`
	FriendId string `gorm:"column:friend_id;index:idx_friend_pair,unique;type:char(20);not null;comment:好友uuid"`
}

func (Friendship) TableName() string {
	return "friendship"
}

// UserBlock 拉黑关系，单向
type UserBlock struct {
	gorm.Model
	UserId    string `gorm:"column:user_id;index:idx_block_pair,unique;type:char(20);not null;comment:用户uuid"`
	BlockedId string `gorm:"column:blocked_id;index:idx_block_pair,unique;type:char(20);not null;comment:被拉黑用户uuid"`
}

func (UserBlock) TableName() string {
	return "user_block"
}
