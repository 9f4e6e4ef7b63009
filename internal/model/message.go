// Package model 定义数据库实体模型
// 本文件定义消息及其附属实体（反应、按人隐藏）
package model

import (
	"database/sql"

	"gorm.io/gorm"
)

// Message 消息模型
// 单聊消息 ReceiverId 非空，群聊消息 GroupId 非空，二者有且仅有其一
// （由 Service 层入口保证）。除状态、反应和 deletedFor 外不可变；
// "撤回"是对整行的硬删除
type Message struct {
	gorm.Model

	// Uuid 消息唯一标识，雪花算法生成
	Uuid int64 `gorm:"column:uuid;uniqueIndex;type:bigint;not null;comment:消息雪花ID"`

	// SenderId 发送者 uuid
	SenderId string `gorm:"column:sender_id;index;type:char(20);not null;comment:发送者uuid"`

	// ReceiverId 单聊接收者 uuid，群聊消息为空
	ReceiverId string `gorm:"column:receiver_id;index;type:char(20);comment:接收者uuid"`

	// GroupUuid 群聊目标 uuid，单聊消息为空
	GroupUuid string `gorm:"column:group_uuid;index;type:char(20);comment:群组uuid"`

	// Text 文本内容，纯图片/语音消息可为空
	Text string `gorm:"column:text;type:TEXT;comment:消息内容"`

	// ImageUrl / AudioUrl 多媒体内容落盘后的访问路径
	ImageUrl string `gorm:"column:image_url;type:varchar(255);comment:图片url"`
	AudioUrl string `gorm:"column:audio_url;type:varchar(255);comment:语音url"`

	// Status 投递状态，0.已发送，1.已读；单向流转，不回退
	Status int8 `gorm:"column:status;not null;comment:状态，0.已发送，1.已读"`

	// SeenAt 标记已读时间
	SeenAt sql.NullTime `gorm:"column:seen_at;comment:已读时间"`
}

func (Message) TableName() string {
	return "message"
}

// MessageReaction 消息反应
// 每用户每消息至多一条，后写覆盖（upsert 实现 last-write-wins）
type MessageReaction struct {
	gorm.Model
	MessageUuid int64  `gorm:"column:message_uuid;index:idx_reaction_msg_user,unique;type:bigint;not null;comment:消息uuid"`
	UserUuid    string `gorm:"column:user_uuid;index:idx_reaction_msg_user,unique;type:char(20);not null;comment:用户uuid"`
	Emoji       string `gorm:"column:emoji;type:varchar(20);not null;comment:表情"`
}

func (MessageReaction) TableName() string {
	return "message_reaction"
}

// MessageHide 按人隐藏（“仅对我删除”）
// 行存在即该用户的历史查询不再返回此消息，消息本体不受影响
type MessageHide struct {
	gorm.Model
	MessageUuid int64  `gorm:"column:message_uuid;index:idx_hide_msg_user,unique;type:bigint;not null;comment:消息uuid"`
	UserUuid    string `gorm:"column:user_uuid;index:idx_hide_msg_user,unique;type:char(20);not null;comment:用户uuid"`
}

func (MessageHide) TableName() string {
	return "message_hide"
}
