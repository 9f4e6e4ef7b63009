package model

import "gorm.io/gorm"

// Group 群组模型
// 群主（admin）唯一且必为成员；群主退群未提供所有权转移路径，
// 删除群主成员的请求一律拒绝
type Group struct {
	gorm.Model
	// Uuid 格式：G + 时间戳随机字符串
	Uuid    string `gorm:"column:uuid;uniqueIndex;type:char(20);comment:群组唯一id"`
	Name    string `gorm:"column:name;type:varchar(50);not null;comment:群名称"`
	OwnerId string `gorm:"column:owner_id;index;type:char(20);not null;comment:群主uuid"`
}

func (Group) TableName() string {
	return "group_info"
}

// GroupMember 群成员关系
type GroupMember struct {
	gorm.Model
	GroupUuid string `gorm:"column:group_uuid;index:idx_group_user,unique;type:char(20);not null;comment:群组uuid"`
	UserUuid  string `gorm:"column:user_uuid;index:idx_group_user,unique;type:char(20);not null;comment:成员uuid"`
}

func (GroupMember) TableName() string {
	return "group_member"
}
