package request

// CreateGroupRequest 创建群组请求
// 使用位置:
//   - internal/handler/group_handler.go: CreateGroup
//   - internal/service/group/service.go: CreateGroup
type CreateGroupRequest struct {
	Name      string   `json:"name" binding:"required,min=1,max=50"`
	MemberIds []string `json:"member_ids" binding:"required,min=1,dive,len=20"`
}

// UpdateGroupRequest 更新群信息请求，仅群主可用
type UpdateGroupRequest struct {
	GroupUuid string `json:"group_uuid" binding:"required,len=20"`
	Name      string `json:"name" binding:"required,min=1,max=50"`
}

// GroupMemberRequest 添加/移除群成员请求
type GroupMemberRequest struct {
	GroupUuid string `json:"group_uuid" binding:"required,len=20"`
	UserUuid  string `json:"user_uuid" binding:"required,len=20"`
}

// LeaveGroupRequest 退出群组请求
type LeaveGroupRequest struct {
	GroupUuid string `json:"group_uuid" binding:"required,len=20"`
}
