package respond

// GroupRespond 群组信息响应
// 使用位置:
//   - internal/service/group/service.go: CreateGroup, GetMyGroups
type GroupRespond struct {
	Uuid        string `json:"uuid"`
	Name        string `json:"name"`
	OwnerId     string `json:"owner_id"`
	MemberCount int    `json:"member_count"`
	CreatedAt   string `json:"created_at"`
}
