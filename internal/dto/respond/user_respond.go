package respond

// UserInfoRespond 用户信息响应
// Email 按用户的可见性设置过滤，不可见时为空串
// 使用位置:
//   - internal/service/auth/service.go: GetProfile, SearchUsers
//   - internal/service/friend/service.go: GetFriendList
type UserInfoRespond struct {
	Uuid            string `json:"uuid"`
	FullName        string `json:"full_name"`
	Email           string `json:"email,omitempty"`
	Avatar          string `json:"avatar"`
	EmailVisibility string `json:"email_visibility"`
	LastActiveAt    string `json:"last_active_at"`
	CreatedAt       string `json:"created_at"`
}
