package respond

// RegisterRespond 注册响应，注册后需邮箱验证才能登录
// 使用位置:
//   - internal/service/auth/service.go: Register
type RegisterRespond struct {
	Uuid  string `json:"uuid"`
	Email string `json:"email"`
}

// LoginRespond 登录响应
// 使用位置:
//   - internal/service/auth/service.go: Login
type LoginRespond struct {
	Uuid            string `json:"uuid"`
	FullName        string `json:"full_name"`
	Email           string `json:"email"`
	Avatar          string `json:"avatar"`
	EmailVisibility string `json:"email_visibility"`
	IsAdmin         int8   `json:"is_admin"`
	CreatedAt       string `json:"created_at"`
	AccessToken     string `json:"access_token"`
	RefreshToken    string `json:"refresh_token"`
	// Restored 为 true 表示本次登录自动恢复了处于宽限期内的注销账号
	Restored bool `json:"restored,omitempty"`
}

// TokenRespond 刷新令牌响应
type TokenRespond struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}
