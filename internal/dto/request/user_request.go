package request

// UpdateProfileRequest 更新个人资料请求
// 使用位置:
//   - internal/handler/auth_handler.go: UpdateProfile
//   - internal/service/auth/service.go: UpdateProfile
type UpdateProfileRequest struct {
	FullName        string `json:"full_name" binding:"omitempty,min=2,max=50"`
	Avatar          string `json:"avatar" binding:"omitempty,max=255"`
	EmailVisibility string `json:"email_visibility" binding:"omitempty,oneof=everyone friends_only only_me"`
}

// ChangePasswordRequest 修改密码请求
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required,min=6"`
	NewPassword string `json:"new_password" binding:"required,min=6"`
}

// DeleteAccountRequest 注销账号请求，需要密码二次确认
type DeleteAccountRequest struct {
	Password string `json:"password" binding:"required,min=6"`
}
