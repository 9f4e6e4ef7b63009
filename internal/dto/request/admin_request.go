package request

// PublishVersionRequest 发布客户端版本请求，管理员接口
// 使用位置:
//   - internal/handler/admin_handler.go: PublishVersion
//   - internal/service/admin/service.go: PublishVersion
type PublishVersionRequest struct {
	Version      string `json:"version" binding:"required,max=20"`
	DownloadUrl  string `json:"download_url" binding:"required,url"`
	ReleaseNotes string `json:"release_notes" binding:"omitempty,max=2000"`
	ForceUpdate  bool   `json:"force_update"`
}

// ResetUserPasswordRequest 管理员重置用户密码请求
// 使用位置:
//   - internal/handler/admin_handler.go: ResetUserPassword
//   - internal/service/admin/service.go: ResetUserPassword
type ResetUserPasswordRequest struct {
	UserId      string `json:"user_id" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6,max=64"`
}
