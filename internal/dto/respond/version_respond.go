package respond

// AppVersionRespond 客户端版本信息响应
// 使用位置:
//   - internal/service/version/service.go: GetLatestVersion
type AppVersionRespond struct {
	Version      string `json:"version"`
	DownloadUrl  string `json:"download_url"`
	ReleaseNotes string `json:"release_notes"`
	ForceUpdate  bool   `json:"force_update"`
	ReleasedAt   string `json:"released_at"`
}
