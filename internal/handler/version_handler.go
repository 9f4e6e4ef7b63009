package handler

import (
	"github.com/gin-gonic/gin"

	"pulse_chat_server/internal/service"
)

// VersionHandler 版本检查请求处理器
type VersionHandler struct {
	svc service.VersionService
}

func NewVersionHandler(svc service.VersionService) *VersionHandler {
	return &VersionHandler{svc: svc}
}

// GetLatestVersion 最新版本信息
// GET /version/latest
func (h *VersionHandler) GetLatestVersion(c *gin.Context) {
	data, err := h.svc.GetLatestVersion()
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}
