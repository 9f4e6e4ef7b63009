package handler

import (
	"github.com/gin-gonic/gin"

	"pulse_chat_server/internal/dto/request"
	"pulse_chat_server/internal/service"
)

// AdminHandler 管理后台请求处理器
type AdminHandler struct {
	svc service.AdminService
}

func NewAdminHandler(svc service.AdminService) *AdminHandler {
	return &AdminHandler{svc: svc}
}

// PublishVersion 发布客户端版本
// POST /admin/publishVersion
func (h *AdminHandler) PublishVersion(c *gin.Context) {
	var req request.PublishVersionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if err := h.svc.PublishVersion(req); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// ResetUserPassword 重置用户密码
// POST /admin/resetUserPassword
func (h *AdminHandler) ResetUserPassword(c *gin.Context) {
	var req request.ResetUserPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if err := h.svc.ResetUserPassword(req); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// ListUsers 用户列表
// GET /admin/users
func (h *AdminHandler) ListUsers(c *gin.Context) {
	data, err := h.svc.ListUsers(c.Query("keyword"))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}
