// Package handler 提供 HTTP 请求处理器
// 本文件处理群组相关的 API 请求
package handler

import (
	"github.com/gin-gonic/gin"

	"pulse_chat_server/internal/dto/request"
	"pulse_chat_server/internal/infrastructure/middleware"
	"pulse_chat_server/internal/service"
)

// GroupHandler 群组请求处理器
type GroupHandler struct {
	svc service.GroupService
}

// NewGroupHandler 构造函数
func NewGroupHandler(svc service.GroupService) *GroupHandler {
	return &GroupHandler{svc: svc}
}

// CreateGroup 创建群组
// POST /group/create
// 响应: respond.GroupRespond
func (h *GroupHandler) CreateGroup(c *gin.Context) {
	var req request.CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.svc.CreateGroup(middleware.GetUserID(c), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// GetMyGroups 我加入的群组列表
// GET /group/myGroups
// 响应: []respond.GroupRespond
func (h *GroupHandler) GetMyGroups(c *gin.Context) {
	data, err := h.svc.GetMyGroups(middleware.GetUserID(c))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// GetGroupMembers 群成员列表
// GET /group/members/:groupUuid
// 响应: []respond.UserInfoRespond
func (h *GroupHandler) GetGroupMembers(c *gin.Context) {
	data, err := h.svc.GetGroupMembers(middleware.GetUserID(c), c.Param("groupUuid"))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// UpdateGroup 修改群名
// POST /group/update
func (h *GroupHandler) UpdateGroup(c *gin.Context) {
	var req request.UpdateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if err := h.svc.UpdateGroup(middleware.GetUserID(c), req); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// AddMember 添加群成员
// POST /group/addMember
func (h *GroupHandler) AddMember(c *gin.Context) {
	var req request.GroupMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if err := h.svc.AddMember(middleware.GetUserID(c), req); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// RemoveMember 移除群成员
// POST /group/removeMember
func (h *GroupHandler) RemoveMember(c *gin.Context) {
	var req request.GroupMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if err := h.svc.RemoveMember(middleware.GetUserID(c), req); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// LeaveGroup 退出群组
// POST /group/leave
func (h *GroupHandler) LeaveGroup(c *gin.Context) {
	var req request.LeaveGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if err := h.svc.LeaveGroup(middleware.GetUserID(c), req.GroupUuid); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}
