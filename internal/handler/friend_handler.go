// Package handler 提供 HTTP 请求处理器
// 本文件处理好友相关的 API 请求
package handler

import (
	"github.com/gin-gonic/gin"

	"pulse_chat_server/internal/dto/request"
	"pulse_chat_server/internal/infrastructure/middleware"
	"pulse_chat_server/internal/service"
)

// FriendHandler 好友请求处理器
type FriendHandler struct {
	svc service.FriendService
}

// NewFriendHandler 构造函数
func NewFriendHandler(svc service.FriendService) *FriendHandler {
	return &FriendHandler{svc: svc}
}

// SendFriendRequest 发送好友申请
// POST /friend/sendRequest
// 响应: respond.FriendRequestRespond
func (h *FriendHandler) SendFriendRequest(c *gin.Context) {
	var req request.SendFriendRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.svc.SendFriendRequest(middleware.GetUserID(c), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// AcceptFriendRequest 接受好友申请
// POST /friend/acceptRequest
func (h *FriendHandler) AcceptFriendRequest(c *gin.Context) {
	var req request.HandleFriendRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if err := h.svc.AcceptFriendRequest(middleware.GetUserID(c), req.RequestUuid); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// RejectFriendRequest 拒绝好友申请
// POST /friend/rejectRequest
func (h *FriendHandler) RejectFriendRequest(c *gin.Context) {
	var req request.HandleFriendRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if err := h.svc.RejectFriendRequest(middleware.GetUserID(c), req.RequestUuid); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// CancelFriendRequest 撤回好友申请
// POST /friend/cancelRequest
func (h *FriendHandler) CancelFriendRequest(c *gin.Context) {
	var req request.HandleFriendRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if err := h.svc.CancelFriendRequest(middleware.GetUserID(c), req.RequestUuid); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// GetPendingRequests 我收到的待处理申请
// GET /friend/pendingRequests
// 响应: []respond.FriendRequestRespond
func (h *FriendHandler) GetPendingRequests(c *gin.Context) {
	data, err := h.svc.GetPendingRequests(middleware.GetUserID(c))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// GetSentRequests 我发出的待处理申请
// GET /friend/sentRequests
// 响应: []respond.FriendRequestRespond
func (h *FriendHandler) GetSentRequests(c *gin.Context) {
	data, err := h.svc.GetSentRequests(middleware.GetUserID(c))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// GetFriendList 好友列表
// GET /friend/list
// 响应: []respond.FriendRespond
func (h *FriendHandler) GetFriendList(c *gin.Context) {
	data, err := h.svc.GetFriendList(middleware.GetUserID(c))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// RemoveFriend 删除好友
// POST /friend/remove
func (h *FriendHandler) RemoveFriend(c *gin.Context) {
	var req request.RemoveFriendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if err := h.svc.RemoveFriend(middleware.GetUserID(c), req.FriendId); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// BlockUser 拉黑用户
// POST /friend/block
func (h *FriendHandler) BlockUser(c *gin.Context) {
	var req request.BlockUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if err := h.svc.BlockUser(middleware.GetUserID(c), req.TargetId); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// UnblockUser 取消拉黑
// POST /friend/unblock
func (h *FriendHandler) UnblockUser(c *gin.Context) {
	var req request.BlockUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if err := h.svc.UnblockUser(middleware.GetUserID(c), req.TargetId); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// GetBlockedUsers 我拉黑的用户列表
// GET /friend/blocked
// 响应: []respond.UserInfoRespond
func (h *FriendHandler) GetBlockedUsers(c *gin.Context) {
	data, err := h.svc.GetBlockedUsers(middleware.GetUserID(c))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}
