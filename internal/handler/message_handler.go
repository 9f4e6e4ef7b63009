// 本文件处理消息相关的 API 请求
package handler

import (
	"github.com/gin-gonic/gin"

	"pulse_chat_server/internal/dto/request"
	"pulse_chat_server/internal/infrastructure/middleware"
	"pulse_chat_server/internal/service"
)

// MessageHandler 消息请求处理器
type MessageHandler struct {
	svc service.MessageService
}

// NewMessageHandler 构造函数
func NewMessageHandler(svc service.MessageService) *MessageHandler {
	return &MessageHandler{svc: svc}
}

// SendMessage 发送消息
// POST /message/send
// 响应: respond.MessageRespond
func (h *MessageHandler) SendMessage(c *gin.Context) {
	var req request.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.svc.SendMessage(middleware.GetUserID(c), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// GetDirectMessages 拉取单聊历史
// GET /message/direct/:peerId
// 响应: []respond.MessageRespond
func (h *MessageHandler) GetDirectMessages(c *gin.Context) {
	data, err := h.svc.GetDirectMessages(middleware.GetUserID(c), c.Param("peerId"))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// GetGroupMessages 拉取群聊历史
// GET /message/group/:groupUuid
// 响应: []respond.MessageRespond
func (h *MessageHandler) GetGroupMessages(c *gin.Context) {
	data, err := h.svc.GetGroupMessages(middleware.GetUserID(c), c.Param("groupUuid"))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// ReactToMessage 设置表情反应
// POST /message/react
func (h *MessageHandler) ReactToMessage(c *gin.Context) {
	var req request.ReactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if err := h.svc.ReactToMessage(middleware.GetUserID(c), req); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// RemoveReaction 移除表情反应
// POST /message/removeReaction
func (h *MessageHandler) RemoveReaction(c *gin.Context) {
	var req request.MessageIdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if err := h.svc.RemoveReaction(middleware.GetUserID(c), req.MessageId); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// UnsendMessage 撤回消息
// POST /message/unsend
func (h *MessageHandler) UnsendMessage(c *gin.Context) {
	var req request.MessageIdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if err := h.svc.UnsendMessage(middleware.GetUserID(c), req.MessageId); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// HideMessage 仅对我删除
// POST /message/hide
func (h *MessageHandler) HideMessage(c *gin.Context) {
	var req request.MessageIdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if err := h.svc.HideMessage(middleware.GetUserID(c), req.MessageId); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// MarkSeen 标记某人发来的消息为已读
// POST /message/markSeen
func (h *MessageHandler) MarkSeen(c *gin.Context) {
	var req request.MarkSeenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if err := h.svc.MarkSeen(middleware.GetUserID(c), req.SenderId); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// DeleteConversation 删除与某人的全部聊天记录
// POST /message/deleteConversation
func (h *MessageHandler) DeleteConversation(c *gin.Context) {
	var req request.DeleteConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if err := h.svc.DeleteConversation(middleware.GetUserID(c), req.PeerId); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}
