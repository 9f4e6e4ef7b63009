package handler

import (
	"github.com/gin-gonic/gin"

	"pulse_chat_server/internal/service/chat"
)

// WsHandler WebSocket 接入处理器
type WsHandler struct {
	server *chat.ChatServer
}

func NewWsHandler(server *chat.ChatServer) *WsHandler {
	return &WsHandler{server: server}
}

// Connect 建立 WebSocket 连接
// GET /ws?token=<access_token>
func (h *WsHandler) Connect(c *gin.Context) {
	h.server.Gateway.HandleConnection(c)
}
