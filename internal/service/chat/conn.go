// Package chat 实现了聊天系统的实时核心
// conn.go
// 核心职责：封装单条 WebSocket 连接的读写协程
// 读协程解析上行 Envelope 交给分发回调，写协程消费 Send 通道
package chat

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"pulse_chat_server/pkg/constants"
)

// UserConn 表示一个 WebSocket 客户端连接
type UserConn struct {
	Conn *websocket.Conn
	Uuid string
	// Send 下行消息缓冲通道，由写协程消费
	// 永不 close：路由循环可能正在向已断开的连接投递
	Send chan []byte
	// done 关闭后写协程退出
	done chan struct{}

	mu     sync.Mutex
	closed bool
}

// NewUserConn 封装已升级的 WebSocket 连接
func NewUserConn(conn *websocket.Conn, uuid string) *UserConn {
	return &UserConn{
		Conn: conn,
		Uuid: uuid,
		Send: make(chan []byte, constants.CHANNEL_SIZE),
		done: make(chan struct{}),
	}
}

// Enqueue 非阻塞投递下行消息，通道满时丢弃返回 false
// 慢客户端不允许拖垮路由循环；连接已关闭时消息直接丢弃
func (c *UserConn) Enqueue(message []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.Send <- message:
		return true
	default:
		zap.L().Warn("ws send channel full, dropping event", zap.String("uuid", c.Uuid))
		return false
	}
}

// ReadLoop 从 WebSocket 读取上行消息并逐条交给 handle
// 连接出错或对端关闭时返回，清理由调用方完成
func (c *UserConn) ReadLoop(handle func(env Envelope)) {
	for {
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				zap.L().Error("ws read failed", zap.String("uuid", c.Uuid), zap.Error(err))
			}
			return
		}
		var env Envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			zap.L().Error("ws malformed envelope", zap.String("uuid", c.Uuid), zap.Error(err))
			continue
		}
		handle(env)
	}
}

// WriteLoop 从 Send 通道读取消息并发送给 WebSocket
// Close 之后退出，通道里残留的消息随连接一起丢弃
func (c *UserConn) WriteLoop() {
	for {
		select {
		case message := <-c.Send:
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				zap.L().Error("ws write failed", zap.String("uuid", c.Uuid), zap.Error(err))
				return
			}
		case <-c.done:
			return
		}
	}
}

// Close 关闭底层连接并通知写协程退出，可安全重复调用
func (c *UserConn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.mu.Unlock()

	close(c.done)
	if c.Conn != nil {
		if err := c.Conn.Close(); err != nil {
			zap.L().Debug("ws close", zap.String("uuid", c.Uuid), zap.Error(err))
		}
	}
}
