// Package chat 实现了聊天系统的实时核心
// gateway.go
// 核心职责：WebSocket 连接生命周期管理
// 1. 握手鉴权 (Access Token) 并升级连接
// 2. 注册会话目录，同用户重复连接时挤掉旧连接
// 3. 分发上行事件 (typing / markMessagesAsSeen)
// 4. 断开时注销目录、落库 last_active 并广播在线列表
package chat

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"pulse_chat_server/internal/dao/mysql/repository"
	"pulse_chat_server/pkg/errorx"
	"pulse_chat_server/pkg/util/jwt"
)

// SeenMarker 已读标记入口，由消息服务实现
// 实现方必须先完成持久化再向消息发送方发事件
type SeenMarker interface {
	MarkSeen(viewerId, senderId string) error
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  2048,
	WriteBufferSize: 2048,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Gateway WebSocket 接入网关
type Gateway struct {
	directory *SessionDirectory
	router    *EventRouter
	presence  *PresencePublisher
	userRepo  repository.UserRepository
	seen      SeenMarker
}

// NewGateway 创建接入网关，SeenMarker 由 SetSeenMarker 延迟注入
func NewGateway(directory *SessionDirectory, router *EventRouter,
	presence *PresencePublisher, userRepo repository.UserRepository) *Gateway {
	return &Gateway{
		directory: directory,
		router:    router,
		presence:  presence,
		userRepo:  userRepo,
	}
}

// SetSeenMarker 注入已读标记实现
// 消息服务依赖路由器，网关又依赖消息服务，组装时分两步接线
func (g *Gateway) SetSeenMarker(seen SeenMarker) {
	g.seen = seen
}

// HandleConnection WebSocket 握手入口
// 握手不走 JWT 中间件，token 由 query 参数携带并在此校验
func (g *Gateway) HandleConnection(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"code": errorx.CodeUnauthorized,
			"msg":  "缺少 token",
		})
		return
	}
	claims, err := jwt.ParseToken(token)
	if err != nil || claims.Subject != jwt.SubjectAccess {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"code": errorx.CodeUnauthorized,
			"msg":  "Token 已过期或无效",
		})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		zap.L().Error("ws upgrade failed", zap.Error(err))
		return
	}

	client := NewUserConn(conn, claims.UserID)
	// 后连接生效，旧连接被挤下线
	if prev := g.directory.Register(client); prev != nil {
		zap.L().Info("superseding previous connection", zap.String("uuid", client.Uuid))
		prev.Close()
	}

	go client.WriteLoop()
	go g.readPump(client)

	g.presence.Broadcast()
	zap.L().Info("ws连接成功", zap.String("uuid", client.Uuid))
}

// readPump 驱动读循环，退出即进入连接清理
func (g *Gateway) readPump(client *UserConn) {
	defer g.teardown(client)
	client.ReadLoop(func(env Envelope) {
		g.dispatch(client, env)
	})
}

// dispatch 处理上行事件
// typing 类事件为纯转发，已读标记先持久化再由消息服务发事件
func (g *Gateway) dispatch(client *UserConn, env Envelope) {
	switch env.Event {
	case EventTyping, EventStopTyping:
		var payload ClientTypingPayload
		if err := json.Unmarshal(env.Data, &payload); err != nil || payload.ReceiverId == "" {
			zap.L().Error("typing 载荷非法", zap.String("uuid", client.Uuid))
			return
		}
		if err := g.router.EmitToUser(payload.ReceiverId, env.Event,
			TypingPayload{SenderId: client.Uuid}); err != nil {
			zap.L().Error("typing 转发失败", zap.Error(err))
		}
	case EventMarkMessagesAsSeen:
		var payload MarkSeenPayload
		if err := json.Unmarshal(env.Data, &payload); err != nil || payload.SenderId == "" {
			zap.L().Error("markMessagesAsSeen 载荷非法", zap.String("uuid", client.Uuid))
			return
		}
		if g.seen == nil {
			return
		}
		if err := g.seen.MarkSeen(client.Uuid, payload.SenderId); err != nil {
			zap.L().Error("标记已读失败", zap.String("viewer", client.Uuid),
				zap.String("sender", payload.SenderId), zap.Error(err))
		}
	default:
		zap.L().Warn("未知上行事件", zap.String("event", env.Event), zap.String("uuid", client.Uuid))
	}
}

// teardown 连接退出清理
// 比较后注销：被挤下线的旧连接不会误删新连接的注册，
// 也不会触发多余的离线广播和 last_active 回写
func (g *Gateway) teardown(client *UserConn) {
	deregistered := g.directory.Deregister(client)
	client.Close()
	if !deregistered {
		return
	}
	if err := g.userRepo.UpdateLastActive(client.Uuid, time.Now()); err != nil {
		zap.L().Error("回写 last_active 失败", zap.String("uuid", client.Uuid), zap.Error(err))
	}
	g.presence.Broadcast()
	zap.L().Info("ws连接断开", zap.String("uuid", client.Uuid))
}
