// Package chat 实现了聊天系统的实时核心
// presence.go
// 核心职责：在线状态广播
// 连接建立或断开后把完整在线列表推给所有在线用户，整体替换语义
package chat

// PresencePublisher 在线状态发布器
type PresencePublisher struct {
	directory *SessionDirectory
	router    *EventRouter
}

// NewPresencePublisher 创建在线状态发布器
func NewPresencePublisher(directory *SessionDirectory, router *EventRouter) *PresencePublisher {
	return &PresencePublisher{
		directory: directory,
		router:    router,
	}
}

// Broadcast 把当前在线用户列表广播给所有在线用户
// 列表为快照，客户端收到后整体替换本地状态
func (p *PresencePublisher) Broadcast() {
	uuids := p.directory.OnlineUuids()
	_ = p.router.EmitToUsers(uuids, EventOnlineUsers, uuids)
}
