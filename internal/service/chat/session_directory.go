// Package chat 实现了聊天系统的实时核心
// session_directory.go
// 核心职责：维护 用户uuid -> 活跃连接 的单连接映射
// 同一用户重复连接时后者生效，前者被挤下线
package chat

import "sync"

// SessionDirectory 在线会话目录
// 所有方法并发安全，一个用户在单实例上至多一条活跃连接
type SessionDirectory struct {
	mu    sync.RWMutex
	conns map[string]*UserConn
}

// NewSessionDirectory 创建空目录
func NewSessionDirectory() *SessionDirectory {
	return &SessionDirectory{
		conns: make(map[string]*UserConn),
	}
}

// Register 注册连接，返回被替换的旧连接（无则为 nil）
// 旧连接的关闭由调用方负责，目录只做映射替换
func (d *SessionDirectory) Register(conn *UserConn) *UserConn {
	d.mu.Lock()
	defer d.mu.Unlock()
	prev := d.conns[conn.Uuid]
	d.conns[conn.Uuid] = conn
	return prev
}

// Deregister 注销连接，比较后删除
// 仅当目录中记录的正是该连接时才移除，防止被挤下线的旧连接
// 的延迟清理误删新连接的注册
func (d *SessionDirectory) Deregister(conn *UserConn) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	current, ok := d.conns[conn.Uuid]
	if !ok || current != conn {
		return false
	}
	delete(d.conns, conn.Uuid)
	return true
}

// Get 查找某用户的活跃连接，离线返回 nil
func (d *SessionDirectory) Get(uuid string) *UserConn {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.conns[uuid]
}

// OnlineUuids 当前在线用户 uuid 快照
func (d *SessionDirectory) OnlineUuids() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	uuids := make([]string, 0, len(d.conns))
	for uuid := range d.conns {
		uuids = append(uuids, uuid)
	}
	return uuids
}

// Count 在线连接数
func (d *SessionDirectory) Count() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.conns)
}
