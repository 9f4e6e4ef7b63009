package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestConn(uuid string) *UserConn {
	return NewUserConn(nil, uuid)
}

func TestRegisterReplacesPrevious(t *testing.T) {
	d := NewSessionDirectory()

	first := newTestConn("U0000000000000000001")
	assert.Nil(t, d.Register(first))

	// 同一用户重复连接，旧连接被返回等待调用方关闭
	second := newTestConn("U0000000000000000001")
	prev := d.Register(second)
	assert.Same(t, first, prev)
	assert.Same(t, second, d.Get("U0000000000000000001"))
	assert.Equal(t, 1, d.Count())
}

func TestDeregisterOnlyRemovesOwnEntry(t *testing.T) {
	d := NewSessionDirectory()

	stale := newTestConn("U0000000000000000001")
	d.Register(stale)
	fresh := newTestConn("U0000000000000000001")
	d.Register(fresh)

	// 被挤下线的旧连接延迟清理，不能误删新连接的注册
	assert.False(t, d.Deregister(stale))
	assert.Same(t, fresh, d.Get("U0000000000000000001"))

	assert.True(t, d.Deregister(fresh))
	assert.Nil(t, d.Get("U0000000000000000001"))
	assert.Equal(t, 0, d.Count())
}

func TestOnlineUuidsSnapshot(t *testing.T) {
	d := NewSessionDirectory()
	d.Register(newTestConn("U0000000000000000001"))
	d.Register(newTestConn("U0000000000000000002"))

	uuids := d.OnlineUuids()
	assert.ElementsMatch(t, []string{"U0000000000000000001", "U0000000000000000002"}, uuids)
}
