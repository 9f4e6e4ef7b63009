package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnqueueAfterCloseIsDiscarded(t *testing.T) {
	conn := NewUserConn(nil, "U0000000000000000001")
	conn.Close()

	// 断开瞬间仍在路由的事件只是投递失败，不能炸掉分发循环
	assert.NotPanics(t, func() {
		assert.False(t, conn.Enqueue([]byte(`{"event":"newMessage"}`)))
	})
}

func TestCloseIsIdempotent(t *testing.T) {
	conn := NewUserConn(nil, "U0000000000000000001")
	assert.NotPanics(t, func() {
		conn.Close()
		conn.Close()
	})
}

func TestEnqueueDropsWhenBufferFull(t *testing.T) {
	conn := NewUserConn(nil, "U0000000000000000001")
	for i := 0; i < cap(conn.Send); i++ {
		require.True(t, conn.Enqueue([]byte("x")))
	}
	assert.False(t, conn.Enqueue([]byte("overflow")))
}
