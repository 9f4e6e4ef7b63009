package chat

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// syncBroker 进程内同步代理，发布即投递，便于断言
type syncBroker struct {
	handle    func([]byte)
	published [][]byte
}

func (b *syncBroker) Publish(_ context.Context, msg []byte) error {
	b.published = append(b.published, msg)
	if b.handle != nil {
		b.handle(msg)
	}
	return nil
}

func (b *syncBroker) Start(handle func(msg []byte)) { b.handle = handle }

func (b *syncBroker) Close() {}

type staticGroupResolver map[string][]string

func (r staticGroupResolver) FindMemberUuids(groupUuid string) ([]string, error) {
	return r[groupUuid], nil
}

func newTestRouter(groups staticGroupResolver) (*SessionDirectory, *EventRouter) {
	directory := NewSessionDirectory()
	broker := &syncBroker{}
	router := NewEventRouter(directory, broker, groups)
	broker.Start(router.HandleTransport)
	return directory, router
}

// drain 取出连接收到的全部下行消息并解析
func drain(t *testing.T, conn *UserConn) []Envelope {
	t.Helper()
	var envs []Envelope
	for {
		select {
		case raw := <-conn.Send:
			var env Envelope
			require.NoError(t, json.Unmarshal(raw, &env))
			envs = append(envs, env)
		default:
			return envs
		}
	}
}

func TestEmitToUserDeliversWhenOnline(t *testing.T) {
	directory, router := newTestRouter(nil)
	conn := newTestConn("U0000000000000000001")
	directory.Register(conn)

	err := router.EmitToUser("U0000000000000000001", EventTyping, TypingPayload{SenderId: "U0000000000000000002"})
	require.NoError(t, err)

	envs := drain(t, conn)
	require.Len(t, envs, 1)
	assert.Equal(t, EventTyping, envs[0].Event)

	var payload TypingPayload
	require.NoError(t, json.Unmarshal(envs[0].Data, &payload))
	assert.Equal(t, "U0000000000000000002", payload.SenderId)
}

func TestEmitToUserOfflineIsSilent(t *testing.T) {
	_, router := newTestRouter(nil)

	// 目标离线：发布成功，事件在投递侧被丢弃
	err := router.EmitToUser("U0000000000000000009", EventTyping, TypingPayload{SenderId: "U0000000000000000001"})
	assert.NoError(t, err)
}

func TestEmitToGroupExcludesActor(t *testing.T) {
	groups := staticGroupResolver{
		"G0000000000000000001": {"U0000000000000000001", "U0000000000000000002", "U0000000000000000003"},
	}
	directory, router := newTestRouter(groups)

	actor := newTestConn("U0000000000000000001")
	member2 := newTestConn("U0000000000000000002")
	member3 := newTestConn("U0000000000000000003")
	directory.Register(actor)
	directory.Register(member2)
	directory.Register(member3)

	err := router.EmitToGroup("G0000000000000000001", "U0000000000000000001", EventMessageUnsent,
		UnsentPayload{MessageId: "42"})
	require.NoError(t, err)

	assert.Empty(t, drain(t, actor))
	require.Len(t, drain(t, member2), 1)
	require.Len(t, drain(t, member3), 1)
}

func TestPresenceBroadcastSendsFullList(t *testing.T) {
	directory, router := newTestRouter(nil)
	presence := NewPresencePublisher(directory, router)

	alice := newTestConn("U0000000000000000001")
	bob := newTestConn("U0000000000000000002")
	directory.Register(alice)
	directory.Register(bob)

	presence.Broadcast()

	for _, conn := range []*UserConn{alice, bob} {
		envs := drain(t, conn)
		require.Len(t, envs, 1)
		assert.Equal(t, EventOnlineUsers, envs[0].Event)

		var uuids []string
		require.NoError(t, json.Unmarshal(envs[0].Data, &uuids))
		assert.ElementsMatch(t, []string{"U0000000000000000001", "U0000000000000000002"}, uuids)
	}
}

func TestHandleTransportIgnoresMalformed(t *testing.T) {
	directory, router := newTestRouter(nil)
	conn := newTestConn("U0000000000000000001")
	directory.Register(conn)

	router.HandleTransport([]byte("not json"))
	assert.Empty(t, drain(t, conn))
}
