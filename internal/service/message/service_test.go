package message

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pulse_chat_server/internal/dao/mysql/repository"
	"pulse_chat_server/internal/dao/mysql/repository/memory"
	"pulse_chat_server/internal/dto/request"
	"pulse_chat_server/internal/dto/respond"
	"pulse_chat_server/internal/model"
	"pulse_chat_server/internal/service/chat"
	"pulse_chat_server/pkg/errorx"
)

type emittedEvent struct {
	Target    string // EmitToUser 的目标
	GroupUuid string // EmitToGroup 的目标群
	ActorId   string
	Event     string
	Data      interface{}
}

// captureEmitter 记录发出的事件，代替真实的事件路由
type captureEmitter struct {
	events []emittedEvent
}

func (e *captureEmitter) EmitToUser(targetId, event string, data interface{}) error {
	e.events = append(e.events, emittedEvent{Target: targetId, Event: event, Data: data})
	return nil
}

func (e *captureEmitter) EmitToGroup(groupUuid, actorId, event string, data interface{}) error {
	e.events = append(e.events, emittedEvent{GroupUuid: groupUuid, ActorId: actorId, Event: event, Data: data})
	return nil
}

const (
	alice = "U0000000000000000001"
	bob   = "U0000000000000000002"
	carol = "U0000000000000000003"
	group = "G0000000000000000001"
)

func newTestService(t *testing.T) (*messageService, *repository.Repositories, *captureEmitter) {
	t.Helper()
	repos := memory.NewRepositories()
	emitter := &captureEmitter{}
	svc := NewMessageService(repos, emitter)

	for _, uuid := range []string{alice, bob, carol} {
		require.NoError(t, repos.User.Create(&model.User{Uuid: uuid, FullName: uuid, Email: uuid + "@example.com"}))
	}
	require.NoError(t, repos.Friendship.CreatePair(alice, bob))
	require.NoError(t, repos.Group.Create(&model.Group{Uuid: group, Name: "team", OwnerId: alice}))
	for _, uuid := range []string{alice, bob, carol} {
		require.NoError(t, repos.GroupMember.Create(&model.GroupMember{GroupUuid: group, UserUuid: uuid}))
	}
	return svc, repos, emitter
}

func TestSendMessageRequiresExactlyOneTarget(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.SendMessage(alice, request.SendMessageRequest{Text: "hi"})
	assert.Equal(t, errorx.CodeInvalidParam, errorx.GetCode(err))

	_, err = svc.SendMessage(alice, request.SendMessageRequest{
		ReceiverId: bob, GroupUuid: group, Text: "hi",
	})
	assert.Equal(t, errorx.CodeInvalidParam, errorx.GetCode(err))
}

func TestSendDirectMessagePersistsThenNotifies(t *testing.T) {
	svc, repos, emitter := newTestService(t)

	rsp, err := svc.SendMessage(alice, request.SendMessageRequest{ReceiverId: bob, Text: "hello"})
	require.NoError(t, err)
	assert.Equal(t, "sent", rsp.Status)

	// 持久化可拉取
	uuid, err := strconv.ParseInt(rsp.MessageId, 10, 64)
	require.NoError(t, err)
	stored, err := repos.Message.FindByUuid(uuid)
	require.NoError(t, err)
	assert.Equal(t, "hello", stored.Text)

	// 事件只发给接收方
	require.Len(t, emitter.events, 1)
	assert.Equal(t, bob, emitter.events[0].Target)
	assert.Equal(t, chat.EventNewMessage, emitter.events[0].Event)
}

func TestSendDirectMessageRequiresFriendship(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.SendMessage(alice, request.SendMessageRequest{ReceiverId: carol, Text: "hi"})
	assert.Equal(t, errorx.CodeForbidden, errorx.GetCode(err))
}

func TestSendDirectMessageBlockedEitherDirection(t *testing.T) {
	svc, repos, _ := newTestService(t)
	require.NoError(t, repos.Block.Create(bob, alice))

	_, err := svc.SendMessage(alice, request.SendMessageRequest{ReceiverId: bob, Text: "hi"})
	assert.Equal(t, errorx.CodeForbidden, errorx.GetCode(err))
}

func TestSendGroupMessageFansOutWithoutSender(t *testing.T) {
	svc, _, emitter := newTestService(t)

	_, err := svc.SendMessage(alice, request.SendMessageRequest{GroupUuid: group, Text: "all hands"})
	require.NoError(t, err)

	require.Len(t, emitter.events, 1)
	assert.Equal(t, group, emitter.events[0].GroupUuid)
	assert.Equal(t, alice, emitter.events[0].ActorId) // 扇出排除操作者
	assert.Equal(t, chat.EventNewMessage, emitter.events[0].Event)
}

func TestSendGroupMessageNonMember(t *testing.T) {
	svc, repos, _ := newTestService(t)
	require.NoError(t, repos.GroupMember.Delete(group, carol))

	_, err := svc.SendMessage(carol, request.SendMessageRequest{GroupUuid: group, Text: "hi"})
	assert.Equal(t, errorx.CodeForbidden, errorx.GetCode(err))
}

func TestReactionOverwritesPrevious(t *testing.T) {
	svc, repos, emitter := newTestService(t)

	rsp, err := svc.SendMessage(alice, request.SendMessageRequest{ReceiverId: bob, Text: "hi"})
	require.NoError(t, err)

	require.NoError(t, svc.ReactToMessage(bob, request.ReactionRequest{MessageId: rsp.MessageId, Emoji: "👍"}))
	require.NoError(t, svc.ReactToMessage(bob, request.ReactionRequest{MessageId: rsp.MessageId, Emoji: "❤️"}))

	// 每人每条消息至多一条反应，后写覆盖
	uuid, _ := strconv.ParseInt(rsp.MessageId, 10, 64)
	reactions, err := repos.Message.FindReactions([]int64{uuid})
	require.NoError(t, err)
	require.Len(t, reactions, 1)
	assert.Equal(t, "❤️", reactions[0].Emoji)

	// 会话双方都收到反应事件（对方 + 操作者回显）
	last := emitter.events[len(emitter.events)-1]
	payload, ok := last.Data.(chat.ReactionPayload)
	require.True(t, ok)
	require.NotNil(t, payload.Emoji)
	assert.Equal(t, "❤️", *payload.Emoji)
}

func TestRemoveReactionEmitsNullEmoji(t *testing.T) {
	svc, _, emitter := newTestService(t)

	rsp, err := svc.SendMessage(alice, request.SendMessageRequest{ReceiverId: bob, Text: "hi"})
	require.NoError(t, err)
	require.NoError(t, svc.ReactToMessage(bob, request.ReactionRequest{MessageId: rsp.MessageId, Emoji: "👍"}))
	require.NoError(t, svc.RemoveReaction(bob, rsp.MessageId))

	last := emitter.events[len(emitter.events)-1]
	assert.Equal(t, chat.EventMessageReaction, last.Event)
	payload, ok := last.Data.(chat.ReactionPayload)
	require.True(t, ok)
	assert.Nil(t, payload.Emoji)
}

func TestUnsendOnlyBySender(t *testing.T) {
	svc, repos, emitter := newTestService(t)

	rsp, err := svc.SendMessage(alice, request.SendMessageRequest{ReceiverId: bob, Text: "oops"})
	require.NoError(t, err)

	err = svc.UnsendMessage(bob, rsp.MessageId)
	assert.Equal(t, errorx.CodeForbidden, errorx.GetCode(err))

	require.NoError(t, svc.UnsendMessage(alice, rsp.MessageId))

	// 整行硬删除，历史不再返回
	uuid, _ := strconv.ParseInt(rsp.MessageId, 10, 64)
	_, err = repos.Message.FindByUuid(uuid)
	assert.Equal(t, errorx.CodeNotFound, errorx.GetCode(err))

	last := emitter.events[len(emitter.events)-1]
	assert.Equal(t, chat.EventMessageUnsent, last.Event)
}

func TestHideMessageIsSilentAndPerViewer(t *testing.T) {
	svc, _, emitter := newTestService(t)

	rsp, err := svc.SendMessage(alice, request.SendMessageRequest{ReceiverId: bob, Text: "secret"})
	require.NoError(t, err)
	sent := len(emitter.events)

	require.NoError(t, svc.HideMessage(bob, rsp.MessageId))
	assert.Len(t, emitter.events, sent) // 不产生任何事件

	// 隐藏方的历史不再包含该消息，对方不受影响
	bobView, err := svc.GetDirectMessages(bob, alice)
	require.NoError(t, err)
	assert.Empty(t, bobView)
	aliceView, err := svc.GetDirectMessages(alice, bob)
	require.NoError(t, err)
	assert.Len(t, aliceView, 1)
}

func TestMarkSeenPersistsBeforeNotifying(t *testing.T) {
	svc, repos, emitter := newTestService(t)

	rsp, err := svc.SendMessage(alice, request.SendMessageRequest{ReceiverId: bob, Text: "hi"})
	require.NoError(t, err)

	require.NoError(t, svc.MarkSeen(bob, alice))

	uuid, _ := strconv.ParseInt(rsp.MessageId, 10, 64)
	stored, err := repos.Message.FindByUuid(uuid)
	require.NoError(t, err)
	assert.Equal(t, int8(1), stored.Status)
	assert.True(t, stored.SeenAt.Valid)

	// 发送方收到 messagesSeen，receiverId 为读取方
	last := emitter.events[len(emitter.events)-1]
	assert.Equal(t, alice, last.Target)
	assert.Equal(t, chat.EventMessagesSeen, last.Event)
	payload, ok := last.Data.(chat.MessagesSeenPayload)
	require.True(t, ok)
	assert.Equal(t, bob, payload.ReceiverId)
}

func TestDeleteConversationRemovesBothSides(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.SendMessage(alice, request.SendMessageRequest{ReceiverId: bob, Text: "one"})
	require.NoError(t, err)
	_, err = svc.SendMessage(bob, request.SendMessageRequest{ReceiverId: alice, Text: "two"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteConversation(alice, bob))

	var views []respond.MessageRespond
	views, err = svc.GetDirectMessages(bob, alice)
	require.NoError(t, err)
	assert.Empty(t, views)
}
