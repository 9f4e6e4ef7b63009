package friend

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pulse_chat_server/internal/dao/mysql/repository"
	"pulse_chat_server/internal/dao/mysql/repository/memory"
	"pulse_chat_server/internal/dto/request"
	"pulse_chat_server/internal/model"
	"pulse_chat_server/internal/service/chat"
	"pulse_chat_server/pkg/errorx"
)

type emittedEvent struct {
	Target string
	Event  string
	Data   interface{}
}

// captureEmitter 记录发出的事件，代替真实的事件路由
type captureEmitter struct {
	events []emittedEvent
}

func (e *captureEmitter) EmitToUser(targetId, event string, data interface{}) error {
	e.events = append(e.events, emittedEvent{Target: targetId, Event: event, Data: data})
	return nil
}

func newTestService(t *testing.T) (*friendService, *repository.Repositories, *captureEmitter) {
	t.Helper()
	repos := memory.NewRepositories()
	emitter := &captureEmitter{}
	svc := NewFriendService(repos, emitter)

	for _, u := range []model.User{
		{Uuid: "U0000000000000000001", FullName: "Alice", Email: "alice@example.com"},
		{Uuid: "U0000000000000000002", FullName: "Bob", Email: "bob@example.com"},
	} {
		user := u
		require.NoError(t, repos.User.Create(&user))
	}
	return svc, repos, emitter
}

func TestSendFriendRequestNotifiesReceiver(t *testing.T) {
	svc, repos, emitter := newTestService(t)

	rsp, err := svc.SendFriendRequest("U0000000000000000001",
		request.SendFriendRequestRequest{ReceiverId: "U0000000000000000002"})
	require.NoError(t, err)
	assert.Equal(t, "Alice", rsp.SenderName)
	assert.Equal(t, "pending", rsp.Status)

	// 先持久化
	fr, err := repos.FriendRequest.FindByUuid(rsp.Uuid)
	require.NoError(t, err)
	assert.Equal(t, model.FriendRequestPending, fr.Status)

	// 后通知接收方
	require.Len(t, emitter.events, 1)
	assert.Equal(t, "U0000000000000000002", emitter.events[0].Target)
	assert.Equal(t, chat.EventNewFriendRequest, emitter.events[0].Event)
}

func TestSendFriendRequestToSelf(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.SendFriendRequest("U0000000000000000001",
		request.SendFriendRequestRequest{ReceiverId: "U0000000000000000001"})
	assert.Equal(t, errorx.CodeInvalidParam, errorx.GetCode(err))
}

func TestSendFriendRequestDuplicatePending(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.SendFriendRequest("U0000000000000000001",
		request.SendFriendRequestRequest{ReceiverId: "U0000000000000000002"})
	require.NoError(t, err)

	// 同方向重复
	_, err = svc.SendFriendRequest("U0000000000000000001",
		request.SendFriendRequestRequest{ReceiverId: "U0000000000000000002"})
	assert.Equal(t, errorx.CodeConflict, errorx.GetCode(err))

	// 对方反向申请同样被拦
	_, err = svc.SendFriendRequest("U0000000000000000002",
		request.SendFriendRequestRequest{ReceiverId: "U0000000000000000001"})
	assert.Equal(t, errorx.CodeConflict, errorx.GetCode(err))
}

func TestSendFriendRequestBlocked(t *testing.T) {
	svc, repos, _ := newTestService(t)
	require.NoError(t, repos.Block.Create("U0000000000000000002", "U0000000000000000001"))

	// 被对方拉黑的一侧也不能发申请
	_, err := svc.SendFriendRequest("U0000000000000000001",
		request.SendFriendRequestRequest{ReceiverId: "U0000000000000000002"})
	assert.Equal(t, errorx.CodeForbidden, errorx.GetCode(err))
}

func TestAcceptCreatesSymmetricFriendship(t *testing.T) {
	svc, repos, emitter := newTestService(t)

	rsp, err := svc.SendFriendRequest("U0000000000000000001",
		request.SendFriendRequestRequest{ReceiverId: "U0000000000000000002"})
	require.NoError(t, err)

	require.NoError(t, svc.AcceptFriendRequest("U0000000000000000002", rsp.Uuid))

	// 双向都能查到好友关系
	ok, err := repos.Friendship.Exists("U0000000000000000001", "U0000000000000000002")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = repos.Friendship.Exists("U0000000000000000002", "U0000000000000000001")
	require.NoError(t, err)
	assert.True(t, ok)

	// 申请方收到通过事件，携带接受者信息
	last := emitter.events[len(emitter.events)-1]
	assert.Equal(t, "U0000000000000000001", last.Target)
	assert.Equal(t, chat.EventFriendRequestAccepted, last.Event)
	payload, ok2 := last.Data.(chat.FriendRequestAcceptedPayload)
	require.True(t, ok2)
	assert.Equal(t, "Bob", payload.AccepterName)
	assert.Equal(t, "U0000000000000000002", payload.AccepterId)
}

func TestAcceptOnlyByReceiver(t *testing.T) {
	svc, _, _ := newTestService(t)

	rsp, err := svc.SendFriendRequest("U0000000000000000001",
		request.SendFriendRequestRequest{ReceiverId: "U0000000000000000002"})
	require.NoError(t, err)

	err = svc.AcceptFriendRequest("U0000000000000000001", rsp.Uuid)
	assert.Equal(t, errorx.CodeForbidden, errorx.GetCode(err))
}

func TestRejectDeletesRequestRow(t *testing.T) {
	svc, repos, _ := newTestService(t)

	rsp, err := svc.SendFriendRequest("U0000000000000000001",
		request.SendFriendRequestRequest{ReceiverId: "U0000000000000000002"})
	require.NoError(t, err)

	require.NoError(t, svc.RejectFriendRequest("U0000000000000000002", rsp.Uuid))

	_, err = repos.FriendRequest.FindByUuid(rsp.Uuid)
	assert.Equal(t, errorx.CodeNotFound, errorx.GetCode(err))

	// 删行后允许立即重新申请
	_, err = svc.SendFriendRequest("U0000000000000000001",
		request.SendFriendRequestRequest{ReceiverId: "U0000000000000000002"})
	assert.NoError(t, err)
}

func TestCancelOnlyBySender(t *testing.T) {
	svc, _, _ := newTestService(t)

	rsp, err := svc.SendFriendRequest("U0000000000000000001",
		request.SendFriendRequestRequest{ReceiverId: "U0000000000000000002"})
	require.NoError(t, err)

	err = svc.CancelFriendRequest("U0000000000000000002", rsp.Uuid)
	assert.Equal(t, errorx.CodeForbidden, errorx.GetCode(err))
	require.NoError(t, svc.CancelFriendRequest("U0000000000000000001", rsp.Uuid))
}

func TestRemoveFriendDeletesBothDirections(t *testing.T) {
	svc, repos, _ := newTestService(t)
	require.NoError(t, repos.Friendship.CreatePair("U0000000000000000001", "U0000000000000000002"))

	require.NoError(t, svc.RemoveFriend("U0000000000000000001", "U0000000000000000002"))

	ok, _ := repos.Friendship.Exists("U0000000000000000002", "U0000000000000000001")
	assert.False(t, ok)
}

func TestGetFriendListOrdersByLastMessage(t *testing.T) {
	svc, repos, _ := newTestService(t)
	carol := model.User{Uuid: "U0000000000000000003", FullName: "Carol", Email: "carol@example.com"}
	require.NoError(t, repos.User.Create(&carol))
	require.NoError(t, repos.Friendship.CreatePair("U0000000000000000001", "U0000000000000000002"))
	require.NoError(t, repos.Friendship.CreatePair("U0000000000000000001", "U0000000000000000003"))

	// Bob 的消息更早，Carol 的更晚
	now := time.Now()
	msgToBob := model.Message{
		Uuid: 100, SenderId: "U0000000000000000002", ReceiverId: "U0000000000000000001", Text: "早",
	}
	msgToBob.CreatedAt = now.Add(-time.Hour)
	msgToCarol := model.Message{
		Uuid: 200, SenderId: "U0000000000000000001", ReceiverId: "U0000000000000000003", Text: "晚",
	}
	msgToCarol.CreatedAt = now
	require.NoError(t, repos.Message.Create(&msgToBob))
	require.NoError(t, repos.Message.Create(&msgToCarol))

	friends, err := svc.GetFriendList("U0000000000000000001")
	require.NoError(t, err)
	require.Len(t, friends, 2)
	assert.Equal(t, "U0000000000000000003", friends[0].Uuid)
	assert.Equal(t, "晚", friends[0].LastMessage)
	assert.Equal(t, "U0000000000000000001", friends[0].LastSenderId)
	assert.Equal(t, "U0000000000000000002", friends[1].Uuid)
	assert.Equal(t, "早", friends[1].LastMessage)
}

func TestGetFriendListWithoutMessages(t *testing.T) {
	svc, repos, _ := newTestService(t)
	require.NoError(t, repos.Friendship.CreatePair("U0000000000000000001", "U0000000000000000002"))

	friends, err := svc.GetFriendList("U0000000000000000001")
	require.NoError(t, err)
	require.Len(t, friends, 1)
	assert.Empty(t, friends[0].LastMessage)
	assert.Empty(t, friends[0].LastMessageAt)
}

func TestGetSentRequests(t *testing.T) {
	svc, _, _ := newTestService(t)

	rsp, err := svc.SendFriendRequest("U0000000000000000001",
		request.SendFriendRequestRequest{ReceiverId: "U0000000000000000002"})
	require.NoError(t, err)

	sent, err := svc.GetSentRequests("U0000000000000000001")
	require.NoError(t, err)
	require.Len(t, sent, 1)
	assert.Equal(t, rsp.Uuid, sent[0].Uuid)
	assert.Equal(t, "Bob", sent[0].ReceiverName)

	// 接收方视角没有已发出申请
	sent, err = svc.GetSentRequests("U0000000000000000002")
	require.NoError(t, err)
	assert.Empty(t, sent)
}

// failingAcceptRepo 模拟通过申请时的事务失败
type failingAcceptRepo struct {
	repository.FriendRequestRepository
}

func (r *failingAcceptRepo) Accept(uuid, senderId, receiverId string) error {
	return errorx.New(errorx.CodeDBError, "事务失败")
}

func TestAcceptFailureLeavesRequestPending(t *testing.T) {
	svc, repos, emitter := newTestService(t)

	rsp, err := svc.SendFriendRequest("U0000000000000000001",
		request.SendFriendRequestRequest{ReceiverId: "U0000000000000000002"})
	require.NoError(t, err)
	emitter.events = nil

	repos.FriendRequest = &failingAcceptRepo{FriendRequestRepository: repos.FriendRequest}
	err = svc.AcceptFriendRequest("U0000000000000000002", rsp.Uuid)
	assert.Equal(t, errorx.CodeServerBusy, errorx.GetCode(err))

	// 无半成品：申请保持 pending，关系未写入，事件未发出
	fr, err := repos.FriendRequest.FindByUuid(rsp.Uuid)
	require.NoError(t, err)
	assert.Equal(t, model.FriendRequestPending, fr.Status)
	ok, _ := repos.Friendship.Exists("U0000000000000000001", "U0000000000000000002")
	assert.False(t, ok)
	assert.Empty(t, emitter.events)
}

func TestBlockAndUnblockUser(t *testing.T) {
	svc, repos, _ := newTestService(t)

	require.NoError(t, svc.BlockUser("U0000000000000000001", "U0000000000000000002"))
	blocked, err := repos.Block.Exists("U0000000000000000001", "U0000000000000000002")
	require.NoError(t, err)
	assert.True(t, blocked)

	// 重复拉黑幂等
	require.NoError(t, svc.BlockUser("U0000000000000000001", "U0000000000000000002"))

	require.NoError(t, svc.UnblockUser("U0000000000000000001", "U0000000000000000002"))
	blocked, err = repos.Block.Exists("U0000000000000000001", "U0000000000000000002")
	require.NoError(t, err)
	assert.False(t, blocked)
}
