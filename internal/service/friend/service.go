// Package friend 实现好友业务逻辑
// 好友申请状态机：none -> pending -> accepted，拒绝/撤回直接删行
// 写操作先持久化，成功后再向在线目标推事件
package friend

import (
	"sort"
	"time"

	"go.uber.org/zap"

	"pulse_chat_server/internal/dao/mysql/repository"
	"pulse_chat_server/internal/dto/request"
	"pulse_chat_server/internal/dto/respond"
	"pulse_chat_server/internal/model"
	"pulse_chat_server/internal/service/chat"
	"pulse_chat_server/pkg/enum/user/email_visibility_enum"
	"pulse_chat_server/pkg/errorx"
	"pulse_chat_server/pkg/util/random"
)

const timeLayout = "2006-01-02 15:04:05"

// EventEmitter 好友事件出口，由 chat.EventRouter 满足
type EventEmitter interface {
	EmitToUser(targetId, event string, data interface{}) error
}

type friendService struct {
	repos   *repository.Repositories
	emitter EventEmitter
}

// NewFriendService 构造函数，注入依赖
func NewFriendService(repos *repository.Repositories, emitter EventEmitter) *friendService {
	return &friendService{repos: repos, emitter: emitter}
}

// SendFriendRequest 发送好友申请
// 校验顺序：目标存在 -> 非自己 -> 未拉黑 -> 非好友 -> 无双向 pending
func (s *friendService) SendFriendRequest(senderId string, req request.SendFriendRequestRequest) (*respond.FriendRequestRespond, error) {
	if senderId == req.ReceiverId {
		return nil, errorx.New(errorx.CodeInvalidParam, "不能添加自己为好友")
	}
	receiver, err := s.repos.User.FindByUuid(req.ReceiverId)
	if err != nil {
		if errorx.GetCode(err) == errorx.CodeNotFound {
			return nil, errorx.New(errorx.CodeUserNotExist, "用户不存在")
		}
		return nil, errorx.ErrServerBusy
	}
	if receiver.IsDeleted {
		return nil, errorx.New(errorx.CodeUserNotExist, "用户不存在")
	}

	if blocked, err := s.eitherBlocked(senderId, req.ReceiverId); err != nil {
		return nil, err
	} else if blocked {
		return nil, errorx.New(errorx.CodeForbidden, "无法向该用户发送申请")
	}

	isFriend, err := s.repos.Friendship.Exists(senderId, req.ReceiverId)
	if err != nil {
		zap.L().Error("查询好友关系失败", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	if isFriend {
		return nil, errorx.New(errorx.CodeConflict, "你们已经是好友")
	}

	// 同一无序对至多一条 pending，双向查询兜住对方先发的情况
	pending, err := s.repos.FriendRequest.FindPendingBetween(senderId, req.ReceiverId)
	if err != nil && errorx.GetCode(err) != errorx.CodeNotFound {
		zap.L().Error("查询待处理申请失败", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	if pending != nil {
		return nil, errorx.New(errorx.CodeConflict, "已存在待处理的好友申请")
	}

	fr := &model.FriendRequest{
		Uuid:       "R" + random.GetNowAndLenRandomString(13),
		SenderId:   senderId,
		ReceiverId: req.ReceiverId,
		Status:     model.FriendRequestPending,
	}
	if err := s.repos.FriendRequest.Create(fr); err != nil {
		zap.L().Error("创建好友申请失败", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}

	sender, err := s.repos.User.FindByUuid(senderId)
	if err != nil {
		return nil, errorx.ErrServerBusy
	}
	rsp := &respond.FriendRequestRespond{
		Uuid:         fr.Uuid,
		SenderId:     fr.SenderId,
		SenderName:   sender.FullName,
		SenderAvatar: sender.Avatar,
		ReceiverId:   fr.ReceiverId,
		Status:       "pending",
		CreatedAt:    fr.CreatedAt.Format(timeLayout),
	}

	// 持久化完成后才通知接收方，离线时静默丢弃
	if err := s.emitter.EmitToUser(req.ReceiverId, chat.EventNewFriendRequest, rsp); err != nil {
		zap.L().Error("推送好友申请事件失败", zap.Error(err))
	}
	return rsp, nil
}

func (s *friendService) eitherBlocked(a, b string) (bool, error) {
	blocked, err := s.repos.Block.Exists(a, b)
	if err != nil {
		zap.L().Error("查询拉黑关系失败", zap.Error(err))
		return false, errorx.ErrServerBusy
	}
	if blocked {
		return true, nil
	}
	blocked, err = s.repos.Block.Exists(b, a)
	if err != nil {
		zap.L().Error("查询拉黑关系失败", zap.Error(err))
		return false, errorx.ErrServerBusy
	}
	return blocked, nil
}

// AcceptFriendRequest 接受好友申请
// 状态翻转后镜像写入双方好友列表，再通知申请方
func (s *friendService) AcceptFriendRequest(receiverId, requestUuid string) error {
	fr, err := s.repos.FriendRequest.FindByUuid(requestUuid)
	if err != nil {
		if errorx.GetCode(err) == errorx.CodeNotFound {
			return errorx.New(errorx.CodeNotFound, "好友申请不存在")
		}
		return errorx.ErrServerBusy
	}
	if fr.ReceiverId != receiverId {
		return errorx.New(errorx.CodeForbidden, "只有接收方可以处理该申请")
	}
	if fr.Status != model.FriendRequestPending {
		return errorx.New(errorx.CodeConflict, "该申请已被处理")
	}

	// 状态翻转和双向关系写入在同一事务内，失败时申请保持 pending
	if err := s.repos.FriendRequest.Accept(requestUuid, fr.SenderId, fr.ReceiverId); err != nil {
		zap.L().Error("通过好友申请失败", zap.Error(err))
		return errorx.ErrServerBusy
	}

	accepter, err := s.repos.User.FindByUuid(receiverId)
	if err != nil {
		return errorx.ErrServerBusy
	}
	payload := chat.FriendRequestAcceptedPayload{
		AccepterName: accepter.FullName,
		AccepterId:   accepter.Uuid,
	}
	if err := s.emitter.EmitToUser(fr.SenderId, chat.EventFriendRequestAccepted, payload); err != nil {
		zap.L().Error("推送申请通过事件失败", zap.Error(err))
	}
	return nil
}

// RejectFriendRequest 拒绝申请，直接删行，允许对方立即重新申请
func (s *friendService) RejectFriendRequest(receiverId, requestUuid string) error {
	fr, err := s.repos.FriendRequest.FindByUuid(requestUuid)
	if err != nil {
		if errorx.GetCode(err) == errorx.CodeNotFound {
			return errorx.New(errorx.CodeNotFound, "好友申请不存在")
		}
		return errorx.ErrServerBusy
	}
	if fr.ReceiverId != receiverId {
		return errorx.New(errorx.CodeForbidden, "只有接收方可以处理该申请")
	}
	if fr.Status != model.FriendRequestPending {
		return errorx.New(errorx.CodeConflict, "该申请已被处理")
	}
	if err := s.repos.FriendRequest.HardDelete(requestUuid); err != nil {
		zap.L().Error("删除好友申请失败", zap.Error(err))
		return errorx.ErrServerBusy
	}
	return nil
}

// CancelFriendRequest 申请方撤回自己的 pending 申请
func (s *friendService) CancelFriendRequest(senderId, requestUuid string) error {
	fr, err := s.repos.FriendRequest.FindByUuid(requestUuid)
	if err != nil {
		if errorx.GetCode(err) == errorx.CodeNotFound {
			return errorx.New(errorx.CodeNotFound, "好友申请不存在")
		}
		return errorx.ErrServerBusy
	}
	if fr.SenderId != senderId {
		return errorx.New(errorx.CodeForbidden, "只能撤回自己发出的申请")
	}
	if fr.Status != model.FriendRequestPending {
		return errorx.New(errorx.CodeConflict, "该申请已被处理")
	}
	if err := s.repos.FriendRequest.HardDelete(requestUuid); err != nil {
		zap.L().Error("撤回好友申请失败", zap.Error(err))
		return errorx.ErrServerBusy
	}
	return nil
}

// GetPendingRequests 我收到的待处理申请列表
func (s *friendService) GetPendingRequests(receiverId string) ([]respond.FriendRequestRespond, error) {
	requests, err := s.repos.FriendRequest.FindPendingByReceiver(receiverId)
	if err != nil {
		zap.L().Error("查询待处理申请失败", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}

	senderIds := make([]string, 0, len(requests))
	for _, fr := range requests {
		senderIds = append(senderIds, fr.SenderId)
	}
	senders, err := s.repos.User.FindByUuids(senderIds)
	if err != nil {
		zap.L().Error("查询申请人信息失败", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	senderByUuid := make(map[string]*model.User, len(senders))
	for i := range senders {
		senderByUuid[senders[i].Uuid] = &senders[i]
	}

	rsps := make([]respond.FriendRequestRespond, 0, len(requests))
	for _, fr := range requests {
		rsp := respond.FriendRequestRespond{
			Uuid:       fr.Uuid,
			SenderId:   fr.SenderId,
			ReceiverId: fr.ReceiverId,
			Status:     "pending",
			CreatedAt:  fr.CreatedAt.Format(timeLayout),
		}
		if sender, ok := senderByUuid[fr.SenderId]; ok {
			rsp.SenderName = sender.FullName
			rsp.SenderAvatar = sender.Avatar
		}
		rsps = append(rsps, rsp)
	}
	return rsps, nil
}

// GetSentRequests 我发出的待处理申请
func (s *friendService) GetSentRequests(senderId string) ([]respond.FriendRequestRespond, error) {
	requests, err := s.repos.FriendRequest.FindPendingBySender(senderId)
	if err != nil {
		zap.L().Error("查询已发出申请失败", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}

	receiverIds := make([]string, 0, len(requests))
	for _, fr := range requests {
		receiverIds = append(receiverIds, fr.ReceiverId)
	}
	receivers, err := s.repos.User.FindByUuids(receiverIds)
	if err != nil {
		zap.L().Error("查询接收人信息失败", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	receiverByUuid := make(map[string]*model.User, len(receivers))
	for i := range receivers {
		receiverByUuid[receivers[i].Uuid] = &receivers[i]
	}

	rsps := make([]respond.FriendRequestRespond, 0, len(requests))
	for _, fr := range requests {
		rsp := respond.FriendRequestRespond{
			Uuid:       fr.Uuid,
			SenderId:   fr.SenderId,
			ReceiverId: fr.ReceiverId,
			Status:     "pending",
			CreatedAt:  fr.CreatedAt.Format(timeLayout),
		}
		if receiver, ok := receiverByUuid[fr.ReceiverId]; ok {
			rsp.ReceiverName = receiver.FullName
			rsp.ReceiverAvatar = receiver.Avatar
		}
		rsps = append(rsps, rsp)
	}
	return rsps, nil
}

// GetFriendList 好友列表，附带最近一条单聊消息并按消息时间倒序
func (s *friendService) GetFriendList(userId string) ([]respond.FriendRespond, error) {
	friendUuids, err := s.repos.Friendship.FindFriendUuids(userId)
	if err != nil {
		zap.L().Error("查询好友列表失败", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	friends, err := s.repos.User.FindByUuids(friendUuids)
	if err != nil {
		zap.L().Error("查询好友信息失败", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}

	rsps := make([]respond.FriendRespond, 0, len(friends))
	lastAt := make(map[string]time.Time, len(friends))
	for i := range friends {
		user := &friends[i]
		if user.IsDeleted {
			continue
		}
		rsp := respond.FriendRespond{
			UserInfoRespond: respond.UserInfoRespond{
				Uuid:            user.Uuid,
				FullName:        user.FullName,
				Avatar:          user.Avatar,
				EmailVisibility: user.EmailVisibility,
				CreatedAt:       user.CreatedAt.Format(timeLayout),
			},
		}
		if user.LastActiveAt.Valid {
			rsp.LastActiveAt = user.LastActiveAt.Time.Format(timeLayout)
		}
		// 好友可见 everyone 和 friends_only 两档
		if user.EmailVisibility != email_visibility_enum.OnlyMe {
			rsp.Email = user.Email
		}

		last, err := s.repos.Message.FindLastDirect(userId, user.Uuid)
		switch {
		case err == nil:
			rsp.LastMessage = messagePreview(last)
			rsp.LastMessageAt = last.CreatedAt.Format(timeLayout)
			rsp.LastSenderId = last.SenderId
			lastAt[user.Uuid] = last.CreatedAt
		case errorx.GetCode(err) != errorx.CodeNotFound:
			zap.L().Error("查询最近消息失败", zap.String("friend", user.Uuid), zap.Error(err))
		}
		rsps = append(rsps, rsp)
	}

	// 有消息的会话在前，按最近消息时间倒序；无消息的好友排在最后
	sort.SliceStable(rsps, func(i, j int) bool {
		return lastAt[rsps[i].Uuid].After(lastAt[rsps[j].Uuid])
	})
	return rsps, nil
}

// messagePreview 会话列表中最近消息的摘要文本
func messagePreview(msg *model.Message) string {
	if msg.Text != "" {
		return msg.Text
	}
	if msg.ImageUrl != "" {
		return "[图片]"
	}
	if msg.AudioUrl != "" {
		return "[语音]"
	}
	return ""
}

// RemoveFriend 删除好友，双向解除
func (s *friendService) RemoveFriend(userId, friendId string) error {
	isFriend, err := s.repos.Friendship.Exists(userId, friendId)
	if err != nil {
		zap.L().Error("查询好友关系失败", zap.Error(err))
		return errorx.ErrServerBusy
	}
	if !isFriend {
		return errorx.New(errorx.CodeNotFound, "你们不是好友")
	}
	if err := s.repos.Friendship.DeletePair(userId, friendId); err != nil {
		zap.L().Error("删除好友关系失败", zap.Error(err))
		return errorx.ErrServerBusy
	}
	return nil
}

// BlockUser 拉黑，单向生效，重复拉黑幂等
func (s *friendService) BlockUser(userId, targetId string) error {
	if userId == targetId {
		return errorx.New(errorx.CodeInvalidParam, "不能拉黑自己")
	}
	if _, err := s.repos.User.FindByUuid(targetId); err != nil {
		if errorx.GetCode(err) == errorx.CodeNotFound {
			return errorx.New(errorx.CodeUserNotExist, "用户不存在")
		}
		return errorx.ErrServerBusy
	}
	if err := s.repos.Block.Create(userId, targetId); err != nil {
		zap.L().Error("写入拉黑关系失败", zap.Error(err))
		return errorx.ErrServerBusy
	}
	return nil
}

// UnblockUser 取消拉黑
func (s *friendService) UnblockUser(userId, targetId string) error {
	if err := s.repos.Block.Delete(userId, targetId); err != nil {
		zap.L().Error("删除拉黑关系失败", zap.Error(err))
		return errorx.ErrServerBusy
	}
	return nil
}

// GetBlockedUsers 我拉黑的用户列表
func (s *friendService) GetBlockedUsers(userId string) ([]respond.UserInfoRespond, error) {
	blockedUuids, err := s.repos.Block.FindBlockedUuids(userId)
	if err != nil {
		zap.L().Error("查询拉黑列表失败", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	users, err := s.repos.User.FindByUuids(blockedUuids)
	if err != nil {
		zap.L().Error("查询用户信息失败", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	rsps := make([]respond.UserInfoRespond, 0, len(users))
	for i := range users {
		rsps = append(rsps, respond.UserInfoRespond{
			Uuid:            users[i].Uuid,
			FullName:        users[i].FullName,
			Avatar:          users[i].Avatar,
			EmailVisibility: users[i].EmailVisibility,
			CreatedAt:       users[i].CreatedAt.Format(timeLayout),
		})
	}
	return rsps, nil
}
