// Package message 实现消息业务逻辑
// 所有写操作先持久化，成功后再向在线目标推事件；
// 目标离线时事件静默丢弃，历史由拉取接口兜底
package message

import (
	"strconv"
	"time"

	"go.uber.org/zap"

	"pulse_chat_server/internal/dao/mysql/repository"
	"pulse_chat_server/internal/dto/request"
	"pulse_chat_server/internal/dto/respond"
	"pulse_chat_server/internal/model"
	"pulse_chat_server/internal/service/chat"
	"pulse_chat_server/pkg/enum/message/message_status_enum"
	"pulse_chat_server/pkg/errorx"
	"pulse_chat_server/pkg/util/snowflake"
)

const timeLayout = "2006-01-02 15:04:05"

// EventEmitter 消息事件出口，由 chat.EventRouter 满足
type EventEmitter interface {
	EmitToUser(targetId, event string, data interface{}) error
	EmitToGroup(groupUuid, actorId, event string, data interface{}) error
}

type messageService struct {
	repos   *repository.Repositories
	emitter EventEmitter
}

// NewMessageService 构造函数，注入依赖
// 同时实现 chat.SeenMarker，供网关处理上行已读标记
func NewMessageService(repos *repository.Repositories, emitter EventEmitter) *messageService {
	return &messageService{repos: repos, emitter: emitter}
}

// SendMessage 发送消息
// 单聊要求互为好友且未被拉黑；群聊要求发送者为成员
// 持久化成功后推 newMessage，发送者不在扇出范围内
func (s *messageService) SendMessage(senderId string, req request.SendMessageRequest) (*respond.MessageRespond, error) {
	// 目标二选一：单聊 XOR 群聊
	if (req.ReceiverId == "") == (req.GroupUuid == "") {
		return nil, errorx.New(errorx.CodeInvalidParam, "receiver_id 和 group_uuid 必须且只能提供一个")
	}
	if req.Text == "" && req.ImageUrl == "" && req.AudioUrl == "" {
		return nil, errorx.New(errorx.CodeInvalidParam, "消息内容不能为空")
	}

	if req.ReceiverId != "" {
		if err := s.checkDirectTarget(senderId, req.ReceiverId); err != nil {
			return nil, err
		}
	} else {
		isMember, err := s.repos.GroupMember.IsMember(req.GroupUuid, senderId)
		if err != nil {
			zap.L().Error("查询群成员关系失败", zap.Error(err))
			return nil, errorx.ErrServerBusy
		}
		if !isMember {
			return nil, errorx.New(errorx.CodeForbidden, "你不是该群成员")
		}
	}

	message := &model.Message{
		Uuid:       snowflake.GenerateID(),
		SenderId:   senderId,
		ReceiverId: req.ReceiverId,
		GroupUuid:  req.GroupUuid,
		Text:       req.Text,
		ImageUrl:   req.ImageUrl,
		AudioUrl:   req.AudioUrl,
		Status:     message_status_enum.Sent,
	}
	if err := s.repos.Message.Create(message); err != nil {
		zap.L().Error("写入消息失败", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}

	rsp := s.buildRespond(message, nil)

	// 先持久化后通知：接收方拿到事件时消息必定可拉取
	if req.ReceiverId != "" {
		if err := s.emitter.EmitToUser(req.ReceiverId, chat.EventNewMessage, rsp); err != nil {
			zap.L().Error("推送消息事件失败", zap.Error(err))
		}
	} else {
		if err := s.emitter.EmitToGroup(req.GroupUuid, senderId, chat.EventNewMessage, rsp); err != nil {
			zap.L().Error("群消息扇出失败", zap.Error(err))
		}
	}
	return &rsp, nil
}

// checkDirectTarget 单聊目标校验：存在、好友、双向无拉黑
func (s *messageService) checkDirectTarget(senderId, receiverId string) error {
	receiver, err := s.repos.User.FindByUuid(receiverId)
	if err != nil {
		if errorx.GetCode(err) == errorx.CodeNotFound {
			return errorx.New(errorx.CodeUserNotExist, "用户不存在")
		}
		return errorx.ErrServerBusy
	}
	if receiver.IsDeleted {
		return errorx.New(errorx.CodeUserNotExist, "用户不存在")
	}
	for _, pair := range [][2]string{{senderId, receiverId}, {receiverId, senderId}} {
		blocked, err := s.repos.Block.Exists(pair[0], pair[1])
		if err != nil {
			zap.L().Error("查询拉黑关系失败", zap.Error(err))
			return errorx.ErrServerBusy
		}
		if blocked {
			return errorx.New(errorx.CodeForbidden, "无法向该用户发送消息")
		}
	}
	isFriend, err := s.repos.Friendship.Exists(senderId, receiverId)
	if err != nil {
		zap.L().Error("查询好友关系失败", zap.Error(err))
		return errorx.ErrServerBusy
	}
	if !isFriend {
		return errorx.New(errorx.CodeForbidden, "你们还不是好友")
	}
	return nil
}

// buildRespond 构造消息响应，reactions 为 nil 时视为无反应
func (s *messageService) buildRespond(message *model.Message, reactions []model.MessageReaction) respond.MessageRespond {
	rsp := respond.MessageRespond{
		MessageId:  strconv.FormatInt(message.Uuid, 10),
		SenderId:   message.SenderId,
		ReceiverId: message.ReceiverId,
		GroupUuid:  message.GroupUuid,
		Text:       message.Text,
		ImageUrl:   message.ImageUrl,
		AudioUrl:   message.AudioUrl,
		Status:     message_status_enum.Text(message.Status),
		Reactions:  make([]respond.ReactionRespond, 0, len(reactions)),
		CreatedAt:  message.CreatedAt.Format(timeLayout),
	}
	if message.SeenAt.Valid {
		rsp.SeenAt = message.SeenAt.Time.Format(timeLayout)
	}
	for _, reaction := range reactions {
		rsp.Reactions = append(rsp.Reactions, respond.ReactionRespond{
			UserUuid: reaction.UserUuid,
			Emoji:    reaction.Emoji,
		})
	}
	return rsp
}

// GetDirectMessages 拉取单聊历史
func (s *messageService) GetDirectMessages(viewerId, peerId string) ([]respond.MessageRespond, error) {
	messages, err := s.repos.Message.FindDirect(viewerId, peerId, viewerId)
	if err != nil {
		zap.L().Error("查询单聊历史失败", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	return s.buildResponds(messages)
}

// GetGroupMessages 拉取群聊历史，仅成员可用
func (s *messageService) GetGroupMessages(viewerId, groupUuid string) ([]respond.MessageRespond, error) {
	isMember, err := s.repos.GroupMember.IsMember(groupUuid, viewerId)
	if err != nil {
		zap.L().Error("查询群成员关系失败", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	if !isMember {
		return nil, errorx.New(errorx.CodeForbidden, "你不是该群成员")
	}
	messages, err := s.repos.Message.FindByGroup(groupUuid, viewerId)
	if err != nil {
		zap.L().Error("查询群聊历史失败", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	return s.buildResponds(messages)
}

// buildResponds 批量构造响应，反应一次查出按消息分组
func (s *messageService) buildResponds(messages []model.Message) ([]respond.MessageRespond, error) {
	uuids := make([]int64, 0, len(messages))
	for i := range messages {
		uuids = append(uuids, messages[i].Uuid)
	}
	reactions, err := s.repos.Message.FindReactions(uuids)
	if err != nil {
		zap.L().Error("查询消息反应失败", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	byMessage := make(map[int64][]model.MessageReaction)
	for _, reaction := range reactions {
		byMessage[reaction.MessageUuid] = append(byMessage[reaction.MessageUuid], reaction)
	}

	rsps := make([]respond.MessageRespond, 0, len(messages))
	for i := range messages {
		rsps = append(rsps, s.buildRespond(&messages[i], byMessage[messages[i].Uuid]))
	}
	return rsps, nil
}

// findParticipantMessage 查找消息并校验操作者为会话参与者
func (s *messageService) findParticipantMessage(userId, messageId string) (*model.Message, error) {
	uuid, err := strconv.ParseInt(messageId, 10, 64)
	if err != nil {
		return nil, errorx.New(errorx.CodeInvalidParam, "非法的消息 ID")
	}
	message, err := s.repos.Message.FindByUuid(uuid)
	if err != nil {
		if errorx.GetCode(err) == errorx.CodeNotFound {
			return nil, errorx.New(errorx.CodeNotFound, "消息不存在")
		}
		return nil, errorx.ErrServerBusy
	}
	if message.GroupUuid != "" {
		isMember, err := s.repos.GroupMember.IsMember(message.GroupUuid, userId)
		if err != nil {
			zap.L().Error("查询群成员关系失败", zap.Error(err))
			return nil, errorx.ErrServerBusy
		}
		if !isMember {
			return nil, errorx.New(errorx.CodeForbidden, "你不是该会话的参与者")
		}
	} else if message.SenderId != userId && message.ReceiverId != userId {
		return nil, errorx.New(errorx.CodeForbidden, "你不是该会话的参与者")
	}
	return message, nil
}

// emitToConversation 向消息所属会话推事件
// 单聊发给对方，群聊扇出给除操作者外的成员，并回显给操作者
func (s *messageService) emitToConversation(message *model.Message, actorId, event string, data interface{}) {
	if message.GroupUuid != "" {
		if err := s.emitter.EmitToGroup(message.GroupUuid, actorId, event, data); err != nil {
			zap.L().Error("群事件扇出失败", zap.String("event", event), zap.Error(err))
		}
	} else {
		peer := message.ReceiverId
		if peer == actorId {
			peer = message.SenderId
		}
		if err := s.emitter.EmitToUser(peer, event, data); err != nil {
			zap.L().Error("推送事件失败", zap.String("event", event), zap.Error(err))
		}
	}
	// 回显给操作者自己的连接
	if err := s.emitter.EmitToUser(actorId, event, data); err != nil {
		zap.L().Error("事件回显失败", zap.String("event", event), zap.Error(err))
	}
}

// ReactToMessage 设置反应，每人每条消息一个，后写覆盖
func (s *messageService) ReactToMessage(userId string, req request.ReactionRequest) error {
	message, err := s.findParticipantMessage(userId, req.MessageId)
	if err != nil {
		return err
	}
	if err := s.repos.Message.UpsertReaction(message.Uuid, userId, req.Emoji); err != nil {
		zap.L().Error("写入消息反应失败", zap.Error(err))
		return errorx.ErrServerBusy
	}

	emoji := req.Emoji
	s.emitToConversation(message, userId, chat.EventMessageReaction, chat.ReactionPayload{
		MessageId: req.MessageId,
		UserId:    userId,
		Emoji:     &emoji,
	})
	return nil
}

// RemoveReaction 移除反应，事件中 emoji 为 null
func (s *messageService) RemoveReaction(userId, messageId string) error {
	message, err := s.findParticipantMessage(userId, messageId)
	if err != nil {
		return err
	}
	if err := s.repos.Message.DeleteReaction(message.Uuid, userId); err != nil {
		zap.L().Error("移除消息反应失败", zap.Error(err))
		return errorx.ErrServerBusy
	}

	s.emitToConversation(message, userId, chat.EventMessageReaction, chat.ReactionPayload{
		MessageId: messageId,
		UserId:    userId,
		Emoji:     nil,
	})
	return nil
}

// UnsendMessage 撤回消息，整行硬删除，仅发送者可用
func (s *messageService) UnsendMessage(userId, messageId string) error {
	message, err := s.findParticipantMessage(userId, messageId)
	if err != nil {
		return err
	}
	if message.SenderId != userId {
		return errorx.New(errorx.CodeForbidden, "只能撤回自己发送的消息")
	}
	if err := s.repos.Message.HardDelete(message.Uuid); err != nil {
		zap.L().Error("撤回消息失败", zap.Error(err))
		return errorx.ErrServerBusy
	}

	s.emitToConversation(message, userId, chat.EventMessageUnsent, chat.UnsentPayload{
		MessageId: messageId,
	})
	return nil
}

// HideMessage 仅对我删除，不通知其他人
func (s *messageService) HideMessage(userId, messageId string) error {
	message, err := s.findParticipantMessage(userId, messageId)
	if err != nil {
		return err
	}
	if err := s.repos.Message.Hide(message.Uuid, userId); err != nil {
		zap.L().Error("隐藏消息失败", zap.Error(err))
		return errorx.ErrServerBusy
	}
	return nil
}

// MarkSeen 将 senderId 发来的全部未读消息置为已读
// 先完成持久化，再向消息发送方推 messagesSeen
func (s *messageService) MarkSeen(viewerId, senderId string) error {
	if err := s.repos.Message.MarkSeen(senderId, viewerId, time.Now()); err != nil {
		zap.L().Error("标记已读失败", zap.Error(err))
		return errorx.ErrServerBusy
	}
	if err := s.emitter.EmitToUser(senderId, chat.EventMessagesSeen,
		chat.MessagesSeenPayload{ReceiverId: viewerId}); err != nil {
		zap.L().Error("推送已读事件失败", zap.Error(err))
	}
	return nil
}

// DeleteConversation 删除与某人的全部聊天记录，双侧不可见
func (s *messageService) DeleteConversation(userId, peerId string) error {
	deleted, err := s.repos.Message.HardDeleteConversation(userId, peerId)
	if err != nil {
		zap.L().Error("删除会话失败", zap.Error(err))
		return errorx.ErrServerBusy
	}
	zap.L().Info("会话已删除", zap.String("user", userId),
		zap.String("peer", peerId), zap.Int64("rows", deleted))
	return nil
}
