// Package group 实现群组业务逻辑
// 群主即管理员：改名、增删成员仅群主可用；群主不可退群、
// 不可被移除（未提供所有权转移路径）
package group

import (
	"go.uber.org/zap"

	"pulse_chat_server/internal/dao/mysql/repository"
	"pulse_chat_server/internal/dto/request"
	"pulse_chat_server/internal/dto/respond"
	"pulse_chat_server/internal/model"
	"pulse_chat_server/pkg/errorx"
	"pulse_chat_server/pkg/util/random"
)

const timeLayout = "2006-01-02 15:04:05"

type groupService struct {
	repos *repository.Repositories
}

// NewGroupService 构造函数，注入依赖
func NewGroupService(repos *repository.Repositories) *groupService {
	return &groupService{repos: repos}
}

// CreateGroup 创建群组，创建者自动成为群主和成员
func (s *groupService) CreateGroup(ownerId string, req request.CreateGroupRequest) (*respond.GroupRespond, error) {
	// 去重并排除创建者本人，群主成员关系单独写入
	memberIds := make([]string, 0, len(req.MemberIds))
	seen := map[string]bool{ownerId: true}
	for _, uuid := range req.MemberIds {
		if seen[uuid] {
			continue
		}
		seen[uuid] = true
		memberIds = append(memberIds, uuid)
	}
	users, err := s.repos.User.FindByUuids(memberIds)
	if err != nil {
		zap.L().Error("查询群成员信息失败", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	if len(users) != len(memberIds) {
		return nil, errorx.New(errorx.CodeUserNotExist, "部分成员不存在")
	}

	group := &model.Group{
		Uuid:    "G" + random.GetNowAndLenRandomString(13),
		Name:    req.Name,
		OwnerId: ownerId,
	}
	if err := s.repos.Group.Create(group); err != nil {
		zap.L().Error("创建群组失败", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}

	members := append([]string{ownerId}, memberIds...)
	for _, uuid := range members {
		if err := s.repos.GroupMember.Create(&model.GroupMember{
			GroupUuid: group.Uuid,
			UserUuid:  uuid,
		}); err != nil {
			zap.L().Error("写入群成员失败", zap.String("group", group.Uuid),
				zap.String("user", uuid), zap.Error(err))
			return nil, errorx.ErrServerBusy
		}
	}

	return &respond.GroupRespond{
		Uuid:        group.Uuid,
		Name:        group.Name,
		OwnerId:     group.OwnerId,
		MemberCount: len(members),
		CreatedAt:   group.CreatedAt.Format(timeLayout),
	}, nil
}

// GetMyGroups 我加入的群组列表
func (s *groupService) GetMyGroups(userId string) ([]respond.GroupRespond, error) {
	groupUuids, err := s.repos.GroupMember.FindGroupUuidsByUser(userId)
	if err != nil {
		zap.L().Error("查询用户群组失败", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	groups, err := s.repos.Group.FindByUuids(groupUuids)
	if err != nil {
		zap.L().Error("查询群组信息失败", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}

	rsps := make([]respond.GroupRespond, 0, len(groups))
	for i := range groups {
		memberUuids, err := s.repos.GroupMember.FindMemberUuids(groups[i].Uuid)
		if err != nil {
			zap.L().Error("查询群成员失败", zap.Error(err))
			return nil, errorx.ErrServerBusy
		}
		rsps = append(rsps, respond.GroupRespond{
			Uuid:        groups[i].Uuid,
			Name:        groups[i].Name,
			OwnerId:     groups[i].OwnerId,
			MemberCount: len(memberUuids),
			CreatedAt:   groups[i].CreatedAt.Format(timeLayout),
		})
	}
	return rsps, nil
}

// GetGroupMembers 群成员列表，仅成员可见
func (s *groupService) GetGroupMembers(userId, groupUuid string) ([]respond.UserInfoRespond, error) {
	if err := s.requireMember(groupUuid, userId); err != nil {
		return nil, err
	}
	memberUuids, err := s.repos.GroupMember.FindMemberUuids(groupUuid)
	if err != nil {
		zap.L().Error("查询群成员失败", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	users, err := s.repos.User.FindByUuids(memberUuids)
	if err != nil {
		zap.L().Error("查询成员信息失败", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	rsps := make([]respond.UserInfoRespond, 0, len(users))
	for i := range users {
		rsp := respond.UserInfoRespond{
			Uuid:            users[i].Uuid,
			FullName:        users[i].FullName,
			Avatar:          users[i].Avatar,
			EmailVisibility: users[i].EmailVisibility,
			CreatedAt:       users[i].CreatedAt.Format(timeLayout),
		}
		if users[i].LastActiveAt.Valid {
			rsp.LastActiveAt = users[i].LastActiveAt.Time.Format(timeLayout)
		}
		rsps = append(rsps, rsp)
	}
	return rsps, nil
}

func (s *groupService) requireMember(groupUuid, userId string) error {
	isMember, err := s.repos.GroupMember.IsMember(groupUuid, userId)
	if err != nil {
		zap.L().Error("查询群成员关系失败", zap.Error(err))
		return errorx.ErrServerBusy
	}
	if !isMember {
		return errorx.New(errorx.CodeForbidden, "你不是该群成员")
	}
	return nil
}

func (s *groupService) requireOwner(groupUuid, userId string) (*model.Group, error) {
	group, err := s.repos.Group.FindByUuid(groupUuid)
	if err != nil {
		if errorx.GetCode(err) == errorx.CodeNotFound {
			return nil, errorx.New(errorx.CodeNotFound, "群组不存在")
		}
		return nil, errorx.ErrServerBusy
	}
	if group.OwnerId != userId {
		return nil, errorx.New(errorx.CodeForbidden, "仅群主可执行该操作")
	}
	return group, nil
}

// UpdateGroup 修改群名，仅群主
func (s *groupService) UpdateGroup(userId string, req request.UpdateGroupRequest) error {
	group, err := s.requireOwner(req.GroupUuid, userId)
	if err != nil {
		return err
	}
	group.Name = req.Name
	if err := s.repos.Group.Update(group); err != nil {
		zap.L().Error("更新群组失败", zap.Error(err))
		return errorx.ErrServerBusy
	}
	return nil
}

// AddMember 添加成员，仅群主
func (s *groupService) AddMember(actorId string, req request.GroupMemberRequest) error {
	if _, err := s.requireOwner(req.GroupUuid, actorId); err != nil {
		return err
	}
	user, err := s.repos.User.FindByUuid(req.UserUuid)
	if err != nil {
		if errorx.GetCode(err) == errorx.CodeNotFound {
			return errorx.New(errorx.CodeUserNotExist, "用户不存在")
		}
		return errorx.ErrServerBusy
	}
	if user.IsDeleted {
		return errorx.New(errorx.CodeUserNotExist, "用户不存在")
	}
	isMember, err := s.repos.GroupMember.IsMember(req.GroupUuid, req.UserUuid)
	if err != nil {
		zap.L().Error("查询群成员关系失败", zap.Error(err))
		return errorx.ErrServerBusy
	}
	if isMember {
		return errorx.New(errorx.CodeConflict, "该用户已在群内")
	}
	if err := s.repos.GroupMember.Create(&model.GroupMember{
		GroupUuid: req.GroupUuid,
		UserUuid:  req.UserUuid,
	}); err != nil {
		zap.L().Error("添加群成员失败", zap.Error(err))
		return errorx.ErrServerBusy
	}
	return nil
}

// RemoveMember 移除成员，仅群主，群主本人不可被移除
func (s *groupService) RemoveMember(actorId string, req request.GroupMemberRequest) error {
	group, err := s.requireOwner(req.GroupUuid, actorId)
	if err != nil {
		return err
	}
	if req.UserUuid == group.OwnerId {
		return errorx.New(errorx.CodeForbidden, "群主不可被移除")
	}
	if err := s.repos.GroupMember.Delete(req.GroupUuid, req.UserUuid); err != nil {
		zap.L().Error("移除群成员失败", zap.Error(err))
		return errorx.ErrServerBusy
	}
	return nil
}

// LeaveGroup 退群，群主不可退
func (s *groupService) LeaveGroup(userId, groupUuid string) error {
	group, err := s.repos.Group.FindByUuid(groupUuid)
	if err != nil {
		if errorx.GetCode(err) == errorx.CodeNotFound {
			return errorx.New(errorx.CodeNotFound, "群组不存在")
		}
		return errorx.ErrServerBusy
	}
	if group.OwnerId == userId {
		return errorx.New(errorx.CodeForbidden, "群主不可退群")
	}
	if err := s.requireMember(groupUuid, userId); err != nil {
		return err
	}
	if err := s.repos.GroupMember.Delete(groupUuid, userId); err != nil {
		zap.L().Error("退群失败", zap.Error(err))
		return errorx.ErrServerBusy
	}
	return nil
}
