package group

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pulse_chat_server/internal/dao/mysql/repository"
	"pulse_chat_server/internal/dao/mysql/repository/memory"
	"pulse_chat_server/internal/dto/request"
	"pulse_chat_server/internal/model"
	"pulse_chat_server/pkg/errorx"
)

const (
	owner  = "U0000000000000000001"
	member = "U0000000000000000002"
	other  = "U0000000000000000003"
)

func newTestService(t *testing.T) (*groupService, *repository.Repositories) {
	t.Helper()
	repos := memory.NewRepositories()
	for _, uuid := range []string{owner, member, other} {
		require.NoError(t, repos.User.Create(&model.User{Uuid: uuid, FullName: uuid, Email: uuid + "@example.com"}))
	}
	return NewGroupService(repos), repos
}

func TestCreateGroupOwnerIsMember(t *testing.T) {
	svc, repos := newTestService(t)

	rsp, err := svc.CreateGroup(owner, request.CreateGroupRequest{
		Name: "team", MemberIds: []string{member, member, owner},
	})
	require.NoError(t, err)
	assert.Equal(t, owner, rsp.OwnerId)
	// 成员去重且创建者不重复计入
	assert.Equal(t, 2, rsp.MemberCount)

	ok, err := repos.GroupMember.IsMember(rsp.Uuid, owner)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCreateGroupUnknownMember(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.CreateGroup(owner, request.CreateGroupRequest{
		Name: "team", MemberIds: []string{"U9999999999999999999"},
	})
	assert.Equal(t, errorx.CodeUserNotExist, errorx.GetCode(err))
}

func TestUpdateGroupOwnerOnly(t *testing.T) {
	svc, _ := newTestService(t)

	rsp, err := svc.CreateGroup(owner, request.CreateGroupRequest{Name: "team", MemberIds: []string{member}})
	require.NoError(t, err)

	err = svc.UpdateGroup(member, request.UpdateGroupRequest{GroupUuid: rsp.Uuid, Name: "renamed"})
	assert.Equal(t, errorx.CodeForbidden, errorx.GetCode(err))

	require.NoError(t, svc.UpdateGroup(owner, request.UpdateGroupRequest{GroupUuid: rsp.Uuid, Name: "renamed"}))
}

func TestAddMemberOwnerOnly(t *testing.T) {
	svc, repos := newTestService(t)

	rsp, err := svc.CreateGroup(owner, request.CreateGroupRequest{Name: "team", MemberIds: []string{member}})
	require.NoError(t, err)

	err = svc.AddMember(member, request.GroupMemberRequest{GroupUuid: rsp.Uuid, UserUuid: other})
	assert.Equal(t, errorx.CodeForbidden, errorx.GetCode(err))

	require.NoError(t, svc.AddMember(owner, request.GroupMemberRequest{GroupUuid: rsp.Uuid, UserUuid: other}))
	ok, _ := repos.GroupMember.IsMember(rsp.Uuid, other)
	assert.True(t, ok)

	// 重复添加冲突
	err = svc.AddMember(owner, request.GroupMemberRequest{GroupUuid: rsp.Uuid, UserUuid: other})
	assert.Equal(t, errorx.CodeConflict, errorx.GetCode(err))
}

func TestRemoveMemberOwnerNotRemovable(t *testing.T) {
	svc, repos := newTestService(t)

	rsp, err := svc.CreateGroup(owner, request.CreateGroupRequest{Name: "team", MemberIds: []string{member}})
	require.NoError(t, err)

	err = svc.RemoveMember(owner, request.GroupMemberRequest{GroupUuid: rsp.Uuid, UserUuid: owner})
	assert.Equal(t, errorx.CodeForbidden, errorx.GetCode(err))

	require.NoError(t, svc.RemoveMember(owner, request.GroupMemberRequest{GroupUuid: rsp.Uuid, UserUuid: member}))
	ok, _ := repos.GroupMember.IsMember(rsp.Uuid, member)
	assert.False(t, ok)
}

func TestLeaveGroupOwnerCannotLeave(t *testing.T) {
	svc, repos := newTestService(t)

	rsp, err := svc.CreateGroup(owner, request.CreateGroupRequest{Name: "team", MemberIds: []string{member}})
	require.NoError(t, err)

	err = svc.LeaveGroup(owner, rsp.Uuid)
	assert.Equal(t, errorx.CodeForbidden, errorx.GetCode(err))

	require.NoError(t, svc.LeaveGroup(member, rsp.Uuid))
	ok, _ := repos.GroupMember.IsMember(rsp.Uuid, member)
	assert.False(t, ok)
}

func TestGetGroupMembersMemberOnly(t *testing.T) {
	svc, _ := newTestService(t)

	rsp, err := svc.CreateGroup(owner, request.CreateGroupRequest{Name: "team", MemberIds: []string{member}})
	require.NoError(t, err)

	_, err = svc.GetGroupMembers(other, rsp.Uuid)
	assert.Equal(t, errorx.CodeForbidden, errorx.GetCode(err))

	members, err := svc.GetGroupMembers(member, rsp.Uuid)
	require.NoError(t, err)
	assert.Len(t, members, 2)
}
