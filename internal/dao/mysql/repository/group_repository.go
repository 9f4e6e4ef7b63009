package repository

import (
	"pulse_chat_server/internal/model"

	"gorm.io/gorm"
)

type groupRepository struct {
	db *gorm.DB
}

// NewGroupRepository 创建群组 Repository
func NewGroupRepository(db *gorm.DB) GroupRepository {
	return &groupRepository{db: db}
}

// Create 创建新群组
func (r *groupRepository) Create(group *model.Group) error {
	if err := r.db.Create(group).Error; err != nil {
		return wrapDBError(err, "创建群组")
	}
	return nil
}

// FindByUuid 根据 UUID 查找群组
func (r *groupRepository) FindByUuid(uuid string) (*model.Group, error) {
	var group model.Group
	if err := r.db.Where("uuid = ?", uuid).First(&group).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询群组 uuid=%s", uuid)
	}
	return &group, nil
}

// FindByUuids 批量根据 UUID 查找群组
func (r *groupRepository) FindByUuids(uuids []string) ([]model.Group, error) {
	if len(uuids) == 0 {
		return []model.Group{}, nil
	}
	var groups []model.Group
	if err := r.db.Where("uuid IN ?", uuids).Find(&groups).Error; err != nil {
		return nil, wrapDBError(err, "批量查询群组")
	}
	return groups, nil
}

// Update 更新群组信息
func (r *groupRepository) Update(group *model.Group) error {
	if err := r.db.Save(group).Error; err != nil {
		return wrapDBErrorf(err, "更新群组 uuid=%s", group.Uuid)
	}
	return nil
}

type groupMemberRepository struct {
	db *gorm.DB
}

// NewGroupMemberRepository 创建群成员 Repository
func NewGroupMemberRepository(db *gorm.DB) GroupMemberRepository {
	return &groupMemberRepository{db: db}
}

// Create 添加群成员
func (r *groupMemberRepository) Create(member *model.GroupMember) error {
	if err := r.db.Create(member).Error; err != nil {
		return wrapDBError(err, "添加群成员")
	}
	return nil
}

// Delete 移除群成员，成员不存在时为幂等 no-op
func (r *groupMemberRepository) Delete(groupUuid, userUuid string) error {
	if err := r.db.Unscoped().
		Where("group_uuid = ? AND user_uuid = ?", groupUuid, userUuid).
		Delete(&model.GroupMember{}).Error; err != nil {
		return wrapDBErrorf(err, "移除群成员 group=%s user=%s", groupUuid, userUuid)
	}
	return nil
}

// IsMember 是否为群成员
func (r *groupMemberRepository) IsMember(groupUuid, userUuid string) (bool, error) {
	var count int64
	if err := r.db.Model(&model.GroupMember{}).
		Where("group_uuid = ? AND user_uuid = ?", groupUuid, userUuid).
		Count(&count).Error; err != nil {
		return false, wrapDBError(err, "查询群成员关系")
	}
	return count > 0, nil
}

// FindMemberUuids 群成员 UUID 列表
func (r *groupMemberRepository) FindMemberUuids(groupUuid string) ([]string, error) {
	var uuids []string
	if err := r.db.Model(&model.GroupMember{}).
		Where("group_uuid = ?", groupUuid).
		Pluck("user_uuid", &uuids).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询群成员 group=%s", groupUuid)
	}
	return uuids, nil
}

// FindGroupUuidsByUser 用户加入的群 UUID 列表
func (r *groupMemberRepository) FindGroupUuidsByUser(userUuid string) ([]string, error) {
	var uuids []string
	if err := r.db.Model(&model.GroupMember{}).
		Where("user_uuid = ?", userUuid).
		Pluck("group_uuid", &uuids).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询用户群组 user=%s", userUuid)
	}
	return uuids, nil
}

// DeleteAllForUser 删除某用户的全部群成员关系
func (r *groupMemberRepository) DeleteAllForUser(userUuid string) error {
	if err := r.db.Unscoped().
		Where("user_uuid = ?", userUuid).
		Delete(&model.GroupMember{}).Error; err != nil {
		return wrapDBErrorf(err, "清理群成员关系 user=%s", userUuid)
	}
	return nil
}
