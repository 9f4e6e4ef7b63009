package repository

import (
	"pulse_chat_server/internal/model"

	"gorm.io/gorm"
)

type friendshipRepository struct {
	db *gorm.DB
}

// NewFriendshipRepository 创建好友关系 Repository
func NewFriendshipRepository(db *gorm.DB) FriendshipRepository {
	return &friendshipRepository{db: db}
}

// CreatePair 同一事务内写入 (a,b) 与 (b,a) 两行
// 对称性不变量由这里保证，调用方不允许只写单向
func (r *friendshipRepository) CreatePair(a, b string) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&model.Friendship{UserId: a, FriendId: b}).Error; err != nil {
			return err
		}
		return tx.Create(&model.Friendship{UserId: b, FriendId: a}).Error
	})
	return wrapDBErrorf(err, "建立好友关系 %s <-> %s", a, b)
}

// DeletePair 删除双向关系
func (r *friendshipRepository) DeletePair(a, b string) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		return tx.Unscoped().
			Where("(user_id = ? AND friend_id = ?) OR (user_id = ? AND friend_id = ?)", a, b, b, a).
			Delete(&model.Friendship{}).Error
	})
	return wrapDBErrorf(err, "解除好友关系 %s <-> %s", a, b)
}

// Exists 是否已是好友
// 关系对称，查单向即可
func (r *friendshipRepository) Exists(a, b string) (bool, error) {
	var count int64
	if err := r.db.Model(&model.Friendship{}).
		Where("user_id = ? AND friend_id = ?", a, b).
		Count(&count).Error; err != nil {
		return false, wrapDBError(err, "查询好友关系")
	}
	return count > 0, nil
}

// FindFriendUuids 查找某用户的全部好友 UUID
func (r *friendshipRepository) FindFriendUuids(userId string) ([]string, error) {
	var uuids []string
	if err := r.db.Model(&model.Friendship{}).
		Where("user_id = ?", userId).
		Pluck("friend_id", &uuids).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询好友列表 user_id=%s", userId)
	}
	return uuids, nil
}

// DeleteAllFor 删除涉及指定用户的所有关系行
func (r *friendshipRepository) DeleteAllFor(userUuid string) error {
	if err := r.db.Unscoped().
		Where("user_id = ? OR friend_id = ?", userUuid, userUuid).
		Delete(&model.Friendship{}).Error; err != nil {
		return wrapDBErrorf(err, "清理好友关系 user=%s", userUuid)
	}
	return nil
}

type userBlockRepository struct {
	db *gorm.DB
}

// NewUserBlockRepository 创建拉黑关系 Repository
func NewUserBlockRepository(db *gorm.DB) UserBlockRepository {
	return &userBlockRepository{db: db}
}

// Create 建立拉黑关系，重复拉黑视为成功
func (r *userBlockRepository) Create(userId, blockedId string) error {
	exists, err := r.Exists(userId, blockedId)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	if err := r.db.Create(&model.UserBlock{UserId: userId, BlockedId: blockedId}).Error; err != nil {
		return wrapDBError(err, "创建拉黑关系")
	}
	return nil
}

// Delete 解除拉黑关系，不存在时为幂等 no-op
func (r *userBlockRepository) Delete(userId, blockedId string) error {
	if err := r.db.Unscoped().
		Where("user_id = ? AND blocked_id = ?", userId, blockedId).
		Delete(&model.UserBlock{}).Error; err != nil {
		return wrapDBError(err, "解除拉黑关系")
	}
	return nil
}

// Exists 是否已拉黑
func (r *userBlockRepository) Exists(userId, blockedId string) (bool, error) {
	var count int64
	if err := r.db.Model(&model.UserBlock{}).
		Where("user_id = ? AND blocked_id = ?", userId, blockedId).
		Count(&count).Error; err != nil {
		return false, wrapDBError(err, "查询拉黑关系")
	}
	return count > 0, nil
}

// FindBlockedUuids 查找某用户拉黑的全部 UUID
func (r *userBlockRepository) FindBlockedUuids(userId string) ([]string, error) {
	var uuids []string
	if err := r.db.Model(&model.UserBlock{}).
		Where("user_id = ?", userId).
		Pluck("blocked_id", &uuids).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询拉黑列表 user_id=%s", userId)
	}
	return uuids, nil
}

// DeleteAllFor 删除指定用户作为任一方的所有拉黑行
func (r *userBlockRepository) DeleteAllFor(userUuid string) error {
	if err := r.db.Unscoped().
		Where("user_id = ? OR blocked_id = ?", userUuid, userUuid).
		Delete(&model.UserBlock{}).Error; err != nil {
		return wrapDBErrorf(err, "清理拉黑关系 user=%s", userUuid)
	}
	return nil
}
