package repository

import (
	"pulse_chat_server/internal/model"

	"gorm.io/gorm"
)

type friendRequestRepository struct {
	db *gorm.DB
}

// NewFriendRequestRepository 创建好友申请 Repository
func NewFriendRequestRepository(db *gorm.DB) FriendRequestRepository {
	return &friendRequestRepository{db: db}
}

// Create 创建好友申请
func (r *friendRequestRepository) Create(req *model.FriendRequest) error {
	if err := r.db.Create(req).Error; err != nil {
		return wrapDBError(err, "创建好友申请")
	}
	return nil
}

// FindByUuid 根据 UUID 查找申请
func (r *friendRequestRepository) FindByUuid(uuid string) (*model.FriendRequest, error) {
	var req model.FriendRequest
	if err := r.db.Where("uuid = ?", uuid).First(&req).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询好友申请 uuid=%s", uuid)
	}
	return &req, nil
}

// FindPendingBetween 查找无序对 (a,b) 之间的 pending 申请
// 双向各查一次即覆盖无序对唯一性检查
func (r *friendRequestRepository) FindPendingBetween(a, b string) (*model.FriendRequest, error) {
	var req model.FriendRequest
	if err := r.db.
		Where("status = ?", model.FriendRequestPending).
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)", a, b, b, a).
		First(&req).Error; err != nil {
		return nil, wrapDBError(err, "查询待处理申请")
	}
	return &req, nil
}

// FindPendingByReceiver 查找发给某用户的待处理申请
func (r *friendRequestRepository) FindPendingByReceiver(receiverId string) ([]model.FriendRequest, error) {
	var reqs []model.FriendRequest
	if err := r.db.
		Where("receiver_id = ? AND status = ?", receiverId, model.FriendRequestPending).
		Find(&reqs).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询收到的申请 receiver=%s", receiverId)
	}
	return reqs, nil
}

// FindPendingBySender 查找某用户发出的待处理申请
func (r *friendRequestRepository) FindPendingBySender(senderId string) ([]model.FriendRequest, error) {
	var reqs []model.FriendRequest
	if err := r.db.
		Where("sender_id = ? AND status = ?", senderId, model.FriendRequestPending).
		Find(&reqs).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询发出的申请 sender=%s", senderId)
	}
	return reqs, nil
}

// UpdateStatus 更新申请状态
func (r *friendRequestRepository) UpdateStatus(uuid string, status int8) error {
	if err := r.db.Model(&model.FriendRequest{}).
		Where("uuid = ?", uuid).
		Update("status", status).Error; err != nil {
		return wrapDBErrorf(err, "更新申请状态 uuid=%s", uuid)
	}
	return nil
}

// Accept 同一事务内置为已通过并镜像写入双向好友关系
// 只翻转状态不写关系会破坏对称性不变量，所以两步不允许分开提交
func (r *friendRequestRepository) Accept(uuid, senderId, receiverId string) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.FriendRequest{}).
			Where("uuid = ?", uuid).
			Update("status", model.FriendRequestAccepted).Error; err != nil {
			return err
		}
		if err := tx.Create(&model.Friendship{UserId: senderId, FriendId: receiverId}).Error; err != nil {
			return err
		}
		return tx.Create(&model.Friendship{UserId: receiverId, FriendId: senderId}).Error
	})
	return wrapDBErrorf(err, "通过好友申请 uuid=%s", uuid)
}

// HardDelete 删除申请行
func (r *friendRequestRepository) HardDelete(uuid string) error {
	if err := r.db.Unscoped().Where("uuid = ?", uuid).
		Delete(&model.FriendRequest{}).Error; err != nil {
		return wrapDBErrorf(err, "删除好友申请 uuid=%s", uuid)
	}
	return nil
}

// HardDeleteAllFor 删除涉及指定用户的所有申请
func (r *friendRequestRepository) HardDeleteAllFor(userUuid string) error {
	if err := r.db.Unscoped().
		Where("sender_id = ? OR receiver_id = ?", userUuid, userUuid).
		Delete(&model.FriendRequest{}).Error; err != nil {
		return wrapDBErrorf(err, "清理好友申请 user=%s", userUuid)
	}
	return nil
}
