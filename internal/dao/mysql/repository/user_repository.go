package repository

import (
	"time"

	"pulse_chat_server/internal/model"

	"gorm.io/gorm"
)

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建用户 Repository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// FindByUuid 根据 UUID 查找用户
func (r *userRepository) FindByUuid(uuid string) (*model.User, error) {
	var user model.User
	if err := r.db.Where("uuid = ?", uuid).First(&user).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询用户 uuid=%s", uuid)
	}
	return &user, nil
}

// FindByEmail 根据邮箱查找用户
// 不过滤 is_deleted：登录流程需要据此判断恢复期
func (r *userRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询用户 email=%s", email)
	}
	return &user, nil
}

// FindByResetToken 根据密码重置令牌查找用户
func (r *userRepository) FindByResetToken(token string) (*model.User, error) {
	var user model.User
	if err := r.db.Where("reset_token = ?", token).First(&user).Error; err != nil {
		return nil, wrapDBError(err, "重置令牌无效")
	}
	return &user, nil
}

// FindAllExcept 查找除指定用户外的所有未注销用户
func (r *userRepository) FindAllExcept(excludeUuid string) ([]model.User, error) {
	var users []model.User
	if err := r.db.Where("uuid <> ? AND is_deleted = ?", excludeUuid, false).Find(&users).Error; err != nil {
		return nil, wrapDBError(err, "查询用户列表")
	}
	return users, nil
}

// FindByUuids 批量根据 UUID 查找用户
func (r *userRepository) FindByUuids(uuids []string) ([]model.User, error) {
	if len(uuids) == 0 {
		return []model.User{}, nil
	}
	var users []model.User
	if err := r.db.Where("uuid IN ?", uuids).Find(&users).Error; err != nil {
		return nil, wrapDBError(err, "批量查询用户")
	}
	return users, nil
}

// Search 按显示名/邮箱模糊查找
func (r *userRepository) Search(query, excludeUuid string) ([]model.User, error) {
	var users []model.User
	like := "%" + query + "%"
	if err := r.db.
		Where("uuid <> ? AND is_deleted = ?", excludeUuid, false).
		Where("full_name LIKE ? OR email LIKE ?", like, like).
		Find(&users).Error; err != nil {
		return nil, wrapDBErrorf(err, "搜索用户 query=%s", query)
	}
	return users, nil
}

// Create 创建新用户
func (r *userRepository) Create(user *model.User) error {
	if err := r.db.Create(user).Error; err != nil {
		return wrapDBError(err, "创建用户")
	}
	return nil
}

// Update 保存用户信息
func (r *userRepository) Update(user *model.User) error {
	if err := r.db.Save(user).Error; err != nil {
		return wrapDBErrorf(err, "更新用户 uuid=%s", user.Uuid)
	}
	return nil
}

// UpdateLastActive 回写最近活跃时间
func (r *userRepository) UpdateLastActive(uuid string, t time.Time) error {
	if err := r.db.Model(&model.User{}).Where("uuid = ?", uuid).
		Update("last_active_at", t).Error; err != nil {
		return wrapDBErrorf(err, "更新最近活跃时间 uuid=%s", uuid)
	}
	return nil
}

// FindDeletedBefore 查找注销时间早于 t 的账号
func (r *userRepository) FindDeletedBefore(t time.Time) ([]model.User, error) {
	var users []model.User
	if err := r.db.Where("is_deleted = ? AND account_deleted_at < ?", true, t).
		Find(&users).Error; err != nil {
		return nil, wrapDBError(err, "查询待清理账号")
	}
	return users, nil
}

// HardDeleteByUuid 永久删除用户行
func (r *userRepository) HardDeleteByUuid(uuid string) error {
	if err := r.db.Unscoped().Where("uuid = ?", uuid).Delete(&model.User{}).Error; err != nil {
		return wrapDBErrorf(err, "永久删除用户 uuid=%s", uuid)
	}
	return nil
}
