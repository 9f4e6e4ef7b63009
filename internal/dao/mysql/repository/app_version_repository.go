package repository

import (
	"errors"

	"pulse_chat_server/internal/model"

	"gorm.io/gorm"
)

type appVersionRepository struct {
	db *gorm.DB
}

// NewAppVersionRepository 创建版本信息 Repository
func NewAppVersionRepository(db *gorm.DB) AppVersionRepository {
	return &appVersionRepository{db: db}
}

// FindLatest 查询最新发布的版本
func (r *appVersionRepository) FindLatest() (*model.AppVersion, error) {
	var version model.AppVersion
	if err := r.db.Order("created_at DESC").First(&version).Error; err != nil {
		return nil, wrapDBError(err, "查询最新版本")
	}
	return &version, nil
}

// Upsert 按版本号写入或更新发布记录
func (r *appVersionRepository) Upsert(version *model.AppVersion) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var existing model.AppVersion
		err := tx.Where("version = ?", version.Version).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return tx.Create(version).Error
		}
		if err != nil {
			return err
		}
		version.ID = existing.ID
		version.CreatedAt = existing.CreatedAt
		return tx.Save(version).Error
	})
	if err != nil {
		return wrapDBErrorf(err, "保存版本 version=%s", version.Version)
	}
	return nil
}
