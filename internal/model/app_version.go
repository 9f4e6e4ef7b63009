package model

import "gorm.io/gorm"

// AppVersion 客户端版本信息，用于版本检查横幅
type AppVersion struct {
	gorm.Model
	Version      string `gorm:"column:version;uniqueIndex;type:varchar(20);not null;comment:版本号"`
	DownloadUrl  string `gorm:"column:download_url;type:varchar(255);comment:下载地址"`
	ReleaseNotes string `gorm:"column:release_notes;type:TEXT;comment:更新说明"`
	ForceUpdate  bool   `gorm:"column:force_update;not null;default:false;comment:是否强制更新"`
}

func (AppVersion) TableName() string {
	return "app_version"
}
