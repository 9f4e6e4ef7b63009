// Package model 定义数据库实体模型
// 本文件定义用户模型，包含资料、隐私策略和注销状态
package model

import (
	"database/sql"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// User 用户模型
// 对应数据库 user 表
type User struct {
	gorm.Model

	// Uuid 用户唯一标识
	// 格式：U + 时间戳随机字符串，如 "U260829Ab3dE9Xk21"
	Uuid string `gorm:"column:uuid;uniqueIndex;type:char(20);comment:用户唯一id"`

	// FullName 显示名
	FullName string `gorm:"column:full_name;type:varchar(50);not null;comment:显示名"`

	// Email 邮箱，兼作登录凭证
	Email string `gorm:"column:email;uniqueIndex;type:varchar(100);not null;comment:邮箱"`

	// Password 密码（bcrypt 哈希后存储，不存明文）
	Password string `gorm:"column:password;type:varchar(100);not null;comment:密码"`

	// Avatar 头像，存相对路径如 "/static/avatars/xxx.jpg"
	Avatar string `gorm:"column:avatar;type:varchar(255);comment:头像"`

	// EmailVisibility 邮箱可见性策略
	// everyone / friends_only / only_me
	EmailVisibility string `gorm:"column:email_visibility;type:varchar(20);default:everyone;not null;comment:邮箱可见性"`

	// IsVerified 邮箱是否已验证，未验证不允许登录
	IsVerified bool `gorm:"column:is_verified;not null;default:false;comment:邮箱已验证"`

	// VerificationCode 注册验证码及其过期时间
	VerificationCode          string       `gorm:"column:verification_code;type:char(10);comment:邮箱验证码"`
	VerificationCodeExpiresAt sql.NullTime `gorm:"column:verification_code_expires_at;comment:验证码过期时间"`

	// ResetToken 密码重置令牌及其过期时间
	ResetToken          string       `gorm:"column:reset_token;index;type:char(64);comment:密码重置令牌"`
	ResetTokenExpiresAt sql.NullTime `gorm:"column:reset_token_expires_at;comment:重置令牌过期时间"`

	// IsAdmin 管理员标志，0.不是，1.是
	IsAdmin int8 `gorm:"column:is_admin;not null;comment:是否是管理员，0.不是，1.是"`

	// LastActiveAt 最近活跃时间，连接断开时回写
	LastActiveAt sql.NullTime `gorm:"column:last_active_at;comment:最近活跃时间"`

	// IsDeleted 账号注销标志（业务级软删除，带 7 天恢复期）
	// 与 gorm.Model 的 DeletedAt 无关，后者不参与账号注销流程
	IsDeleted        bool         `gorm:"column:is_deleted;index;not null;default:false;comment:账号已注销"`
	AccountDeletedAt sql.NullTime `gorm:"column:account_deleted_at;comment:注销时间"`

	// RawPassword 明文密码（不入库）
	// 接收前端传来的明文，在 BeforeSave 中加密
	RawPassword string `gorm:"-" json:"-"`
}

// TableName 指定表名
func (User) TableName() string {
	return "user"
}

// BeforeSave GORM Hook：在创建和更新前自动调用
// 将 RawPassword 明文加密后存入 Password 字段，调用方无需手动加密
func (u *User) BeforeSave(tx *gorm.DB) (err error) {
	if u.RawPassword != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.RawPassword), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		u.Password = string(hash)
		u.RawPassword = ""
	}
	return nil
}

// CheckPassword 校验密码是否正确，用于登录验证
func (u *User) CheckPassword(plaintext string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(plaintext))
	return err == nil
}
