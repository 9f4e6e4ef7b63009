// Package admin 实现管理后台业务逻辑
package admin

import (
	"context"

	"go.uber.org/zap"

	"pulse_chat_server/internal/dao/mysql/repository"
	myredis "pulse_chat_server/internal/dao/redis"
	"pulse_chat_server/internal/dto/request"
	"pulse_chat_server/internal/dto/respond"
	"pulse_chat_server/internal/model"
	"pulse_chat_server/pkg/constants"
	"pulse_chat_server/pkg/errorx"
)

const timeLayout = "2006-01-02 15:04:05"

type adminService struct {
	repos *repository.Repositories
	cache myredis.CacheService
}

// NewAdminService 构造函数，注入依赖
func NewAdminService(repos *repository.Repositories, cache myredis.CacheService) *adminService {
	return &adminService{repos: repos, cache: cache}
}

// PublishVersion 发布客户端版本，同版本号覆盖更新
func (s *adminService) PublishVersion(req request.PublishVersionRequest) error {
	version := &model.AppVersion{
		Version:      req.Version,
		DownloadUrl:  req.DownloadUrl,
		ReleaseNotes: req.ReleaseNotes,
		ForceUpdate:  req.ForceUpdate,
	}
	if err := s.repos.AppVersion.Upsert(version); err != nil {
		zap.L().Error("发布版本失败", zap.Error(err))
		return errorx.ErrServerBusy
	}
	zap.L().Info("版本已发布", zap.String("version", req.Version))
	return nil
}

// ResetUserPassword 管理员重置用户密码，并作废其 Refresh Token
func (s *adminService) ResetUserPassword(req request.ResetUserPasswordRequest) error {
	user, err := s.repos.User.FindByUuid(req.UserId)
	if err != nil {
		if errorx.GetCode(err) == errorx.CodeNotFound {
			return errorx.New(errorx.CodeUserNotExist, "用户不存在")
		}
		zap.L().Error("查询用户失败", zap.Error(err))
		return errorx.ErrServerBusy
	}

	user.RawPassword = req.NewPassword
	if err := s.repos.User.Update(user); err != nil {
		zap.L().Error("重置密码失败", zap.String("uuid", user.Uuid), zap.Error(err))
		return errorx.ErrServerBusy
	}
	// 强制重新登录
	if err := s.cache.Delete(context.Background(), constants.REFRESH_TOKEN_KEY_PREFIX+user.Uuid); err != nil {
		zap.L().Error("清理 Token ID 失败", zap.String("uuid", user.Uuid), zap.Error(err))
	}
	zap.L().Info("管理员重置用户密码", zap.String("uuid", user.Uuid))
	return nil
}

// ListUsers 管理后台用户列表，按显示名/邮箱模糊过滤
func (s *adminService) ListUsers(keyword string) ([]respond.UserInfoRespond, error) {
	users, err := s.repos.User.Search(keyword, "")
	if err != nil {
		zap.L().Error("查询用户列表失败", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	rsps := make([]respond.UserInfoRespond, 0, len(users))
	for i := range users {
		rsp := respond.UserInfoRespond{
			Uuid:            users[i].Uuid,
			FullName:        users[i].FullName,
			Email:           users[i].Email,
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
