// Package version 实现客户端版本检查逻辑
package version

import (
	"go.uber.org/zap"

	"pulse_chat_server/internal/dao/mysql/repository"
	"pulse_chat_server/internal/dto/respond"
	"pulse_chat_server/pkg/errorx"
)

type versionService struct {
	repos *repository.Repositories
}

// NewVersionService 构造函数，注入依赖
func NewVersionService(repos *repository.Repositories) *versionService {
	return &versionService{repos: repos}
}

// GetLatestVersion 最新发布的版本信息
func (s *versionService) GetLatestVersion() (*respond.AppVersionRespond, error) {
	version, err := s.repos.AppVersion.FindLatest()
	if err != nil {
		if errorx.GetCode(err) == errorx.CodeNotFound {
			return nil, errorx.New(errorx.CodeNotFound, "暂无发布版本")
		}
		zap.L().Error("查询最新版本失败", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	return &respond.AppVersionRespond{
		Version:      version.Version,
		DownloadUrl:  version.DownloadUrl,
		ReleaseNotes: version.ReleaseNotes,
		ForceUpdate:  version.ForceUpdate,
		ReleasedAt:   version.CreatedAt.Format("2006-01-02 15:04:05"),
	}, nil
}
