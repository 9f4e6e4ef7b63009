package admin

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pulse_chat_server/internal/dao/mysql/repository"
	"pulse_chat_server/internal/dao/mysql/repository/memory"
	"pulse_chat_server/internal/dto/request"
	"pulse_chat_server/internal/model"
	"pulse_chat_server/pkg/constants"
	"pulse_chat_server/pkg/errorx"
)

// stubCache 内存版缓存，代替 Redis
type stubCache struct {
	data map[string]string
}

func newStubCache() *stubCache {
	return &stubCache{data: make(map[string]string)}
}

func (c *stubCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	c.data[key] = value
	return nil
}

func (c *stubCache) Get(_ context.Context, key string) (string, error) {
	return c.data[key], nil
}

func (c *stubCache) GetOrError(_ context.Context, key string) (string, error) {
	if v, ok := c.data[key]; ok {
		return v, nil
	}
	return "", errorx.New(errorx.CodeNotFound, "key 不存在")
}

func (c *stubCache) Delete(_ context.Context, key string) error {
	delete(c.data, key)
	return nil
}

func (c *stubCache) DeleteByPattern(_ context.Context, _ string) error { return nil }

func (c *stubCache) AddToSet(_ context.Context, _ string, _ ...interface{}) error { return nil }

func (c *stubCache) GetSetMembers(_ context.Context, _ string) ([]string, error) { return nil, nil }

func (c *stubCache) RemoveFromSet(_ context.Context, _ string, _ ...interface{}) error { return nil }

func newTestService(t *testing.T) (*adminService, *repository.Repositories, *stubCache) {
	t.Helper()
	repos := memory.NewRepositories()
	cache := newStubCache()
	return NewAdminService(repos, cache), repos, cache
}

func TestResetUserPassword(t *testing.T) {
	svc, repos, cache := newTestService(t)
	user := &model.User{
		Uuid: "U0000000000000000001", FullName: "Alice",
		Email: "alice@example.com", RawPassword: "old-password", IsVerified: true,
	}
	require.NoError(t, repos.User.Create(user))
	tokenKey := constants.REFRESH_TOKEN_KEY_PREFIX + user.Uuid
	cache.data[tokenKey] = "token-id"

	err := svc.ResetUserPassword(request.ResetUserPasswordRequest{
		UserId: user.Uuid, NewPassword: "new-password",
	})
	require.NoError(t, err)

	stored, err := repos.User.FindByUuid(user.Uuid)
	require.NoError(t, err)
	assert.False(t, stored.CheckPassword("old-password"))
	assert.True(t, stored.CheckPassword("new-password"))

	// Refresh Token 已作废
	_, ok := cache.data[tokenKey]
	assert.False(t, ok)
}

func TestResetUserPasswordUnknownUser(t *testing.T) {
	svc, _, _ := newTestService(t)
	err := svc.ResetUserPassword(request.ResetUserPasswordRequest{
		UserId: "U0000000000000000099", NewPassword: "whatever123",
	})
	assert.Equal(t, errorx.CodeUserNotExist, errorx.GetCode(err))
}

func TestPublishVersionUpsertsSameVersion(t *testing.T) {
	svc, repos, _ := newTestService(t)

	require.NoError(t, svc.PublishVersion(request.PublishVersionRequest{
		Version: "1.2.0", DownloadUrl: "https://example.com/v1.2.0",
	}))
	require.NoError(t, svc.PublishVersion(request.PublishVersionRequest{
		Version: "1.2.0", DownloadUrl: "https://example.com/v1.2.0-fix", ForceUpdate: true,
	}))

	latest, err := repos.AppVersion.FindLatest()
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/v1.2.0-fix", latest.DownloadUrl)
	assert.True(t, latest.ForceUpdate)
}
