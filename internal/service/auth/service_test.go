package auth

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pulse_chat_server/internal/dao/mysql/repository"
	"pulse_chat_server/internal/dao/mysql/repository/memory"
	"pulse_chat_server/internal/dto/request"
	"pulse_chat_server/internal/model"
	"pulse_chat_server/pkg/errorx"
	"pulse_chat_server/pkg/util/jwt"
)

func TestMain(m *testing.M) {
	jwt.Init("unit-test-secret", 15, 168)
	m.Run()
}

// memoryCache 内存版缓存，代替 Redis
type memoryCache struct {
	data map[string]string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: make(map[string]string)}
}

func (c *memoryCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	c.data[key] = value
	return nil
}

func (c *memoryCache) Get(_ context.Context, key string) (string, error) {
	return c.data[key], nil
}

func (c *memoryCache) GetOrError(_ context.Context, key string) (string, error) {
	if v, ok := c.data[key]; ok {
		return v, nil
	}
	return "", errorx.New(errorx.CodeNotFound, "key 不存在")
}

func (c *memoryCache) Delete(_ context.Context, key string) error {
	delete(c.data, key)
	return nil
}

func (c *memoryCache) DeleteByPattern(_ context.Context, _ string) error { return nil }

func (c *memoryCache) AddToSet(_ context.Context, _ string, _ ...interface{}) error { return nil }

func (c *memoryCache) GetSetMembers(_ context.Context, _ string) ([]string, error) {
	return nil, nil
}

func (c *memoryCache) RemoveFromSet(_ context.Context, _ string, _ ...interface{}) error {
	return nil
}

// recordMailer 记录发出的邮件
type recordMailer struct {
	sent []string // 邮件正文
}

func (m *recordMailer) Send(_, _, textBody string) error {
	m.sent = append(m.sent, textBody)
	return nil
}

func newTestService(t *testing.T) (*authService, *repository.Repositories, *memoryCache, *recordMailer) {
	t.Helper()
	repos := memory.NewRepositories()
	cache := newMemoryCache()
	mailer := &recordMailer{}
	return NewAuthService(repos, cache, mailer), repos, cache, mailer
}

func createVerifiedUser(t *testing.T, repos *repository.Repositories, uuid, email, password string) {
	t.Helper()
	user := &model.User{
		Uuid:            uuid,
		FullName:        "Test User",
		Email:           email,
		RawPassword:     password,
		EmailVisibility: "everyone",
		IsVerified:      true,
	}
	require.NoError(t, repos.User.Create(user))
}

func TestRegisterVerifyLoginFlow(t *testing.T) {
	svc, repos, _, mailer := newTestService(t)

	rsp, err := svc.Register(request.RegisterRequest{
		FullName: "Alice", Email: "alice@example.com", Password: "secret123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, rsp.Uuid)
	assert.Len(t, mailer.sent, 1)

	// 未验证前不允许登录
	_, err = svc.Login(request.LoginRequest{Email: "alice@example.com", Password: "secret123"})
	assert.Equal(t, errorx.CodeNotVerified, errorx.GetCode(err))

	stored, err := repos.User.FindByEmail("alice@example.com")
	require.NoError(t, err)
	require.NoError(t, svc.VerifyEmail(request.VerifyEmailRequest{
		Email: "alice@example.com", Code: stored.VerificationCode,
	}))

	login, err := svc.Login(request.LoginRequest{Email: "alice@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.NotEmpty(t, login.AccessToken)
	assert.NotEmpty(t, login.RefreshToken)
	assert.False(t, login.Restored)
}

func TestRegisterVerifiedEmailRejected(t *testing.T) {
	svc, repos, _, _ := newTestService(t)
	createVerifiedUser(t, repos, "U0000000000000000001", "alice@example.com", "secret123")

	_, err := svc.Register(request.RegisterRequest{
		FullName: "Imposter", Email: "alice@example.com", Password: "other",
	})
	assert.Equal(t, errorx.CodeUserExist, errorx.GetCode(err))
}

func TestVerifyEmailWrongCode(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	_, err := svc.Register(request.RegisterRequest{
		FullName: "Alice", Email: "alice@example.com", Password: "secret123",
	})
	require.NoError(t, err)

	err = svc.VerifyEmail(request.VerifyEmailRequest{Email: "alice@example.com", Code: "000000"})
	assert.Equal(t, errorx.CodeInvalidParam, errorx.GetCode(err))
}

func TestLoginWrongPassword(t *testing.T) {
	svc, repos, _, _ := newTestService(t)
	createVerifiedUser(t, repos, "U0000000000000000001", "alice@example.com", "secret123")

	_, err := svc.Login(request.LoginRequest{Email: "alice@example.com", Password: "nope"})
	assert.Equal(t, errorx.CodeInvalidPassword, errorx.GetCode(err))
}

func TestLoginRestoresWithinGracePeriod(t *testing.T) {
	svc, repos, _, _ := newTestService(t)
	createVerifiedUser(t, repos, "U0000000000000000001", "alice@example.com", "secret123")

	user, err := repos.User.FindByUuid("U0000000000000000001")
	require.NoError(t, err)
	user.IsDeleted = true
	user.AccountDeletedAt = sql.NullTime{Time: time.Now().Add(-48 * time.Hour), Valid: true}
	require.NoError(t, repos.User.Update(user))

	login, err := svc.Login(request.LoginRequest{Email: "alice@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.True(t, login.Restored)

	restored, err := repos.User.FindByUuid("U0000000000000000001")
	require.NoError(t, err)
	assert.False(t, restored.IsDeleted)
}

func TestLoginAfterGracePeriodIsTerminal(t *testing.T) {
	svc, repos, _, _ := newTestService(t)
	createVerifiedUser(t, repos, "U0000000000000000001", "alice@example.com", "secret123")

	user, err := repos.User.FindByUuid("U0000000000000000001")
	require.NoError(t, err)
	user.IsDeleted = true
	user.AccountDeletedAt = sql.NullTime{Time: time.Now().Add(-8 * 24 * time.Hour), Valid: true}
	require.NoError(t, repos.User.Update(user))

	_, err = svc.Login(request.LoginRequest{Email: "alice@example.com", Password: "secret123"})
	assert.Equal(t, errorx.CodeAccountDeleted, errorx.GetCode(err))
}

func TestRefreshTokenRotation(t *testing.T) {
	svc, repos, _, _ := newTestService(t)
	createVerifiedUser(t, repos, "U0000000000000000001", "alice@example.com", "secret123")

	login, err := svc.Login(request.LoginRequest{Email: "alice@example.com", Password: "secret123"})
	require.NoError(t, err)

	tokens, err := svc.RefreshToken(login.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, tokens.AccessToken)

	// 轮换后旧 Refresh Token 不再可用
	_, err = svc.RefreshToken(login.RefreshToken)
	assert.Equal(t, errorx.CodeUnauthorized, errorx.GetCode(err))
}

func TestRefreshTokenRejectsAccessToken(t *testing.T) {
	svc, repos, _, _ := newTestService(t)
	createVerifiedUser(t, repos, "U0000000000000000001", "alice@example.com", "secret123")

	login, err := svc.Login(request.LoginRequest{Email: "alice@example.com", Password: "secret123"})
	require.NoError(t, err)

	_, err = svc.RefreshToken(login.AccessToken)
	assert.Equal(t, errorx.CodeUnauthorized, errorx.GetCode(err))
}

func TestResetPasswordInvalidatesSessionsAndToken(t *testing.T) {
	svc, repos, _, mailer := newTestService(t)
	createVerifiedUser(t, repos, "U0000000000000000001", "alice@example.com", "secret123")

	_, err := svc.Login(request.LoginRequest{Email: "alice@example.com", Password: "secret123"})
	require.NoError(t, err)

	require.NoError(t, svc.ForgotPassword("alice@example.com"))
	require.NotEmpty(t, mailer.sent)

	user, err := repos.User.FindByEmail("alice@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, user.ResetToken)

	require.NoError(t, svc.ResetPassword(request.ResetPasswordRequest{
		Token: user.ResetToken, NewPassword: "brandnew456",
	}))

	// 旧密码失效，新密码可用
	_, err = svc.Login(request.LoginRequest{Email: "alice@example.com", Password: "secret123"})
	assert.Equal(t, errorx.CodeInvalidPassword, errorx.GetCode(err))
	_, err = svc.Login(request.LoginRequest{Email: "alice@example.com", Password: "brandnew456"})
	assert.NoError(t, err)

	// 令牌一次性：重置后立即清空
	refreshed, err := repos.User.FindByEmail("alice@example.com")
	require.NoError(t, err)
	assert.Empty(t, refreshed.ResetToken)
}

func TestForgotPasswordUnknownEmailSilent(t *testing.T) {
	svc, _, _, mailer := newTestService(t)

	assert.NoError(t, svc.ForgotPassword("nobody@example.com"))
	assert.Empty(t, mailer.sent)
}

func TestGetSidebarUsersExcludesSelfAndUnverified(t *testing.T) {
	svc, repos, _, _ := newTestService(t)
	createVerifiedUser(t, repos, "U0000000000000000001", "me@example.com", "password1")
	createVerifiedUser(t, repos, "U0000000000000000002", "peer@example.com", "password2")
	unverified := &model.User{
		Uuid: "U0000000000000000003", FullName: "Ghost", Email: "ghost@example.com",
		RawPassword: "password3", EmailVisibility: "everyone",
	}
	require.NoError(t, repos.User.Create(unverified))

	users, err := svc.GetSidebarUsers("U0000000000000000001")
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "U0000000000000000002", users[0].Uuid)
	// everyone 档位邮箱对所有人可见
	assert.Equal(t, "peer@example.com", users[0].Email)
}
