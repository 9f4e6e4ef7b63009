package queue

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pulse_chat_server/internal/config"
	"pulse_chat_server/internal/dao/mysql/repository"
	"pulse_chat_server/internal/dao/mysql/repository/memory"
	"pulse_chat_server/internal/model"
	"pulse_chat_server/pkg/errorx"
)

func seedDeletedUser(t *testing.T, repos *repository.Repositories, uuid string, deletedAgo time.Duration) {
	t.Helper()
	user := &model.User{
		Uuid:             uuid,
		FullName:         "Deleted User",
		Email:            uuid + "@example.com",
		IsDeleted:        true,
		AccountDeletedAt: sql.NullTime{Time: time.Now().Add(-deletedAgo), Valid: true},
	}
	require.NoError(t, repos.User.Create(user))
}

func TestCleanupPurgesExpiredAccountData(t *testing.T) {
	repos := memory.NewRepositories()
	const expired = "U0000000000000000001"
	const other = "U0000000000000000002"
	seedDeletedUser(t, repos, expired, 8*24*time.Hour)
	require.NoError(t, repos.User.Create(&model.User{
		Uuid: other, FullName: "Other", Email: "other@example.com", IsVerified: true,
	}))

	require.NoError(t, repos.Friendship.CreatePair(expired, other))
	require.NoError(t, repos.Block.Create(expired, other))
	require.NoError(t, repos.Block.Create(other, expired))
	require.NoError(t, repos.Message.Create(&model.Message{
		Uuid: 1, SenderId: expired, ReceiverId: other, Text: "hi",
	}))

	w := NewCleanupWorker(&config.Config{}, repos)
	err := w.HandleCleanupDeletedAccounts(context.Background(),
		asynq.NewTask(TypeCleanupDeletedAccounts, nil))
	require.NoError(t, err)

	_, err = repos.User.FindByUuid(expired)
	assert.Equal(t, errorx.CodeNotFound, errorx.GetCode(err))

	// 拉黑行两个方向都要清掉
	blocked, _ := repos.Block.Exists(expired, other)
	assert.False(t, blocked)
	blocked, _ = repos.Block.Exists(other, expired)
	assert.False(t, blocked)

	isFriend, _ := repos.Friendship.Exists(other, expired)
	assert.False(t, isFriend)
	msgs, err := repos.Message.FindDirect(expired, other, other)
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestCleanupKeepsAccountsInsideGracePeriod(t *testing.T) {
	repos := memory.NewRepositories()
	const recent = "U0000000000000000003"
	seedDeletedUser(t, repos, recent, 24*time.Hour)

	w := NewCleanupWorker(&config.Config{}, repos)
	err := w.HandleCleanupDeletedAccounts(context.Background(),
		asynq.NewTask(TypeCleanupDeletedAccounts, nil))
	require.NoError(t, err)

	stored, err := repos.User.FindByUuid(recent)
	require.NoError(t, err)
	assert.True(t, stored.IsDeleted)
}
