package service

import (
	"context"
	"testing"

	"codeconnect/internal/common"
	"codeconnect/internal/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkReadOwnership(t *testing.T) {
	repo := newFakeNotificationRepo()
	svc := NewNotificationService(repo)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &model.Notification{
		ID: "n1", Recipient: "u1", Type: model.NotificationCoinReward,
	}))

	t.Run("recipient can mark read", func(t *testing.T) {
		n, err := svc.MarkRead(ctx, "u1", "n1")
		require.NoError(t, err)
		assert.True(t, n.IsRead)
	})

	t.Run("anyone else cannot", func(t *testing.T) {
		_, err := svc.MarkRead(ctx, "u2", "n1")
		require.Error(t, err)
		assert.ErrorIs(t, err, common.ErrUnauthorized)
	})

	t.Run("unknown notification", func(t *testing.T) {
		_, err := svc.MarkRead(ctx, "u1", "missing")
		require.Error(t, err)
		assert.ErrorIs(t, err, common.ErrNotFound)
	})
}

func TestMarkAllReadAndClearAllScopeToCaller(t *testing.T) {
	repo := newFakeNotificationRepo()
	svc := NewNotificationService(repo)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &model.Notification{ID: "n1", Recipient: "u1"}))
	require.NoError(t, repo.Create(ctx, &model.Notification{ID: "n2", Recipient: "u1"}))
	require.NoError(t, repo.Create(ctx, &model.Notification{ID: "n3", Recipient: "u2"}))

	require.NoError(t, svc.MarkAllRead(ctx, "u1"))
	mine, err := svc.List(ctx, "u1")
	require.NoError(t, err)
	for _, n := range mine {
		assert.True(t, n.IsRead)
	}
	others, err := svc.List(ctx, "u2")
	require.NoError(t, err)
	require.Len(t, others, 1)
	assert.False(t, others[0].IsRead)

	require.NoError(t, svc.ClearAll(ctx, "u1"))
	mine, err = svc.List(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, mine)
	others, err = svc.List(ctx, "u2")
	require.NoError(t, err)
	assert.Len(t, others, 1)
}
