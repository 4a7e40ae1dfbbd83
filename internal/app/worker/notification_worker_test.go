package worker

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"

	"codeconnect/internal/common"
	"codeconnect/internal/domain/model"
	"codeconnect/internal/platform/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memNotificationRepo struct {
	stored []model.Notification
}

func (m *memNotificationRepo) Create(_ context.Context, n *model.Notification) error {
	m.stored = append(m.stored, *n)
	return nil
}

func (m *memNotificationRepo) CreateBulk(_ context.Context, notifications []model.Notification) error {
	m.stored = append(m.stored, notifications...)
	return nil
}

func (m *memNotificationRepo) FindByID(_ context.Context, id string) (*model.Notification, error) {
	return nil, common.ErrNotFound
}

func (m *memNotificationRepo) ListByRecipient(_ context.Context, recipient string, limit int) ([]model.Notification, error) {
	return nil, nil
}

func (m *memNotificationRepo) MarkRead(_ context.Context, id string) error      { return nil }
func (m *memNotificationRepo) MarkAllRead(_ context.Context, r string) error    { return nil }
func (m *memNotificationRepo) ClearAll(_ context.Context, r string) error       { return nil }
func (m *memNotificationRepo) DeleteByRecipient(_ context.Context, _ *sql.Tx, r string) error {
	return nil
}

type memUserRepo struct {
	studentIDs []string
}

func (m *memUserRepo) Create(_ context.Context, u *model.User) error { return nil }
func (m *memUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	return nil, common.ErrNotFound
}
func (m *memUserRepo) FindByID(_ context.Context, id string) (*model.User, error) {
	return nil, common.ErrNotFound
}
func (m *memUserRepo) UpdatePassword(_ context.Context, id, hash string) error { return nil }
func (m *memUserRepo) CountByRole(_ context.Context, role string) (int, error) {
	return len(m.studentIDs), nil
}
func (m *memUserRepo) ListIDsByRole(_ context.Context, role string) ([]string, error) {
	if role == model.RoleStudent {
		return m.studentIDs, nil
	}
	return nil, nil
}
func (m *memUserRepo) Delete(_ context.Context, _ *sql.Tx, id string) error { return nil }

func newWorkerFixture(studentIDs []string) (*NotificationWorker, *memNotificationRepo) {
	notifRepo := &memNotificationRepo{}
	userRepo := &memUserRepo{studentIDs: studentIDs}
	w := NewNotificationWorker(nil, "test_queue", notifRepo, userRepo, logger.NewNop())
	return w, notifRepo
}

func marshalEvent(t *testing.T, event model.NotificationEvent) []byte {
	t.Helper()
	payload, err := json.Marshal(event)
	require.NoError(t, err)
	return payload
}

func TestHandleCoinRewardEvent(t *testing.T) {
	w, repo := newWorkerFixture(nil)

	w.handleEvent(context.Background(), marshalEvent(t, model.NotificationEvent{
		Type:      model.EventCoinReward,
		Recipient: "u1",
		Title:     "Two Sum",
		Message:   "Practice Problem",
	}))

	require.Len(t, repo.stored, 1)
	got := repo.stored[0]
	assert.Equal(t, "u1", got.Recipient)
	assert.Equal(t, model.NotificationCoinReward, got.Type)
	assert.Equal(t, "Two Sum", got.Title)
	assert.NotEmpty(t, got.ID)
}

func TestHandleNewChallengeFansOutToStudents(t *testing.T) {
	w, repo := newWorkerFixture([]string{"u1", "u2", "u3"})

	w.handleEvent(context.Background(), marshalEvent(t, model.NotificationEvent{
		Type:    model.EventNewChallenge,
		Title:   "Build a CLI",
		Message: "Created by Acme",
	}))

	require.Len(t, repo.stored, 3)
	seen := map[string]bool{}
	for _, n := range repo.stored {
		assert.Equal(t, model.NotificationNewChallenge, n.Type)
		assert.Equal(t, "Build a CLI", n.Title)
		seen[n.Recipient] = true
	}
	assert.Len(t, seen, 3)
}

func TestHandleEventEdgeCases(t *testing.T) {
	t.Run("malformed payload is dropped", func(t *testing.T) {
		w, repo := newWorkerFixture(nil)
		w.handleEvent(context.Background(), []byte("{not json"))
		assert.Empty(t, repo.stored)
	})

	t.Run("coin reward without recipient is dropped", func(t *testing.T) {
		w, repo := newWorkerFixture(nil)
		w.handleEvent(context.Background(), marshalEvent(t, model.NotificationEvent{
			Type:  model.EventCoinReward,
			Title: "Two Sum",
		}))
		assert.Empty(t, repo.stored)
	})

	t.Run("unknown type stores as info", func(t *testing.T) {
		w, repo := newWorkerFixture(nil)
		w.handleEvent(context.Background(), marshalEvent(t, model.NotificationEvent{
			Type:      "announcement",
			Recipient: "u1",
			Title:     "Maintenance window",
		}))
		require.Len(t, repo.stored, 1)
		assert.Equal(t, model.NotificationInfo, repo.stored[0].Type)
	})

	t.Run("fan-out with no students is a no-op", func(t *testing.T) {
		w, repo := newWorkerFixture(nil)
		w.handleEvent(context.Background(), marshalEvent(t, model.NotificationEvent{
			Type:  model.EventNewChallenge,
			Title: "Build a CLI",
		}))
		assert.Empty(t, repo.stored)
	})
}
