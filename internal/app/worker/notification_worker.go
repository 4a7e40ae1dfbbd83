package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"codeconnect/internal/domain/model"
	"codeconnect/internal/domain/repository"
	"codeconnect/internal/platform/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// NotificationWorker drains the outbox queue and turns events into stored
// notification rows. Delivery to clients is out of scope; the worker only
// appends. Losing an event is acceptable (notifications are best-effort),
// so there is no retry queue.
type NotificationWorker struct {
	rdb              *redis.Client
	queueName        string
	notificationRepo repository.NotificationRepository
	userRepo         repository.UserRepository
	log              *logger.Logger
}

func NewNotificationWorker(
	rdb *redis.Client,
	queueName string,
	notifRepo repository.NotificationRepository,
	userRepo repository.UserRepository,
	log *logger.Logger,
) *NotificationWorker {
	return &NotificationWorker{
		rdb:              rdb,
		queueName:        queueName,
		notificationRepo: notifRepo,
		userRepo:         userRepo,
		log:              log,
	}
}

func (w *NotificationWorker) Start(ctx context.Context) {
	w.log.Info("Notification worker started", "queue", w.queueName)
	for {
		select {
		case <-ctx.Done():
			w.log.Info("Notification worker stopping")
			return
		default:
			result, err := w.rdb.BRPop(ctx, 5*time.Second, w.queueName).Result()
			if err != nil {
				if errors.Is(err, redis.Nil) {
					continue // timeout, nothing queued
				}
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					continue // shutting down; the select above exits
				}
				w.log.Error("Failed to pop from notification queue", "error", err, "queue", w.queueName)
				time.Sleep(5 * time.Second)
				continue
			}

			// BRPop returns [queueName, value].
			if len(result) < 2 || result[1] == "" {
				continue
			}
			w.handleEvent(ctx, []byte(result[1]))
		}
	}
}

func (w *NotificationWorker) handleEvent(ctx context.Context, payload []byte) {
	var event model.NotificationEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		w.log.Error("Dropping malformed notification event", "error", err)
		return
	}

	switch event.Type {
	case model.EventCoinReward:
		w.createSingle(ctx, &event, model.NotificationCoinReward)
	case model.EventNewChallenge:
		w.fanOutToStudents(ctx, &event)
	default:
		w.createSingle(ctx, &event, model.NotificationInfo)
	}
}

func (w *NotificationWorker) createSingle(ctx context.Context, event *model.NotificationEvent, typ model.NotificationType) {
	if event.Recipient == "" {
		w.log.Error("Dropping notification event without recipient", "type", event.Type)
		return
	}
	notification := &model.Notification{
		ID:        uuid.NewString(),
		Recipient: event.Recipient,
		Type:      typ,
		Title:     event.Title,
		Message:   event.Message,
		Metadata:  event.Metadata,
	}
	if err := w.notificationRepo.Create(ctx, notification); err != nil {
		w.log.Error("Failed to store notification", "error", err, "recipient", event.Recipient)
	}
}

// fanOutToStudents bulk-inserts one notification per student account.
func (w *NotificationWorker) fanOutToStudents(ctx context.Context, event *model.NotificationEvent) {
	studentIDs, err := w.userRepo.ListIDsByRole(ctx, model.RoleStudent)
	if err != nil {
		w.log.Error("Failed to list students for challenge fan-out", "error", err)
		return
	}
	if len(studentIDs) == 0 {
		return
	}

	notifications := make([]model.Notification, 0, len(studentIDs))
	for _, studentID := range studentIDs {
		notifications = append(notifications, model.Notification{
			ID:        uuid.NewString(),
			Recipient: studentID,
			Type:      model.NotificationNewChallenge,
			Title:     event.Title,
			Message:   event.Message,
			Metadata:  event.Metadata,
		})
	}
	if err := w.notificationRepo.CreateBulk(ctx, notifications); err != nil {
		w.log.Error("Failed to store challenge notifications", "error", err, "count", len(notifications))
		return
	}
	w.log.Info("Fanned out challenge notification", "students", len(notifications), "title", event.Title)
}
