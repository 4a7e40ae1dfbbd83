package service

import (
	"context"
	"fmt"

	"codeconnect/internal/common"
	"codeconnect/internal/domain/model"
	"codeconnect/internal/domain/repository"
)

// Notification list responses cap at the most recent entries.
const notificationListLimit = 50

type NotificationService struct {
	notificationRepo repository.NotificationRepository
}

func NewNotificationService(notifRepo repository.NotificationRepository) *NotificationService {
	return &NotificationService{notificationRepo: notifRepo}
}

func (s *NotificationService) List(ctx context.Context, userID string) ([]model.Notification, error) {
	return s.notificationRepo.ListByRecipient(ctx, userID, notificationListLimit)
}

// MarkRead flips one notification to read. Only the recipient may do so.
func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID string) (*model.Notification, error) {
	notification, err := s.notificationRepo.FindByID(ctx, notificationID)
	if err != nil {
		return nil, err
	}
	if notification.Recipient != userID {
		return nil, fmt.Errorf("notification belongs to another user: %w", common.ErrUnauthorized)
	}
	if err := s.notificationRepo.MarkRead(ctx, notificationID); err != nil {
		return nil, err
	}
	notification.IsRead = true
	return notification, nil
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) error {
	return s.notificationRepo.MarkAllRead(ctx, userID)
}

func (s *NotificationService) ClearAll(ctx context.Context, userID string) error {
	return s.notificationRepo.ClearAll(ctx, userID)
}
