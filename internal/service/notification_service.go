package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/linguameet/linguameet/internal/apperr"
	"github.com/linguameet/linguameet/internal/model"
	"github.com/linguameet/linguameet/internal/repository"
)

const notificationPageSize = 20

// NotificationService persists in-app notifications and serves the bell
// dropdown. It implements NotificationSink for the booking coordinator.
type NotificationService struct {
	notifRepo *repository.NotificationRepository
	logger    *zap.Logger
}

func NewNotificationService(notifRepo *repository.NotificationRepository, logger *zap.Logger) *NotificationService {
	return &NotificationService{notifRepo: notifRepo, logger: logger}
}

// Notify writes one notification row for the user.
func (s *NotificationService) Notify(ctx context.Context, userID int64, typ, message, link string) error {
	n := &model.Notification{
		UserID:  userID,
		Type:    typ,
		Message: message,
		Link:    link,
	}
	if err := s.notifRepo.Create(ctx, n); err != nil {
		return fmt.Errorf("create notification: %w", err)
	}

	s.logger.Debug("Notification stored",
		zap.Int64("user_id", userID),
		zap.String("type", typ),
	)

	return nil
}

// List returns the caller's most recent notifications.
func (s *NotificationService) List(ctx context.Context, userID int64) ([]*model.Notification, error) {
	notifications, err := s.notifRepo.ListByUser(ctx, userID, notificationPageSize)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return notifications, nil
}

// MarkRead flags one of the caller's notifications as read. Someone else's
// notification id behaves like a missing one.
func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID int64) error {
	ok, err := s.notifRepo.MarkRead(ctx, notificationID, userID)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	if !ok {
		return apperr.NotFound("notification not found")
	}
	return nil
}
