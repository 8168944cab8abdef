package services

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/yigit/placement/internal/app/models"
)

// NotificationService serves the per-user notification feed
type NotificationService struct {
	notificationRepo NotificationStore
	limit            int
	logger           zerolog.Logger
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(notificationRepo NotificationStore, limit int, logger zerolog.Logger) *NotificationService {
	if limit <= 0 {
		limit = 50
	}
	return &NotificationService{
		notificationRepo: notificationRepo,
		limit:            limit,
		logger:           logger,
	}
}

// List returns the caller's newest notifications, newest first
func (s *NotificationService) List(ctx context.Context, userID int64) ([]*models.Notification, error) {
	return s.notificationRepo.ListByUser(ctx, userID, s.limit)
}

// MarkRead marks one notification read; other users' notifications are not found
func (s *NotificationService) MarkRead(ctx context.Context, userID, id int64) error {
	return s.notificationRepo.MarkRead(ctx, id, userID)
}

// MarkAllRead marks every notification of the caller read
func (s *NotificationService) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	n, err := s.notificationRepo.MarkAllRead(ctx, userID)
	if err != nil {
		return 0, err
	}
	s.logger.Debug().Int64("userID", userID).Int64("marked", n).Msg("Notifications marked read")
	return n, nil
}
