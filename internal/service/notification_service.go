package service

import (
	"context"

	"harmonic/internal/models"
	"harmonic/internal/repository"
)

type NotificationService struct {
	notifRepo repository.NotificationRepository
}

func NewNotificationService(notifRepo repository.NotificationRepository) *NotificationService {
	return &NotificationService{notifRepo: notifRepo}
}

func (s *NotificationService) GetNotifications(ctx context.Context, userID uint, limit, offset int) ([]models.Notification, error) {
	return s.notifRepo.GetByUserID(ctx, userID, limit, offset)
}

func (s *NotificationService) CountUnread(ctx context.Context, userID uint) (int64, error) {
	return s.notifRepo.CountUnread(ctx, userID)
}

// MarkRead marks one of the user's notifications as read. The repository
// scopes the update by user ID, so marking someone else's notification is a
// silent no-op rather than an error.
func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID uint) error {
	return s.notifRepo.MarkRead(ctx, userID, notificationID)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID uint) error {
	return s.notifRepo.MarkAllRead(ctx, userID)
}
