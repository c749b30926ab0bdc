package db

import (
	"context"
	"fmt"

	"github.com/balkashynov/plandeck/internal/models"
)

// ListNotifications returns notifications newest first
func (s *Store) ListNotifications(ctx context.Context, unreadOnly bool) ([]models.Notification, error) {
	tx := s.db.WithContext(ctx).Order("created_at DESC, id DESC")
	if unreadOnly {
		tx = tx.Where("read = ?", false)
	}

	var notifications []models.Notification
	if err := tx.Find(&notifications).Error; err != nil {
		return nil, err
	}
	return notifications, nil
}

// CreateNotification inserts a notification
func (s *Store) CreateNotification(ctx context.Context, n *models.Notification) error {
	return s.db.WithContext(ctx).Create(n).Error
}

// MarkNotificationRead flags one notification as read
func (s *Store) MarkNotificationRead(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ?", id).
		Update("read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("notification #%d: %w", id, models.ErrNotFound)
	}
	return nil
}

// MarkAllNotificationsRead flags every unread notification as read
func (s *Store) MarkAllNotificationsRead(ctx context.Context) (int64, error) {
	res := s.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("read = ?", false).
		Update("read", true)
	return res.RowsAffected, res.Error
}

// DeleteNotification removes one notification
func (s *Store) DeleteNotification(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.Notification{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("notification #%d: %w", id, models.ErrNotFound)
	}
	return nil
}

// DeleteAllNotifications removes every notification
func (s *Store) DeleteAllNotifications(ctx context.Context) (int64, error) {
	res := s.db.WithContext(ctx).Where("1 = 1").Delete(&models.Notification{})
	return res.RowsAffected, res.Error
}
