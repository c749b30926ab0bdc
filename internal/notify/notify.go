// Package notify manages user notifications and due-date reminders.
package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/balkashynov/plandeck/internal/logging"
	"github.com/balkashynov/plandeck/internal/models"
	"github.com/balkashynov/plandeck/internal/parser"
)

// Store persists notifications
type Store interface {
	ListNotifications(ctx context.Context, unreadOnly bool) ([]models.Notification, error)
	CreateNotification(ctx context.Context, n *models.Notification) error
	MarkNotificationRead(ctx context.Context, id uint) error
	MarkAllNotificationsRead(ctx context.Context) (int64, error)
	DeleteNotification(ctx context.Context, id uint) error
	DeleteAllNotifications(ctx context.Context) (int64, error)
}

// Service wraps a Store with validation and reminder generation
type Service struct {
	store Store
	log   *logging.Logger
}

// NewService creates a notification service. A nil logger discards output.
func NewService(store Store, log *logging.Logger) *Service {
	if log == nil {
		log = logging.Discard()
	}
	return &Service{store: store, log: log}
}

// Create adds a notification. Type defaults to info.
func (s *Service) Create(ctx context.Context, title, message string, kind models.NotificationType) (*models.Notification, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("notification title is required")
	}
	if kind == "" {
		kind = models.NotifyInfo
	}

	n := &models.Notification{Title: title, Message: message, Type: kind}
	if err := s.store.CreateNotification(ctx, n); err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}
	return n, nil
}

// List returns notifications newest first
func (s *Service) List(ctx context.Context, unreadOnly bool) ([]models.Notification, error) {
	return s.store.ListNotifications(ctx, unreadOnly)
}

// UnreadCount returns the number of unread notifications
func (s *Service) UnreadCount(ctx context.Context) (int, error) {
	unread, err := s.store.ListNotifications(ctx, true)
	if err != nil {
		return 0, err
	}
	return len(unread), nil
}

func (s *Service) MarkRead(ctx context.Context, id uint) error {
	return s.store.MarkNotificationRead(ctx, id)
}

func (s *Service) MarkAllRead(ctx context.Context) (int64, error) {
	return s.store.MarkAllNotificationsRead(ctx)
}

func (s *Service) Delete(ctx context.Context, id uint) error {
	return s.store.DeleteNotification(ctx, id)
}

func (s *Service) ClearAll(ctx context.Context) (int64, error) {
	return s.store.DeleteAllNotifications(ctx)
}

// RemindDueTasks creates a reminder for every open task due before now+window,
// overdue ones included. Tasks that already have an unread reminder are skipped.
func (s *Service) RemindDueTasks(ctx context.Context, tasks []models.Task, now time.Time, window time.Duration) ([]models.Notification, error) {
	unread, err := s.store.ListNotifications(ctx, true)
	if err != nil {
		return nil, err
	}
	reminded := make(map[uint]bool)
	for _, n := range unread {
		if n.Type == models.NotifyReminder && n.TaskID != nil {
			reminded[*n.TaskID] = true
		}
	}

	cutoff := now.Add(window)
	created := []models.Notification{}
	for _, task := range tasks {
		if task.DueDate == nil || task.Status == models.StatusCompleted || reminded[task.ID] {
			continue
		}
		if task.DueDate.After(cutoff) {
			continue
		}

		taskID := task.ID
		n := models.Notification{
			Title:   task.Title,
			Message: reminderMessage(task, now),
			Type:    models.NotifyReminder,
			TaskID:  &taskID,
		}
		if err := s.store.CreateNotification(ctx, &n); err != nil {
			return created, fmt.Errorf("failed to create reminder for task #%d: %w", task.ID, err)
		}
		reminded[task.ID] = true
		created = append(created, n)
	}

	s.log.Event("notify.reminders", map[string]any{"created": len(created), "window": window.String()})
	return created, nil
}

func reminderMessage(task models.Task, now time.Time) string {
	msg := fmt.Sprintf("Task #%d: %s", task.ID, parser.FormatDueDate(task.DueDate, now))
	if task.ProjectName != "" {
		msg += " [" + task.ProjectName + "]"
	}
	return msg
}
