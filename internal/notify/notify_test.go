package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/balkashynov/plandeck/internal/models"
)

type memStore struct {
	items []models.Notification
	next  uint
}

func (m *memStore) ListNotifications(ctx context.Context, unreadOnly bool) ([]models.Notification, error) {
	out := []models.Notification{}
	for i := len(m.items) - 1; i >= 0; i-- {
		if unreadOnly && m.items[i].Read {
			continue
		}
		out = append(out, m.items[i])
	}
	return out, nil
}

func (m *memStore) CreateNotification(ctx context.Context, n *models.Notification) error {
	m.next++
	n.ID = m.next
	m.items = append(m.items, *n)
	return nil
}

func (m *memStore) MarkNotificationRead(ctx context.Context, id uint) error {
	for i := range m.items {
		if m.items[i].ID == id {
			m.items[i].Read = true
			return nil
		}
	}
	return fmt.Errorf("notification #%d: %w", id, models.ErrNotFound)
}

func (m *memStore) MarkAllNotificationsRead(ctx context.Context) (int64, error) {
	var n int64
	for i := range m.items {
		if !m.items[i].Read {
			m.items[i].Read = true
			n++
		}
	}
	return n, nil
}

func (m *memStore) DeleteNotification(ctx context.Context, id uint) error {
	for i := range m.items {
		if m.items[i].ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("notification #%d: %w", id, models.ErrNotFound)
}

func (m *memStore) DeleteAllNotifications(ctx context.Context) (int64, error) {
	n := int64(len(m.items))
	m.items = nil
	return n, nil
}

func TestCreateAndRead(t *testing.T) {
	ctx := context.Background()
	svc := NewService(&memStore{}, nil)

	first, err := svc.Create(ctx, "Saved", "Task saved", "")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if first.Type != models.NotifyInfo {
		t.Errorf("Expected default type info, got %q", first.Type)
	}
	if _, err := svc.Create(ctx, "Oops", "Failed", models.NotifyError); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Create(ctx, "  ", "", ""); err == nil {
		t.Error("Expected error for blank title")
	}

	list, _ := svc.List(ctx, false)
	if len(list) != 2 || list[0].Title != "Oops" {
		t.Errorf("Expected newest first, got %+v", list)
	}

	if err := svc.MarkRead(ctx, first.ID); err != nil {
		t.Fatal(err)
	}
	if n, _ := svc.UnreadCount(ctx); n != 1 {
		t.Errorf("Expected 1 unread, got %d", n)
	}
	if n, _ := svc.MarkAllRead(ctx); n != 1 {
		t.Errorf("Expected 1 marked, got %d", n)
	}
	if err := svc.MarkRead(ctx, 99); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}

	if err := svc.Delete(ctx, first.ID); err != nil {
		t.Fatal(err)
	}
	if n, _ := svc.ClearAll(ctx); n != 1 {
		t.Errorf("Expected 1 cleared, got %d", n)
	}
}

func TestRemindDueTasks(t *testing.T) {
	ctx := context.Background()
	store := &memStore{}
	svc := NewService(store, nil)
	now := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

	at := func(d time.Duration) *time.Time {
		t := now.Add(d)
		return &t
	}
	tasks := []models.Task{
		{ID: 1, Title: "Overdue", DueDate: at(-48 * time.Hour), Status: models.StatusTodo},
		{ID: 2, Title: "Soon", DueDate: at(3 * time.Hour), Status: models.StatusInProgress, ProjectName: "Web"},
		{ID: 3, Title: "Done", DueDate: at(time.Hour), Status: models.StatusCompleted},
		{ID: 4, Title: "Far", DueDate: at(72 * time.Hour), Status: models.StatusTodo},
		{ID: 5, Title: "Undated", Status: models.StatusTodo},
	}

	created, err := svc.RemindDueTasks(ctx, tasks, now, 24*time.Hour)
	if err != nil {
		t.Fatalf("RemindDueTasks failed: %v", err)
	}
	if len(created) != 2 {
		t.Fatalf("Expected 2 reminders, got %d", len(created))
	}
	if *created[0].TaskID != 1 || *created[1].TaskID != 2 {
		t.Errorf("Unexpected reminder tasks: %d %d", *created[0].TaskID, *created[1].TaskID)
	}
	if !strings.Contains(created[0].Message, "OVERDUE") {
		t.Errorf("Expected overdue message, got %q", created[0].Message)
	}
	if !strings.Contains(created[1].Message, "[Web]") {
		t.Errorf("Expected project in message, got %q", created[1].Message)
	}

	again, err := svc.RemindDueTasks(ctx, tasks, now, 24*time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if len(again) != 0 {
		t.Errorf("Expected no duplicate reminders, got %d", len(again))
	}

	// Once read, a task may be reminded again
	svc.MarkAllRead(ctx)
	third, _ := svc.RemindDueTasks(ctx, tasks, now, 24*time.Hour)
	if len(third) != 2 {
		t.Errorf("Expected reminders after reading, got %d", len(third))
	}
}
