package db

import (
	"context"
	"fmt"

	"github.com/balkashynov/plandeck/internal/models"
)

// ListManualEvents returns the stored manual calendar events ordered by date
func (s *Store) ListManualEvents(ctx context.Context) ([]models.CalendarEvent, error) {
	var events []models.CalendarEvent
	err := s.db.WithContext(ctx).
		Where("source = ?", models.SourceManual).
		Order("date ASC, id ASC").
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

// CreateManualEvent stores a manual calendar event
func (s *Store) CreateManualEvent(ctx context.Context, event *models.CalendarEvent) error {
	if event.Source != models.SourceManual {
		return fmt.Errorf("only manual events are stored, got source %q", event.Source)
	}
	return s.db.WithContext(ctx).Create(event).Error
}

// DeleteManualEvent removes a manual calendar event
func (s *Store) DeleteManualEvent(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND source = ?", id, models.SourceManual).
		Delete(&models.CalendarEvent{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("event %s: %w", id, models.ErrNotFound)
	}
	return nil
}
