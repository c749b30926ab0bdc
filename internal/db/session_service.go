package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/balkashynov/plandeck/internal/models"
)

// ErrSessionActive is returned when starting a session while another one runs
var ErrSessionActive = errors.New("session already active")

// ErrNoActiveSession is returned when stopping with nothing running
var ErrNoActiveSession = errors.New("no active session found")

// StartSession starts a new time tracking session for a task
func (s *Store) StartSession(ctx context.Context, taskID uint, now time.Time) (*models.Session, error) {
	db := s.db.WithContext(ctx)

	// Check if task exists
	var task models.Task
	if err := db.First(&task, taskID).Error; err != nil {
		return nil, notFound(err, "task", taskID)
	}

	// Only one session may run at a time
	active, err := s.GetActiveSession(ctx)
	if err != nil {
		return nil, err
	}
	if active != nil {
		return nil, fmt.Errorf("%w for task #%d. Stop it first with 'plandeck stop'", ErrSessionActive, active.TaskID)
	}

	session := models.Session{
		TaskID:    taskID,
		StartedAt: now,
	}
	if err := db.Create(&session).Error; err != nil {
		return nil, err
	}
	session.Task = task

	return &session, nil
}

// StopActiveSession stops the currently active session
func (s *Store) StopActiveSession(ctx context.Context, now time.Time) (*models.Session, error) {
	session, err := s.GetActiveSession(ctx)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrNoActiveSession
	}

	session.FinishedAt = &now
	session.DurationSeconds = int(now.Sub(session.StartedAt).Seconds())

	if err := s.db.WithContext(ctx).Omit("Task").Save(session).Error; err != nil {
		return nil, err
	}
	return session, nil
}

// GetActiveSession returns the currently active session, or nil when none runs
func (s *Store) GetActiveSession(ctx context.Context) (*models.Session, error) {
	var session models.Session

	err := s.db.WithContext(ctx).Where("finished_at IS NULL").Preload("Task").First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil // No active session is not an error
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// GetSessionsInRange returns all finished sessions started within [start, end]
func (s *Store) GetSessionsInRange(ctx context.Context, start, end time.Time) ([]models.Session, error) {
	var sessions []models.Session

	err := s.db.WithContext(ctx).
		Where("started_at >= ? AND started_at <= ? AND finished_at IS NOT NULL", start, end).
		Preload("Task").
		Order("started_at ASC").
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}
	return sessions, nil
}
