// Package timetrack runs time tracking sessions and builds weekly timesheets
// from them. At most one session runs at a time.
package timetrack

import (
	"context"
	"time"

	"github.com/balkashynov/plandeck/internal/models"
)

// SessionStore persists sessions
type SessionStore interface {
	StartSession(ctx context.Context, taskID uint, now time.Time) (*models.Session, error)
	StopActiveSession(ctx context.Context, now time.Time) (*models.Session, error)
	GetActiveSession(ctx context.Context) (*models.Session, error)
	GetSessionsInRange(ctx context.Context, start, end time.Time) ([]models.Session, error)
}

// Tracker starts and stops sessions
type Tracker struct {
	store SessionStore
	now   func() time.Time
}

// NewTracker creates a tracker. A nil clock means time.Now.
func NewTracker(store SessionStore, now func() time.Time) *Tracker {
	if now == nil {
		now = time.Now
	}
	return &Tracker{store: store, now: now}
}

// Start begins a session on a task
func (t *Tracker) Start(ctx context.Context, taskID uint) (*models.Session, error) {
	return t.store.StartSession(ctx, taskID, t.now())
}

// Stop ends the running session
func (t *Tracker) Stop(ctx context.Context) (*models.Session, error) {
	return t.store.StopActiveSession(ctx, t.now())
}

// Active returns the running session, or nil
func (t *Tracker) Active(ctx context.Context) (*models.Session, error) {
	return t.store.GetActiveSession(ctx)
}

// Elapsed is how long the running session has been going
func (t *Tracker) Elapsed(s *models.Session) time.Duration {
	return s.Duration(t.now())
}

// StopForTask stops the running session if it belongs to taskID. It returns
// nil when there was nothing to stop.
func (t *Tracker) StopForTask(ctx context.Context, taskID uint) (*models.Session, error) {
	active, err := t.store.GetActiveSession(ctx)
	if err != nil || active == nil || active.TaskID != taskID {
		return nil, err
	}
	return t.store.StopActiveSession(ctx, t.now())
}

// Week loads the finished sessions of the week containing ref and builds its report
func (t *Tracker) Week(ctx context.Context, ref time.Time) (Report, error) {
	start := WeekStart(ref)
	end := start.AddDate(0, 0, 7).Add(-time.Second)

	sessions, err := t.store.GetSessionsInRange(ctx, start, end)
	if err != nil {
		return Report{}, err
	}
	return WeeklyReport(sessions, start), nil
}
