// Package calendar projects tasks and projects into calendar events. It is
// never a source of truth: task and project events are rebuilt from the
// stores on every resync, and only manual events are stored.
package calendar

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/balkashynov/plandeck/internal/models"
)

var (
	// ErrInvalidEvent is wrapped when a manual event is missing required fields
	ErrInvalidEvent = errors.New("invalid event")
	// ErrDerivedEvent is returned when deleting an event that belongs to a task or project
	ErrDerivedEvent = errors.New("derived events change with their task or project")
)

// Source is where tasks and projects are read from
type Source interface {
	ListTasks(ctx context.Context) ([]models.Task, error)
	ListProjects(ctx context.Context) ([]models.Project, error)
}

// ManualStore persists manual events
type ManualStore interface {
	ListManualEvents(ctx context.Context) ([]models.CalendarEvent, error)
	CreateManualEvent(ctx context.Context, event *models.CalendarEvent) error
	DeleteManualEvent(ctx context.Context, id string) error
}

// Projector holds the current event list
type Projector struct {
	mu     sync.RWMutex
	source Source
	manual ManualStore
	events []models.CalendarEvent
	now    func() time.Time
}

// NewProjector creates an empty projector. Call Load to read manual events and
// build the derived ones.
func NewProjector(source Source, manual ManualStore) *Projector {
	return &Projector{source: source, manual: manual, now: time.Now}
}

// SetClock overrides time.Now for UpcomingEvents
func (p *Projector) SetClock(now func() time.Time) {
	p.now = now
}

// Load reads stored manual events and rebuilds everything else
func (p *Projector) Load(ctx context.Context) error {
	var manual []models.CalendarEvent
	if p.manual != nil {
		var err error
		if manual, err = p.manual.ListManualEvents(ctx); err != nil {
			return fmt.Errorf("failed to load manual events: %w", err)
		}
	}

	p.mu.Lock()
	p.events = manual
	sortEvents(p.events)
	p.mu.Unlock()

	return p.ResyncAll(ctx)
}

// ResyncFromTasks replaces all task-sourced events with one event per dated task
func (p *Projector) ResyncFromTasks(ctx context.Context) error {
	tasks, err := p.source.ListTasks(ctx)
	if err != nil {
		return fmt.Errorf("failed to list tasks: %w", err)
	}
	p.replace(models.SourceTask, TaskEvents(tasks))
	return nil
}

// ResyncFromProjects replaces all project-sourced events with a milestone per
// start date and a deadline per end date
func (p *Projector) ResyncFromProjects(ctx context.Context) error {
	projects, err := p.source.ListProjects(ctx)
	if err != nil {
		return fmt.Errorf("failed to list projects: %w", err)
	}
	p.replace(models.SourceProject, ProjectEvents(projects))
	return nil
}

// ResyncAll rebuilds both task and project events
func (p *Projector) ResyncAll(ctx context.Context) error {
	if err := p.ResyncFromTasks(ctx); err != nil {
		return err
	}
	return p.ResyncFromProjects(ctx)
}

// replace swaps every event from source for fresh ones, keeping the rest
func (p *Projector) replace(source models.EventSource, fresh []models.CalendarEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()

	kept := make([]models.CalendarEvent, 0, len(p.events)+len(fresh))
	for _, e := range p.events {
		if e.Source != source {
			kept = append(kept, e)
		}
	}
	kept = append(kept, fresh...)
	sortEvents(kept)
	p.events = kept
}

// AddManualEvent stores and shows a user-created event
func (p *Projector) AddManualEvent(ctx context.Context, in models.CalendarEvent) (*models.CalendarEvent, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidEvent)
	}
	if in.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidEvent)
	}
	if in.Type == "" {
		in.Type = models.EventMeeting
	}
	in.ID = "manual-" + uuid.NewString()
	in.Source = models.SourceManual
	in.SourceID = 0

	if p.manual != nil {
		if err := p.manual.CreateManualEvent(ctx, &in); err != nil {
			return nil, fmt.Errorf("failed to store event: %w", err)
		}
	}

	p.mu.Lock()
	p.events = append(p.events, in)
	sortEvents(p.events)
	p.mu.Unlock()

	return &in, nil
}

// DeleteManualEvent removes a user-created event. Derived events cannot be deleted.
func (p *Projector) DeleteManualEvent(ctx context.Context, id string) error {
	p.mu.RLock()
	idx := p.indexOf(id)
	var source models.EventSource
	if idx >= 0 {
		source = p.events[idx].Source
	}
	p.mu.RUnlock()

	if idx < 0 {
		return fmt.Errorf("event %s: %w", id, models.ErrNotFound)
	}
	if source != models.SourceManual {
		return fmt.Errorf("event %s: %w", id, ErrDerivedEvent)
	}

	if p.manual != nil {
		if err := p.manual.DeleteManualEvent(ctx, id); err != nil {
			return err
		}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if i := p.indexOf(id); i >= 0 {
		p.events = append(p.events[:i], p.events[i+1:]...)
	}
	return nil
}

func (p *Projector) indexOf(id string) int {
	for i, e := range p.events {
		if e.ID == id {
			return i
		}
	}
	return -1
}

// Events returns a copy of every event, ordered by date
func (p *Projector) Events() []models.CalendarEvent {
	return p.filter(func(models.CalendarEvent) bool { return true })
}

// EventsOnDate returns events on the same calendar day as date
func (p *Projector) EventsOnDate(date time.Time) []models.CalendarEvent {
	y, m, d := date.Date()
	return p.filter(func(e models.CalendarEvent) bool {
		ey, em, ed := e.Date.In(date.Location()).Date()
		return ey == y && em == m && ed == d
	})
}

// EventsInMonth returns events in the same calendar month as date
func (p *Projector) EventsInMonth(date time.Time) []models.CalendarEvent {
	y, m, _ := date.Date()
	return p.filter(func(e models.CalendarEvent) bool {
		ey, em, _ := e.Date.In(date.Location()).Date()
		return ey == y && em == m
	})
}

// EventsInRange returns events with from <= date < to
func (p *Projector) EventsInRange(from, to time.Time) []models.CalendarEvent {
	return p.filter(func(e models.CalendarEvent) bool {
		return !e.Date.Before(from) && e.Date.Before(to)
	})
}

// UpcomingEvents returns at most limit events dated now or later, soonest first.
// A limit <= 0 returns all of them.
func (p *Projector) UpcomingEvents(limit int) []models.CalendarEvent {
	now := p.now()
	upcoming := p.filter(func(e models.CalendarEvent) bool {
		return !e.Date.Before(now)
	})
	if limit > 0 && len(upcoming) > limit {
		upcoming = upcoming[:limit]
	}
	return upcoming
}

func (p *Projector) filter(keep func(models.CalendarEvent) bool) []models.CalendarEvent {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := []models.CalendarEvent{}
	for _, e := range p.events {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}

// sortEvents orders by date, then source, source id and id, so repeated
// resyncs give identical lists and task-9 comes before task-10
func sortEvents(events []models.CalendarEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		a, b := events[i], events[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if a.Source != b.Source {
			return a.Source < b.Source
		}
		if a.SourceID != b.SourceID {
			return a.SourceID < b.SourceID
		}
		return a.ID < b.ID
	})
}
