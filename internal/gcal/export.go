package gcal

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/calendar/v3"

	"github.com/balkashynov/plandeck/internal/logging"
	"github.com/balkashynov/plandeck/internal/models"
)

// PropertyKey is the private extended property linking a Google event to a plandeck event
const PropertyKey = "plandeck_event_id"

const dateLayout = "2006-01-02"

// Events is the slice of the Calendar API the exporter needs
type Events interface {
	Find(ctx context.Context, plandeckID string) (*calendar.Event, error)
	Insert(ctx context.Context, event *calendar.Event) (*calendar.Event, error)
	Patch(ctx context.Context, googleID string, patch *calendar.Event) (*calendar.Event, error)
}

// ServiceEvents implements Events on a real calendar
type ServiceEvents struct {
	srv        *calendar.Service
	calendarID string
}

func NewServiceEvents(srv *calendar.Service, calendarID string) *ServiceEvents {
	if calendarID == "" {
		calendarID = "primary"
	}
	return &ServiceEvents{srv: srv, calendarID: calendarID}
}

func (s *ServiceEvents) Find(ctx context.Context, plandeckID string) (*calendar.Event, error) {
	events, err := s.srv.Events.List(s.calendarID).
		PrivateExtendedProperty(fmt.Sprintf("%s=%s", PropertyKey, plandeckID)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, err
	}
	if len(events.Items) > 0 {
		return events.Items[0], nil
	}
	return nil, nil
}

func (s *ServiceEvents) Insert(ctx context.Context, event *calendar.Event) (*calendar.Event, error) {
	return s.srv.Events.Insert(s.calendarID, event).Context(ctx).Do()
}

func (s *ServiceEvents) Patch(ctx context.Context, googleID string, patch *calendar.Event) (*calendar.Event, error) {
	return s.srv.Events.Patch(s.calendarID, googleID, patch).Context(ctx).Do()
}

// PushResult counts what a push did
type PushResult struct {
	Created   int
	Updated   int
	Unchanged int
	Failed    int
}

// Exporter pushes events, creating new ones and patching changed ones
type Exporter struct {
	events Events
	log    *logging.Logger
}

func NewExporter(events Events, log *logging.Logger) *Exporter {
	if log == nil {
		log = logging.Discard()
	}
	return &Exporter{events: events, log: log}
}

// Push syncs every event. A failing event is logged and counted; the rest still go.
func (e *Exporter) Push(ctx context.Context, events []models.CalendarEvent) (PushResult, error) {
	var res PushResult
	var firstErr error
	for _, ev := range events {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if err := e.pushOne(ctx, ev, &res); err != nil {
			res.Failed++
			e.log.Error("gcal.push_failed", err, map[string]any{"event": ev.ID})
			if firstErr == nil {
				firstErr = fmt.Errorf("event %s: %w", ev.ID, err)
			}
		}
	}
	e.log.Event("gcal.pushed", map[string]any{
		"created": res.Created, "updated": res.Updated, "unchanged": res.Unchanged, "failed": res.Failed,
	})
	return res, firstErr
}

func (e *Exporter) pushOne(ctx context.Context, ev models.CalendarEvent, res *PushResult) error {
	target := ToGoogle(ev)

	existing, err := e.events.Find(ctx, ev.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		if _, err := e.events.Insert(ctx, target); err != nil {
			return err
		}
		res.Created++
		return nil
	}

	patch := Diff(existing, target)
	if patch == nil {
		res.Unchanged++
		return nil
	}
	if _, err := e.events.Patch(ctx, existing.Id, patch); err != nil {
		return err
	}
	res.Updated++
	return nil
}

// ToGoogle converts an event into an all-day Google event tagged with its plandeck id
func ToGoogle(ev models.CalendarEvent) *calendar.Event {
	day := ev.Date.Format(dateLayout)
	next := ev.Date.AddDate(0, 0, 1).Format(dateLayout)

	return &calendar.Event{
		Summary:     summary(ev),
		Description: description(ev),
		Start:       &calendar.EventDateTime{Date: day},
		End:         &calendar.EventDateTime{Date: next},
		ExtendedProperties: &calendar.EventExtendedProperties{
			Private: map[string]string{PropertyKey: ev.ID},
		},
	}
}

// Diff returns a patch holding the fields of target that differ from
// existing, or nil when nothing changed
func Diff(existing, target *calendar.Event) *calendar.Event {
	patch := &calendar.Event{}
	changed := false

	if existing.Summary != target.Summary {
		patch.Summary = target.Summary
		changed = true
	}
	if existing.Description != target.Description {
		patch.Description = target.Description
		changed = true
	}
	if startDate(existing) != startDate(target) {
		patch.Start = target.Start
		patch.End = target.End
		changed = true
	}

	if !changed {
		return nil
	}
	return patch
}

func startDate(e *calendar.Event) string {
	if e.Start == nil {
		return ""
	}
	if e.Start.Date != "" {
		return e.Start.Date
	}
	// Timed events compare on their day
	if len(e.Start.DateTime) >= len(dateLayout) {
		return e.Start.DateTime[:len(dateLayout)]
	}
	return e.Start.DateTime
}

func summary(ev models.CalendarEvent) string {
	if ev.Status == models.StatusCompleted {
		return "✓ " + ev.Title
	}
	return ev.Title
}

func description(ev models.CalendarEvent) string {
	var lines []string
	if ev.Description != "" {
		lines = append(lines, ev.Description)
	}
	if ev.ProjectName != "" {
		lines = append(lines, "Project: "+ev.ProjectName)
	}
	if ev.Priority != "" {
		lines = append(lines, "Priority: "+string(ev.Priority))
	}
	lines = append(lines, "Type: "+string(ev.Type))
	return strings.Join(lines, "\n")
}
