package gcal

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/calendar/v3"

	"github.com/balkashynov/plandeck/internal/models"
)

// fakeEvents keeps Google events in memory, keyed by plandeck id
type fakeEvents struct {
	byID    map[string]*calendar.Event
	patches int
	failID  string
}

func newFakeEvents() *fakeEvents {
	return &fakeEvents{byID: make(map[string]*calendar.Event)}
}

func (f *fakeEvents) Find(ctx context.Context, plandeckID string) (*calendar.Event, error) {
	if plandeckID == f.failID {
		return nil, errors.New("quota exceeded")
	}
	return f.byID[plandeckID], nil
}

func (f *fakeEvents) Insert(ctx context.Context, e *calendar.Event) (*calendar.Event, error) {
	e.Id = "g-" + e.ExtendedProperties.Private[PropertyKey]
	f.byID[e.ExtendedProperties.Private[PropertyKey]] = e
	return e, nil
}

func (f *fakeEvents) Patch(ctx context.Context, googleID string, patch *calendar.Event) (*calendar.Event, error) {
	f.patches++
	for _, e := range f.byID {
		if e.Id != googleID {
			continue
		}
		if patch.Summary != "" {
			e.Summary = patch.Summary
		}
		if patch.Description != "" {
			e.Description = patch.Description
		}
		if patch.Start != nil {
			e.Start, e.End = patch.Start, patch.End
		}
		return e, nil
	}
	return nil, errors.New("not found")
}

func TestToGoogle(t *testing.T) {
	ev := models.CalendarEvent{
		ID:          "task-4",
		Title:       "Ship",
		Date:        time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC),
		Type:        models.EventTask,
		Status:      models.StatusCompleted,
		ProjectName: "Web",
		Priority:    models.PriorityHigh,
	}
	g := ToGoogle(ev)

	if g.Summary != "✓ Ship" {
		t.Errorf("Expected completed prefix, got %q", g.Summary)
	}
	if g.Start.Date != "2024-06-30" || g.End.Date != "2024-07-01" {
		t.Errorf("Expected all-day event, got %s..%s", g.Start.Date, g.End.Date)
	}
	if g.ExtendedProperties.Private[PropertyKey] != "task-4" {
		t.Errorf("Expected %s property, got %v", PropertyKey, g.ExtendedProperties.Private)
	}
	if !strings.Contains(g.Description, "Project: Web") || !strings.Contains(g.Description, "Priority: high") {
		t.Errorf("Unexpected description %q", g.Description)
	}
}

func TestDiff(t *testing.T) {
	base := ToGoogle(models.CalendarEvent{ID: "x", Title: "A", Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)})

	if Diff(base, base) != nil {
		t.Error("Expected no patch for identical events")
	}

	moved := ToGoogle(models.CalendarEvent{ID: "x", Title: "A", Date: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)})
	patch := Diff(base, moved)
	if patch == nil || patch.Start.Date != "2024-01-02" || patch.Summary != "" {
		t.Errorf("Expected date-only patch, got %+v", patch)
	}

	timed := &calendar.Event{
		Summary:     base.Summary,
		Description: base.Description,
		Start:       &calendar.EventDateTime{DateTime: "2024-01-01T09:00:00Z"},
	}
	if Diff(timed, base) != nil {
		t.Error("Expected a timed event on the same day to match")
	}
}

func TestPush(t *testing.T) {
	ctx := context.Background()
	api := newFakeEvents()
	exp := NewExporter(api, nil)

	events := []models.CalendarEvent{
		{ID: "task-1", Title: "One", Date: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), Type: models.EventTask},
		{ID: "project-2-end", Title: "P deadline", Date: time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC), Type: models.EventDeadline},
	}

	res, err := exp.Push(ctx, events)
	if err != nil || res.Created != 2 {
		t.Fatalf("Expected 2 created, got %+v %v", res, err)
	}

	res, _ = exp.Push(ctx, events)
	if res.Unchanged != 2 || api.patches != 0 {
		t.Errorf("Expected second push to change nothing, got %+v", res)
	}

	events[0].Title = "One renamed"
	res, _ = exp.Push(ctx, events)
	if res.Updated != 1 || res.Unchanged != 1 {
		t.Errorf("Expected one patch, got %+v", res)
	}
	if api.byID["task-1"].Summary != "One renamed" {
		t.Errorf("Expected patched summary, got %q", api.byID["task-1"].Summary)
	}

	api.failID = "task-1"
	res, err = exp.Push(ctx, events)
	if err == nil || res.Failed != 1 || res.Unchanged != 1 {
		t.Errorf("Expected one failure and the rest pushed, got %+v %v", res, err)
	}
}

func TestTokenRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "google", "token.json")
	if _, err := tokenFromFile(path); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("Expected not-exist error, got %v", err)
	}

	if err := saveToken(path, &oauth2.Token{AccessToken: "a", RefreshToken: "r"}); err != nil {
		t.Fatal(err)
	}
	tok, err := tokenFromFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if tok.AccessToken != "a" || tok.RefreshToken != "r" {
		t.Errorf("Unexpected token %+v", tok)
	}
}
