package calendar_test

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/balkashynov/plandeck/internal/calendar"
	"github.com/balkashynov/plandeck/internal/db"
	"github.com/balkashynov/plandeck/internal/models"
	"github.com/balkashynov/plandeck/internal/planner"
)

func setup(t *testing.T) (*planner.Synchronizer, *calendar.Projector) {
	t.Helper()
	store, err := db.Open(filepath.Join(t.TempDir(), "plandeck.db"), db.Options{})
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	projector := calendar.NewProjector(store, store)
	if err := projector.Load(context.Background()); err != nil {
		t.Fatalf("Failed to load calendar: %v", err)
	}
	return planner.New(store, planner.WithCalendar(projector)), projector
}

func eventIDs(events []models.CalendarEvent) []string {
	ids := make([]string, 0, len(events))
	for _, e := range events {
		ids = append(ids, e.ID)
	}
	return ids
}

func TestTaskDueDateFollowsCalendar(t *testing.T) {
	ctx := context.Background()
	sync, projector := setup(t)

	due := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	task, err := sync.AddTask(ctx, planner.TaskInput{Title: "Write report", DueDate: &due})
	if err != nil {
		t.Fatalf("AddTask failed: %v", err)
	}

	events := projector.Events()
	if len(events) != 1 || events[0].Source != models.SourceTask || events[0].SourceID != task.ID {
		t.Fatalf("Expected one task event, got %+v", events)
	}

	if _, err := sync.UpdateTask(ctx, task.ID, planner.TaskUpdate{ClearDueDate: true}); err != nil {
		t.Fatalf("UpdateTask failed: %v", err)
	}
	if got := projector.Events(); len(got) != 0 {
		t.Errorf("Expected no events after clearing due date, got %v", eventIDs(got))
	}
}

func TestProjectDatesFollowCalendar(t *testing.T) {
	ctx := context.Background()
	sync, projector := setup(t)

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	project, err := sync.AddProject(ctx, planner.ProjectInput{Name: "Launch", StartDate: &start, EndDate: &end})
	if err != nil {
		t.Fatalf("AddProject failed: %v", err)
	}

	events := projector.Events()
	if len(events) != 2 {
		t.Fatalf("Expected 2 project events, got %v", eventIDs(events))
	}
	if events[0].Type != models.EventMilestone || events[1].Type != models.EventDeadline {
		t.Errorf("Expected milestone then deadline, got %s %s", events[0].Type, events[1].Type)
	}

	if _, err := sync.UpdateProject(ctx, project.ID, planner.ProjectUpdate{ClearStartDate: true}); err != nil {
		t.Fatalf("UpdateProject failed: %v", err)
	}
	if got := projector.Events(); len(got) != 1 || got[0].Type != models.EventDeadline {
		t.Errorf("Expected only the deadline left, got %v", eventIDs(got))
	}

	if err := sync.DeleteProject(ctx, project.ID); err != nil {
		t.Fatalf("DeleteProject failed: %v", err)
	}
	if got := projector.Events(); len(got) != 0 {
		t.Errorf("Expected no events after delete, got %v", eventIDs(got))
	}
}

func TestManualEventsPersistAcrossLoad(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "plandeck.db")
	store, err := db.Open(path, db.Options{})
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	first := calendar.NewProjector(store, store)
	if err := first.Load(ctx); err != nil {
		t.Fatal(err)
	}
	due := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	if err := store.CreateTask(ctx, &models.Task{Title: "Dated", DueDate: &due, Status: models.StatusTodo, Priority: models.PriorityMedium, TaskType: models.TaskRegular}); err != nil {
		t.Fatal(err)
	}
	if _, err := first.AddManualEvent(ctx, models.CalendarEvent{Title: "Offsite", Date: due}); err != nil {
		t.Fatal(err)
	}
	if err := first.ResyncAll(ctx); err != nil {
		t.Fatal(err)
	}

	second := calendar.NewProjector(store, store)
	if err := second.Load(ctx); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(eventIDs(first.Events()), eventIDs(second.Events())) {
		t.Errorf("Expected same events after reload: %v vs %v", eventIDs(first.Events()), eventIDs(second.Events()))
	}
}
