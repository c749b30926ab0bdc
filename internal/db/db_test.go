package db

import (
	"context"
	"errors"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/balkashynov/plandeck/internal/models"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"), Options{})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func tagsOf(names ...string) []models.Tag {
	tags := make([]models.Tag, 0, len(names))
	for _, n := range names {
		tags = append(tags, models.Tag{Name: n})
	}
	return tags
}

func sortedTagNames(task *models.Task) []string {
	names := task.TagNames()
	sort.Strings(names)
	return names
}

func TestTaskCRUD(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	task := &models.Task{
		Title:    "Write report",
		Status:   models.StatusTodo,
		Priority: models.PriorityHigh,
		Tags:     tagsOf("work", "writing"),
	}
	if err := s.CreateTask(ctx, task); err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}
	if task.ID == 0 {
		t.Fatal("Expected task ID to be assigned")
	}

	got, err := s.GetTask(ctx, task.ID)
	if err != nil {
		t.Fatalf("GetTask failed: %v", err)
	}
	if got.Title != "Write report" || got.Priority != models.PriorityHigh {
		t.Errorf("Unexpected task: %+v", got)
	}
	if names := sortedTagNames(got); len(names) != 2 || names[0] != "work" || names[1] != "writing" {
		t.Errorf("Expected tags [work writing], got %v", names)
	}

	// Replace tags and change title
	got.Title = "Write final report"
	got.Tags = tagsOf("work", "urgent")
	if err := s.SaveTask(ctx, got); err != nil {
		t.Fatalf("SaveTask failed: %v", err)
	}

	reloaded, err := s.GetTask(ctx, task.ID)
	if err != nil {
		t.Fatalf("GetTask after save failed: %v", err)
	}
	if reloaded.Title != "Write final report" {
		t.Errorf("Expected updated title, got %q", reloaded.Title)
	}
	if names := sortedTagNames(reloaded); len(names) != 2 || names[0] != "urgent" || names[1] != "work" {
		t.Errorf("Expected tags [urgent work], got %v", names)
	}

	if err := s.DeleteTask(ctx, task.ID); err != nil {
		t.Fatalf("DeleteTask failed: %v", err)
	}
	if _, err := s.GetTask(ctx, task.ID); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Expected ErrNotFound after delete, got %v", err)
	}
	if err := s.DeleteTask(ctx, task.ID); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Expected ErrNotFound deleting twice, got %v", err)
	}
}

func TestSaveMissingTask(t *testing.T) {
	s := openTestStore(t)
	err := s.SaveTask(context.Background(), &models.Task{ID: 99, Title: "ghost"})
	if !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestFindTasks(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	project := &models.Project{Name: "Website"}
	if err := s.CreateProject(ctx, project); err != nil {
		t.Fatal(err)
	}

	tasks := []*models.Task{
		{Title: "Design header", Status: models.StatusTodo, ProjectID: &project.ID, ProjectName: "Website", Tags: tagsOf("design")},
		{Title: "Fix footer", Status: models.StatusCompleted, ProjectID: &project.ID, ProjectName: "Website"},
		{Title: "Buy milk", Status: models.StatusTodo, Tags: tagsOf("home")},
	}
	for _, task := range tasks {
		if err := s.CreateTask(ctx, task); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		name string
		q    TaskQuery
		want int
	}{
		{"all", TaskQuery{}, 3},
		{"status", TaskQuery{Status: models.StatusTodo}, 2},
		{"project", TaskQuery{ProjectID: &project.ID}, 2},
		{"tag", TaskQuery{Tag: "design"}, 1},
		{"text title", TaskQuery{Text: "MILK"}, 1},
		{"text project", TaskQuery{Text: "website"}, 2},
		{"limit", TaskQuery{Limit: 1}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.FindTasks(ctx, tt.q)
			if err != nil {
				t.Fatalf("FindTasks failed: %v", err)
			}
			if len(got) != tt.want {
				t.Errorf("Expected %d tasks, got %d", tt.want, len(got))
			}
		})
	}
}

func TestRenameAndDetachProjectTasks(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	project := &models.Project{Name: "Launch"}
	if err := s.CreateProject(ctx, project); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		task := &models.Task{Title: "step", ProjectID: &project.ID, ProjectName: project.Name}
		if err := s.CreateTask(ctx, task); err != nil {
			t.Fatal(err)
		}
	}

	if err := s.RenameProjectOnTasks(ctx, project.ID, "Relaunch"); err != nil {
		t.Fatalf("RenameProjectOnTasks failed: %v", err)
	}
	tasks, _ := s.ListTasks(ctx)
	for _, task := range tasks {
		if task.ProjectName != "Relaunch" {
			t.Errorf("Expected project name Relaunch, got %q", task.ProjectName)
		}
	}

	n, err := s.DeleteProject(ctx, project.ID)
	if err != nil {
		t.Fatalf("DeleteProject failed: %v", err)
	}
	if n != 3 {
		t.Errorf("Expected 3 tasks detached, got %d", n)
	}
	tasks, _ = s.ListTasks(ctx)
	for _, task := range tasks {
		if task.ProjectID != nil || task.ProjectName != "" {
			t.Errorf("Expected cleared project reference, got %v %q", task.ProjectID, task.ProjectName)
		}
	}
}

func TestDeleteProjectRollsBackDetach(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	// Tasks pointing at a project row that does not exist: the delete fails
	// after the detach has run inside the transaction.
	missing := uint(99)
	task := &models.Task{Title: "orphan", ProjectID: &missing, ProjectName: "Gone"}
	if err := s.CreateTask(ctx, task); err != nil {
		t.Fatal(err)
	}

	if _, err := s.DeleteProject(ctx, missing); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
	got, err := s.GetTask(ctx, task.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.ProjectID == nil || *got.ProjectID != missing || got.ProjectName != "Gone" {
		t.Errorf("Expected detach to roll back, got %v %q", got.ProjectID, got.ProjectName)
	}
}

func TestProjectCRUD(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	project := &models.Project{Name: "Website Redesign", Type: models.ProjectMarketing, Status: models.ProjectActive}
	if err := s.CreateProject(ctx, project); err != nil {
		t.Fatalf("CreateProject failed: %v", err)
	}

	project.Progress = 50
	project.Tasks = 4
	if err := s.SaveProject(ctx, project); err != nil {
		t.Fatalf("SaveProject failed: %v", err)
	}

	got, err := s.GetProject(ctx, project.ID)
	if err != nil {
		t.Fatalf("GetProject failed: %v", err)
	}
	if got.Progress != 50 || got.Tasks != 4 || got.Type != models.ProjectMarketing {
		t.Errorf("Unexpected project: %+v", got)
	}

	// Zero values must be written too
	got.Progress = 0
	got.Tasks = 0
	if err := s.SaveProject(ctx, got); err != nil {
		t.Fatal(err)
	}
	again, _ := s.GetProject(ctx, project.ID)
	if again.Progress != 0 || again.Tasks != 0 {
		t.Errorf("Expected zeroed derived fields, got %d/%d", again.Progress, again.Tasks)
	}

	if _, err := s.DeleteProject(ctx, project.ID); err != nil {
		t.Fatalf("DeleteProject failed: %v", err)
	}
	if _, err := s.GetProject(ctx, project.ID); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
	if err := s.SaveProject(ctx, project); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Expected ErrNotFound saving deleted project, got %v", err)
	}
}

func TestManualEvents(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	day := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	event := &models.CalendarEvent{ID: "manual-1", Title: "Dentist", Date: day, Type: models.EventMeeting, Source: models.SourceManual}
	if err := s.CreateManualEvent(ctx, event); err != nil {
		t.Fatalf("CreateManualEvent failed: %v", err)
	}

	derived := &models.CalendarEvent{ID: "task-1", Title: "x", Date: day, Source: models.SourceTask}
	if err := s.CreateManualEvent(ctx, derived); err == nil {
		t.Error("Expected derived events to be rejected")
	}

	events, err := s.ListManualEvents(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 1 || events[0].Title != "Dentist" {
		t.Errorf("Unexpected events: %+v", events)
	}

	if err := s.DeleteManualEvent(ctx, "manual-1"); err != nil {
		t.Fatalf("DeleteManualEvent failed: %v", err)
	}
	if err := s.DeleteManualEvent(ctx, "manual-1"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestNotifications(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	for _, title := range []string{"one", "two", "three"} {
		if err := s.CreateNotification(ctx, &models.Notification{Title: title, Type: models.NotifyInfo}); err != nil {
			t.Fatal(err)
		}
	}

	all, _ := s.ListNotifications(ctx, false)
	if len(all) != 3 {
		t.Fatalf("Expected 3 notifications, got %d", len(all))
	}
	if all[0].Title != "three" {
		t.Errorf("Expected newest first, got %q", all[0].Title)
	}

	if err := s.MarkNotificationRead(ctx, all[0].ID); err != nil {
		t.Fatal(err)
	}
	unread, _ := s.ListNotifications(ctx, true)
	if len(unread) != 2 {
		t.Errorf("Expected 2 unread, got %d", len(unread))
	}

	n, err := s.MarkAllNotificationsRead(ctx)
	if err != nil || n != 2 {
		t.Errorf("Expected 2 marked read, got %d (%v)", n, err)
	}

	if err := s.DeleteNotification(ctx, 999); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
	if n, _ := s.DeleteAllNotifications(ctx); n != 3 {
		t.Errorf("Expected 3 deleted, got %d", n)
	}
}

func TestSessions(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	task := &models.Task{Title: "Deep work"}
	if err := s.CreateTask(ctx, task); err != nil {
		t.Fatal(err)
	}

	if _, err := s.StartSession(ctx, 42, time.Now()); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for missing task, got %v", err)
	}
	if _, err := s.StopActiveSession(ctx, time.Now()); !errors.Is(err, ErrNoActiveSession) {
		t.Errorf("Expected ErrNoActiveSession, got %v", err)
	}

	start := time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC)
	session, err := s.StartSession(ctx, task.ID, start)
	if err != nil {
		t.Fatalf("StartSession failed: %v", err)
	}
	if session.Task.Title != "Deep work" {
		t.Errorf("Expected task loaded on session, got %q", session.Task.Title)
	}
	if _, err := s.StartSession(ctx, task.ID, start); !errors.Is(err, ErrSessionActive) {
		t.Errorf("Expected ErrSessionActive, got %v", err)
	}

	stopped, err := s.StopActiveSession(ctx, start.Add(90*time.Minute))
	if err != nil {
		t.Fatalf("StopActiveSession failed: %v", err)
	}
	if stopped.DurationSeconds != 5400 {
		t.Errorf("Expected 5400 seconds, got %d", stopped.DurationSeconds)
	}

	active, err := s.GetActiveSession(ctx)
	if err != nil || active != nil {
		t.Errorf("Expected no active session, got %v (%v)", active, err)
	}

	sessions, err := s.GetSessionsInRange(ctx, start.Add(-time.Hour), start.Add(time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if len(sessions) != 1 {
		t.Errorf("Expected 1 session in range, got %d", len(sessions))
	}
}
