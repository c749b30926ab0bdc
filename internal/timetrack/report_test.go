package timetrack

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/balkashynov/plandeck/internal/models"
)

func finished(taskID uint, task models.Task, start time.Time, d time.Duration) models.Session {
	end := start.Add(d)
	task.ID = taskID
	return models.Session{
		TaskID:          taskID,
		StartedAt:       start,
		FinishedAt:      &end,
		DurationSeconds: int(d.Seconds()),
		Task:            task,
	}
}

func TestWeekStart(t *testing.T) {
	tests := []struct {
		in   time.Time
		want time.Time
	}{
		{time.Date(2024, 6, 5, 15, 30, 0, 0, time.UTC), time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)}, // Wednesday
		{time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC), time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)},   // Monday
		{time.Date(2024, 6, 9, 23, 0, 0, 0, time.UTC), time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)},  // Sunday
	}
	for _, tt := range tests {
		if got := WeekStart(tt.in); !got.Equal(tt.want) {
			t.Errorf("WeekStart(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestWeeklyReport(t *testing.T) {
	monday := time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC)
	login := models.Task{Title: "Fix login", Ticket: "APP-123"}
	docs := models.Task{Title: "Docs"}

	sessions := []models.Session{
		finished(2, docs, monday, 30*time.Minute),
		finished(1, login, monday, 90*time.Minute),
		finished(1, login, monday.Add(2*time.Hour), 20*time.Minute),
		finished(1, login, monday.AddDate(0, 0, 5), time.Hour),
		{TaskID: 3, StartedAt: monday}, // still running
	}

	r := WeeklyReport(sessions, WeekStart(monday))
	if len(r.Rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(r.Rows))
	}

	first := r.Rows[0]
	if first.Label != "APP-123 Fix login" {
		t.Errorf("Expected ticket row first, got %q", first.Label)
	}
	// 110 minutes on Monday rounds up to 2
	if first.Hours[time.Monday] != 2 || first.Hours[time.Saturday] != 1 || first.Total != 3 {
		t.Errorf("Unexpected hours: %+v total %v", first.Hours, first.Total)
	}
	if r.Rows[1].Label != "#2 Docs" || r.Rows[1].Total != 1 {
		t.Errorf("Unexpected second row: %+v", r.Rows[1])
	}
	if r.Total != 4 || r.DayTotals[time.Monday] != 3 {
		t.Errorf("Unexpected totals: %v %v", r.Total, r.DayTotals)
	}

	days := r.Days()
	if len(days) != 6 || days[5] != time.Saturday {
		t.Errorf("Expected weekdays plus Saturday, got %v", days)
	}
}

func TestProjectTotals(t *testing.T) {
	start := time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC)
	sessions := []models.Session{
		finished(1, models.Task{ProjectName: "Web"}, start, time.Hour),
		finished(2, models.Task{ProjectName: "Web"}, start, 30*time.Minute),
		finished(3, models.Task{}, start, 2*time.Hour),
	}

	totals := ProjectTotals(sessions)
	if len(totals) != 2 {
		t.Fatalf("Expected 2 totals, got %d", len(totals))
	}
	if totals[0].Project != NoProject || totals[0].Duration != 2*time.Hour {
		t.Errorf("Unexpected first total: %+v", totals[0])
	}
	if totals[1].Project != "Web" || totals[1].Duration != 90*time.Minute {
		t.Errorf("Unexpected second total: %+v", totals[1])
	}
}

func TestRender(t *testing.T) {
	var buf bytes.Buffer
	Render(&buf, Report{})
	if !strings.Contains(buf.String(), "No time tracked") {
		t.Errorf("Unexpected empty output: %q", buf.String())
	}

	monday := time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC)
	buf.Reset()
	Render(&buf, WeeklyReport([]models.Session{finished(1, models.Task{Title: "Write"}, monday, time.Hour)}, monday))
	out := buf.String()
	for _, want := range []string{"Task", "Mon", "Fri", "#1 Write", "Week of Jun 3 to Jun 9, 2024"} {
		if !strings.Contains(out, want) {
			t.Errorf("Output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Sat") {
		t.Errorf("Expected no weekend column:\n%s", out)
	}
}

type fakeSessions struct {
	active  *models.Session
	stopped int
	now     time.Time
}

func (f *fakeSessions) StartSession(ctx context.Context, taskID uint, now time.Time) (*models.Session, error) {
	f.active = &models.Session{TaskID: taskID, StartedAt: now}
	return f.active, nil
}

func (f *fakeSessions) StopActiveSession(ctx context.Context, now time.Time) (*models.Session, error) {
	s := f.active
	s.FinishedAt = &now
	s.DurationSeconds = int(now.Sub(s.StartedAt).Seconds())
	f.active = nil
	f.stopped++
	return s, nil
}

func (f *fakeSessions) GetActiveSession(ctx context.Context) (*models.Session, error) {
	return f.active, nil
}

func (f *fakeSessions) GetSessionsInRange(ctx context.Context, start, end time.Time) ([]models.Session, error) {
	return nil, nil
}

func TestStopForTask(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC)
	store := &fakeSessions{}
	tracker := NewTracker(store, func() time.Time { return now })

	if _, err := tracker.Start(ctx, 7); err != nil {
		t.Fatal(err)
	}
	if s, _ := tracker.StopForTask(ctx, 8); s != nil || store.stopped != 0 {
		t.Error("Expected other task's session to keep running")
	}

	now = now.Add(45 * time.Minute)
	if got := tracker.Elapsed(store.active); got != 45*time.Minute {
		t.Errorf("Expected 45m elapsed, got %v", got)
	}
	s, err := tracker.StopForTask(ctx, 7)
	if err != nil || s == nil || s.DurationSeconds != 45*60 {
		t.Errorf("Expected session stopped after 45m, got %+v %v", s, err)
	}
}
