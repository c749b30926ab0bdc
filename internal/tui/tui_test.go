package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/balkashynov/plandeck/internal/models"
)

func TestFilterTasks(t *testing.T) {
	tasks := []models.Task{
		{ID: 1, Title: "Write docs", Tags: []models.Tag{{Name: "writing"}}},
		{ID: 2, Title: "Fix login", ProjectName: "Web", Tags: []models.Tag{{Name: "bug"}}},
		{ID: 3, Title: "Bug bash planning"},
	}

	tests := []struct {
		query string
		want  []uint
	}{
		{"", []uint{1, 2, 3}},
		{"web", []uint{2}},
		{"bug", []uint{2, 3}},
		{"#bug", []uint{2}},
		{"  DOCS ", []uint{1}},
		{"nothing", nil},
	}

	for _, tt := range tests {
		got := FilterTasks(tasks, tt.query)
		var ids []uint
		for _, task := range got {
			ids = append(ids, task.ID)
		}
		if len(ids) != len(tt.want) {
			t.Errorf("FilterTasks(%q) = %v, want %v", tt.query, ids, tt.want)
			continue
		}
		for i := range ids {
			if ids[i] != tt.want[i] {
				t.Errorf("FilterTasks(%q) = %v, want %v", tt.query, ids, tt.want)
				break
			}
		}
	}
}

func TestProgressBar(t *testing.T) {
	if got := ProgressBar(50, 10); got != "█████░░░░░" {
		t.Errorf("Expected half bar, got %q", got)
	}
	if got := ProgressBar(150, 4); got != "████" {
		t.Errorf("Expected clamped full bar, got %q", got)
	}
	if got := ProgressBar(-5, 3); got != "░░░" {
		t.Errorf("Expected empty bar, got %q", got)
	}
	if got := ProgressBar(50, 0); got != "" {
		t.Errorf("Expected nothing for zero width, got %q", got)
	}
}

func TestMonthGrid(t *testing.T) {
	// June 2024 starts on a Saturday and ends on a Sunday
	weeks := MonthGrid(time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC))
	if len(weeks) != 5 {
		t.Fatalf("Expected 5 weeks, got %d", len(weeks))
	}
	if first := weeks[0][0]; first.Weekday() != time.Monday || first.Day() != 27 || first.Month() != time.May {
		t.Errorf("Expected grid to start Monday 27 May, got %s", first.Format("Mon 02 Jan"))
	}
	if weeks[0][5].Day() != 1 {
		t.Errorf("Expected the 1st on Saturday, got %d", weeks[0][5].Day())
	}
	if last := weeks[4][6]; last.Day() != 30 || last.Month() != time.June {
		t.Errorf("Expected grid to end on 30 June, got %s", last.Format("02 Jan"))
	}

	// September 2024 starts on a Sunday and needs six rows
	if weeks := MonthGrid(time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC)); len(weeks) != 6 {
		t.Errorf("Expected 6 weeks for September 2024, got %d", len(weeks))
	}
}

func TestShiftMonth(t *testing.T) {
	got := shiftMonth(time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), 1)
	if got.Month() != time.February || got.Day() != 29 {
		t.Errorf("Expected 29 Feb, got %s", got.Format("02 Jan"))
	}
	got = shiftMonth(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), -1)
	if got.Year() != 2023 || got.Month() != time.December {
		t.Errorf("Expected December 2023, got %s", got.Format("Jan 2006"))
	}
}

type fakeMonth struct {
	events []models.CalendarEvent
	calls  int
}

func (f *fakeMonth) EventsInMonth(date time.Time) []models.CalendarEvent {
	f.calls++
	var out []models.CalendarEvent
	for _, e := range f.events {
		if e.Date.Year() == date.Year() && e.Date.Month() == date.Month() {
			out = append(out, e)
		}
	}
	return out
}

func TestCalendarModelNavigation(t *testing.T) {
	src := &fakeMonth{events: []models.CalendarEvent{
		{ID: "task-1", Title: "Ship", Date: time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC), Type: models.EventTask},
		{ID: "task-2", Title: "Plan", Date: time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC), Type: models.EventTask},
	}}
	var model tea.Model = NewCalendarModel(src, time.Date(2024, 6, 3, 10, 0, 0, 0, time.UTC))

	if !strings.Contains(model.View(), "Ship") {
		t.Error("Expected today's agenda to list Ship")
	}

	model, _ = model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("]")})
	m := model.(CalendarModel)
	if m.cursor.Month() != time.July || m.cursor.Day() != 3 {
		t.Errorf("Expected 3 July, got %s", m.cursor.Format("02 Jan"))
	}
	if src.calls != 2 {
		t.Errorf("Expected a reload on month change, got %d calls", src.calls)
	}

	// Moving within the month does not reload
	model, _ = model.Update(tea.KeyMsg{Type: tea.KeyLeft})
	model, _ = model.Update(tea.KeyMsg{Type: tea.KeyLeft})
	m = model.(CalendarModel)
	if m.cursor.Day() != 1 || src.calls != 2 {
		t.Errorf("Expected 1 July without reload, got %s after %d calls", m.cursor.Format("02 Jan"), src.calls)
	}
	if !strings.Contains(m.View(), "Plan") {
		t.Error("Expected agenda to list Plan")
	}

	model, _ = model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("t")})
	if m := model.(CalendarModel); !sameDay(m.cursor, m.today) {
		t.Errorf("Expected cursor back on today, got %s", m.cursor.Format("02 Jan"))
	}
}

func TestClockText(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "00:00"},
		{75 * time.Second, "01:15"},
		{time.Hour + 2*time.Minute + 3*time.Second, "01:02:03"},
		{-time.Second, "00:00"},
	}
	for _, tt := range tests {
		if got := ClockText(tt.d); got != tt.want {
			t.Errorf("ClockText(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
	if rows := strings.Split(BigClock(time.Minute), "\n"); len(rows) != 5 {
		t.Errorf("Expected 5 clock rows, got %d", len(rows))
	}
}

func TestDueLabel(t *testing.T) {
	now := time.Date(2024, 6, 1, 15, 0, 0, 0, time.UTC)
	at := func(days int) *time.Time {
		d := time.Date(2024, 6, 1+days, 0, 0, 0, 0, time.UTC)
		return &d
	}

	tests := []struct {
		due  *time.Time
		want string
	}{
		{nil, "-"},
		{at(-1), "OVERDUE"},
		{at(0), "TODAY"},
		{at(1), "TOMORROW"},
		{at(5), "5d"},
		{at(20), "21/06"},
	}
	for _, tt := range tests {
		if got := dueLabel(tt.due, now); got != tt.want {
			t.Errorf("dueLabel = %q, want %q", got, tt.want)
		}
	}
}

func TestAddWizard(t *testing.T) {
	now := func() time.Time { return time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC) }
	var model tea.Model = NewAddTaskModel(map[string]string{
		"title":    "Ship release",
		"tags":     "Release, ops",
		"priority": "3",
		"due":      "2024-06-10",
	}, now)

	enter := tea.KeyMsg{Type: tea.KeyEnter}
	for i := 0; i <= int(StepSave); i++ {
		model, _ = model.Update(enter)
	}

	d, ok := model.(AddTaskModel).Result()
	if !ok {
		t.Fatalf("Expected a saved draft, validation: %q", model.(AddTaskModel).validationErr)
	}
	if d.Title != "Ship release" || d.Priority != models.PriorityHigh || d.TaskType != models.TaskRegular {
		t.Errorf("Unexpected draft %+v", d)
	}
	if d.DueDate == nil || d.DueDate.Day() != 10 {
		t.Errorf("Expected due 10 June, got %v", d.DueDate)
	}
	if len(d.Tags) != 2 {
		t.Errorf("Expected 2 tags, got %v", d.Tags)
	}
}

func TestAddWizardRequiresTitle(t *testing.T) {
	var model tea.Model = NewAddTaskModel(nil, nil)
	model, _ = model.Update(tea.KeyMsg{Type: tea.KeyEnter})

	m := model.(AddTaskModel)
	if m.step != StepTitle || m.validationErr == "" {
		t.Errorf("Expected to stay on title with an error, got step %d err %q", m.step, m.validationErr)
	}

	model, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if !model.(AddTaskModel).Cancelled() {
		t.Error("Expected esc to cancel")
	}
}
