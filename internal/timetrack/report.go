package timetrack

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/balkashynov/plandeck/internal/models"
)

// Weekdays in timesheet order
var Weekdays = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday, time.Sunday,
}

// Row is one task's hours across the week. Hours are rounded up per day.
type Row struct {
	TaskID uint
	Ticket string
	Label  string
	Hours  map[time.Weekday]float64
	Total  float64
}

// Report is a weekly timesheet
type Report struct {
	WeekStart time.Time
	Rows      []Row
	DayTotals map[time.Weekday]float64
	Total     float64
}

// Empty reports whether no time was tracked
func (r Report) Empty() bool {
	return len(r.Rows) == 0
}

// Days returns the columns worth showing: Monday to Friday whenever anything
// was tracked, plus weekend days that have hours
func (r Report) Days() []time.Weekday {
	if r.Empty() {
		return nil
	}
	var days []time.Weekday
	for i, d := range Weekdays {
		if i < 5 || r.DayTotals[d] > 0 {
			days = append(days, d)
		}
	}
	return days
}

// WeekStart returns midnight of the Monday on or before t
func WeekStart(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	d := t.AddDate(0, 0, -offset)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, d.Location())
}

// WeeklyReport groups finished sessions by task and weekday. Rows with a
// ticket sort first by ticket, the rest by task id.
func WeeklyReport(sessions []models.Session, weekStart time.Time) Report {
	report := Report{
		WeekStart: weekStart,
		DayTotals: make(map[time.Weekday]float64),
	}

	raw := make(map[uint]map[time.Weekday]float64)
	tasks := make(map[uint]models.Task)
	for _, s := range sessions {
		if s.FinishedAt == nil {
			continue
		}
		if raw[s.TaskID] == nil {
			raw[s.TaskID] = make(map[time.Weekday]float64)
		}
		raw[s.TaskID][s.StartedAt.Weekday()] += float64(s.DurationSeconds) / 3600.0
		task := s.Task
		task.ID = s.TaskID
		tasks[s.TaskID] = task
	}

	for id, days := range raw {
		task := tasks[id]
		row := Row{
			TaskID: id,
			Ticket: task.Ticket,
			Label:  taskLabel(task),
			Hours:  make(map[time.Weekday]float64),
		}
		for day, hours := range days {
			if hours <= 0 {
				continue
			}
			rounded := math.Ceil(hours)
			row.Hours[day] = rounded
			row.Total += rounded
			report.DayTotals[day] += rounded
		}
		report.Total += row.Total
		report.Rows = append(report.Rows, row)
	}

	sort.Slice(report.Rows, func(i, j int) bool {
		a, b := report.Rows[i], report.Rows[j]
		if (a.Ticket != "") != (b.Ticket != "") {
			return a.Ticket != ""
		}
		if a.Ticket != b.Ticket {
			return a.Ticket < b.Ticket
		}
		return a.TaskID < b.TaskID
	})
	return report
}

// ProjectTotal is the tracked time of one project
type ProjectTotal struct {
	Project  string
	Duration time.Duration
}

// NoProject labels sessions whose task has no project
const NoProject = "(no project)"

// ProjectTotals sums finished session time per project, largest first
func ProjectTotals(sessions []models.Session) []ProjectTotal {
	sums := make(map[string]time.Duration)
	for _, s := range sessions {
		if s.FinishedAt == nil {
			continue
		}
		name := s.Task.ProjectName
		if name == "" {
			name = NoProject
		}
		sums[name] += time.Duration(s.DurationSeconds) * time.Second
	}

	totals := make([]ProjectTotal, 0, len(sums))
	for name, d := range sums {
		totals = append(totals, ProjectTotal{Project: name, Duration: d})
	}
	sort.Slice(totals, func(i, j int) bool {
		if totals[i].Duration != totals[j].Duration {
			return totals[i].Duration > totals[j].Duration
		}
		return totals[i].Project < totals[j].Project
	})
	return totals
}

func taskLabel(task models.Task) string {
	if task.Ticket != "" {
		return fmt.Sprintf("%s %s", task.Ticket, task.Title)
	}
	return fmt.Sprintf("#%d %s", task.ID, task.Title)
}

var dayNames = map[time.Weekday]string{
	time.Monday: "Mon", time.Tuesday: "Tue", time.Wednesday: "Wed", time.Thursday: "Thu",
	time.Friday: "Fri", time.Saturday: "Sat", time.Sunday: "Sun",
}

// Render writes the report as a plain text table
func Render(w io.Writer, r Report) {
	if r.Empty() {
		fmt.Fprintln(w, "No time tracked this week.")
		return
	}

	days := r.Days()
	nameWidth := 20
	for _, row := range r.Rows {
		if len(row.Label) > nameWidth {
			nameWidth = len(row.Label)
		}
	}
	if nameWidth > 40 {
		nameWidth = 40
	}
	const dayWidth, totalWidth = 3, 5

	separator := func() {
		fmt.Fprint(w, strings.Repeat("-", nameWidth))
		for range days {
			fmt.Fprint(w, "  "+strings.Repeat("-", dayWidth))
		}
		fmt.Fprintln(w, "  "+strings.Repeat("-", totalWidth))
	}

	fmt.Fprintf(w, "%-*s", nameWidth, "Task")
	for _, d := range days {
		fmt.Fprintf(w, "  %*s", dayWidth, dayNames[d])
	}
	fmt.Fprintf(w, "  %*s\n", totalWidth, "Total")
	separator()

	for _, row := range r.Rows {
		label := row.Label
		if len(label) > nameWidth {
			label = label[:nameWidth-3] + "..."
		}
		fmt.Fprintf(w, "%-*s", nameWidth, label)
		for _, d := range days {
			if h := row.Hours[d]; h > 0 {
				fmt.Fprintf(w, "  %*d", dayWidth, int(h))
			} else {
				fmt.Fprintf(w, "  %*s", dayWidth, "-")
			}
		}
		fmt.Fprintf(w, "  %*d\n", totalWidth, int(row.Total))
	}

	separator()
	fmt.Fprintf(w, "%-*s", nameWidth, "Total")
	for _, d := range days {
		fmt.Fprintf(w, "  %*d", dayWidth, int(r.DayTotals[d]))
	}
	fmt.Fprintf(w, "  %*d\n", totalWidth, int(r.Total))

	fmt.Fprintf(w, "\nWeek of %s to %s\n",
		r.WeekStart.Format("Jan 2"),
		r.WeekStart.AddDate(0, 0, 6).Format("Jan 2, 2006"))
}
