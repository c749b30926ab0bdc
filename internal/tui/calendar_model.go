package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/balkashynov/plandeck/internal/models"
)

// EventSource is what the calendar view reads from
type EventSource interface {
	EventsInMonth(date time.Time) []models.CalendarEvent
}

// CalendarModel is a month grid with the selected day's agenda underneath
type CalendarModel struct {
	source EventSource
	today  time.Time
	cursor time.Time
	events []models.CalendarEvent // events of the cursor's month

	width  int
	height int
	help   help.Model
}

func NewCalendarModel(source EventSource, now time.Time) CalendarModel {
	today := dayOf(now)
	m := CalendarModel{source: source, today: today, cursor: today, help: help.New()}
	m.events = source.EventsInMonth(today)
	return m
}

func (m CalendarModel) Init() tea.Cmd {
	return nil
}

func (m CalendarModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, calendarKeys.Quit):
			return m, tea.Quit
		case key.Matches(msg, calendarKeys.Left):
			m.move(m.cursor.AddDate(0, 0, -1))
		case key.Matches(msg, calendarKeys.Right):
			m.move(m.cursor.AddDate(0, 0, 1))
		case key.Matches(msg, calendarKeys.Up):
			m.move(m.cursor.AddDate(0, 0, -7))
		case key.Matches(msg, calendarKeys.Down):
			m.move(m.cursor.AddDate(0, 0, 7))
		case key.Matches(msg, calendarKeys.PrevMonth):
			m.move(shiftMonth(m.cursor, -1))
		case key.Matches(msg, calendarKeys.NextMonth):
			m.move(shiftMonth(m.cursor, 1))
		case key.Matches(msg, calendarKeys.Today):
			m.move(m.today)
		}
	}
	return m, nil
}

func (m *CalendarModel) move(to time.Time) {
	sameMonth := to.Year() == m.cursor.Year() && to.Month() == m.cursor.Month()
	m.cursor = to
	if !sameMonth {
		m.events = m.source.EventsInMonth(to)
	}
}

// shiftMonth moves by whole months, clamping the day to the target month's length
func shiftMonth(t time.Time, months int) time.Time {
	first := time.Date(t.Year(), t.Month()+time.Month(months), 1, 0, 0, 0, 0, t.Location())
	last := first.AddDate(0, 1, -1).Day()
	return time.Date(first.Year(), first.Month(), min(t.Day(), last), 0, 0, 0, 0, t.Location())
}

func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// MonthGrid returns the weeks covering month, Monday first. Days outside the
// month are included so every week has seven entries.
func MonthGrid(month time.Time) [][]time.Time {
	first := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, month.Location())
	offset := (int(first.Weekday()) + 6) % 7
	day := first.AddDate(0, 0, -offset)

	var weeks [][]time.Time
	for {
		week := make([]time.Time, 7)
		for i := range week {
			week[i] = day
			day = day.AddDate(0, 0, 1)
		}
		weeks = append(weeks, week)
		if day.Month() != first.Month() {
			return weeks
		}
	}
}

func (m CalendarModel) eventsOn(day time.Time) []models.CalendarEvent {
	var out []models.CalendarEvent
	for _, e := range m.events {
		if sameDay(e.Date, day) {
			out = append(out, e)
		}
	}
	return out
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

func (m CalendarModel) View() string {
	cellWidth := 10
	if m.width > 0 {
		cellWidth = max(6, min(16, (m.width-4)/7))
	}

	var b strings.Builder
	title := fmt.Sprintf("📅 %s %d", m.cursor.Month(), m.cursor.Year())
	b.WriteString(fg(ColorAccentBright).Bold(true).Render(title))
	b.WriteString("\n\n")

	header := fg(ColorHelpText).Bold(true).Width(cellWidth)
	var names []string
	for _, d := range []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"} {
		names = append(names, header.Render(d))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, names...))
	b.WriteString("\n")

	for _, week := range MonthGrid(m.cursor) {
		var cells []string
		for _, day := range week {
			cells = append(cells, m.renderCell(day, cellWidth))
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cells...))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.renderAgenda())
	b.WriteString("\n\n")
	b.WriteString(m.help.View(calendarKeys))
	return b.String()
}

func (m CalendarModel) renderCell(day time.Time, width int) string {
	style := lipgloss.NewStyle().Width(width).Height(2)
	label := fmt.Sprintf("%2d", day.Day())

	switch {
	case day.Month() != m.cursor.Month():
		return style.Foreground(lipgloss.Color(ColorDisabledText)).Render(label)
	case sameDay(day, m.cursor):
		style = style.Background(lipgloss.Color(ColorAccentMain)).Bold(true)
	case sameDay(day, m.today):
		style = style.Foreground(lipgloss.Color(ColorAccentBright)).Underline(true)
	}

	events := m.eventsOn(day)
	marks := ""
	for i, e := range events {
		if i == 3 {
			marks += "+"
			break
		}
		marks += fg(eventColor(e.Type)).Render("●")
	}
	return style.Render(label + "\n" + marks)
}

func (m CalendarModel) renderAgenda() string {
	events := m.eventsOn(m.cursor)
	heading := fg(ColorPrimaryText).Bold(true).Render(m.cursor.Format("Monday, 02 Jan 2006"))
	if len(events) == 0 {
		return heading + "\n" + fg(ColorSecondaryText).Italic(true).Render("Nothing scheduled")
	}

	lines := []string{heading}
	for _, e := range events {
		line := fg(eventColor(e.Type)).Render(fmt.Sprintf("%-9s", e.Type)) + " " + e.Title
		if e.ProjectName != "" {
			line += fg(ColorHelpText).Render(" [" + e.ProjectName + "]")
		}
		if e.Status == models.StatusCompleted {
			line = fg(ColorDisabledText).Strikethrough(true).Render(line)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
