package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/balkashynov/plandeck/internal/models"
	"github.com/balkashynov/plandeck/internal/parser"
)

// TimerModel shows a running session with a big clock
type TimerModel struct {
	width   int
	height  int
	session *models.Session
	now     func() time.Time

	elapsed time.Duration
	frame   int

	stopping bool // s pressed, caller stops the session
	exiting  bool // q/esc pressed, session keeps running
}

type timerTickMsg struct{}

type animationTickMsg struct{}

func NewTimerModel(session *models.Session, now func() time.Time) TimerModel {
	if now == nil {
		now = time.Now
	}
	return TimerModel{
		session: session,
		now:     now,
		elapsed: session.Duration(now()),
	}
}

// Stopping reports whether the user asked to stop the session
func (m TimerModel) Stopping() bool {
	return m.stopping
}

func timerTick() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg { return timerTickMsg{} })
}

func animationTick() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(time.Time) tea.Msg { return animationTickMsg{} })
}

func (m TimerModel) Init() tea.Cmd {
	return tea.Batch(timerTick(), animationTick())
}

func (m TimerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case timerTickMsg:
		m.elapsed = m.session.Duration(m.now())
		if m.stopping || m.exiting {
			return m, nil
		}
		return m, timerTick()

	case animationTickMsg:
		m.frame = (m.frame + 1) % 4
		if m.stopping || m.exiting {
			return m, nil
		}
		return m, animationTick()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "s", "S":
			m.stopping = true
			return m, tea.Quit
		case "ctrl+c", "esc", "q":
			m.exiting = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m TimerModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	helpBar := fg(ColorHelpText).Italic(true).Align(lipgloss.Center).Width(m.width).
		Render("s stop & save · esc/q exit (keep running)")
	contentHeight := m.height - 2

	if m.width < 90 {
		return lipgloss.JoinVertical(lipgloss.Left, m.renderTimerPanel(m.width, contentHeight), helpBar)
	}

	leftWidth := m.width / 2
	rightWidth := m.width - leftWidth - 2
	content := lipgloss.JoinHorizontal(lipgloss.Top,
		m.renderTimerPanel(leftWidth, contentHeight),
		"  ",
		m.renderTaskPanel(rightWidth, contentHeight),
	)
	return lipgloss.JoinVertical(lipgloss.Left, content, helpBar)
}

func (m TimerModel) renderTimerPanel(width, height int) string {
	task := m.session.Task
	center := lipgloss.NewStyle().Align(lipgloss.Center).Width(width)

	anim := []string{"⏱", "⏲", "⏱", "⏲"}[m.frame]
	parts := []string{
		center.Foreground(lipgloss.Color(ColorAccentBright)).Bold(true).
			Render(fmt.Sprintf("%s  TRACKING TIME  %s", anim, anim)),
		center.Foreground(lipgloss.Color(ColorAccentMain)).Bold(true).
			Render(fmt.Sprintf("#%d", m.session.TaskID)),
		center.Foreground(lipgloss.Color(ColorPrimaryText)).Bold(true).
			Render(truncate(task.Title, width-4)),
		center.Render(fg(ColorAccentBright).Bold(true).Render(BigClock(m.elapsed))),
		center.Foreground(lipgloss.Color(ColorSecondaryText)).Italic(true).
			Render("Started at " + m.session.StartedAt.Local().Format("15:04:05")),
	}

	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(strings.Join(parts, "\n\n"))
}

func (m TimerModel) renderTaskPanel(width, height int) string {
	task := m.session.Task
	line := lipgloss.NewStyle().Align(lipgloss.Center).Width(width - 8)

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(line.Foreground(lipgloss.Color(ColorAccentMain)).Bold(true).Render("p l a n d e c k"))
	b.WriteString("\n\n")
	b.WriteString(line.Foreground(lipgloss.Color(ColorBorder)).Render(strings.Repeat("─", max(0, min(width-12, 40)))))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorPrimaryText)).
		Align(lipgloss.Center).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorAccentMain)).
		Width(width - 12).
		Padding(0, 1).
		Render(task.Title))
	b.WriteString("\n\n")

	row := func(label, value, color string) {
		if value == "" {
			value, color = "none", ColorDisabledText
		}
		b.WriteString(line.Render(label + ": " + fg(color).Render(value)))
		b.WriteString("\n")
	}
	row("Status", string(task.Status), statusColor(task.Status))
	row("Project", task.ProjectName, ColorAccentBright)
	row("Priority", string(task.Priority), priorityColor(task.Priority))
	tags := ""
	if len(task.Tags) > 0 {
		tags = "#" + strings.Join(task.TagNames(), " #")
	}
	row("Tags", tags, ColorAccentBright)
	row("Ticket", task.Ticket, ColorAccentMain)
	due := ""
	if task.DueDate != nil {
		due = parser.FormatDueDate(task.DueDate, m.now())
	}
	row("Due", due, ColorWarning)

	return lipgloss.NewStyle().Height(height).Render(b.String())
}

var clockGlyphs = map[rune][5]string{
	'0': {" ███ ", "█   █", "█   █", "█   █", " ███ "},
	'1': {"  █  ", " ██  ", "  █  ", "  █  ", "█████"},
	'2': {" ███ ", "█   █", "   █ ", "  █  ", "█████"},
	'3': {" ███ ", "█   █", "  ██ ", "█   █", " ███ "},
	'4': {"█   █", "█   █", "█████", "    █", "    █"},
	'5': {"█████", "█    ", "████ ", "    █", "████ "},
	'6': {" ███ ", "█    ", "████ ", "█   █", " ███ "},
	'7': {"█████", "    █", "   █ ", "  █  ", " █   "},
	'8': {" ███ ", "█   █", " ███ ", "█   █", " ███ "},
	'9': {" ███ ", "█   █", " ████", "    █", " ███ "},
	':': {"     ", "  █  ", "     ", "  █  ", "     "},
}

// ClockText formats d as MM:SS, or HH:MM:SS from one hour on
func ClockText(d time.Duration) string {
	d = max(0, d)
	h := int(d.Hours())
	mins := int(d.Minutes()) % 60
	secs := int(d.Seconds()) % 60
	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, mins, secs)
	}
	return fmt.Sprintf("%02d:%02d", mins, secs)
}

// BigClock draws ClockText(d) five rows tall
func BigClock(d time.Duration) string {
	var rows [5]strings.Builder
	for _, r := range ClockText(d) {
		glyph := clockGlyphs[r]
		for i := range rows {
			rows[i].WriteString(glyph[i])
			rows[i].WriteString(" ")
		}
	}

	lines := make([]string, len(rows))
	for i := range rows {
		lines[i] = rows[i].String()
	}
	return strings.Join(lines, "\n")
}

// FormatDuration is the short human form used in summaries, e.g. 1.5h, 12m, 40s
func FormatDuration(d time.Duration) string {
	switch {
	case d.Hours() >= 1:
		return fmt.Sprintf("%.1fh", d.Hours())
	case d.Minutes() >= 1:
		return fmt.Sprintf("%.0fm", d.Minutes())
	default:
		return fmt.Sprintf("%.0fs", d.Seconds())
	}
}
