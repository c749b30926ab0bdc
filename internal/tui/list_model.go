package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/balkashynov/plandeck/internal/models"
	"github.com/balkashynov/plandeck/internal/parser"
)

// ListBackend loads data for the list view and performs the one mutation it offers
type ListBackend interface {
	Load(ctx context.Context) ([]models.Task, []models.Project, error)
	Toggle(ctx context.Context, id uint) (*models.Task, error)
}

type loadedMsg struct {
	tasks    []models.Task
	projects []models.Project
	err      error
}

type toggledMsg struct {
	task *models.Task
	err  error
}

// ListModel shows tasks on the left, task details and project progress on the right
type ListModel struct {
	ctx     context.Context
	backend ListBackend
	now     func() time.Time

	width  int
	height int

	all      []models.Task
	tasks    []models.Task // after the search filter
	projects []models.Project
	selected int

	search textinput.Model
	help   help.Model
	status string

	currentPage  int
	tasksPerPage int
}

// NewListModel creates the list view. Data arrives through Init.
func NewListModel(ctx context.Context, backend ListBackend) ListModel {
	search := textinput.New()
	search.Prompt = "Search: "
	search.Placeholder = "title, project or #tag"
	search.CharLimit = 100
	search.TextStyle = fg(ColorPrimaryText)
	search.PlaceholderStyle = fg(ColorPlaceholder)
	search.Cursor.Style = fg(ColorAccentBright)

	return ListModel{
		ctx:          ctx,
		backend:      backend,
		now:          time.Now,
		search:       search,
		help:         help.New(),
		tasksPerPage: 10,
	}
}

func (m ListModel) Init() tea.Cmd {
	return m.load()
}

func (m ListModel) load() tea.Cmd {
	return func() tea.Msg {
		tasks, projects, err := m.backend.Load(m.ctx)
		return loadedMsg{tasks: tasks, projects: projects, err: err}
	}
}

func (m ListModel) toggle(id uint) tea.Cmd {
	return func() tea.Msg {
		task, err := m.backend.Toggle(m.ctx, id)
		return toggledMsg{task: task, err: err}
	}
}

func (m ListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		// header, column headers, pagination, help and borders
		m.tasksPerPage = max(3, m.height-12)
		return m, nil

	case loadedMsg:
		if msg.err != nil {
			m.status = "Error: " + msg.err.Error()
			return m, nil
		}
		m.all = msg.tasks
		m.projects = msg.projects
		m.applyFilter()
		return m, nil

	case toggledMsg:
		if msg.err != nil {
			m.status = "Error: " + msg.err.Error()
			return m, nil
		}
		m.status = fmt.Sprintf("Task #%d is now %s", msg.task.ID, msg.task.Status)
		// Progress changed too, so reload everything
		return m, m.load()

	case tea.KeyMsg:
		if m.search.Focused() {
			return m.updateSearch(msg)
		}

		switch {
		case key.Matches(msg, listKeys.Quit):
			if msg.String() == "esc" && m.search.Value() != "" {
				m.search.SetValue("")
				m.applyFilter()
				return m, nil
			}
			return m, tea.Quit
		case key.Matches(msg, listKeys.Up):
			m.moveSelection(-1)
		case key.Matches(msg, listKeys.Down):
			m.moveSelection(1)
		case key.Matches(msg, listKeys.Prev):
			m.changePage(-1)
		case key.Matches(msg, listKeys.Next):
			m.changePage(1)
		case key.Matches(msg, listKeys.Search):
			return m, m.search.Focus()
		case key.Matches(msg, listKeys.Reload):
			return m, m.load()
		case key.Matches(msg, listKeys.Toggle):
			if task, ok := m.Selected(); ok {
				return m, m.toggle(task.ID)
			}
		}
	}
	return m, nil
}

func (m ListModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.search.SetValue("")
		m.search.Blur()
		m.applyFilter()
		return m, nil
	case "enter":
		m.search.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.applyFilter()
	return m, cmd
}

func (m *ListModel) applyFilter() {
	m.tasks = FilterTasks(m.all, m.search.Value())
	m.currentPage = 0
	if m.selected >= len(m.tasks) {
		m.selected = max(0, len(m.tasks)-1)
	}
}

// Selected returns the highlighted task
func (m ListModel) Selected() (models.Task, bool) {
	if m.selected < 0 || m.selected >= len(m.tasks) {
		return models.Task{}, false
	}
	return m.tasks[m.selected], true
}

func (m *ListModel) moveSelection(delta int) {
	next := m.selected + delta
	if next < 0 || next >= len(m.tasks) {
		return
	}
	m.selected = next
	m.currentPage = m.selected / m.tasksPerPage
}

func (m *ListModel) changePage(delta int) {
	pages := (len(m.tasks) + m.tasksPerPage - 1) / m.tasksPerPage
	page := m.currentPage + delta
	if page < 0 || page >= pages {
		return
	}
	m.currentPage = page
	m.selected = min(page*m.tasksPerPage, len(m.tasks)-1)
}

// FilterTasks keeps tasks whose title, project or tags contain query.
// A leading '#' matches tags only.
func FilterTasks(tasks []models.Task, query string) []models.Task {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return tasks
	}

	tagOnly := strings.HasPrefix(query, "#")
	query = strings.TrimPrefix(query, "#")

	var out []models.Task
	for _, t := range tasks {
		match := false
		for _, name := range t.TagNames() {
			if strings.Contains(strings.ToLower(name), query) {
				match = true
				break
			}
		}
		if !tagOnly && !match {
			match = strings.Contains(strings.ToLower(t.Title), query) ||
				strings.Contains(strings.ToLower(t.ProjectName), query)
		}
		if match {
			out = append(out, t)
		}
	}
	return out
}

// ProgressBar draws a fixed-width bar for a 0..100 percentage
func ProgressBar(percent, width int) string {
	if width <= 0 {
		return ""
	}
	percent = max(0, min(100, percent))
	filled := percent * width / 100
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// dueLabel is the short due column text
func dueLabel(due *time.Time, now time.Time) string {
	if due == nil {
		return "-"
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	day := time.Date(due.Year(), due.Month(), due.Day(), 0, 0, 0, 0, now.Location())
	days := int(day.Sub(today).Hours() / 24)
	switch {
	case days < 0:
		return "OVERDUE"
	case days == 0:
		return "TODAY"
	case days == 1:
		return "TOMORROW"
	case days <= 7:
		return fmt.Sprintf("%dd", days)
	default:
		return due.Format("02/01")
	}
}

func dueColor(label string) string {
	switch {
	case label == "OVERDUE":
		return ColorError
	case label == "TODAY" || label == "TOMORROW":
		return ColorWarning
	case strings.HasSuffix(label, "d"):
		return ColorAccentBright
	case label == "-":
		return ColorDisabledText
	}
	return ColorSecondaryText
}

// View renders the TUI
func (m ListModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	leftWidth := m.width * 60 / 100
	rightWidth := m.width - leftWidth - 1

	right := lipgloss.JoinVertical(lipgloss.Left,
		m.renderTaskDetails(rightWidth),
		m.renderProjects(rightWidth),
	)
	content := lipgloss.JoinHorizontal(lipgloss.Top, m.renderTaskTable(leftWidth), " ", right)

	var bottom string
	if m.search.Focused() || m.search.Value() != "" {
		bottom = lipgloss.NewStyle().
			Background(lipgloss.Color(ColorBorder)).
			Padding(0, 1).
			Width(m.width - 2).
			Render(m.search.View())
	} else {
		bottom = m.help.View(listKeys)
	}

	parts := []string{"", content, ""}
	if m.status != "" {
		parts = append(parts, fg(ColorSecondaryText).Italic(true).Render(m.status))
	}
	parts = append(parts, bottom)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m ListModel) renderTaskTable(width int) string {
	var b strings.Builder

	b.WriteString(fg(ColorAccentBright).Bold(true).Render("📋 Tasks"))
	b.WriteString("\n\n")

	if len(m.tasks) == 0 {
		b.WriteString(fg(ColorSecondaryText).Italic(true).Render("No tasks found"))
		return panel(width).Render(b.String())
	}

	idWidth, statusWidth, dueWidth := 5, 9, 10
	titleWidth := max(20, width-4-idWidth-statusWidth-dueWidth-6)

	headers := fmt.Sprintf("%-*s %-*s %-*s %-*s",
		idWidth, "ID", titleWidth, "TITLE", statusWidth, "STATUS", dueWidth, "DUE")
	b.WriteString(fg(ColorAccentBright).Bold(true).Padding(0, 1).Render(headers))
	b.WriteString("\n\n")

	now := m.now()
	start := m.currentPage * m.tasksPerPage
	end := min(start+m.tasksPerPage, len(m.tasks))
	for i := start; i < end; i++ {
		task := m.tasks[i]

		title := truncate(task.Title, titleWidth-1)
		due := dueLabel(task.DueDate, now)
		row := fmt.Sprintf("%-*s %-*s %s %s",
			idWidth, fmt.Sprintf("#%d", task.ID),
			titleWidth, title,
			fg(statusColor(task.Status)).Width(statusWidth).Render(statusLabel(task.Status)),
			fg(dueColor(due)).Width(dueWidth).Render(due))

		if i == m.selected {
			b.WriteString(lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color(ColorAccentMain)).
				Bold(true).
				Padding(0, 1).
				Render(row))
		} else {
			b.WriteString(" " + row)
		}
		b.WriteString("\n")
	}

	if m.tasksPerPage < len(m.tasks) {
		pages := (len(m.tasks) + m.tasksPerPage - 1) / m.tasksPerPage
		b.WriteString(fg(ColorHelpText).
			Align(lipgloss.Center).
			Width(width - 2).
			MarginTop(1).
			Render(fmt.Sprintf("Page %d/%d (%d tasks)", m.currentPage+1, pages, len(m.tasks))))
	}

	return panel(width).Render(b.String())
}

func (m ListModel) renderTaskDetails(width int) string {
	task, ok := m.Selected()
	if !ok {
		return panel(width).Render(
			fg(ColorAccentMain).Bold(true).Align(lipgloss.Center).Width(width).Render("plandeck") + "\n\n" +
				fg(ColorSecondaryText).Italic(true).Align(lipgloss.Center).Width(width).Render("Select a task to view details"))
	}

	var b strings.Builder
	b.WriteString(fg(ColorPrimaryText).Bold(true).Width(width).Render("📋 " + task.Title))
	b.WriteString("\n\n")

	field := func(label, value, color string) {
		if value == "" {
			return
		}
		b.WriteString(label + ": " + fg(color).Render(value) + "\n")
	}
	field("Status", string(task.Status), statusColor(task.Status))
	field("Priority", string(task.Priority), priorityColor(task.Priority))
	field("Type", string(task.TaskType), ColorSecondaryText)
	field("Project", task.ProjectName, ColorAccentBright)
	if len(task.Tags) > 0 {
		field("Tags", "#"+strings.Join(task.TagNames(), " #"), ColorAccentBright)
	}
	field("Due", parser.FormatDueDate(task.DueDate, m.now()), ColorWarning)

	switch task.TaskType {
	case models.TaskDevelopment:
		field("Ticket", task.Ticket, ColorAccentMain)
		field("Repository", task.Repository, ColorSecondaryText)
		field("Branch", task.Branch, ColorSecondaryText)
	case models.TaskFinancial:
		if task.Amount != 0 {
			field("Amount", fmt.Sprintf("%.2f %s", task.Amount, task.Currency), ColorSecondaryText)
		}
	case models.TaskMeeting:
		field("Location", task.Location, ColorSecondaryText)
		field("Link", task.MeetingURL, ColorInfo)
		field("Attendees", strings.Join(task.Attendees, ", "), ColorSecondaryText)
	}

	if task.Description != "" {
		b.WriteString("\n")
		b.WriteString(fg(ColorSecondaryText).Italic(true).Width(width - 2).Render(task.Description))
	}
	return panel(width).Render(b.String())
}

func (m ListModel) renderProjects(width int) string {
	var b strings.Builder
	b.WriteString(fg(ColorAccentBright).Bold(true).Render("📁 Projects"))
	b.WriteString("\n\n")

	if len(m.projects) == 0 {
		b.WriteString(fg(ColorDisabledText).Italic(true).Render("No projects"))
		return panel(width).Render(b.String())
	}

	nameWidth := 16
	barWidth := max(5, width-nameWidth-16)
	for _, p := range m.projects {
		bar := fg(ColorAccentMain).Render(ProgressBar(p.Progress, barWidth))
		fmt.Fprintf(&b, "%-*s %s %3d%% %s\n",
			nameWidth, truncate(p.Name, nameWidth), bar, p.Progress,
			fg(ColorHelpText).Render(fmt.Sprintf("(%d)", p.Tasks)))
	}
	return panel(width).Render(b.String())
}

func panel(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorBorder)).
		Width(width)
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width <= 3 {
		return string(r[:max(0, width)])
	}
	return string(r[:width-3]) + "..."
}
