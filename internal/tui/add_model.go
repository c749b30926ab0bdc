package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/balkashynov/plandeck/internal/models"
	"github.com/balkashynov/plandeck/internal/parser"
)

// Step is a wizard step
type Step int

const (
	StepTitle Step = iota
	StepProject
	StepTags
	StepPriority
	StepType
	StepDueDate
	StepDescription
	StepSave
)

type stepDef struct {
	label       string
	icon        string
	placeholder string
	limit       int
}

var steps = []stepDef{
	StepTitle:       {"Title", "📋", "Enter task title... (required)", 200},
	StepProject:     {"Project", "📁", "Project name (Enter to skip)", 50},
	StepTags:        {"Tags", "🔖", "Comma-separated tags (Enter to skip)", 100},
	StepPriority:    {"Priority", "⚡", "low/medium/high/urgent or 1-4 (Enter for medium)", 10},
	StepType:        {"Type", "🧩", "regular/development/financial/meeting (Enter for regular)", 20},
	StepDueDate:     {"Due Date", "📅", "Due: dd/mm/yyyy, 2024-06-01, 3 days, 2 weeks (Enter to skip)", 50},
	StepDescription: {"Description", "📝", "Additional notes (Enter to skip)", 500},
}

// Draft is what the wizard collects. The caller resolves the project name
// and creates the task.
type Draft struct {
	Title       string
	Project     string
	Tags        []string
	Priority    models.Priority
	TaskType    models.TaskType
	DueDate     *time.Time
	Description string
}

// AddTaskModel is a step-by-step task form with a live preview
type AddTaskModel struct {
	step   Step
	inputs []textinput.Model
	now    func() time.Time
	width  int
	height int

	validationErr string
	completed     bool
	cancelled     bool
}

// NewAddTaskModel creates the wizard. prefilled is keyed by lower-case step
// label: title, project, tags, priority, type, due, description.
func NewAddTaskModel(prefilled map[string]string, now func() time.Time) AddTaskModel {
	if now == nil {
		now = time.Now
	}

	inputs := make([]textinput.Model, len(steps))
	for i, def := range steps {
		in := textinput.New()
		in.Width = 60
		in.Placeholder = def.placeholder
		in.CharLimit = def.limit
		in.TextStyle = fg(ColorPrimaryText)
		in.PlaceholderStyle = fg(ColorPlaceholder)
		in.Cursor.Style = fg(ColorAccentBright)
		inputs[i] = in
	}
	keys := []string{"title", "project", "tags", "priority", "type", "due", "description"}
	for i, k := range keys {
		if v, ok := prefilled[k]; ok {
			inputs[i].SetValue(v)
		}
	}
	inputs[StepTitle].Focus()

	return AddTaskModel{inputs: inputs, now: now}
}

func (m AddTaskModel) Init() tea.Cmd {
	return textinput.Blink
}

// Result returns the collected draft once the user saved
func (m AddTaskModel) Result() (Draft, bool) {
	if !m.completed {
		return Draft{}, false
	}
	d, err := m.draft()
	return d, err == nil
}

func (m AddTaskModel) Cancelled() bool {
	return m.cancelled
}

func (m AddTaskModel) value(s Step) string {
	return strings.TrimSpace(m.inputs[s].Value())
}

// draft parses every field; the first failure is returned
func (m AddTaskModel) draft() (Draft, error) {
	d := Draft{
		Title:       m.value(StepTitle),
		Project:     m.value(StepProject),
		Tags:        parser.NormalizeTags(m.value(StepTags)),
		Description: m.value(StepDescription),
	}
	if d.Title == "" {
		return d, fmt.Errorf("task title is required")
	}

	var err error
	if d.Priority, err = models.ParsePriority(m.value(StepPriority)); err != nil {
		return d, err
	}
	if d.TaskType, err = models.ParseTaskType(m.value(StepType)); err != nil {
		return d, err
	}
	if d.DueDate, err = parser.ParseDueDate(m.value(StepDueDate), m.now()); err != nil {
		return d, err
	}
	return d, nil
}

// validateStep checks only the field on the current step
func (m AddTaskModel) validateStep() error {
	var err error
	switch m.step {
	case StepTitle:
		if m.value(StepTitle) == "" {
			err = fmt.Errorf("task title is required")
		}
	case StepPriority:
		_, err = models.ParsePriority(m.value(StepPriority))
	case StepType:
		_, err = models.ParseTaskType(m.value(StepType))
	case StepDueDate:
		_, err = parser.ParseDueDate(m.value(StepDueDate), m.now())
	}
	return err
}

func (m AddTaskModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		w := max(30, min(80, m.width*2/3-10))
		for i := range m.inputs {
			m.inputs[i].Width = w
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.cancelled = true
			return m, tea.Quit
		case "enter", "tab", "down":
			if m.step == StepSave {
				if msg.String() != "enter" {
					return m, nil
				}
				if _, err := m.draft(); err != nil {
					m.validationErr = err.Error()
					return m, nil
				}
				m.completed = true
				return m, tea.Quit
			}
			if err := m.validateStep(); err != nil {
				m.validationErr = err.Error()
				return m, nil
			}
			return m.goTo(m.step + 1)
		case "shift+tab", "up":
			if m.step > StepTitle {
				return m.goTo(m.step - 1)
			}
			return m, nil
		}
	}

	if m.step == StepSave {
		return m, nil
	}
	var cmd tea.Cmd
	m.inputs[m.step], cmd = m.inputs[m.step].Update(msg)
	m.validationErr = ""
	return m, cmd
}

func (m AddTaskModel) goTo(s Step) (tea.Model, tea.Cmd) {
	m.validationErr = ""
	if m.step < StepSave {
		m.inputs[m.step].Blur()
	}
	m.step = s
	if s < StepSave {
		return m, m.inputs[s].Focus()
	}
	return m, nil
}

func (m AddTaskModel) View() string {
	if m.cancelled || m.completed {
		return ""
	}

	if m.width < 85 {
		return m.renderWizard()
	}

	rightWidth := 50
	leftWidth := max(30, m.width-rightWidth-4)

	left := lipgloss.NewStyle().
		Width(leftWidth).
		Height(max(0, m.height-2)).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorBorder)).
		Padding(1).
		Render(m.renderWizard())
	right := lipgloss.NewStyle().
		Width(rightWidth).
		Padding(1).
		Render(m.renderPreview())

	return lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right)
}

func (m AddTaskModel) renderWizard() string {
	var b strings.Builder
	b.WriteString(fg(ColorAccentBright).Bold(true).Render("📝 Create New Task"))
	b.WriteString("\n\n")

	for i, def := range steps {
		s := Step(i)
		switch {
		case s == m.step:
			b.WriteString(fg(ColorAccentBright).Render("▶ " + def.label))
		case s < m.step && m.value(s) != "":
			b.WriteString(fg(ColorSuccess).Render("✓ " + def.label))
		case s < m.step:
			b.WriteString(fg(ColorDisabledText).Render("  " + def.label))
		default:
			b.WriteString(fg(ColorSecondaryText).Render("  " + def.label))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	if m.step == StepSave {
		b.WriteString(fg(ColorAccentBright).Render("▶ 💾 Save"))
	} else {
		b.WriteString(fg(ColorSecondaryText).Render("  💾 Save"))
	}
	b.WriteString("\n\n")

	if m.step == StepSave {
		b.WriteString("Press Enter to save task")
	} else {
		def := steps[m.step]
		b.WriteString(def.icon + " " + def.label + "\n")
		b.WriteString(m.inputs[m.step].View())
	}

	if m.validationErr != "" {
		b.WriteString("\n")
		b.WriteString(fg(ColorError).Bold(true).MarginTop(1).Render("❌ " + m.validationErr))
	}

	b.WriteString("\n\n")
	b.WriteString(fg(ColorHelpText).Italic(true).Render("Enter/Tab/↓: Next | Shift+Tab/↑: Back | Esc: Cancel"))
	return b.String()
}

func (m AddTaskModel) renderPreview() string {
	var b strings.Builder
	b.WriteString(fg(ColorAccentBright).Bold(true).Render("👀 Preview"))
	b.WriteString("\n\n")

	field := func(label, value string) {
		color := ColorPrimaryText
		if value == "" {
			value, color = "-", ColorDisabledText
		}
		b.WriteString(fg(ColorSecondaryText).Render(label+": ") + fg(color).Render(value) + "\n")
	}

	field("Title", m.value(StepTitle))
	field("Project", m.value(StepProject))
	if tags := parser.NormalizeTags(m.value(StepTags)); len(tags) > 0 {
		field("Tags", "#"+strings.Join(tags, " #"))
	} else {
		field("Tags", "")
	}
	if p, err := models.ParsePriority(m.value(StepPriority)); err == nil {
		field("Priority", string(p))
	} else {
		field("Priority", "?")
	}
	if t, err := models.ParseTaskType(m.value(StepType)); err == nil {
		field("Type", string(t))
	} else {
		field("Type", "?")
	}
	due, err := parser.ParseDueDate(m.value(StepDueDate), m.now())
	switch {
	case err != nil:
		field("Due", "?")
	case due != nil:
		field("Due", parser.FormatDueDate(due, m.now()))
	default:
		field("Due", "")
	}
	field("Description", m.value(StepDescription))
	return b.String()
}
