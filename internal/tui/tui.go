package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/balkashynov/plandeck/internal/models"
)

func run(model tea.Model) (tea.Model, error) {
	return tea.NewProgram(model, tea.WithAltScreen()).Run()
}

// RunList starts the interactive task list
func RunList(ctx context.Context, backend ListBackend) error {
	_, err := run(NewListModel(ctx, backend))
	return err
}

// RunCalendar starts the month view
func RunCalendar(source EventSource, now time.Time) error {
	_, err := run(NewCalendarModel(source, now))
	return err
}

// RunTimer shows the running session. It reports whether the user asked to stop it.
func RunTimer(session *models.Session, now func() time.Time) (bool, error) {
	final, err := run(NewTimerModel(session, now))
	if err != nil {
		return false, err
	}
	m, ok := final.(TimerModel)
	return ok && m.Stopping(), nil
}

// RunAdd starts the add task wizard. ok is false when the user cancelled.
func RunAdd(prefilled map[string]string, now func() time.Time) (Draft, bool, error) {
	final, err := run(NewAddTaskModel(prefilled, now))
	if err != nil {
		return Draft{}, false, err
	}
	m, ok := final.(AddTaskModel)
	if !ok {
		return Draft{}, false, fmt.Errorf("unexpected model %T", final)
	}
	d, saved := m.Result()
	return d, saved, nil
}
