package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/balkashynov/plandeck/internal/models"
)

// Color constants for the plandeck TUI theme
const (
	// Base Colors
	ColorCardBackground = "#1B1530" // Dark purple
	ColorBorder         = "#3A3F55" // Grey-blue

	// Text Colors
	ColorPrimaryText   = "#E6EAF2"
	ColorSecondaryText = "#B1B8C7"
	ColorDisabledText  = "#6D7383"
	ColorPlaceholder   = "#B1B8C7"
	ColorHelpText      = "240"

	// Accent Colors (Purple theme)
	ColorAccentMain   = "#7C3AED"
	ColorAccentBright = "#A78BFA"

	// State Colors
	ColorError   = "#EF4444"
	ColorSuccess = "#22C55E"
	ColorWarning = "#F59E0B"
	ColorInfo    = "#38BDF8"
)

func fg(color string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
}

// statusColor maps a task status to its color
func statusColor(s models.TaskStatus) string {
	switch s {
	case models.StatusCompleted:
		return ColorSuccess
	case models.StatusInProgress:
		return ColorWarning
	default:
		return ColorSecondaryText
	}
}

// statusLabel is the short column text for a status
func statusLabel(s models.TaskStatus) string {
	switch s {
	case models.StatusCompleted:
		return "✓ done"
	case models.StatusInProgress:
		return "◐ doing"
	default:
		return "○ todo"
	}
}

func priorityColor(p models.Priority) string {
	switch p {
	case models.PriorityUrgent, models.PriorityHigh:
		return ColorError
	case models.PriorityMedium:
		return ColorWarning
	default:
		return ColorSecondaryText
	}
}

// eventColor maps event types to the calendar palette
func eventColor(t models.EventType) string {
	switch t {
	case models.EventDeadline:
		return ColorError
	case models.EventMilestone:
		return ColorSuccess
	case models.EventMeeting:
		return ColorInfo
	default:
		return ColorAccentBright
	}
}
