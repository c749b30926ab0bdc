package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	dmyRegex      = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)
	isoRegex      = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})$`)
	relativeRegex = regexp.MustCompile(`^(\d+)\s*(hour|hours|h|day|days|d|week|weeks|w)$`)
)

// ParseDueDate parses various due date formats relative to now
// Supported formats:
// - dd/mm/yyyy (e.g., "15/12/2024")
// - yyyy-mm-dd (e.g., "2024-12-15")
// - today, tomorrow
// - X days / X hours / X weeks (e.g., "3 days", "24h", "2w")
func ParseDueDate(input string, now time.Time) (*time.Time, error) {
	input = strings.ToLower(strings.TrimSpace(input))
	if input == "" {
		return nil, nil
	}

	switch input {
	case "today":
		d := startOfDay(now)
		return &d, nil
	case "tomorrow":
		d := startOfDay(now).AddDate(0, 0, 1)
		return &d, nil
	}

	if matches := dmyRegex.FindStringSubmatch(input); matches != nil {
		return buildDate(matches[3], matches[2], matches[1], now.Location())
	}
	if matches := isoRegex.FindStringSubmatch(input); matches != nil {
		return buildDate(matches[1], matches[2], matches[3], now.Location())
	}
	if dueDate, err := parseRelativeTime(input, now); err == nil {
		return dueDate, nil
	}

	return nil, fmt.Errorf("invalid date format. Use: dd/mm/yyyy, yyyy-mm-dd, today, tomorrow, X days, X hours, or X weeks")
}

// buildDate validates the parts and returns midnight of that day
func buildDate(yearStr, monthStr, dayStr string, loc *time.Location) (*time.Time, error) {
	year, _ := strconv.Atoi(yearStr)
	month, _ := strconv.Atoi(monthStr)
	day, _ := strconv.Atoi(dayStr)

	// Validate date ranges
	if day < 1 || day > 31 {
		return nil, fmt.Errorf("day must be between 1 and 31")
	}
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("month must be between 1 and 12")
	}
	if year < 1970 || year > 2100 {
		return nil, fmt.Errorf("year must be between 1970 and 2100")
	}

	dueDate := time.Date(year, time.Month(month), day, 0, 0, 0, 0, loc)

	// Check if date is valid (handles leap years, etc.)
	if dueDate.Day() != day || dueDate.Month() != time.Month(month) {
		return nil, fmt.Errorf("invalid date")
	}

	return &dueDate, nil
}

// parseRelativeTime parses relative time formats like "3 days", "24 hours", etc.
func parseRelativeTime(input string, now time.Time) (*time.Time, error) {
	matches := relativeRegex.FindStringSubmatch(input)
	if len(matches) != 3 {
		return nil, fmt.Errorf("invalid relative time format")
	}

	amount, err := strconv.Atoi(matches[1])
	if err != nil {
		return nil, fmt.Errorf("invalid number")
	}

	switch matches[2] {
	case "hour", "hours", "h":
		if amount < 1 || amount > 8760 { // Max 1 year in hours
			return nil, fmt.Errorf("hours must be between 1 and 8760")
		}
		dueDate := now.Add(time.Duration(amount) * time.Hour)
		return &dueDate, nil

	case "day", "days", "d":
		if amount < 1 || amount > 365 {
			return nil, fmt.Errorf("days must be between 1 and 365")
		}
		dueDate := startOfDay(now).AddDate(0, 0, amount)
		return &dueDate, nil

	case "week", "weeks", "w":
		if amount < 1 || amount > 52 {
			return nil, fmt.Errorf("weeks must be between 1 and 52")
		}
		dueDate := startOfDay(now).AddDate(0, 0, amount*7)
		return &dueDate, nil
	}

	return nil, fmt.Errorf("unsupported time unit")
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// FormatDueDate formats a due date for display relative to now
func FormatDueDate(dueDate *time.Time, now time.Time) string {
	if dueDate == nil {
		return ""
	}

	// Calculate calendar days difference
	today := startOfDay(now)
	dueDay := time.Date(dueDate.Year(), dueDate.Month(), dueDate.Day(), 0, 0, 0, 0, now.Location())
	daysDiff := int(dueDay.Sub(today).Hours() / 24)

	// Always show the actual date to avoid confusion
	dateStr := dueDate.Format("2006-01-02")

	switch {
	case daysDiff < 0:
		return fmt.Sprintf("OVERDUE (%s)", dateStr)
	case daysDiff == 0:
		return fmt.Sprintf("Due today (%s)", dateStr)
	case daysDiff == 1:
		return fmt.Sprintf("Due tomorrow (%s)", dateStr)
	case daysDiff <= 7:
		return fmt.Sprintf("Due %s (in %d days)", dateStr, daysDiff)
	default:
		return fmt.Sprintf("Due %s", dateStr)
	}
}
