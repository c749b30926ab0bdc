package parser

import (
	"regexp"
	"strings"
	"time"

	"github.com/balkashynov/plandeck/internal/models"
)

var (
	ticketInTitleRegex = regexp.MustCompile(`\b([A-Za-z][A-Za-z0-9]*)-(\d+)\b`)
	tagRegex           = regexp.MustCompile(`#([a-zA-Z0-9_,-]+)`)
	projectRegex       = regexp.MustCompile(`@([a-zA-Z0-9_-]+)`)
	priorityRegex      = regexp.MustCompile(`\+([a-zA-Z0-9]+)`)
	dueRegex           = regexp.MustCompile(`due:([^\s]+)`)
	typeRegex          = regexp.MustCompile(`type:([a-zA-Z]+)`)
)

// ParsedTask represents a task parsed from quick-add syntax
type ParsedTask struct {
	Title    string
	Project  string
	Tags     []string
	Priority models.Priority
	TaskType models.TaskType
	Ticket   string
	DueDate  *time.Time
	Errors   []string
}

// ParseTitle extracts metadata from a task title
// Syntax: "Task title #tag1,tag2 @project +priority due:3days type:meeting APP-123"
func ParseTitle(input string, now time.Time) ParsedTask {
	result := ParsedTask{
		Title:  input,
		Tags:   []string{},
		Errors: []string{},
	}

	// Extract due date first so "due:2024-06-01" is not read as a ticket
	if matches := dueRegex.FindStringSubmatch(input); len(matches) > 1 {
		dueDate, err := ParseDueDate(matches[1], now)
		if err != nil {
			result.Errors = append(result.Errors, "Invalid due date '"+matches[1]+"': "+err.Error())
		} else {
			result.DueDate = dueDate
		}
		input = dueRegex.ReplaceAllString(input, "")
	}

	// Extract task type (type:meeting)
	if matches := typeRegex.FindStringSubmatch(input); len(matches) > 1 {
		taskType, err := models.ParseTaskType(matches[1])
		if err != nil {
			result.Errors = append(result.Errors, err.Error())
		} else {
			result.TaskType = taskType
		}
		input = typeRegex.ReplaceAllString(input, "")
	}

	// Extract ticket IDs (pattern: ABC-123); they make the task a development task
	if matches := ticketInTitleRegex.FindAllString(input, -1); len(matches) > 0 {
		ticket, err := NormalizeTicket(matches[0])
		if err != nil {
			result.Errors = append(result.Errors, "Invalid ticket format: "+matches[0])
		} else {
			result.Ticket = ticket
			if result.TaskType == "" {
				result.TaskType = models.TaskDevelopment
			}
		}
		input = ticketInTitleRegex.ReplaceAllString(input, "")
	}

	// Extract tags (#tag1,tag2 or #tag1 #tag2)
	var tagGroups []string
	for _, match := range tagRegex.FindAllStringSubmatch(input, -1) {
		tagGroups = append(tagGroups, match[1])
	}
	result.Tags = NormalizeTags(tagGroups...)
	input = tagRegex.ReplaceAllString(input, "")

	// Extract project (@project-name)
	if matches := projectRegex.FindStringSubmatch(input); len(matches) > 1 {
		result.Project = matches[1]
		input = projectRegex.ReplaceAllString(input, "")
	}

	// Extract priority (+high, +3, +urgent)
	if matches := priorityRegex.FindStringSubmatch(input); len(matches) > 1 {
		priority, err := models.ParsePriority(matches[1])
		if err != nil {
			result.Errors = append(result.Errors, "Invalid priority '"+matches[1]+"'. Use: low, medium, high, urgent or 1-4")
		} else {
			result.Priority = priority
		}
		input = priorityRegex.ReplaceAllString(input, "")
	}

	// Clean up the title (remove extra spaces)
	result.Title = strings.Join(strings.Fields(input), " ")

	return result
}
