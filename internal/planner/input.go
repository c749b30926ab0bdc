package planner

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/balkashynov/plandeck/internal/models"
	"github.com/balkashynov/plandeck/internal/parser"
)

// ErrInvalid is wrapped by input validation failures
var ErrInvalid = errors.New("invalid input")

// TaskInput holds the data needed to create a new task
type TaskInput struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Status      models.TaskStatus `json:"status"`
	Priority    models.Priority   `json:"priority"`
	TaskType    models.TaskType   `json:"task_type"`
	DueDate     *time.Time        `json:"due_date"`
	ProjectID   *uint             `json:"project_id"`
	Tags        string            `json:"tags"` // comma-separated

	Repository string   `json:"repository"`
	Branch     string   `json:"branch"`
	Ticket     string   `json:"ticket"`
	Amount     float64  `json:"amount"`
	Currency   string   `json:"currency"`
	Location   string   `json:"location"`
	MeetingURL string   `json:"meeting_url"`
	Attendees  []string `json:"attendees"`
}

// TaskUpdate is a partial task update. Nil fields are left alone; the Clear
// flags remove the due date or the project reference.
type TaskUpdate struct {
	Title        *string            `json:"title"`
	Description  *string            `json:"description"`
	Status       *models.TaskStatus `json:"status"`
	Priority     *models.Priority   `json:"priority"`
	TaskType     *models.TaskType   `json:"task_type"`
	DueDate      *time.Time         `json:"due_date"`
	ClearDueDate bool               `json:"clear_due_date"`
	ProjectID    *uint              `json:"project_id"`
	ClearProject bool               `json:"clear_project"`
	Tags         *string            `json:"tags"`

	Repository *string   `json:"repository"`
	Branch     *string   `json:"branch"`
	Ticket     *string   `json:"ticket"`
	Amount     *float64  `json:"amount"`
	Currency   *string   `json:"currency"`
	Location   *string   `json:"location"`
	MeetingURL *string   `json:"meeting_url"`
	Attendees  *[]string `json:"attendees"`
}

// ProjectInput holds the data needed to create a project. Progress and task
// count are not part of it: they always come from the task set.
type ProjectInput struct {
	Name        string               `json:"name"`
	Description string               `json:"description"`
	Type        models.ProjectType   `json:"type"`
	Status      models.ProjectStatus `json:"status"`
	Color       string               `json:"color"`
	StartDate   *time.Time           `json:"start_date"`
	EndDate     *time.Time           `json:"end_date"`
}

// ProjectUpdate is a partial project update
type ProjectUpdate struct {
	Name           *string               `json:"name"`
	Description    *string               `json:"description"`
	Type           *models.ProjectType   `json:"type"`
	Status         *models.ProjectStatus `json:"status"`
	Color          *string               `json:"color"`
	StartDate      *time.Time            `json:"start_date"`
	ClearStartDate bool                  `json:"clear_start_date"`
	EndDate        *time.Time            `json:"end_date"`
	ClearEndDate   bool                  `json:"clear_end_date"`
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}

// notBlank rejects an explicitly empty enum on update. The parsers map ""
// to the create-time default, which would overwrite the stored value.
func notBlank(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return invalid("%s cannot be empty", field)
	}
	return nil
}

func copyID(id *uint) *uint {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func tagsFromText(text string) []models.Tag {
	names := parser.NormalizeTags(text)
	tags := make([]models.Tag, 0, len(names))
	for _, name := range names {
		tags = append(tags, models.Tag{Name: name})
	}
	return tags
}

func normalizeTicket(ticket string) (string, error) {
	if ticket == "" {
		return "", nil
	}
	normalized, err := parser.NormalizeTicket(ticket)
	if err != nil {
		return "", invalid("%v", err)
	}
	return normalized, nil
}

// newTask builds a task from input, filling defaults and validating enums
func newTask(in TaskInput) (*models.Task, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, invalid("title is required")
	}

	status, err := models.ParseStatus(string(in.Status))
	if err != nil {
		return nil, invalid("%v", err)
	}
	priority, err := models.ParsePriority(string(in.Priority))
	if err != nil {
		return nil, invalid("%v", err)
	}
	taskType, err := models.ParseTaskType(string(in.TaskType))
	if err != nil {
		return nil, invalid("%v", err)
	}
	ticket, err := normalizeTicket(in.Ticket)
	if err != nil {
		return nil, err
	}

	return &models.Task{
		Title:       title,
		Description: in.Description,
		Status:      status,
		Priority:    priority,
		TaskType:    taskType,
		DueDate:     copyTime(in.DueDate),
		ProjectID:   copyID(in.ProjectID),
		Tags:        tagsFromText(in.Tags),
		Repository:  in.Repository,
		Branch:      in.Branch,
		Ticket:      ticket,
		Amount:      in.Amount,
		Currency:    strings.ToUpper(strings.TrimSpace(in.Currency)),
		Location:    in.Location,
		MeetingURL:  in.MeetingURL,
		Attendees:   slices.Clone(in.Attendees),
	}, nil
}

// apply copies the set fields of u onto task. Project and status handling is
// left to the caller since both have side effects.
func (u TaskUpdate) apply(task *models.Task) error {
	if u.Title != nil {
		title := strings.TrimSpace(*u.Title)
		if title == "" {
			return invalid("title cannot be empty")
		}
		task.Title = title
	}
	if u.Description != nil {
		task.Description = *u.Description
	}
	if u.Priority != nil {
		if err := notBlank("priority", string(*u.Priority)); err != nil {
			return err
		}
		priority, err := models.ParsePriority(string(*u.Priority))
		if err != nil {
			return invalid("%v", err)
		}
		task.Priority = priority
	}
	if u.TaskType != nil {
		if err := notBlank("task type", string(*u.TaskType)); err != nil {
			return err
		}
		taskType, err := models.ParseTaskType(string(*u.TaskType))
		if err != nil {
			return invalid("%v", err)
		}
		task.TaskType = taskType
	}
	if u.ClearDueDate {
		task.DueDate = nil
	} else if u.DueDate != nil {
		due := *u.DueDate
		task.DueDate = &due
	}
	if u.Tags != nil {
		task.Tags = tagsFromText(*u.Tags)
	}
	if u.Repository != nil {
		task.Repository = *u.Repository
	}
	if u.Branch != nil {
		task.Branch = *u.Branch
	}
	if u.Ticket != nil {
		ticket, err := normalizeTicket(*u.Ticket)
		if err != nil {
			return err
		}
		task.Ticket = ticket
	}
	if u.Amount != nil {
		task.Amount = *u.Amount
	}
	if u.Currency != nil {
		task.Currency = strings.ToUpper(strings.TrimSpace(*u.Currency))
	}
	if u.Location != nil {
		task.Location = *u.Location
	}
	if u.MeetingURL != nil {
		task.MeetingURL = *u.MeetingURL
	}
	if u.Attendees != nil {
		task.Attendees = *u.Attendees
	}
	return nil
}

func newProject(in ProjectInput) (*models.Project, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, invalid("project name is required")
	}
	projectType, err := models.ParseProjectType(string(in.Type))
	if err != nil {
		return nil, invalid("%v", err)
	}
	status, err := models.ParseProjectStatus(string(in.Status))
	if err != nil {
		return nil, invalid("%v", err)
	}
	if err := checkDates(in.StartDate, in.EndDate); err != nil {
		return nil, err
	}

	return &models.Project{
		Name:        name,
		Description: in.Description,
		Type:        projectType,
		Status:      status,
		Color:       in.Color,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
	}, nil
}

func (u ProjectUpdate) apply(project *models.Project) error {
	if u.Name != nil {
		name := strings.TrimSpace(*u.Name)
		if name == "" {
			return invalid("project name cannot be empty")
		}
		project.Name = name
	}
	if u.Description != nil {
		project.Description = *u.Description
	}
	if u.Type != nil {
		if err := notBlank("project type", string(*u.Type)); err != nil {
			return err
		}
		projectType, err := models.ParseProjectType(string(*u.Type))
		if err != nil {
			return invalid("%v", err)
		}
		project.Type = projectType
	}
	if u.Status != nil {
		if err := notBlank("project status", string(*u.Status)); err != nil {
			return err
		}
		status, err := models.ParseProjectStatus(string(*u.Status))
		if err != nil {
			return invalid("%v", err)
		}
		project.Status = status
	}
	if u.Color != nil {
		project.Color = *u.Color
	}
	if u.ClearStartDate {
		project.StartDate = nil
	} else if u.StartDate != nil {
		start := *u.StartDate
		project.StartDate = &start
	}
	if u.ClearEndDate {
		project.EndDate = nil
	} else if u.EndDate != nil {
		end := *u.EndDate
		project.EndDate = &end
	}
	return checkDates(project.StartDate, project.EndDate)
}

func checkDates(start, end *time.Time) error {
	if start != nil && end != nil && end.Before(*start) {
		return invalid("end date %s is before start date %s", end.Format("2006-01-02"), start.Format("2006-01-02"))
	}
	return nil
}
