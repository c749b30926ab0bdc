package models

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

// TaskStatus is the lifecycle state of a task
type TaskStatus string

const (
	StatusTodo       TaskStatus = "todo"
	StatusInProgress TaskStatus = "in-progress"
	StatusCompleted  TaskStatus = "completed"
)

// Next returns the status that follows s in the todo -> in-progress -> completed cycle
func (s TaskStatus) Next() TaskStatus {
	switch s {
	case StatusTodo:
		return StatusInProgress
	case StatusInProgress:
		return StatusCompleted
	default:
		return StatusTodo
	}
}

// Priority is how urgent a task is
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// TaskType selects which type-specific attributes apply to a task
type TaskType string

const (
	TaskRegular     TaskType = "regular"
	TaskDevelopment TaskType = "development"
	TaskFinancial   TaskType = "financial"
	TaskMeeting     TaskType = "meeting"
)

// Task represents a todo item
type Task struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Title       string     `gorm:"not null" json:"title"`
	Description string     `json:"description"`
	Status      TaskStatus `gorm:"default:todo" json:"status"`
	Priority    Priority   `gorm:"default:medium" json:"priority"`
	TaskType    TaskType   `gorm:"default:regular" json:"task_type"`
	DueDate     *time.Time `json:"due_date"`
	CompletedAt *time.Time `json:"completed_at"`

	// Weak reference, cleared when the project goes away
	ProjectID   *uint  `gorm:"index" json:"project_id"`
	ProjectName string `json:"project_name"`

	// Development
	Repository string `json:"repository,omitempty"`
	Branch     string `json:"branch,omitempty"`
	Ticket     string `json:"ticket,omitempty"`

	// Financial
	Amount   float64 `json:"amount,omitempty"`
	Currency string  `json:"currency,omitempty"`

	// Meeting
	Location   string   `json:"location,omitempty"`
	MeetingURL string   `json:"meeting_url,omitempty"`
	Attendees  []string `gorm:"serializer:json" json:"attendees,omitempty"`

	// Relationships
	Tags     []Tag     `gorm:"many2many:task_tags;" json:"tags"`
	Sessions []Session `gorm:"foreignKey:TaskID" json:"-"`
}

// TagNames returns the task's tag names in stored order
func (t Task) TagNames() []string {
	names := make([]string, 0, len(t.Tags))
	for _, tag := range t.Tags {
		names = append(names, tag.Name)
	}
	return names
}

// InProject reports whether the task references the given project
func (t Task) InProject(projectID uint) bool {
	return t.ProjectID != nil && *t.ProjectID == projectID
}

// Tag represents a task tag
type Tag struct {
	ID   uint   `gorm:"primarykey" json:"-"`
	Name string `gorm:"unique;not null" json:"name"`

	// Relationships
	Tasks []Task `gorm:"many2many:task_tags;" json:"-"`
}

// TaskTag is the join table for the many-to-many relationship
type TaskTag struct {
	TaskID uint `gorm:"primaryKey"`
	TagID  uint `gorm:"primaryKey"`
}

// ParseStatus accepts the canonical names plus a few shorthands
func ParseStatus(s string) (TaskStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "todo", "":
		return StatusTodo, nil
	case "in-progress", "inprogress", "in_progress", "doing", "wip":
		return StatusInProgress, nil
	case "completed", "done":
		return StatusCompleted, nil
	}
	return "", fmt.Errorf("invalid status %q. Use: todo, in-progress, completed", s)
}

// ParsePriority accepts low/medium/high/urgent or 1-4; empty means medium
func ParsePriority(s string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low", "1":
		return PriorityLow, nil
	case "medium", "med", "2", "":
		return PriorityMedium, nil
	case "high", "3":
		return PriorityHigh, nil
	case "urgent", "4":
		return PriorityUrgent, nil
	}
	return "", fmt.Errorf("invalid priority %q. Use: low, medium, high, urgent or 1-4", s)
}

// ParseTaskType accepts the task type names; empty means regular
func ParseTaskType(s string) (TaskType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "regular", "":
		return TaskRegular, nil
	case "development", "dev":
		return TaskDevelopment, nil
	case "financial", "finance":
		return TaskFinancial, nil
	case "meeting":
		return TaskMeeting, nil
	}
	return "", fmt.Errorf("invalid task type %q. Use: regular, development, financial, meeting", s)
}
