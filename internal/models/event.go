package models

import "time"

// EventType is how an event is drawn on the calendar
type EventType string

const (
	EventTask      EventType = "task"
	EventProject   EventType = "project"
	EventMeeting   EventType = "meeting"
	EventDeadline  EventType = "deadline"
	EventMilestone EventType = "milestone"
)

// EventSource says where an event came from
type EventSource string

const (
	SourceTask    EventSource = "task"
	SourceProject EventSource = "project"
	SourceManual  EventSource = "manual"
)

// CalendarEvent is a calendar entry. Task and project events are derived in
// memory; only manual events are stored.
type CalendarEvent struct {
	ID          string      `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time   `json:"created_at"`
	Title       string      `gorm:"not null" json:"title"`
	Description string      `json:"description,omitempty"`
	Date        time.Time   `gorm:"index" json:"date"`
	Type        EventType   `json:"type"`
	Source      EventSource `gorm:"index" json:"source"`
	SourceID    uint        `json:"source_id,omitempty"`

	Priority    Priority   `json:"priority,omitempty"`
	Status      TaskStatus `json:"status,omitempty"`
	TaskType    TaskType   `json:"task_type,omitempty"`
	ProjectName string     `json:"project_name,omitempty"`
}
