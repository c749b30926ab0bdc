package models

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

// ProjectType is the kind of project
type ProjectType string

const (
	ProjectDeveloper ProjectType = "developer"
	ProjectMarketing ProjectType = "marketing"
)

// ProjectStatus is the lifecycle state of a project
type ProjectStatus string

const (
	ProjectPlanning  ProjectStatus = "planning"
	ProjectActive    ProjectStatus = "active"
	ProjectOnHold    ProjectStatus = "on-hold"
	ProjectCompleted ProjectStatus = "completed"
)

// Project groups tasks. Progress and Tasks are derived from the task set.
type Project struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Name        string        `gorm:"not null" json:"name"`
	Description string        `json:"description"`
	Type        ProjectType   `gorm:"default:developer" json:"type"`
	Status      ProjectStatus `gorm:"default:planning" json:"status"`
	Color       string        `json:"color,omitempty"`
	StartDate   *time.Time    `json:"start_date"`
	EndDate     *time.Time    `json:"end_date"`

	Progress int `gorm:"default:0" json:"progress"`
	Tasks    int `gorm:"column:task_count;default:0" json:"tasks"`
}

// ParseProjectType accepts developer/marketing; empty means developer
func ParseProjectType(s string) (ProjectType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "developer", "dev", "":
		return ProjectDeveloper, nil
	case "marketing":
		return ProjectMarketing, nil
	}
	return "", fmt.Errorf("invalid project type %q. Use: developer, marketing", s)
}

// ParseProjectStatus accepts the project status names; empty means planning
func ParseProjectStatus(s string) (ProjectStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "planning", "":
		return ProjectPlanning, nil
	case "active":
		return ProjectActive, nil
	case "on-hold", "onhold", "hold":
		return ProjectOnHold, nil
	case "completed", "done":
		return ProjectCompleted, nil
	}
	return "", fmt.Errorf("invalid project status %q. Use: planning, active, on-hold, completed", s)
}
