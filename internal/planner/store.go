// Package planner keeps project progress, project task counts and calendar
// events consistent with the task set. Every task and project mutation goes
// through a Synchronizer, which applies the mutation, then recomputes the
// derived fields it touched, then asks the calendar to resync.
package planner

import (
	"context"

	"github.com/balkashynov/plandeck/internal/models"
)

// TaskStore is the task half of the row store
type TaskStore interface {
	ListTasks(ctx context.Context) ([]models.Task, error)
	GetTask(ctx context.Context, id uint) (*models.Task, error)
	CreateTask(ctx context.Context, task *models.Task) error
	SaveTask(ctx context.Context, task *models.Task) error
	DeleteTask(ctx context.Context, id uint) error
	RenameProjectOnTasks(ctx context.Context, projectID uint, name string) error
}

// ProjectStore is the project half of the row store
type ProjectStore interface {
	ListProjects(ctx context.Context) ([]models.Project, error)
	GetProject(ctx context.Context, id uint) (*models.Project, error)
	CreateProject(ctx context.Context, project *models.Project) error
	SaveProject(ctx context.Context, project *models.Project) error
	// DeleteProject detaches the project's tasks and removes the project as
	// one atomic write, returning how many tasks were detached.
	DeleteProject(ctx context.Context, id uint) (int64, error)
}

// Store is everything the synchronizer writes through
type Store interface {
	TaskStore
	ProjectStore
}

// CalendarSyncer rebuilds derived calendar events from the current tasks and projects
type CalendarSyncer interface {
	ResyncAll(ctx context.Context) error
}
