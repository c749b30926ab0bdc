package planner

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/balkashynov/plandeck/internal/logging"
	"github.com/balkashynov/plandeck/internal/models"
)

// Synchronizer is the only writer of tasks and projects. Each operation runs
// the base mutation, and only if it succeeded recomputes the affected
// projects and resyncs the calendar, all before returning.
type Synchronizer struct {
	mu       sync.Mutex
	store    Store
	calendar CalendarSyncer
	log      *logging.Logger
	now      func() time.Time
}

// Option configures a Synchronizer
type Option func(*Synchronizer)

// WithCalendar sets the calendar resynced after every operation
func WithCalendar(c CalendarSyncer) Option {
	return func(s *Synchronizer) { s.calendar = c }
}

// WithLogger sets the logger
func WithLogger(l *logging.Logger) Option {
	return func(s *Synchronizer) { s.log = l }
}

// WithClock overrides time.Now
func WithClock(now func() time.Time) Option {
	return func(s *Synchronizer) { s.now = now }
}

// New creates a Synchronizer writing through store
func New(store Store, opts ...Option) *Synchronizer {
	s := &Synchronizer{
		store: store,
		log:   logging.Discard(),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddTask creates a task and refreshes its project's derived fields
func (s *Synchronizer) AddTask(ctx context.Context, in TaskInput) (*models.Task, error) {
	task, err := newTask(in)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if task.ProjectID != nil {
		project, err := s.store.GetProject(ctx, *task.ProjectID)
		if err != nil {
			return nil, err
		}
		task.ProjectName = project.Name
	}
	if task.Status == models.StatusCompleted {
		now := s.now()
		task.CompletedAt = &now
	}

	if err := s.store.CreateTask(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	s.log.Event("task.created", map[string]any{"id": task.ID, "title": task.Title})

	if task.ProjectID != nil {
		s.recompute(ctx, *task.ProjectID)
	}
	s.resyncCalendar(ctx)
	return task, nil
}

// UpdateTask applies a partial update. Both the old and the new project are
// recomputed when the task moves between projects.
func (s *Synchronizer) UpdateTask(ctx context.Context, id uint, u TaskUpdate) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, err := s.store.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}
	oldProjectID := task.ProjectID

	if err := u.apply(task); err != nil {
		return nil, err
	}
	if u.Status != nil {
		if err := notBlank("status", string(*u.Status)); err != nil {
			return nil, err
		}
		status, err := models.ParseStatus(string(*u.Status))
		if err != nil {
			return nil, invalid("%v", err)
		}
		s.setStatus(task, status)
	}

	switch {
	case u.ClearProject:
		task.ProjectID = nil
		task.ProjectName = ""
	case u.ProjectID != nil:
		project, err := s.store.GetProject(ctx, *u.ProjectID)
		if err != nil {
			return nil, err
		}
		pid := project.ID
		task.ProjectID = &pid
		task.ProjectName = project.Name
	}

	if err := s.store.SaveTask(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to update task #%d: %w", id, err)
	}
	s.log.Event("task.updated", map[string]any{"id": task.ID})

	for _, pid := range affectedProjects(oldProjectID, task.ProjectID) {
		s.recompute(ctx, pid)
	}
	s.resyncCalendar(ctx)
	return task, nil
}

// ToggleTaskStatus advances a task through todo -> in-progress -> completed -> todo
func (s *Synchronizer) ToggleTaskStatus(ctx context.Context, id uint) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, err := s.store.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}
	s.setStatus(task, task.Status.Next())

	if err := s.store.SaveTask(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to update task #%d: %w", id, err)
	}
	s.log.Event("task.toggled", map[string]any{"id": task.ID, "status": task.Status})

	if task.ProjectID != nil {
		s.recompute(ctx, *task.ProjectID)
	}
	s.resyncCalendar(ctx)
	return task, nil
}

// DeleteTask removes a task and refreshes its former project
func (s *Synchronizer) DeleteTask(ctx context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, err := s.store.GetTask(ctx, id)
	if err != nil {
		return err
	}

	if err := s.store.DeleteTask(ctx, id); err != nil {
		return fmt.Errorf("failed to delete task #%d: %w", id, err)
	}
	s.log.Event("task.deleted", map[string]any{"id": id})

	if task.ProjectID != nil {
		s.recompute(ctx, *task.ProjectID)
	}
	s.resyncCalendar(ctx)
	return nil
}

// AddProject creates a project. A new project has no tasks, so it starts at 0%.
func (s *Synchronizer) AddProject(ctx context.Context, in ProjectInput) (*models.Project, error) {
	project, err := newProject(in)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	project.Progress = 0
	project.Tasks = 0
	if err := s.store.CreateProject(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}
	s.log.Event("project.created", map[string]any{"id": project.ID, "name": project.Name})

	s.resyncCalendar(ctx)
	return project, nil
}

// UpdateProject applies a partial update. A rename is copied onto the
// project's tasks.
func (s *Synchronizer) UpdateProject(ctx context.Context, id uint, u ProjectUpdate) (*models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	project, err := s.store.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}
	oldName := project.Name

	if err := u.apply(project); err != nil {
		return nil, err
	}

	if err := s.store.SaveProject(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to update project #%d: %w", id, err)
	}
	s.log.Event("project.updated", map[string]any{"id": project.ID})

	if project.Name != oldName {
		if err := s.store.RenameProjectOnTasks(ctx, project.ID, project.Name); err != nil {
			s.log.Error("project.rename_tasks_failed", err, map[string]any{"id": project.ID})
		}
	}
	s.resyncCalendar(ctx)
	return project, nil
}

// DeleteProject detaches every task from the project and deletes it in one store write
func (s *Synchronizer) DeleteProject(ctx context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.store.GetProject(ctx, id); err != nil {
		return err
	}

	cleared, err := s.store.DeleteProject(ctx, id)
	if err != nil {
		// The store rolls back, but a recompute keeps the derived fields
		// honest even if some tasks were already detached.
		s.recompute(ctx, id)
		return fmt.Errorf("failed to delete project #%d: %w", id, err)
	}
	s.log.Event("project.deleted", map[string]any{"id": id, "detached_tasks": cleared})

	s.resyncCalendar(ctx)
	return nil
}

// CalculateProjectProgress computes a project's progress from the current task set
func (s *Synchronizer) CalculateProjectProgress(ctx context.Context, projectID uint) (int, error) {
	tasks, err := s.store.ListTasks(ctx)
	if err != nil {
		return 0, err
	}
	return Progress(tasks, projectID), nil
}

// GetProjectTaskCounts partitions a project's current tasks by status
func (s *Synchronizer) GetProjectTaskCounts(ctx context.Context, projectID uint) (TaskCounts, error) {
	tasks, err := s.store.ListTasks(ctx)
	if err != nil {
		return TaskCounts{}, err
	}
	return CountTasks(tasks, projectID), nil
}

// SyncAllProjectProgress recomputes every project and writes only the ones that
// drifted. It returns how many projects were written.
func (s *Synchronizer) SyncAllProjectProgress(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	projects, err := s.store.ListProjects(ctx)
	if err != nil {
		return 0, err
	}
	tasks, err := s.store.ListTasks(ctx)
	if err != nil {
		return 0, err
	}

	var (
		written int
		errs    []error
	)
	for i := range projects {
		project := &projects[i]
		if !applyCounts(project, CountTasks(tasks, project.ID)) {
			continue
		}
		if err := s.store.SaveProject(ctx, project); err != nil {
			errs = append(errs, fmt.Errorf("project #%d: %w", project.ID, err))
			continue
		}
		written++
	}
	s.log.Event("projects.synced", map[string]any{"projects": len(projects), "written": written})

	if written > 0 {
		s.resyncCalendar(ctx)
	}
	return written, errors.Join(errs...)
}

// setStatus changes status and keeps CompletedAt in step with it
func (s *Synchronizer) setStatus(task *models.Task, status models.TaskStatus) {
	if status == models.StatusCompleted {
		if task.Status != models.StatusCompleted || task.CompletedAt == nil {
			now := s.now()
			task.CompletedAt = &now
		}
	} else {
		task.CompletedAt = nil
	}
	task.Status = status
}

// recompute refreshes one project's progress and task count. The mutation
// that triggered it already succeeded, so failures are logged and left for
// SyncAllProjectProgress to repair.
func (s *Synchronizer) recompute(ctx context.Context, projectID uint) {
	project, err := s.store.GetProject(ctx, projectID)
	if err != nil {
		if !errors.Is(err, models.ErrNotFound) {
			s.log.Error("project.recompute_failed", err, map[string]any{"id": projectID})
		}
		return
	}
	tasks, err := s.store.ListTasks(ctx)
	if err != nil {
		s.log.Error("project.recompute_failed", err, map[string]any{"id": projectID})
		return
	}

	if !applyCounts(project, CountTasks(tasks, projectID)) {
		return
	}
	if err := s.store.SaveProject(ctx, project); err != nil {
		s.log.Error("project.recompute_failed", err, map[string]any{"id": projectID})
		return
	}
	s.log.Debug("project.recomputed", map[string]any{"id": projectID, "progress": project.Progress, "tasks": project.Tasks})
}

// resyncCalendar rebuilds derived events. Failures are logged; the calendar
// is a projection and catches up on the next resync.
func (s *Synchronizer) resyncCalendar(ctx context.Context) {
	if s.calendar == nil {
		return
	}
	if err := s.calendar.ResyncAll(ctx); err != nil {
		s.log.Error("calendar.resync_failed", err, nil)
	}
}

// applyCounts stores the derived fields on project and reports whether they changed
func applyCounts(project *models.Project, c TaskCounts) bool {
	progress := percent(c)
	if project.Progress == progress && project.Tasks == c.Total {
		return false
	}
	project.Progress = progress
	project.Tasks = c.Total
	return true
}

// affectedProjects is the union of the old and new project ids
func affectedProjects(oldID, newID *uint) []uint {
	var ids []uint
	if oldID != nil {
		ids = append(ids, *oldID)
	}
	if newID != nil && (oldID == nil || *newID != *oldID) {
		ids = append(ids, *newID)
	}
	return ids
}
