package planner

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/balkashynov/plandeck/internal/models"
)

var errStoreDown = errors.New("store unavailable")

// memStore is an in-memory Store. The fail* fields make the named call return errStoreDown.
type memStore struct {
	tasks    map[uint]models.Task
	projects map[uint]models.Project
	nextTask uint
	nextProj uint

	failCreateTask    bool
	failSaveTask      bool
	failDeleteTask    bool
	failSaveProject   bool
	failDeleteProject bool
	partialDelete     bool

	projectSaves int
}

func newMemStore() *memStore {
	return &memStore{
		tasks:    make(map[uint]models.Task),
		projects: make(map[uint]models.Project),
	}
}

func (m *memStore) ListTasks(ctx context.Context) ([]models.Task, error) {
	tasks := make([]models.Task, 0, len(m.tasks))
	for _, t := range m.tasks {
		tasks = append(tasks, copyTask(t))
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].ID < tasks[j].ID })
	return tasks, nil
}

func (m *memStore) GetTask(ctx context.Context, id uint) (*models.Task, error) {
	t, ok := m.tasks[id]
	if !ok {
		return nil, fmt.Errorf("task #%d: %w", id, models.ErrNotFound)
	}
	c := copyTask(t)
	return &c, nil
}

func (m *memStore) CreateTask(ctx context.Context, task *models.Task) error {
	if m.failCreateTask {
		return errStoreDown
	}
	m.nextTask++
	task.ID = m.nextTask
	m.tasks[task.ID] = copyTask(*task)
	return nil
}

func (m *memStore) SaveTask(ctx context.Context, task *models.Task) error {
	if m.failSaveTask {
		return errStoreDown
	}
	if _, ok := m.tasks[task.ID]; !ok {
		return fmt.Errorf("task #%d: %w", task.ID, models.ErrNotFound)
	}
	m.tasks[task.ID] = copyTask(*task)
	return nil
}

func (m *memStore) DeleteTask(ctx context.Context, id uint) error {
	if m.failDeleteTask {
		return errStoreDown
	}
	if _, ok := m.tasks[id]; !ok {
		return fmt.Errorf("task #%d: %w", id, models.ErrNotFound)
	}
	delete(m.tasks, id)
	return nil
}

func (m *memStore) RenameProjectOnTasks(ctx context.Context, projectID uint, name string) error {
	for id, t := range m.tasks {
		if t.InProject(projectID) {
			t.ProjectName = name
			m.tasks[id] = t
		}
	}
	return nil
}

func (m *memStore) ListProjects(ctx context.Context) ([]models.Project, error) {
	projects := make([]models.Project, 0, len(m.projects))
	for _, p := range m.projects {
		projects = append(projects, p)
	}
	sort.Slice(projects, func(i, j int) bool { return projects[i].ID < projects[j].ID })
	return projects, nil
}

func (m *memStore) GetProject(ctx context.Context, id uint) (*models.Project, error) {
	p, ok := m.projects[id]
	if !ok {
		return nil, fmt.Errorf("project #%d: %w", id, models.ErrNotFound)
	}
	return &p, nil
}

func (m *memStore) CreateProject(ctx context.Context, project *models.Project) error {
	m.nextProj++
	project.ID = m.nextProj
	m.projects[project.ID] = *project
	return nil
}

func (m *memStore) SaveProject(ctx context.Context, project *models.Project) error {
	if m.failSaveProject {
		return errStoreDown
	}
	if _, ok := m.projects[project.ID]; !ok {
		return fmt.Errorf("project #%d: %w", project.ID, models.ErrNotFound)
	}
	m.projectSaves++
	m.projects[project.ID] = *project
	return nil
}

// DeleteProject mirrors the transactional store: on failure nothing changes,
// unless partialDelete is set, which leaves the tasks detached as a
// non-atomic store would.
func (m *memStore) DeleteProject(ctx context.Context, id uint) (int64, error) {
	if m.failDeleteProject && !m.partialDelete {
		return 0, errStoreDown
	}
	if _, ok := m.projects[id]; !ok {
		return 0, fmt.Errorf("project #%d: %w", id, models.ErrNotFound)
	}
	var n int64
	for tid, t := range m.tasks {
		if t.InProject(id) {
			t.ProjectID = nil
			t.ProjectName = ""
			m.tasks[tid] = t
			n++
		}
	}
	if m.failDeleteProject {
		return 0, errStoreDown
	}
	delete(m.projects, id)
	return n, nil
}

// copyTask detaches pointer fields so callers cannot mutate stored state
func copyTask(t models.Task) models.Task {
	if t.ProjectID != nil {
		pid := *t.ProjectID
		t.ProjectID = &pid
	}
	if t.DueDate != nil {
		due := *t.DueDate
		t.DueDate = &due
	}
	if t.CompletedAt != nil {
		done := *t.CompletedAt
		t.CompletedAt = &done
	}
	t.Tags = append([]models.Tag(nil), t.Tags...)
	return t
}

// countingCalendar records ResyncAll calls
type countingCalendar struct {
	calls int
	err   error
}

func (c *countingCalendar) ResyncAll(ctx context.Context) error {
	c.calls++
	return c.err
}
