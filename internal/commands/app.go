package commands

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/balkashynov/plandeck/internal/calendar"
	"github.com/balkashynov/plandeck/internal/config"
	"github.com/balkashynov/plandeck/internal/db"
	"github.com/balkashynov/plandeck/internal/logging"
	"github.com/balkashynov/plandeck/internal/models"
	"github.com/balkashynov/plandeck/internal/notify"
	"github.com/balkashynov/plandeck/internal/planner"
	"github.com/balkashynov/plandeck/internal/timetrack"
)

// app is everything a command needs, opened once per invocation
type app struct {
	cfg     *config.Config
	log     *logging.Logger
	store   *db.Store
	cal     *calendar.Projector
	sync    *planner.Synchronizer
	notify  *notify.Service
	tracker *timetrack.Tracker
}

func openApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log := logging.New(os.Stderr, cfg.Debug())

	store, err := db.Open(cfg.DBPath, db.Options{Debug: cfg.Debug()})
	if err != nil {
		return nil, err
	}

	cal := calendar.NewProjector(store, store)
	if err := cal.Load(ctx); err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to load calendar: %w", err)
	}

	return &app{
		cfg:     cfg,
		log:     log,
		store:   store,
		cal:     cal,
		sync:    planner.New(store, planner.WithCalendar(cal), planner.WithLogger(log)),
		notify:  notify.NewService(store, log),
		tracker: timetrack.NewTracker(store, time.Now),
	}, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.log.Error("db.close_failed", err, nil)
	}
}

// withApp opens the app around a command body
func withApp(fn func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		a, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()
		return fn(ctx, a, cmd, args)
	}
}

func parseID(arg, what string) (uint, error) {
	id, err := strconv.ParseUint(arg, 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid %s ID '%s'", what, arg)
	}
	return uint(id), nil
}

// resolveProject finds a project by id or case-insensitive name, creating
// it when create is set and no name matches
func (a *app) resolveProject(ctx context.Context, ref string, create bool) (*models.Project, error) {
	ref = strings.TrimSpace(strings.TrimPrefix(ref, "@"))
	if id, err := strconv.ParseUint(ref, 10, 32); err == nil {
		return a.store.GetProject(ctx, uint(id))
	}

	projects, err := a.store.ListProjects(ctx)
	if err != nil {
		return nil, err
	}
	for i := range projects {
		if strings.EqualFold(projects[i].Name, ref) {
			return &projects[i], nil
		}
	}
	if !create {
		return nil, fmt.Errorf("project %q: %w", ref, models.ErrNotFound)
	}

	p, err := a.sync.AddProject(ctx, planner.ProjectInput{Name: ref})
	if err != nil {
		return nil, err
	}
	fmt.Printf("📁 Created project #%d: %s\n", p.ID, p.Name)
	return p, nil
}

// toggle cycles a task's status and stops its timer once it is completed
func (a *app) toggle(ctx context.Context, id uint) (*models.Task, error) {
	task, err := a.sync.ToggleTaskStatus(ctx, id)
	if err != nil {
		return nil, err
	}
	if task.Status == models.StatusCompleted {
		if _, err := a.tracker.StopForTask(ctx, task.ID); err != nil {
			a.log.Error("timer.stop_failed", err, map[string]any{"task": task.ID})
		}
	}
	return task, nil
}

// listBackend feeds the list TUI
type listBackend struct {
	a *app
}

func (b listBackend) Load(ctx context.Context) ([]models.Task, []models.Project, error) {
	tasks, err := b.a.store.ListTasks(ctx)
	if err != nil {
		return nil, nil, err
	}
	projects, err := b.a.store.ListProjects(ctx)
	if err != nil {
		return nil, nil, err
	}
	return tasks, projects, nil
}

func (b listBackend) Toggle(ctx context.Context, id uint) (*models.Task, error) {
	return b.a.toggle(ctx, id)
}
