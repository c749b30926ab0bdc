package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/balkashynov/plandeck/internal/models"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write a YAML snapshot of projects, tasks and manual events",
	RunE: withApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
		tasks, err := a.store.ListTasks(ctx)
		if err != nil {
			return err
		}
		projects, err := a.store.ListProjects(ctx)
		if err != nil {
			return err
		}
		events, err := a.store.ListManualEvents(ctx)
		if err != nil {
			return err
		}
		snap := buildSnapshot(projects, tasks, events, time.Now())

		out := cmd.OutOrStdout()
		if path, _ := cmd.Flags().GetString("out"); path != "" {
			f, err := os.Create(path)
			if err != nil {
				return err
			}
			defer f.Close()
			out = f
		}
		if err := writeSnapshot(out, snap); err != nil {
			return err
		}
		if out != cmd.OutOrStdout() {
			fmt.Fprintf(cmd.ErrOrStderr(), "📦 Exported %d projects, %d tasks, %d events\n",
				len(snap.Projects), len(snap.Tasks), len(snap.Events))
		}
		return nil
	}),
}

type snapshot struct {
	Version    int               `yaml:"version"`
	ExportedAt time.Time         `yaml:"exported_at"`
	Projects   []snapshotProject `yaml:"projects"`
	Tasks      []snapshotTask    `yaml:"tasks"`
	Events     []snapshotEvent   `yaml:"events,omitempty"`
}

type snapshotProject struct {
	ID          uint   `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	Type        string `yaml:"type"`
	Status      string `yaml:"status"`
	Color       string `yaml:"color,omitempty"`
	StartDate   string `yaml:"start_date,omitempty"`
	EndDate     string `yaml:"end_date,omitempty"`
	Progress    int    `yaml:"progress"`
	Tasks       int    `yaml:"tasks"`
}

type snapshotTask struct {
	ID          uint     `yaml:"id"`
	Title       string   `yaml:"title"`
	Description string   `yaml:"description,omitempty"`
	Status      string   `yaml:"status"`
	Priority    string   `yaml:"priority"`
	Type        string   `yaml:"type"`
	Due         string   `yaml:"due,omitempty"`
	ProjectID   *uint    `yaml:"project_id,omitempty"`
	Project     string   `yaml:"project,omitempty"`
	Tags        []string `yaml:"tags,omitempty"`
	Ticket      string   `yaml:"ticket,omitempty"`
	Repository  string   `yaml:"repository,omitempty"`
	Branch      string   `yaml:"branch,omitempty"`
	Amount      float64  `yaml:"amount,omitempty"`
	Currency    string   `yaml:"currency,omitempty"`
	Location    string   `yaml:"location,omitempty"`
	MeetingURL  string   `yaml:"meeting_url,omitempty"`
	Attendees   []string `yaml:"attendees,omitempty"`
}

type snapshotEvent struct {
	ID          string `yaml:"id"`
	Title       string `yaml:"title"`
	Description string `yaml:"description,omitempty"`
	Date        string `yaml:"date"`
	Type        string `yaml:"type"`
}

const snapshotDate = "2006-01-02"

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(snapshotDate)
}

func buildSnapshot(projects []models.Project, tasks []models.Task, events []models.CalendarEvent, now time.Time) snapshot {
	snap := snapshot{
		Version:    1,
		ExportedAt: now.UTC().Truncate(time.Second),
		Projects:   make([]snapshotProject, 0, len(projects)),
		Tasks:      make([]snapshotTask, 0, len(tasks)),
	}

	for _, p := range projects {
		snap.Projects = append(snap.Projects, snapshotProject{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			Type:        string(p.Type),
			Status:      string(p.Status),
			Color:       p.Color,
			StartDate:   formatDate(p.StartDate),
			EndDate:     formatDate(p.EndDate),
			Progress:    p.Progress,
			Tasks:       p.Tasks,
		})
	}
	for _, t := range tasks {
		snap.Tasks = append(snap.Tasks, snapshotTask{
			ID:          t.ID,
			Title:       t.Title,
			Description: t.Description,
			Status:      string(t.Status),
			Priority:    string(t.Priority),
			Type:        string(t.TaskType),
			Due:         formatDate(t.DueDate),
			ProjectID:   t.ProjectID,
			Project:     t.ProjectName,
			Tags:        t.TagNames(),
			Ticket:      t.Ticket,
			Repository:  t.Repository,
			Branch:      t.Branch,
			Amount:      t.Amount,
			Currency:    t.Currency,
			Location:    t.Location,
			MeetingURL:  t.MeetingURL,
			Attendees:   t.Attendees,
		})
	}
	for _, e := range events {
		snap.Events = append(snap.Events, snapshotEvent{
			ID:          e.ID,
			Title:       e.Title,
			Description: e.Description,
			Date:        e.Date.Format(snapshotDate),
			Type:        string(e.Type),
		})
	}
	return snap
}

func writeSnapshot(w io.Writer, snap snapshot) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(snap); err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return enc.Close()
}

func init() {
	exportCmd.Flags().StringP("out", "o", "", "Write to a file instead of stdout")
}
