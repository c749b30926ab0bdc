package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/balkashynov/plandeck/internal/models"
	"github.com/balkashynov/plandeck/internal/parser"
	"github.com/balkashynov/plandeck/internal/planner"
)

var editCmd = &cobra.Command{
	Use:   "edit <task_id>",
	Short: "Edit an existing task",
	Long: `Edit an existing task. Only the flags you pass are changed.

Examples:
  plandeck edit 42 --title "New title" --priority high
  plandeck edit 42 --project web --due tomorrow
  plandeck edit 42 --clear-due --clear-project`,
	Args: cobra.ExactArgs(1),
	RunE: withApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "task")
		if err != nil {
			return err
		}
		u, err := taskUpdate(ctx, a, cmd, time.Now())
		if err != nil {
			return err
		}

		task, err := a.sync.UpdateTask(ctx, id, u)
		if err != nil {
			return err
		}
		if task.Status == models.StatusCompleted {
			if _, err := a.tracker.StopForTask(ctx, task.ID); err != nil {
				a.log.Error("timer.stop_failed", err, map[string]any{"task": task.ID})
			}
		}

		fmt.Printf("✏️  Updated task #%d: %s\n", task.ID, task.Title)
		return nil
	}),
}

// taskUpdate maps the changed flags onto a partial update
func taskUpdate(ctx context.Context, a *app, cmd *cobra.Command, now time.Time) (planner.TaskUpdate, error) {
	var u planner.TaskUpdate
	flags := cmd.Flags()

	str := func(name string) *string {
		if !flags.Changed(name) {
			return nil
		}
		v, _ := flags.GetString(name)
		return &v
	}

	u.Title = str("title")
	u.Description = str("desc")
	u.Repository = str("repo")
	u.Branch = str("branch")
	u.Ticket = str("ticket")
	u.Currency = str("currency")
	u.Location = str("location")
	u.MeetingURL = str("url")

	if v := str("status"); v != nil {
		s, err := models.ParseStatus(*v)
		if err != nil {
			return u, err
		}
		u.Status = &s
	}
	if v := str("priority"); v != nil {
		p, err := models.ParsePriority(*v)
		if err != nil {
			return u, err
		}
		u.Priority = &p
	}
	if v := str("type"); v != nil {
		t, err := models.ParseTaskType(*v)
		if err != nil {
			return u, err
		}
		u.TaskType = &t
	}
	if v := str("due"); v != nil {
		due, err := parser.ParseDueDate(*v, now)
		if err != nil {
			return u, fmt.Errorf("error parsing due date: %w", err)
		}
		u.DueDate = due
		u.ClearDueDate = due == nil
	}
	if flags.Changed("tags") {
		tags, _ := flags.GetStringSlice("tags")
		joined := strings.Join(tags, ",")
		u.Tags = &joined
	}
	if flags.Changed("amount") {
		amount, _ := flags.GetFloat64("amount")
		u.Amount = &amount
	}
	if flags.Changed("attendees") {
		attendees, _ := flags.GetStringSlice("attendees")
		u.Attendees = &attendees
	}
	if v := str("project"); v != nil && *v != "" {
		p, err := a.resolveProject(ctx, *v, true)
		if err != nil {
			return u, err
		}
		u.ProjectID = &p.ID
	}

	if clear, _ := flags.GetBool("clear-due"); clear {
		u.ClearDueDate = true
	}
	u.ClearProject, _ = flags.GetBool("clear-project")
	return u, nil
}

func init() {
	addTaskFlags(editCmd)
	editCmd.Flags().String("title", "", "New title")
	editCmd.Flags().String("status", "", "Status: todo, in-progress, completed")
	editCmd.Flags().Bool("clear-due", false, "Remove the due date")
	editCmd.Flags().Bool("clear-project", false, "Detach from the project")
}
