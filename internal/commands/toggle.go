package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/balkashynov/plandeck/internal/models"
)

var toggleCmd = &cobra.Command{
	Use:   "toggle [task-id]",
	Short: "Cycle a task through todo, in-progress and completed",
	Long: `Move a task to its next status: todo -> in-progress -> completed -> todo.
Completing a task stops its running timer and updates its project's progress.`,
	Args: cobra.ExactArgs(1),
	RunE: withApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "task")
		if err != nil {
			return err
		}
		task, err := a.toggle(ctx, id)
		if err != nil {
			return err
		}

		switch task.Status {
		case models.StatusCompleted:
			fmt.Printf("✅ Completed task #%d: %s\n", task.ID, task.Title)
		case models.StatusInProgress:
			fmt.Printf("◐ Started task #%d: %s\n", task.ID, task.Title)
		default:
			fmt.Printf("↩️  Task #%d back to todo: %s\n", task.ID, task.Title)
		}
		if task.ProjectID != nil {
			if p, err := a.store.GetProject(ctx, *task.ProjectID); err == nil {
				fmt.Printf("📁 %s: %d%% (%d tasks)\n", p.Name, p.Progress, p.Tasks)
			}
		}
		return nil
	}),
}

var removeCmd = &cobra.Command{
	Use:     "rm [task-id]",
	Aliases: []string{"delete"},
	Short:   "Delete a task",
	Args:    cobra.ExactArgs(1),
	RunE: withApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "task")
		if err != nil {
			return err
		}
		if _, err := a.tracker.StopForTask(ctx, id); err != nil {
			a.log.Error("timer.stop_failed", err, map[string]any{"task": id})
		}
		if err := a.sync.DeleteTask(ctx, id); err != nil {
			return err
		}
		fmt.Printf("🗑️  Deleted task #%d\n", id)
		return nil
	}),
}
