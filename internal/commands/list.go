package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/balkashynov/plandeck/internal/db"
	"github.com/balkashynov/plandeck/internal/models"
	"github.com/balkashynov/plandeck/internal/parser"
	"github.com/balkashynov/plandeck/internal/tui"
)

var listCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List tasks",
	Long: `List tasks. Opens the interactive list unless a filter, --no-ui or --json is given.

The interactive list shows task details and project progress side by side.
Space or d cycles the selected task's status; / searches.`,
	RunE: withApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
		q, err := taskQuery(ctx, a, cmd)
		if err != nil {
			return err
		}
		noUI, _ := cmd.Flags().GetBool("no-ui")
		jsonOutput, _ := cmd.Flags().GetBool("json")

		filtered := q != (db.TaskQuery{})
		if !noUI && !jsonOutput && !filtered {
			return tui.RunList(ctx, listBackend{a: a})
		}

		tasks, err := a.store.FindTasks(ctx, q)
		if err != nil {
			return fmt.Errorf("error fetching tasks: %w", err)
		}
		if jsonOutput {
			return writeJSON(tasks)
		}
		if len(tasks) == 0 {
			fmt.Println("No tasks found. Use 'plandeck add \"task description\"' to create your first task.")
			return nil
		}
		renderTaskTable(tasks)
		return nil
	}),
}

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search tasks by title, description and project",
	Long: `Search is case insensitive and matches title, description and project name.
Combine with --status, --project and --tag to narrow the results.`,
	Args: cobra.MinimumNArgs(1),
	RunE: withApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
		q, err := taskQuery(ctx, a, cmd)
		if err != nil {
			return err
		}
		q.Text = strings.Join(args, " ")

		tasks, err := a.store.FindTasks(ctx, q)
		if err != nil {
			return fmt.Errorf("error searching tasks: %w", err)
		}
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return writeJSON(map[string]any{"query": q.Text, "count": len(tasks), "tasks": tasks})
		}

		fmt.Printf("Search results for '%s' (%d found):\n", q.Text, len(tasks))
		if len(tasks) == 0 {
			fmt.Println("No tasks found matching your search.")
			return nil
		}
		fmt.Println()
		renderTaskTable(tasks)
		return nil
	}),
}

// taskQuery builds a store filter from the shared filter flags
func taskQuery(ctx context.Context, a *app, cmd *cobra.Command) (db.TaskQuery, error) {
	var q db.TaskQuery
	flags := cmd.Flags()

	if v, _ := flags.GetString("status"); v != "" {
		status, err := models.ParseStatus(v)
		if err != nil {
			return q, err
		}
		q.Status = status
	}
	if v, _ := flags.GetString("project"); v != "" {
		p, err := a.resolveProject(ctx, v, false)
		if err != nil {
			return q, err
		}
		q.ProjectID = &p.ID
	}
	q.Tag, _ = flags.GetString("tag")
	q.Limit, _ = flags.GetInt("limit")
	return q, nil
}

func renderTaskTable(tasks []models.Task) {
	now := time.Now()
	fmt.Printf("%-5s %-12s %-38s %-14s %-8s %-14s %s\n", "ID", "STATUS", "TITLE", "PROJECT", "PRIORITY", "DUE", "TAGS")
	fmt.Println(strings.Repeat("-", 100))

	for _, task := range tasks {
		due := "-"
		if task.DueDate != nil {
			due = parser.FormatDueDate(task.DueDate, now)
		}
		fmt.Printf("%-5d %-12s %-38s %-14s %-8s %-14s %s\n",
			task.ID,
			task.Status,
			clip(task.Title, 38),
			clip(task.ProjectName, 14),
			task.Priority,
			clip(due, 14),
			strings.Join(task.TagNames(), ","))
	}
}

func clip(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-3]) + "..."
}

func writeJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("status", "s", "", "Filter by status: todo, in-progress, completed")
	cmd.Flags().StringP("project", "p", "", "Filter by project name or ID")
	cmd.Flags().String("tag", "", "Filter by tag")
	cmd.Flags().IntP("limit", "l", 0, "Limit number of results")
	cmd.Flags().Bool("json", false, "Output as JSON")
}

func init() {
	addFilterFlags(listCmd)
	listCmd.Flags().Bool("no-ui", false, "Plain table output")
	addFilterFlags(searchCmd)
}
