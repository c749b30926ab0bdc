package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/balkashynov/plandeck/internal/db"
	"github.com/balkashynov/plandeck/internal/models"
	"github.com/balkashynov/plandeck/internal/parser"
	"github.com/balkashynov/plandeck/internal/planner"
	"github.com/balkashynov/plandeck/internal/tui"
)

var projectCmd = &cobra.Command{
	Use:     "project",
	Aliases: []string{"projects", "p"},
	Short:   "Manage projects",
	Long: `Manage projects. Progress is the share of a project's tasks that are completed
and is kept up to date whenever its tasks change.`,
}

var projectAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a project",
	Args:  cobra.MinimumNArgs(1),
	RunE: withApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
		in := planner.ProjectInput{Name: strings.Join(args, " ")}
		flags := cmd.Flags()
		in.Description, _ = flags.GetString("desc")
		in.Color, _ = flags.GetString("color")

		if v, _ := flags.GetString("type"); v != "" {
			t, err := models.ParseProjectType(v)
			if err != nil {
				return err
			}
			in.Type = t
		}
		if v, _ := flags.GetString("status"); v != "" {
			s, err := models.ParseProjectStatus(v)
			if err != nil {
				return err
			}
			in.Status = s
		}
		var err error
		if in.StartDate, err = dateFlag(cmd, "start"); err != nil {
			return err
		}
		if in.EndDate, err = dateFlag(cmd, "end"); err != nil {
			return err
		}

		p, err := a.sync.AddProject(ctx, in)
		if err != nil {
			return err
		}
		fmt.Printf("📁 Created project #%d: %s\n", p.ID, p.Name)
		return nil
	}),
}

var projectListCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List projects with progress",
	RunE: withApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
		projects, err := a.store.ListProjects(ctx)
		if err != nil {
			return err
		}
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return writeJSON(projects)
		}
		if len(projects) == 0 {
			fmt.Println("No projects yet. Use 'plandeck project add <name>' to create one.")
			return nil
		}

		fmt.Printf("%-5s %-24s %-10s %-10s %-26s %s\n", "ID", "NAME", "TYPE", "STATUS", "PROGRESS", "TASKS")
		fmt.Println(strings.Repeat("-", 84))
		for _, p := range projects {
			fmt.Printf("%-5d %-24s %-10s %-10s %s %3d%% %5d\n",
				p.ID, clip(p.Name, 24), p.Type, p.Status, tui.ProgressBar(p.Progress, 20), p.Progress, p.Tasks)
		}
		return nil
	}),
}

var projectShowCmd = &cobra.Command{
	Use:   "show <id|name>",
	Short: "Show a project and its tasks",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
		p, err := a.resolveProject(ctx, args[0], false)
		if err != nil {
			return err
		}
		counts, err := a.sync.GetProjectTaskCounts(ctx, p.ID)
		if err != nil {
			return err
		}

		fmt.Printf("📁 #%d %s (%s, %s)\n", p.ID, p.Name, p.Type, p.Status)
		if p.Description != "" {
			fmt.Printf("   %s\n", p.Description)
		}
		now := time.Now()
		if p.StartDate != nil {
			fmt.Printf("   Starts: %s\n", parser.FormatDueDate(p.StartDate, now))
		}
		if p.EndDate != nil {
			fmt.Printf("   Deadline: %s\n", parser.FormatDueDate(p.EndDate, now))
		}
		fmt.Printf("   Progress: %s %d%%\n", tui.ProgressBar(p.Progress, 20), p.Progress)
		fmt.Printf("   Tasks: %d total, %d completed, %d in progress, %d todo\n\n",
			counts.Total, counts.Completed, counts.InProgress, counts.Todo)

		tasks, err := a.store.FindTasks(ctx, db.TaskQuery{ProjectID: &p.ID})
		if err != nil {
			return err
		}
		if len(tasks) > 0 {
			renderTaskTable(tasks)
		}
		return nil
	}),
}

var projectEditCmd = &cobra.Command{
	Use:   "edit <id|name>",
	Short: "Edit a project",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
		p, err := a.resolveProject(ctx, args[0], false)
		if err != nil {
			return err
		}

		var u planner.ProjectUpdate
		flags := cmd.Flags()
		str := func(name string) *string {
			if !flags.Changed(name) {
				return nil
			}
			v, _ := flags.GetString(name)
			return &v
		}
		u.Name = str("name")
		u.Description = str("desc")
		u.Color = str("color")
		if v := str("type"); v != nil {
			t, err := models.ParseProjectType(*v)
			if err != nil {
				return err
			}
			u.Type = &t
		}
		if v := str("status"); v != nil {
			s, err := models.ParseProjectStatus(*v)
			if err != nil {
				return err
			}
			u.Status = &s
		}
		if u.StartDate, err = dateFlag(cmd, "start"); err != nil {
			return err
		}
		if u.EndDate, err = dateFlag(cmd, "end"); err != nil {
			return err
		}
		u.ClearStartDate, _ = flags.GetBool("clear-start")
		u.ClearEndDate, _ = flags.GetBool("clear-end")

		p, err = a.sync.UpdateProject(ctx, p.ID, u)
		if err != nil {
			return err
		}
		fmt.Printf("✏️  Updated project #%d: %s\n", p.ID, p.Name)
		return nil
	}),
}

var projectRemoveCmd = &cobra.Command{
	Use:     "rm <id|name>",
	Aliases: []string{"delete"},
	Short:   "Delete a project; its tasks are kept and detached",
	Args:    cobra.ExactArgs(1),
	RunE: withApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
		p, err := a.resolveProject(ctx, args[0], false)
		if err != nil {
			return err
		}
		if err := a.sync.DeleteProject(ctx, p.ID); err != nil {
			return err
		}
		fmt.Printf("🗑️  Deleted project #%d: %s\n", p.ID, p.Name)
		return nil
	}),
}

var projectSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Recompute progress and task counts for every project",
	RunE: withApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
		n, err := a.sync.SyncAllProjectProgress(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("🔄 Synced projects, %d updated\n", n)
		return nil
	}),
}

// dateFlag parses a date flag, returning nil when it was not given
func dateFlag(cmd *cobra.Command, name string) (*time.Time, error) {
	v, _ := cmd.Flags().GetString(name)
	if v == "" {
		return nil, nil
	}
	d, err := parser.ParseDueDate(v, time.Now())
	if err != nil {
		return nil, fmt.Errorf("--%s: %w", name, err)
	}
	return d, nil
}

func addProjectFlags(cmd *cobra.Command) {
	cmd.Flags().String("desc", "", "Description")
	cmd.Flags().String("type", "", "Project type: developer, marketing")
	cmd.Flags().String("status", "", "Status: planning, active, on-hold, completed")
	cmd.Flags().String("color", "", "Display color, e.g. #7C3AED")
	cmd.Flags().String("start", "", "Start date (milestone on the calendar)")
	cmd.Flags().String("end", "", "End date (deadline on the calendar)")
}

func init() {
	addProjectFlags(projectAddCmd)
	addProjectFlags(projectEditCmd)
	projectEditCmd.Flags().String("name", "", "New name")
	projectEditCmd.Flags().Bool("clear-start", false, "Remove the start date")
	projectEditCmd.Flags().Bool("clear-end", false, "Remove the end date")
	projectListCmd.Flags().Bool("json", false, "Output as JSON")

	projectCmd.AddCommand(projectAddCmd, projectListCmd, projectShowCmd, projectEditCmd, projectRemoveCmd, projectSyncCmd)
}
