package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/balkashynov/plandeck/internal/parser"
	"github.com/balkashynov/plandeck/internal/timetrack"
	"github.com/balkashynov/plandeck/internal/tui"
)

var startCmd = &cobra.Command{
	Use:   "start [task-id]",
	Short: "Start tracking time on a task",
	Long: `Start tracking time on a task. Opens interactive timer by default, use --no-ui for simple start.

Examples:
  plandeck start 42         # Start timer with interactive UI
  plandeck start 42 --no-ui # Start timer without UI`,
	Args: cobra.ExactArgs(1),
	RunE: withApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "task")
		if err != nil {
			return err
		}
		session, err := a.tracker.Start(ctx, id)
		if err != nil {
			return err
		}

		if noUI, _ := cmd.Flags().GetBool("no-ui"); noUI {
			fmt.Printf("⏱️  Started tracking time for task #%d: %s\n", session.TaskID, session.Task.Title)
			fmt.Printf("Started at: %s\n", session.StartedAt.Local().Format("15:04:05"))
			return nil
		}

		stop, err := tui.RunTimer(session, time.Now)
		if err != nil {
			return err
		}
		if !stop {
			fmt.Printf("\n💡 Timer is still running in the background for task #%d: %s\n", session.TaskID, session.Task.Title)
			fmt.Println("   Use 'plandeck status' to check current timer or 'plandeck stop' to stop it.")
			return nil
		}
		return stopSession(ctx, a)
	}),
}

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop tracking time",
	RunE: withApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
		return stopSession(ctx, a)
	}),
}

func stopSession(ctx context.Context, a *app) error {
	session, err := a.tracker.Stop(ctx)
	if err != nil {
		return err
	}
	duration := time.Duration(session.DurationSeconds) * time.Second
	fmt.Printf("⏹️  Stopped tracking time for task #%d: %s\n", session.TaskID, session.Task.Title)
	fmt.Printf("📊 Session duration: %s\n", tui.FormatDuration(duration))
	return nil
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show current time tracking status",
	RunE: withApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
		session, err := a.tracker.Active(ctx)
		if err != nil {
			return err
		}
		if session == nil {
			fmt.Println("No active time tracking session")
			return nil
		}

		fmt.Printf("⏱️  Currently tracking: task #%d: %s\n", session.TaskID, session.Task.Title)
		fmt.Printf("Started at: %s\n", session.StartedAt.Local().Format("15:04:05"))
		fmt.Printf("Elapsed time: %s\n", tui.FormatDuration(a.tracker.Elapsed(session)))
		return nil
	}),
}

var reportCmd = &cobra.Command{
	Use:     "report",
	Aliases: []string{"jira", "timesheet"},
	Short:   "Show the weekly timesheet",
	Long: `Show a weekly timesheet of tracked time grouped by day.

Hours are rounded up per task per day, the way most timesheet tools expect.
Weekend columns appear only when time was tracked on them.

Example output:
  Task                    Mon  Tue  Wed  Thu  Fri  Total
  APP-123 Fix login bug     2    3    1    -    -      6
  APP-456 Add new feature   -    1    2    4    1      8
  Total                     2    4    3    4    1     14`,
	RunE: withApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
		ref := time.Now()
		if week, _ := cmd.Flags().GetString("week"); week != "" {
			day, err := parser.ParseDueDate(week, ref)
			if err != nil {
				return err
			}
			ref = *day
		}

		if projects, _ := cmd.Flags().GetBool("projects"); projects {
			start := timetrack.WeekStart(ref)
			sessions, err := a.store.GetSessionsInRange(ctx, start, start.AddDate(0, 0, 7))
			if err != nil {
				return fmt.Errorf("failed to get sessions: %w", err)
			}
			totals := timetrack.ProjectTotals(sessions)
			if len(totals) == 0 {
				fmt.Println("No time tracked this week.")
				return nil
			}
			fmt.Printf("Week of %s\n\n", start.Format("02 Jan 2006"))
			for _, t := range totals {
				fmt.Printf("%-24s %8s\n", t.Project, tui.FormatDuration(t.Duration))
			}
			return nil
		}

		report, err := a.tracker.Week(ctx, ref)
		if err != nil {
			return err
		}
		if !report.Empty() {
			fmt.Printf("Week of %s\n\n", report.WeekStart.Format("02 Jan 2006"))
		}
		timetrack.Render(os.Stdout, report)
		return nil
	}),
}

func init() {
	startCmd.Flags().Bool("no-ui", false, "Start timer without interactive UI")
	reportCmd.Flags().String("week", "", "Any day in the week to report (default this week)")
	reportCmd.Flags().Bool("projects", false, "Show totals per project instead")
}
