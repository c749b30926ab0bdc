package commands

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/balkashynov/plandeck/internal/gcal"
	"github.com/balkashynov/plandeck/internal/models"
	"github.com/balkashynov/plandeck/internal/parser"
	"github.com/balkashynov/plandeck/internal/tui"
)

var calendarCmd = &cobra.Command{
	Use:     "cal",
	Aliases: []string{"calendar"},
	Short:   "Calendar of task due dates, project milestones and manual events",
	Long: `Show the calendar. With no subcommand the interactive month view opens.

Task due dates, project start dates (milestones) and end dates (deadlines)
appear automatically. Manual events are added with 'plandeck cal add'.`,
	RunE: withApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
		return tui.RunCalendar(a.cal, time.Now())
	}),
}

var calendarDayCmd = &cobra.Command{
	Use:   "day [date]",
	Short: "List events on a day (default today)",
	Args:  cobra.MaximumNArgs(1),
	RunE: withApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
		day := time.Now()
		if len(args) == 1 {
			d, err := parser.ParseDueDate(args[0], day)
			if err != nil {
				return err
			}
			day = *d
		}
		fmt.Println(day.Format("Monday, 02 Jan 2006"))
		renderEvents(a.cal.EventsOnDate(day), false)
		return nil
	}),
}

var calendarMonthCmd = &cobra.Command{
	Use:   "month [yyyy-mm]",
	Short: "List events in a month (default this month)",
	Args:  cobra.MaximumNArgs(1),
	RunE: withApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
		month := time.Now()
		if len(args) == 1 {
			m, err := time.ParseInLocation("2006-01", args[0], time.Local)
			if err != nil {
				return fmt.Errorf("invalid month %q, use yyyy-mm", args[0])
			}
			month = m
		}
		fmt.Println(month.Format("January 2006"))
		renderEvents(a.cal.EventsInMonth(month), true)
		return nil
	}),
}

var calendarUpcomingCmd = &cobra.Command{
	Use:   "upcoming",
	Short: "List the next events from today",
	RunE: withApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		renderEvents(a.cal.UpcomingEvents(limit), true)
		return nil
	}),
}

var calendarAddCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a manual event",
	Args:  cobra.MinimumNArgs(1),
	RunE: withApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		dateText, _ := flags.GetString("date")
		date, err := parser.ParseDueDate(dateText, time.Now())
		if err != nil {
			return err
		}
		if date == nil {
			return fmt.Errorf("--date is required")
		}
		kind, _ := flags.GetString("type")
		desc, _ := flags.GetString("desc")

		ev, err := a.cal.AddManualEvent(ctx, models.CalendarEvent{
			Title:       strings.Join(args, " "),
			Description: desc,
			Date:        *date,
			Type:        models.EventType(strings.ToLower(kind)),
		})
		if err != nil {
			return err
		}
		fmt.Printf("📅 Added %s on %s (%s)\n", ev.Title, ev.Date.Format("02 Jan 2006"), ev.ID)
		return nil
	}),
}

var calendarRemoveCmd = &cobra.Command{
	Use:   "rm <event-id>",
	Short: "Delete a manual event",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
		if err := a.cal.DeleteManualEvent(ctx, args[0]); err != nil {
			return err
		}
		fmt.Printf("🗑️  Deleted event %s\n", args[0])
		return nil
	}),
}

var calendarPushCmd = &cobra.Command{
	Use:   "push",
	Short: "Push events to Google Calendar",
	Long: `Push calendar events to Google Calendar as all-day events.

Download an OAuth client file from the Google Cloud console and save it as
google.credentials_file (default ~/.plandeck/credentials.json), then run
'plandeck cal push --auth' once to authorize. Events already in Google are
only patched when their title, description or date changed.`,
	RunE: withApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
		gc := gcal.Config{
			CredentialsFile: a.cfg.Google.CredentialsFile,
			TokenFile:       a.cfg.Google.TokenFile,
			CalendarID:      a.cfg.Google.CalendarID,
		}

		if auth, _ := cmd.Flags().GetBool("auth"); auth {
			if err := authorizeGoogle(ctx, gc); err != nil {
				return err
			}
		}

		srv, err := gcal.NewService(ctx, gc)
		if err != nil {
			return err
		}

		events := a.cal.UpcomingEvents(0)
		if all, _ := cmd.Flags().GetBool("all"); all {
			events = a.cal.Events()
		}

		exporter := gcal.NewExporter(gcal.NewServiceEvents(srv, gc.CalendarID), a.log)
		res, err := exporter.Push(ctx, events)
		fmt.Printf("☁️  Google Calendar: %d created, %d updated, %d unchanged, %d failed\n",
			res.Created, res.Updated, res.Unchanged, res.Failed)
		return err
	}),
}

func authorizeGoogle(ctx context.Context, gc gcal.Config) error {
	cfg, err := gcal.OAuthConfig(gc.CredentialsFile)
	if err != nil {
		return err
	}
	fmt.Printf("Open this link in your browser, then paste the authorization code:\n\n%s\n\nCode: ", gcal.AuthURL(cfg))

	code, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return fmt.Errorf("unable to read authorization code: %w", err)
	}
	if err := gcal.ExchangeCode(ctx, cfg, strings.TrimSpace(code), gc.TokenFile); err != nil {
		return err
	}
	fmt.Printf("🔑 Token saved to %s\n", gc.TokenFile)
	return nil
}

func renderEvents(events []models.CalendarEvent, withDate bool) {
	if len(events) == 0 {
		fmt.Println("  Nothing scheduled")
		return
	}
	for _, e := range events {
		line := "  "
		if withDate {
			line += e.Date.Format("Mon 02 Jan") + "  "
		}
		line += fmt.Sprintf("%-9s %s", e.Type, e.Title)
		if e.ProjectName != "" {
			line += " [" + e.ProjectName + "]"
		}
		if e.Status == models.StatusCompleted {
			line += " ✓"
		}
		if e.Source == models.SourceManual {
			line += "  (" + e.ID + ")"
		}
		fmt.Println(line)
	}
}

func init() {
	calendarUpcomingCmd.Flags().IntP("limit", "l", 10, "Maximum number of events")
	calendarAddCmd.Flags().String("date", "", "Event date: dd/mm/yyyy, yyyy-mm-dd, tomorrow, 3 days")
	calendarAddCmd.Flags().String("type", "meeting", "Event type: meeting, deadline, milestone, task, project")
	calendarAddCmd.Flags().String("desc", "", "Description")
	calendarPushCmd.Flags().Bool("auth", false, "Authorize with Google before pushing")
	calendarPushCmd.Flags().Bool("all", false, "Push past events too")

	calendarCmd.AddCommand(calendarDayCmd, calendarMonthCmd, calendarUpcomingCmd, calendarAddCmd, calendarRemoveCmd, calendarPushCmd)
}
