package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var helpCmd = &cobra.Command{
	Use:   "help [command]",
	Short: "Show the plandeck cheat sheet, or help for a command",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) > 0 {
			target, _, err := rootCmd.Find(args)
			if err != nil {
				return err
			}
			return target.Help()
		}
		showCustomHelp()
		return nil
	},
}

func showCustomHelp() {
	fmt.Print(`
plandeck - tasks, projects, calendar and time tracking

TASKS:
  add <task>              Create a task (opens the wizard with no arguments)
    -p, --project         Project name or ID (created when missing)
    -t, --tags            Comma-separated tags
    --priority            low|medium|high|urgent or 1-4
    --type                regular|development|financial|meeting
    --due                 dd/mm/yyyy, yyyy-mm-dd, today, tomorrow, 3 days

    Smart syntax:
      #tag1,tag2    Tags
      @project      Project
      +high         Priority
      due:3days     Due date
      type:meeting  Task type
      APP-123       Ticket (development tasks)

    Example:
      plandeck add "Fix login bug #frontend @web +high APP-123 due:2days"

  ls                      Interactive list with project progress
    --status, --project, --tag, --no-ui, --json
  search <query>          Search title, description and project
  edit <id>               Change fields by flag
  toggle <id>             todo -> in-progress -> completed -> todo
  rm <id>                 Delete a task

PROJECTS:
  project add|ls|show|edit|rm <...>
  project sync            Recompute progress for every project

CALENDAR:
  cal                     Month view
  cal day [date]          Events on a day
  cal month [yyyy-mm]     Events in a month
  cal upcoming            Next events from today
  cal add <title> --date  Manual event
  cal rm <event-id>       Delete a manual event
  cal push [--auth]       Push events to Google Calendar

NOTIFICATIONS:
  notify ls|read|rm|remind

TIME:
  start <id>              Start tracking (interactive timer unless --no-ui)
  stop                    Stop the running session
  status                  Show the running session
  report                  Weekly timesheet (--projects for totals)

SERVER:
  serve                   Run the HTTP API
  token                   Print a bearer token for the API
  export                  Write a YAML snapshot

`)
}
