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
	"github.com/balkashynov/plandeck/internal/tui"
)

var addCmd = &cobra.Command{
	Use:   "add [task description]",
	Short: "Add a new task",
	Long: `Add a new task with optional metadata.

Modes:
  Interactive: plandeck add -i (or just 'plandeck add' with no arguments)
  Quick: plandeck add "Task title" (with optional flags)
  Smart parsing: plandeck add "Fix bug #urgent @backend +high APP-42"

Smart parsing syntax:
  #tag1,tag2    - Tags (comma-separated or individual)
  @project      - Project name (created when missing)
  +priority     - Priority (low/medium/high/urgent or 1-4)
  type:meeting  - Task type (regular/development/financial/meeting)
  due:3days     - Due date (dd/mm/yyyy, yyyy-mm-dd, X days, X hours, X weeks)
  ABC-123       - Ticket (auto-detected, makes the task a development task)

Flags always win over parsed values.`,
	Args: cobra.ArbitraryArgs,
	RunE: withApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
		interactive, _ := cmd.Flags().GetBool("interactive")
		noUI, _ := cmd.Flags().GetBool("no-ui")
		now := time.Now()

		if len(args) == 0 || interactive {
			if noUI {
				return fmt.Errorf("a task title is required with --no-ui")
			}
			prefilled := flagPrefill(cmd)
			if len(args) > 0 {
				prefilled["title"] = strings.Join(args, " ")
			}
			return runInteractiveAdd(ctx, a, cmd, prefilled)
		}

		parsed := parser.ParseTitle(strings.Join(args, " "), now)
		if len(parsed.Errors) > 0 {
			if noUI {
				return fmt.Errorf("could not parse task: %s", strings.Join(parsed.Errors, ", "))
			}
			fmt.Printf("⚠️  Found issues with parsing: %s\n", strings.Join(parsed.Errors, ", "))
			fmt.Println("Opening interactive mode for confirmation...")
			return runInteractiveAdd(ctx, a, cmd, parsedPrefill(cmd, parsed))
		}

		in, project, err := parsedInput(cmd, parsed, now)
		if err != nil {
			return err
		}
		return createTask(ctx, a, in, project)
	}),
}

func runInteractiveAdd(ctx context.Context, a *app, cmd *cobra.Command, prefilled map[string]string) error {
	draft, ok, err := tui.RunAdd(prefilled, time.Now)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("❌ Task creation cancelled.")
		return nil
	}

	in := planner.TaskInput{
		Title:       draft.Title,
		Description: draft.Description,
		Priority:    draft.Priority,
		TaskType:    draft.TaskType,
		DueDate:     draft.DueDate,
		Tags:        strings.Join(draft.Tags, ","),
	}
	applyTypeFlags(cmd, &in)
	return createTask(ctx, a, in, draft.Project)
}

func createTask(ctx context.Context, a *app, in planner.TaskInput, project string) error {
	if project != "" {
		p, err := a.resolveProject(ctx, project, true)
		if err != nil {
			return err
		}
		in.ProjectID = &p.ID
	}

	task, err := a.sync.AddTask(ctx, in)
	if err != nil {
		return err
	}
	printCreated(task)
	return nil
}

// flagPrefill seeds the wizard from flags
func flagPrefill(cmd *cobra.Command) map[string]string {
	prefilled := make(map[string]string)
	for flag, key := range map[string]string{
		"project":  "project",
		"priority": "priority",
		"type":     "type",
		"due":      "due",
		"desc":     "description",
	} {
		if v, _ := cmd.Flags().GetString(flag); v != "" {
			prefilled[key] = v
		}
	}
	if tags, _ := cmd.Flags().GetStringSlice("tags"); len(tags) > 0 {
		prefilled["tags"] = strings.Join(tags, ", ")
	}
	return prefilled
}

func parsedPrefill(cmd *cobra.Command, parsed parser.ParsedTask) map[string]string {
	prefilled := map[string]string{"title": parsed.Title}
	if parsed.Project != "" {
		prefilled["project"] = parsed.Project
	}
	if len(parsed.Tags) > 0 {
		prefilled["tags"] = strings.Join(parsed.Tags, ", ")
	}
	if parsed.Priority != "" {
		prefilled["priority"] = string(parsed.Priority)
	}
	if parsed.TaskType != "" {
		prefilled["type"] = string(parsed.TaskType)
	}
	if parsed.DueDate != nil {
		prefilled["due"] = parsed.DueDate.Format("02/01/2006")
	}
	// Explicit flags override
	for k, v := range flagPrefill(cmd) {
		prefilled[k] = v
	}
	return prefilled
}

// parsedInput merges quick-add parsing with flags, flags taking precedence
func parsedInput(cmd *cobra.Command, parsed parser.ParsedTask, now time.Time) (planner.TaskInput, string, error) {
	in := planner.TaskInput{
		Title:    parsed.Title,
		Priority: parsed.Priority,
		TaskType: parsed.TaskType,
		DueDate:  parsed.DueDate,
		Ticket:   parsed.Ticket,
		Tags:     strings.Join(parsed.Tags, ","),
	}
	project := parsed.Project
	if in.Ticket != "" && in.TaskType == "" {
		in.TaskType = models.TaskDevelopment
	}

	flags := cmd.Flags()
	if v, _ := flags.GetString("project"); v != "" {
		project = v
	}
	if v, _ := flags.GetStringSlice("tags"); len(v) > 0 {
		in.Tags = strings.Join(v, ",")
	}
	if v, _ := flags.GetString("priority"); v != "" {
		p, err := models.ParsePriority(v)
		if err != nil {
			return in, "", err
		}
		in.Priority = p
	}
	if v, _ := flags.GetString("type"); v != "" {
		t, err := models.ParseTaskType(v)
		if err != nil {
			return in, "", err
		}
		in.TaskType = t
	}
	if v, _ := flags.GetString("due"); v != "" {
		due, err := parser.ParseDueDate(v, now)
		if err != nil {
			return in, "", fmt.Errorf("error parsing due date: %w", err)
		}
		in.DueDate = due
	}
	in.Description, _ = flags.GetString("desc")

	applyTypeFlags(cmd, &in)
	return in, project, nil
}

// applyTypeFlags copies the type-specific flags
func applyTypeFlags(cmd *cobra.Command, in *planner.TaskInput) {
	flags := cmd.Flags()
	if v, _ := flags.GetString("ticket"); v != "" {
		in.Ticket = v
	}
	in.Repository, _ = flags.GetString("repo")
	in.Branch, _ = flags.GetString("branch")
	in.Amount, _ = flags.GetFloat64("amount")
	in.Currency, _ = flags.GetString("currency")
	in.Location, _ = flags.GetString("location")
	in.MeetingURL, _ = flags.GetString("url")
	in.Attendees, _ = flags.GetStringSlice("attendees")
}

func printCreated(task *models.Task) {
	fmt.Printf("✅ Created task #%d: %s\n", task.ID, task.Title)
	if task.ProjectName != "" {
		fmt.Printf("  Project: %s\n", task.ProjectName)
	}
	if len(task.Tags) > 0 {
		fmt.Printf("  Tags: %s\n", strings.Join(task.TagNames(), ", "))
	}
	fmt.Printf("  Priority: %s\n", task.Priority)
	if task.TaskType != models.TaskRegular {
		fmt.Printf("  Type: %s\n", task.TaskType)
	}
	if task.Ticket != "" {
		fmt.Printf("  Ticket: %s\n", task.Ticket)
	}
	if task.DueDate != nil {
		fmt.Printf("  Due: %s\n", parser.FormatDueDate(task.DueDate, time.Now()))
	}
}

// addTaskFlags registers the flags shared by add and edit
func addTaskFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("project", "p", "", "Project name or ID")
	cmd.Flags().StringSliceP("tags", "t", []string{}, "Comma-separated tags")
	cmd.Flags().String("priority", "", "Priority: low, medium, high, urgent or 1-4")
	cmd.Flags().String("type", "", "Task type: regular, development, financial, meeting")
	cmd.Flags().String("due", "", "Due date: dd/mm/yyyy, yyyy-mm-dd, today, X days, X weeks")
	cmd.Flags().String("desc", "", "Description")
	cmd.Flags().String("ticket", "", "Ticket like APP-42 (development)")
	cmd.Flags().String("repo", "", "Repository (development)")
	cmd.Flags().String("branch", "", "Branch (development)")
	cmd.Flags().Float64("amount", 0, "Amount (financial)")
	cmd.Flags().String("currency", "", "Currency code (financial)")
	cmd.Flags().String("location", "", "Location (meeting)")
	cmd.Flags().String("url", "", "Meeting link (meeting)")
	cmd.Flags().StringSlice("attendees", []string{}, "Comma-separated attendees (meeting)")
}

func init() {
	addTaskFlags(addCmd)
	addCmd.Flags().BoolP("interactive", "i", false, "Interactive mode with TUI")
	addCmd.Flags().Bool("no-ui", false, "Never open the TUI")
}
