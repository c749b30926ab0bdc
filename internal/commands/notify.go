package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var notifyCmd = &cobra.Command{
	Use:     "notify",
	Aliases: []string{"notifications", "n"},
	Short:   "Notifications and due-date reminders",
}

var notifyListCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List notifications, newest first",
	RunE: withApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
		unread, _ := cmd.Flags().GetBool("unread")
		items, err := a.notify.List(ctx, unread)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			fmt.Println("No notifications")
			return nil
		}
		for _, n := range items {
			mark := " "
			if !n.Read {
				mark = "●"
			}
			fmt.Printf("%s #%-4d %-9s %s\n", mark, n.ID, n.Type, n.Title)
			if n.Message != "" {
				fmt.Printf("         %s\n", n.Message)
			}
		}
		return nil
	}),
}

var notifyReadCmd = &cobra.Command{
	Use:   "read [id]",
	Short: "Mark a notification read, or all of them with no id",
	Args:  cobra.MaximumNArgs(1),
	RunE: withApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			n, err := a.notify.MarkAllRead(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("Marked %d notifications read\n", n)
			return nil
		}
		id, err := parseID(args[0], "notification")
		if err != nil {
			return err
		}
		return a.notify.MarkRead(ctx, id)
	}),
}

var notifyRemoveCmd = &cobra.Command{
	Use:   "rm [id]",
	Short: "Delete a notification",
	Args:  cobra.MaximumNArgs(1),
	RunE: withApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
		if all, _ := cmd.Flags().GetBool("all"); all {
			n, err := a.notify.ClearAll(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("Deleted %d notifications\n", n)
			return nil
		}
		if len(args) == 0 {
			return fmt.Errorf("give a notification id or --all")
		}
		id, err := parseID(args[0], "notification")
		if err != nil {
			return err
		}
		return a.notify.Delete(ctx, id)
	}),
}

var notifyRemindCmd = &cobra.Command{
	Use:   "remind",
	Short: "Create reminders for tasks due soon",
	Long: `Create a reminder notification for every open task due within the
reminder window (notifications.reminder_window, default 24h). Tasks that
already have an unread reminder are skipped.`,
	RunE: withApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
		created, err := remind(ctx, a)
		if err != nil {
			return err
		}
		for _, n := range created {
			fmt.Printf("🔔 %s: %s\n", n.Title, n.Message)
		}
		fmt.Printf("%d reminders created\n", len(created))
		return nil
	}),
}

func init() {
	notifyListCmd.Flags().Bool("unread", false, "Only unread notifications")
	notifyRemoveCmd.Flags().Bool("all", false, "Delete every notification")

	notifyCmd.AddCommand(notifyListCmd, notifyReadCmd, notifyRemoveCmd, notifyRemindCmd)
}
