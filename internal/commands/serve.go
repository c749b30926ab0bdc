package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/balkashynov/plandeck/internal/api"
	"github.com/balkashynov/plandeck/internal/auth"
	"github.com/balkashynov/plandeck/internal/models"
)

const reminderInterval = 15 * time.Minute

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Serve the plandeck API on server.addr (default 127.0.0.1:8787).

Every route except /api/health and /api/auth/token needs a bearer token.
Get one with 'plandeck token' or POST /api/auth/token with the configured
auth.client_secret. Due-date reminders are generated while the server runs.`,
	RunE: withApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
		issuer, err := auth.NewIssuer(a.cfg.Auth.Secret, a.cfg.Auth.TokenTTL)
		if err != nil {
			return fmt.Errorf("%w: set auth.secret or PLANDECK_AUTH_SECRET", err)
		}
		if !a.cfg.Debug() {
			gin.SetMode(gin.ReleaseMode)
		}

		addr := a.cfg.Server.Addr
		if v, _ := cmd.Flags().GetString("addr"); v != "" {
			addr = v
		}

		ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		go runReminders(ctx, a)

		server := api.NewServer(api.Deps{
			Sync:         a.sync,
			Reader:       a.store,
			Calendar:     a.cal,
			Notify:       a.notify,
			Tracker:      a.tracker,
			Issuer:       issuer,
			ClientSecret: a.cfg.Auth.ClientSecret,
			Version:      version,
			Log:          a.log,
		})
		fmt.Printf("🚀 plandeck API listening on http://%s\n", addr)
		return server.Run(ctx, addr)
	}),
}

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Print a bearer token for the API",
	RunE: withApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
		issuer, err := auth.NewIssuer(a.cfg.Auth.Secret, a.cfg.Auth.TokenTTL)
		if err != nil {
			return fmt.Errorf("%w: set auth.secret or PLANDECK_AUTH_SECRET", err)
		}
		subject, _ := cmd.Flags().GetString("subject")
		token, expires, err := issuer.Issue(subject)
		if err != nil {
			return err
		}
		fmt.Println(token)
		fmt.Fprintf(cmd.ErrOrStderr(), "expires %s\n", expires.Local().Format(time.RFC3339))
		return nil
	}),
}

// remind creates reminders for every task due within the configured window
func remind(ctx context.Context, a *app) ([]models.Notification, error) {
	tasks, err := a.store.ListTasks(ctx)
	if err != nil {
		return nil, err
	}
	return a.notify.RemindDueTasks(ctx, tasks, time.Now(), a.cfg.Notifications.ReminderWindow)
}

func runReminders(ctx context.Context, a *app) {
	ticker := time.NewTicker(reminderInterval)
	defer ticker.Stop()
	for {
		if _, err := remind(ctx, a); err != nil {
			a.log.Error("notify.remind_failed", err, nil)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address, overrides server.addr")
	tokenCmd.Flags().String("subject", "cli", "Token subject")
}
