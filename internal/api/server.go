// Package api serves the planner over HTTP. All writes go through the
// synchronizer; calendar views read from the projector.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/balkashynov/plandeck/internal/auth"
	"github.com/balkashynov/plandeck/internal/calendar"
	"github.com/balkashynov/plandeck/internal/db"
	"github.com/balkashynov/plandeck/internal/logging"
	"github.com/balkashynov/plandeck/internal/models"
	"github.com/balkashynov/plandeck/internal/notify"
	"github.com/balkashynov/plandeck/internal/planner"
	"github.com/balkashynov/plandeck/internal/timetrack"
)

// Reader is the read side of the row store
type Reader interface {
	FindTasks(ctx context.Context, q db.TaskQuery) ([]models.Task, error)
	GetTask(ctx context.Context, id uint) (*models.Task, error)
	ListProjects(ctx context.Context) ([]models.Project, error)
	GetProject(ctx context.Context, id uint) (*models.Project, error)
}

// Deps are the services the server routes to
type Deps struct {
	Sync         *planner.Synchronizer
	Reader       Reader
	Calendar     *calendar.Projector
	Notify       *notify.Service
	Tracker      *timetrack.Tracker
	Issuer       *auth.Issuer
	ClientSecret string
	Version      string
	Log          *logging.Logger
}

// Server is the plandeck HTTP API
type Server struct {
	Deps
	router *gin.Engine
	now    func() time.Time
}

// NewServer builds the router
func NewServer(d Deps) *Server {
	if d.Log == nil {
		d.Log = logging.Discard()
	}

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(d.Log))

	s := &Server{
		Deps:   d,
		router: router,
		now:    time.Now,
	}

	api := router.Group("/api")
	api.GET("/health", s.handleHealth)
	api.POST("/auth/token", s.handleToken)

	private := api.Group("")
	private.Use(auth.Middleware(d.Issuer))
	{
		private.GET("/tasks", s.handleListTasks)
		private.POST("/tasks", s.handleCreateTask)
		private.GET("/tasks/:id", s.handleGetTask)
		private.PUT("/tasks/:id", s.handleUpdateTask)
		private.DELETE("/tasks/:id", s.handleDeleteTask)
		private.POST("/tasks/:id/toggle", s.handleToggleTask)

		private.GET("/projects", s.handleListProjects)
		private.POST("/projects", s.handleCreateProject)
		private.POST("/projects/sync", s.handleSyncProjects)
		private.GET("/projects/:id", s.handleGetProject)
		private.PUT("/projects/:id", s.handleUpdateProject)
		private.DELETE("/projects/:id", s.handleDeleteProject)
		private.GET("/projects/:id/counts", s.handleProjectCounts)

		private.GET("/calendar", s.handleCalendar)
		private.GET("/calendar/upcoming", s.handleUpcoming)
		private.POST("/calendar/events", s.handleCreateEvent)
		private.DELETE("/calendar/events/:id", s.handleDeleteEvent)

		private.GET("/notifications", s.handleListNotifications)
		private.POST("/notifications/read", s.handleReadAllNotifications)
		private.POST("/notifications/:id/read", s.handleReadNotification)
		private.DELETE("/notifications/:id", s.handleDeleteNotification)

		private.POST("/time/start", s.handleStartTimer)
		private.POST("/time/stop", s.handleStopTimer)
		private.GET("/time/active", s.handleActiveTimer)
	}

	return s
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.Log.Event("server.listening", map[string]any{"addr": addr})
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.Log.Event("server.shutdown", nil)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func requestLogger(log *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug("http.request", map[string]any{
			"method":   c.Request.Method,
			"path":     c.FullPath(),
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
		})
	}
}
