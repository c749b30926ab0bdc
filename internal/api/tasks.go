package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/balkashynov/plandeck/internal/db"
	"github.com/balkashynov/plandeck/internal/models"
	"github.com/balkashynov/plandeck/internal/parser"
	"github.com/balkashynov/plandeck/internal/planner"
)

// createTaskRequest accepts either due_date (RFC3339) or a due expression like "tomorrow"
type createTaskRequest struct {
	planner.TaskInput
	Due string `json:"due"`
}

func (s *Server) handleListTasks(c *gin.Context) {
	q := db.TaskQuery{
		Tag:  c.Query("tag"),
		Text: c.Query("q"),
	}
	if status := c.Query("status"); status != "" {
		parsed, err := models.ParseStatus(status)
		if err != nil {
			fail(c, http.StatusBadRequest, err.Error())
			return
		}
		q.Status = parsed
	}
	if project := c.Query("project"); project != "" {
		id, err := strconv.ParseUint(project, 10, 32)
		if err != nil {
			fail(c, http.StatusBadRequest, "invalid project id")
			return
		}
		pid := uint(id)
		q.ProjectID = &pid
	}
	if limit := c.Query("limit"); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil || n < 0 {
			fail(c, http.StatusBadRequest, "invalid limit")
			return
		}
		q.Limit = n
	}

	tasks, err := s.Reader.FindTasks(c.Request.Context(), q)
	if err != nil {
		s.failErr(c, err)
		return
	}
	respond(c, http.StatusOK, tasks)
}

func (s *Server) handleCreateTask(c *gin.Context) {
	var req createTaskRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Due != "" {
		due, err := parser.ParseDueDate(req.Due, s.now())
		if err != nil {
			fail(c, http.StatusBadRequest, err.Error())
			return
		}
		req.DueDate = due
	}

	task, err := s.Sync.AddTask(c.Request.Context(), req.TaskInput)
	if err != nil {
		s.failErr(c, err)
		return
	}
	respond(c, http.StatusCreated, task)
}

func (s *Server) handleGetTask(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	task, err := s.Reader.GetTask(c.Request.Context(), id)
	if err != nil {
		s.failErr(c, err)
		return
	}
	respond(c, http.StatusOK, task)
}

func (s *Server) handleUpdateTask(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var update planner.TaskUpdate
	if !bindJSON(c, &update) {
		return
	}

	task, err := s.Sync.UpdateTask(c.Request.Context(), id, update)
	if err != nil {
		s.failErr(c, err)
		return
	}
	s.stopTimerIfDone(c, task)
	respond(c, http.StatusOK, task)
}

func (s *Server) handleDeleteTask(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	s.stopTimer(c, id)
	if err := s.Sync.DeleteTask(c.Request.Context(), id); err != nil {
		s.failErr(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"id": id})
}

func (s *Server) handleToggleTask(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	task, err := s.Sync.ToggleTaskStatus(c.Request.Context(), id)
	if err != nil {
		s.failErr(c, err)
		return
	}
	s.stopTimerIfDone(c, task)
	respond(c, http.StatusOK, task)
}

// stopTimerIfDone ends the running session of a task that was just completed
func (s *Server) stopTimerIfDone(c *gin.Context, task *models.Task) {
	if task.Status == models.StatusCompleted {
		s.stopTimer(c, task.ID)
	}
}

// stopTimer ends the running session if it belongs to taskID
func (s *Server) stopTimer(c *gin.Context, taskID uint) {
	if s.Tracker == nil {
		return
	}
	if _, err := s.Tracker.StopForTask(c.Request.Context(), taskID); err != nil {
		s.Log.Error("time.stop_failed", err, map[string]any{"task": taskID})
	}
}
