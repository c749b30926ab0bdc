package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/balkashynov/plandeck/internal/planner"
)

func (s *Server) handleListProjects(c *gin.Context) {
	projects, err := s.Reader.ListProjects(c.Request.Context())
	if err != nil {
		s.failErr(c, err)
		return
	}
	respond(c, http.StatusOK, projects)
}

func (s *Server) handleCreateProject(c *gin.Context) {
	var in planner.ProjectInput
	if !bindJSON(c, &in) {
		return
	}
	project, err := s.Sync.AddProject(c.Request.Context(), in)
	if err != nil {
		s.failErr(c, err)
		return
	}
	respond(c, http.StatusCreated, project)
}

func (s *Server) handleGetProject(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	project, err := s.Reader.GetProject(c.Request.Context(), id)
	if err != nil {
		s.failErr(c, err)
		return
	}
	respond(c, http.StatusOK, project)
}

func (s *Server) handleUpdateProject(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var update planner.ProjectUpdate
	if !bindJSON(c, &update) {
		return
	}
	project, err := s.Sync.UpdateProject(c.Request.Context(), id, update)
	if err != nil {
		s.failErr(c, err)
		return
	}
	respond(c, http.StatusOK, project)
}

func (s *Server) handleDeleteProject(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := s.Sync.DeleteProject(c.Request.Context(), id); err != nil {
		s.failErr(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"id": id})
}

func (s *Server) handleProjectCounts(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	if _, err := s.Reader.GetProject(ctx, id); err != nil {
		s.failErr(c, err)
		return
	}

	counts, err := s.Sync.GetProjectTaskCounts(ctx, id)
	if err != nil {
		s.failErr(c, err)
		return
	}
	progress, err := s.Sync.CalculateProjectProgress(ctx, id)
	if err != nil {
		s.failErr(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{
		"total":       counts.Total,
		"completed":   counts.Completed,
		"in_progress": counts.InProgress,
		"todo":        counts.Todo,
		"progress":    progress,
	})
}

func (s *Server) handleSyncProjects(c *gin.Context) {
	written, err := s.Sync.SyncAllProjectProgress(c.Request.Context())
	if err != nil {
		s.failErr(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"updated": written})
}
