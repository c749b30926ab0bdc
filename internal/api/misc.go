package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/balkashynov/plandeck/internal/auth"
)

type tokenRequest struct {
	ClientSecret string `json:"client_secret"`
	Subject      string `json:"subject"`
}

type startTimerRequest struct {
	TaskID uint `json:"task_id"`
}

func (s *Server) handleHealth(c *gin.Context) {
	respond(c, http.StatusOK, gin.H{
		"status":  "ok",
		"version": s.Version,
	})
}

func (s *Server) handleToken(c *gin.Context) {
	var req tokenRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Subject == "" {
		req.Subject = "api"
	}

	token, expires, err := s.Issuer.Exchange(s.ClientSecret, req.ClientSecret, req.Subject)
	if errors.Is(err, auth.ErrInvalidClient) {
		fail(c, http.StatusUnauthorized, err.Error())
		return
	}
	if err != nil {
		s.failErr(c, err)
		return
	}
	s.Log.Event("auth.token_issued", map[string]any{"subject": req.Subject})
	respond(c, http.StatusOK, gin.H{
		"token":      token,
		"expires_at": expires,
	})
}

func (s *Server) handleListNotifications(c *gin.Context) {
	unreadOnly := c.Query("unread") == "true"
	list, err := s.Notify.List(c.Request.Context(), unreadOnly)
	if err != nil {
		s.failErr(c, err)
		return
	}
	respond(c, http.StatusOK, list)
}

func (s *Server) handleReadNotification(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := s.Notify.MarkRead(c.Request.Context(), id); err != nil {
		s.failErr(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"id": id})
}

func (s *Server) handleReadAllNotifications(c *gin.Context) {
	n, err := s.Notify.MarkAllRead(c.Request.Context())
	if err != nil {
		s.failErr(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"updated": n})
}

func (s *Server) handleDeleteNotification(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := s.Notify.Delete(c.Request.Context(), id); err != nil {
		s.failErr(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"id": id})
}

func (s *Server) handleStartTimer(c *gin.Context) {
	var req startTimerRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.TaskID == 0 {
		fail(c, http.StatusBadRequest, "task_id is required")
		return
	}
	session, err := s.Tracker.Start(c.Request.Context(), req.TaskID)
	if err != nil {
		s.failErr(c, err)
		return
	}
	respond(c, http.StatusCreated, session)
}

func (s *Server) handleStopTimer(c *gin.Context) {
	session, err := s.Tracker.Stop(c.Request.Context())
	if err != nil {
		s.failErr(c, err)
		return
	}
	respond(c, http.StatusOK, session)
}

func (s *Server) handleActiveTimer(c *gin.Context) {
	session, err := s.Tracker.Active(c.Request.Context())
	if err != nil {
		s.failErr(c, err)
		return
	}
	if session == nil {
		respond(c, http.StatusOK, nil)
		return
	}
	respond(c, http.StatusOK, gin.H{
		"session":         session,
		"elapsed_seconds": int(s.Tracker.Elapsed(session).Seconds()),
	})
}
