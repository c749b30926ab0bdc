package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/balkashynov/plandeck/internal/calendar"
	"github.com/balkashynov/plandeck/internal/db"
	"github.com/balkashynov/plandeck/internal/models"
	"github.com/balkashynov/plandeck/internal/planner"
)

func respond(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{
		"success": true,
		"data":    data,
	})
}

func fail(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{
		"success": false,
		"error":   msg,
	})
}

// failErr maps domain errors to status codes
func (s *Server) failErr(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, models.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, planner.ErrInvalid),
		errors.Is(err, calendar.ErrInvalidEvent),
		errors.Is(err, calendar.ErrDerivedEvent):
		status = http.StatusBadRequest
	case errors.Is(err, db.ErrSessionActive), errors.Is(err, db.ErrNoActiveSession):
		status = http.StatusConflict
	}

	if status == http.StatusInternalServerError {
		s.Log.Error("http.failed", err, map[string]any{"path": c.FullPath()})
	}
	fail(c, status, err.Error())
}

// paramID reads the :id path parameter, answering 400 when it is not a number
func paramID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid id "+strconv.Quote(c.Param("id")))
		return 0, false
	}
	return uint(id), true
}

func bindJSON(c *gin.Context, v any) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}
