package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/balkashynov/plandeck/internal/models"
	"github.com/balkashynov/plandeck/internal/parser"
)

const defaultUpcoming = 10

type createEventRequest struct {
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Date        string           `json:"date"` // anything the due date parser accepts
	Type        models.EventType `json:"type"`
}

// handleCalendar lists events on ?date=YYYY-MM-DD, in ?month=YYYY-MM, or all of them
func (s *Server) handleCalendar(c *gin.Context) {
	now := s.now()
	switch {
	case c.Query("date") != "":
		day, err := time.ParseInLocation("2006-01-02", c.Query("date"), now.Location())
		if err != nil {
			fail(c, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}
		respond(c, http.StatusOK, s.Calendar.EventsOnDate(day))
	case c.Query("month") != "":
		month, err := time.ParseInLocation("2006-01", c.Query("month"), now.Location())
		if err != nil {
			fail(c, http.StatusBadRequest, "month must be YYYY-MM")
			return
		}
		respond(c, http.StatusOK, s.Calendar.EventsInMonth(month))
	default:
		respond(c, http.StatusOK, s.Calendar.Events())
	}
}

func (s *Server) handleUpcoming(c *gin.Context) {
	limit := defaultUpcoming
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			fail(c, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}
	respond(c, http.StatusOK, s.Calendar.UpcomingEvents(limit))
}

func (s *Server) handleCreateEvent(c *gin.Context) {
	var req createEventRequest
	if !bindJSON(c, &req) {
		return
	}

	event := models.CalendarEvent{
		Title:       req.Title,
		Description: req.Description,
		Type:        req.Type,
	}
	if req.Date != "" {
		date, err := parser.ParseDueDate(req.Date, s.now())
		if err != nil {
			fail(c, http.StatusBadRequest, err.Error())
			return
		}
		event.Date = *date
	}

	created, err := s.Calendar.AddManualEvent(c.Request.Context(), event)
	if err != nil {
		s.failErr(c, err)
		return
	}
	respond(c, http.StatusCreated, created)
}

func (s *Server) handleDeleteEvent(c *gin.Context) {
	id := c.Param("id")
	if err := s.Calendar.DeleteManualEvent(c.Request.Context(), id); err != nil {
		s.failErr(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"id": id})
}
