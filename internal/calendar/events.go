package calendar

import (
	"fmt"

	"github.com/balkashynov/plandeck/internal/models"
)

// TaskEvents builds one event per task with a due date
func TaskEvents(tasks []models.Task) []models.CalendarEvent {
	events := make([]models.CalendarEvent, 0, len(tasks))
	for _, t := range tasks {
		if t.DueDate == nil {
			continue
		}

		eventType := models.EventTask
		if t.TaskType == models.TaskMeeting {
			eventType = models.EventMeeting
		}

		events = append(events, models.CalendarEvent{
			ID:          fmt.Sprintf("task-%d", t.ID),
			Title:       t.Title,
			Description: t.Description,
			Date:        *t.DueDate,
			Type:        eventType,
			Source:      models.SourceTask,
			SourceID:    t.ID,
			Priority:    t.Priority,
			Status:      t.Status,
			TaskType:    t.TaskType,
			ProjectName: t.ProjectName,
		})
	}
	return events
}

// ProjectEvents builds a milestone for each project start and a deadline for each end
func ProjectEvents(projects []models.Project) []models.CalendarEvent {
	events := make([]models.CalendarEvent, 0, 2*len(projects))
	for _, p := range projects {
		if p.StartDate != nil {
			events = append(events, models.CalendarEvent{
				ID:          fmt.Sprintf("project-%d-start", p.ID),
				Title:       p.Name + " starts",
				Description: p.Description,
				Date:        *p.StartDate,
				Type:        models.EventMilestone,
				Source:      models.SourceProject,
				SourceID:    p.ID,
				ProjectName: p.Name,
			})
		}
		if p.EndDate != nil {
			events = append(events, models.CalendarEvent{
				ID:          fmt.Sprintf("project-%d-end", p.ID),
				Title:       p.Name + " deadline",
				Description: p.Description,
				Date:        *p.EndDate,
				Type:        models.EventDeadline,
				Source:      models.SourceProject,
				SourceID:    p.ID,
				ProjectName: p.Name,
			})
		}
	}
	return events
}
