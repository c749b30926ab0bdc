package planner

import "github.com/balkashynov/plandeck/internal/models"

// TaskCounts partitions a project's tasks by status
type TaskCounts struct {
	Total      int `json:"total"`
	Completed  int `json:"completed"`
	InProgress int `json:"in_progress"`
	Todo       int `json:"todo"`
}

// CountTasks partitions tasks referencing projectID by status
func CountTasks(tasks []models.Task, projectID uint) TaskCounts {
	var c TaskCounts
	for _, t := range tasks {
		if !t.InProject(projectID) {
			continue
		}
		c.Total++
		switch t.Status {
		case models.StatusCompleted:
			c.Completed++
		case models.StatusInProgress:
			c.InProgress++
		default:
			c.Todo++
		}
	}
	return c
}

// Progress is the completed share of a project's tasks as a whole percent,
// 0 when the project has no tasks. Ties round half up: 1 of 8 is 13.
func Progress(tasks []models.Task, projectID uint) int {
	return percent(CountTasks(tasks, projectID))
}

func percent(c TaskCounts) int {
	if c.Total == 0 {
		return 0
	}
	return (200*c.Completed + c.Total) / (2 * c.Total)
}
