package db

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/balkashynov/plandeck/internal/models"
)

// TaskQuery filters FindTasks. Zero values match everything.
type TaskQuery struct {
	Status    models.TaskStatus
	ProjectID *uint
	Tag       string
	Text      string // case-insensitive match on title, description and project name
	Limit     int
}

// ListTasks returns every task ordered by id
func (s *Store) ListTasks(ctx context.Context) ([]models.Task, error) {
	return s.FindTasks(ctx, TaskQuery{})
}

// FindTasks retrieves tasks matching q
func (s *Store) FindTasks(ctx context.Context, q TaskQuery) ([]models.Task, error) {
	tx := s.db.WithContext(ctx).Preload("Tags").Order("tasks.id ASC")

	if q.Status != "" {
		tx = tx.Where("tasks.status = ?", q.Status)
	}
	if q.ProjectID != nil {
		tx = tx.Where("tasks.project_id = ?", *q.ProjectID)
	}
	if q.Tag != "" {
		tx = tx.Where("tasks.id IN (?)",
			s.db.Table("task_tags").
				Select("task_tags.task_id").
				Joins("JOIN tags ON tags.id = task_tags.tag_id").
				Where("tags.name = ?", q.Tag))
	}
	if text := strings.TrimSpace(q.Text); text != "" {
		like := "%" + strings.ToLower(text) + "%"
		tx = tx.Where("LOWER(tasks.title) LIKE ? OR LOWER(tasks.description) LIKE ? OR LOWER(tasks.project_name) LIKE ?",
			like, like, like)
	}
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}

	var tasks []models.Task
	if err := tx.Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// GetTask retrieves a task by ID
func (s *Store) GetTask(ctx context.Context, id uint) (*models.Task, error) {
	var task models.Task
	if err := s.db.WithContext(ctx).Preload("Tags").First(&task, id).Error; err != nil {
		return nil, notFound(err, "task", id)
	}
	return &task, nil
}

// CreateTask inserts a task together with its tags
func (s *Store) CreateTask(ctx context.Context, task *models.Task) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tags, err := findOrCreateTags(tx, task.TagNames())
		if err != nil {
			return err
		}
		task.Tags = tags
		return tx.Create(task).Error
	})
}

// SaveTask writes every column of an existing task and replaces its tag set
func (s *Store) SaveTask(ctx context.Context, task *models.Task) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Task{}).Where("id = ?", task.ID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return fmt.Errorf("task #%d: %w", task.ID, models.ErrNotFound)
		}

		tags, err := findOrCreateTags(tx, task.TagNames())
		if err != nil {
			return err
		}
		task.Tags = tags

		if err := tx.Omit(clause.Associations).Save(task).Error; err != nil {
			return err
		}
		return tx.Model(task).Association("Tags").Replace(task.Tags)
	})
}

// DeleteTask removes a task
func (s *Store) DeleteTask(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.Task{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("task #%d: %w", id, models.ErrNotFound)
	}
	return nil
}

// RenameProjectOnTasks refreshes the denormalized project name on its tasks
func (s *Store) RenameProjectOnTasks(ctx context.Context, projectID uint, name string) error {
	return s.db.WithContext(ctx).
		Model(&models.Task{}).
		Where("project_id = ?", projectID).
		Update("project_name", name).Error
}

// findOrCreateTags finds existing tags or creates new ones
func findOrCreateTags(tx *gorm.DB, tagNames []string) ([]models.Tag, error) {
	tags := make([]models.Tag, 0, len(tagNames))

	for _, name := range tagNames {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}

		var tag models.Tag
		if err := tx.Where(models.Tag{Name: name}).FirstOrCreate(&tag).Error; err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}

	return tags, nil
}
