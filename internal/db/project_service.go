package db

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/balkashynov/plandeck/internal/models"
)

// ListProjects returns every project ordered by id
func (s *Store) ListProjects(ctx context.Context) ([]models.Project, error) {
	var projects []models.Project
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

// GetProject retrieves a project by ID
func (s *Store) GetProject(ctx context.Context, id uint) (*models.Project, error) {
	var project models.Project
	if err := s.db.WithContext(ctx).First(&project, id).Error; err != nil {
		return nil, notFound(err, "project", id)
	}
	return &project, nil
}

// CreateProject inserts a project
func (s *Store) CreateProject(ctx context.Context, project *models.Project) error {
	return s.db.WithContext(ctx).Create(project).Error
}

// SaveProject writes every column of an existing project
func (s *Store) SaveProject(ctx context.Context, project *models.Project) error {
	res := s.db.WithContext(ctx).
		Model(&models.Project{}).
		Where("id = ?", project.ID).
		Select("*").
		Omit("id", "created_at", "deleted_at").
		Updates(project)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("project #%d: %w", project.ID, models.ErrNotFound)
	}
	return nil
}

// DeleteProject detaches every task referencing the project, then removes
// the project row. Both writes share one transaction, so a failed delete leaves
// the tasks attached. It returns the number of detached tasks.
func (s *Store) DeleteProject(ctx context.Context, id uint) (int64, error) {
	var detached int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Task{}).
			Where("project_id = ?", id).
			Updates(map[string]any{"project_id": nil, "project_name": ""})
		if res.Error != nil {
			return res.Error
		}
		detached = res.RowsAffected

		res = tx.Delete(&models.Project{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("project #%d: %w", id, models.ErrNotFound)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return detached, nil
}
