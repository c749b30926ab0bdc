package db

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/balkashynov/plandeck/internal/models"
)

// Store is the SQLite-backed row store for tasks, projects, manual events,
// notifications and time tracking sessions
type Store struct {
	db *gorm.DB
}

// Options tweak how the database is opened
type Options struct {
	Debug bool // log SQL
}

// Open sets up the database connection at path and runs migrations
func Open(path string, opts Options) (*Store, error) {
	// Ensure the directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	level := logger.Silent // Quiet by default
	if opts.Debug {
		level = logger.Info
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(level),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return s, nil
}

// migrate creates/updates the database schema
func (s *Store) migrate() error {
	return s.db.AutoMigrate(
		&models.Task{},
		&models.Tag{},
		&models.TaskTag{},
		&models.Project{},
		&models.CalendarEvent{},
		&models.Notification{},
		&models.Session{},
	)
}

// Close closes the database connection
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// notFound turns gorm's record-not-found into models.ErrNotFound
func notFound(err error, what string, id any) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s #%v: %w", what, id, models.ErrNotFound)
	}
	return err
}
