package task

import (
	"context"
	"errors"
	"fmt"

	domain "github.com/example/task-api/domain/task"
	"gorm.io/gorm"
)

// GormStore provides durable task storage using GORM. Updates are
// full-document replacements of the mutable fields; concurrency control is
// delegated to the database's per-row atomicity, so concurrent updates to
// the same id are last-write-wins.
type GormStore struct {
	db *gorm.DB
}

var _ Store = (*GormStore)(nil)

// NewGormStore creates a new GORM-backed task store.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Migrate runs database migrations for the tasks table.
func (s *GormStore) Migrate() error {
	return s.db.AutoMigrate(&domain.Task{})
}

// List returns all tasks for the owner, most recently created first.
func (s *GormStore) List(ctx context.Context, ownerID string) ([]domain.Task, error) {
	tasks := make([]domain.Task, 0)
	err := s.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC, id DESC").
		Find(&tasks).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// Get returns the owner's task with the given id, or nil if absent.
func (s *GormStore) Get(ctx context.Context, ownerID, id string) (*domain.Task, error) {
	var t domain.Task
	err := s.db.WithContext(ctx).
		First(&t, "owner_id = ? AND id = ?", ownerID, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return &t, nil
}

// Create persists a new task record.
func (s *GormStore) Create(ctx context.Context, task *domain.Task) error {
	if err := s.db.WithContext(ctx).Create(task).Error; err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

// Update replaces the mutable fields of the record matching the task's
// owner and id. Select forces zero values (IsCompleted=false, DueAt=nil)
// to be written, which struct-based Updates would otherwise skip.
func (s *GormStore) Update(ctx context.Context, task *domain.Task) (bool, error) {
	result := s.db.WithContext(ctx).
		Model(&domain.Task{}).
		Where("owner_id = ? AND id = ?", task.OwnerID, task.ID).
		Select("title", "description", "is_completed", "due_at", "updated_at").
		Updates(task)
	if result.Error != nil {
		return false, fmt.Errorf("failed to update task: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// Delete hard-deletes the owner's task with the given id if it exists.
func (s *GormStore) Delete(ctx context.Context, ownerID, id string) (bool, error) {
	result := s.db.WithContext(ctx).
		Where("owner_id = ? AND id = ?", ownerID, id).
		Delete(&domain.Task{})
	if result.Error != nil {
		return false, fmt.Errorf("failed to delete task: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}
