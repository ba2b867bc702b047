package task

import (
	"context"
	"sort"
	"sync"

	domain "github.com/example/task-api/domain/task"
)

// MemoryStore provides in-memory task storage partitioned per owner.
// Data lives for the lifetime of the process only; that is a documented
// property of this backend, not a bug.
type MemoryStore struct {
	mu    sync.RWMutex
	tasks map[string]map[string]domain.Task // ownerID -> taskID -> task
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates a new in-memory task store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tasks: make(map[string]map[string]domain.Task),
	}
}

// List returns all tasks for the owner, most recently created first.
func (s *MemoryStore) List(_ context.Context, ownerID string) ([]domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	owned := s.tasks[ownerID]
	out := make([]domain.Task, 0, len(owned))
	for _, t := range owned {
		out = append(out, t)
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

// Get returns the owner's task with the given id, or nil if absent.
func (s *MemoryStore) Get(_ context.Context, ownerID, id string) (*domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tasks[ownerID][id]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

// Create persists a new task record.
func (s *MemoryStore) Create(_ context.Context, task *domain.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	owned, ok := s.tasks[task.OwnerID]
	if !ok {
		owned = make(map[string]domain.Task)
		s.tasks[task.OwnerID] = owned
	}
	owned[task.ID] = *task
	return nil
}

// Update replaces the record matching the task's owner and id.
func (s *MemoryStore) Update(_ context.Context, task *domain.Task) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	owned := s.tasks[task.OwnerID]
	if _, ok := owned[task.ID]; !ok {
		return false, nil
	}
	owned[task.ID] = *task
	return true, nil
}

// Delete removes the owner's task with the given id if it exists.
func (s *MemoryStore) Delete(_ context.Context, ownerID, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	owned := s.tasks[ownerID]
	if _, ok := owned[id]; !ok {
		return false, nil
	}
	delete(owned, id)
	return true, nil
}
