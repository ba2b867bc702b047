package task

import (
	"context"
	"log"

	domain "github.com/example/task-api/domain/task"
	"golang.org/x/sync/singleflight"
)

// ListCache is the narrow cache contract the cached store needs. It is
// satisfied by cache.Cache; tests substitute an in-memory fake.
type ListCache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any) error
	Delete(ctx context.Context, key string) error
}

// CachedStore decorates a Store with cache-aside caching of per-owner
// lists. Every mutation invalidates the owner's cached list. Cache
// failures degrade to the underlying store and never fail the request.
type CachedStore struct {
	store Store
	cache ListCache
	group singleflight.Group
}

var _ Store = (*CachedStore)(nil)

// NewCachedStore creates a cached store wrapping the given backend.
func NewCachedStore(store Store, cache ListCache) *CachedStore {
	return &CachedStore{
		store: store,
		cache: cache,
	}
}

// List returns the owner's cached list, loading and caching it on a miss.
// Concurrent misses for the same owner collapse into a single backend
// query via singleflight.
func (s *CachedStore) List(ctx context.Context, ownerID string) ([]domain.Task, error) {
	var cached []domain.Task
	hit, err := s.cache.Get(ctx, ownerID, &cached)
	if err != nil {
		log.Printf("[task] cache get failed for owner %s: %v", ownerID, err)
	}
	if hit {
		return cached, nil
	}

	v, err, _ := s.group.Do(ownerID, func() (any, error) {
		tasks, err := s.store.List(ctx, ownerID)
		if err != nil {
			return nil, err
		}
		if err := s.cache.Set(ctx, ownerID, tasks); err != nil {
			log.Printf("[task] cache set failed for owner %s: %v", ownerID, err)
		}
		return tasks, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.Task), nil
}

// Get is a point read and goes straight to the backend.
func (s *CachedStore) Get(ctx context.Context, ownerID, id string) (*domain.Task, error) {
	return s.store.Get(ctx, ownerID, id)
}

// Create persists the task and invalidates the owner's cached list.
func (s *CachedStore) Create(ctx context.Context, task *domain.Task) error {
	if err := s.store.Create(ctx, task); err != nil {
		return err
	}
	s.invalidate(ctx, task.OwnerID)
	return nil
}

// Update replaces the task and invalidates the owner's cached list.
func (s *CachedStore) Update(ctx context.Context, task *domain.Task) (bool, error) {
	found, err := s.store.Update(ctx, task)
	if err != nil {
		return false, err
	}
	if found {
		s.invalidate(ctx, task.OwnerID)
	}
	return found, nil
}

// Delete removes the task and invalidates the owner's cached list.
func (s *CachedStore) Delete(ctx context.Context, ownerID, id string) (bool, error) {
	deleted, err := s.store.Delete(ctx, ownerID, id)
	if err != nil {
		return false, err
	}
	if deleted {
		s.invalidate(ctx, ownerID)
	}
	return deleted, nil
}

func (s *CachedStore) invalidate(ctx context.Context, ownerID string) {
	if err := s.cache.Delete(ctx, ownerID); err != nil {
		log.Printf("[task] cache invalidation failed for owner %s: %v", ownerID, err)
	}
}
