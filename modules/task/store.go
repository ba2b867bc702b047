package task

import (
	"context"

	domain "github.com/example/task-api/domain/task"
)

// Store is the persistence contract consumed by the task services. All
// operations are scoped to a single owner identity; an id that exists for
// a different owner is indistinguishable from an absent one.
//
// Absence is not an error: Get returns nil, Update and Delete report a
// boolean. Errors mean the backend itself failed.
type Store interface {
	// List returns every task for the owner, ordered by CreatedAt
	// descending (id descending breaks ties). Empty slice if none exist.
	List(ctx context.Context, ownerID string) ([]domain.Task, error)

	// Get returns the task with the given id for the owner, or nil if no
	// such task exists.
	Get(ctx context.Context, ownerID, id string) (*domain.Task, error)

	// Create persists a fully-formed task. Id and timestamps are assigned
	// by the service layer before this call.
	Create(ctx context.Context, task *domain.Task) error

	// Update replaces the mutable fields of the record matching the
	// task's owner and id. Returns false if no such record exists.
	// Concurrent updates to the same id are last-write-wins.
	Update(ctx context.Context, task *domain.Task) (bool, error)

	// Delete removes the record if it exists and reports whether it did.
	// Deleting an absent id is not an error, it simply returns false.
	Delete(ctx context.Context, ownerID, id string) (bool, error)
}
