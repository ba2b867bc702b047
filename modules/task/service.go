package task

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	domain "github.com/example/task-api/domain/task"
	"github.com/example/task-api/events"
	"github.com/go-monolith/mono"
	"github.com/google/uuid"
)

var (
	// ErrTitleRequired is returned when a title is missing or blank after
	// trimming. Stored titles are never empty or whitespace-only.
	ErrTitleRequired = errors.New("title is required")
	// ErrOwnerRequired is returned when a request carries no owner
	// identity. The API layer always injects it from the verified token.
	ErrOwnerRequired = errors.New("owner identity is required")
)

// createTask handles the create-task service request.
func (m *TaskModule) createTask(ctx context.Context, req CreateTaskRequest, _ *mono.Msg) (CreateTaskResponse, error) {
	if req.OwnerID == "" {
		return CreateTaskResponse{}, ErrOwnerRequired
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return CreateTaskResponse{}, ErrTitleRequired
	}

	now := time.Now().UTC()
	newTask := &domain.Task{
		ID:          uuid.New().String(),
		OwnerID:     req.OwnerID,
		Title:       title,
		Description: req.Description,
		IsCompleted: false,
		DueAt:       req.DueAt,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := m.store.Create(ctx, newTask); err != nil {
		return CreateTaskResponse{}, fmt.Errorf("failed to save task: %w", err)
	}

	m.publishCreated(newTask)

	return CreateTaskResponse{Task: toTaskResponse(newTask)}, nil
}

// getTask handles the get-task service request.
func (m *TaskModule) getTask(ctx context.Context, req GetTaskRequest, _ *mono.Msg) (GetTaskResponse, error) {
	t, err := m.store.Get(ctx, req.OwnerID, req.TaskID)
	if err != nil {
		return GetTaskResponse{}, fmt.Errorf("failed to get task: %w", err)
	}
	if t == nil {
		return GetTaskResponse{Found: false}, nil
	}

	resp := toTaskResponse(t)
	return GetTaskResponse{Task: &resp, Found: true}, nil
}

// updateTask handles the update-task service request. The update is a full
// replacement of the mutable fields; id, owner and CreatedAt are preserved.
func (m *TaskModule) updateTask(ctx context.Context, req UpdateTaskRequest, _ *mono.Msg) (UpdateTaskResponse, error) {
	if req.OwnerID == "" {
		return UpdateTaskResponse{}, ErrOwnerRequired
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return UpdateTaskResponse{}, ErrTitleRequired
	}

	existing, err := m.store.Get(ctx, req.OwnerID, req.TaskID)
	if err != nil {
		return UpdateTaskResponse{}, fmt.Errorf("failed to get task: %w", err)
	}
	if existing == nil {
		return UpdateTaskResponse{Found: false}, nil
	}

	updated := &domain.Task{
		ID:          existing.ID,
		OwnerID:     existing.OwnerID,
		Title:       title,
		Description: req.Description,
		IsCompleted: req.IsCompleted,
		DueAt:       req.DueAt,
		CreatedAt:   existing.CreatedAt,
		UpdatedAt:   time.Now().UTC(),
	}

	found, err := m.store.Update(ctx, updated)
	if err != nil {
		return UpdateTaskResponse{}, fmt.Errorf("failed to update task: %w", err)
	}
	if !found {
		// Deleted between the lookup and the write.
		return UpdateTaskResponse{Found: false}, nil
	}

	m.publishUpdated(updated)

	resp := toTaskResponse(updated)
	return UpdateTaskResponse{Task: &resp, Found: true}, nil
}

// deleteTask handles the delete-task service request. Deletes are hard;
// a second delete of the same id reports Deleted=false.
func (m *TaskModule) deleteTask(ctx context.Context, req DeleteTaskRequest, _ *mono.Msg) (DeleteTaskResponse, error) {
	deleted, err := m.store.Delete(ctx, req.OwnerID, req.TaskID)
	if err != nil {
		return DeleteTaskResponse{}, fmt.Errorf("failed to delete task: %w", err)
	}

	if deleted {
		m.publishDeleted(req.OwnerID, req.TaskID)
	}

	return DeleteTaskResponse{Deleted: deleted}, nil
}

// listTasks handles the list-tasks service request.
func (m *TaskModule) listTasks(ctx context.Context, req ListTasksRequest, _ *mono.Msg) (ListTasksResponse, error) {
	tasks, err := m.store.List(ctx, req.OwnerID)
	if err != nil {
		return ListTasksResponse{}, fmt.Errorf("failed to list tasks: %w", err)
	}

	response := ListTasksResponse{
		Tasks: make([]TaskResponse, 0, len(tasks)),
		Total: len(tasks),
	}
	for i := range tasks {
		response.Tasks = append(response.Tasks, toTaskResponse(&tasks[i]))
	}
	return response, nil
}

// publishCreated emits a TaskCreated event. Event publishing is
// best-effort; failures are logged, never surfaced to the caller.
func (m *TaskModule) publishCreated(t *domain.Task) {
	if m.eventBus == nil {
		return
	}
	event := events.TaskCreatedEvent{
		TaskID:    t.ID,
		OwnerID:   t.OwnerID,
		Title:     t.Title,
		CreatedAt: t.CreatedAt,
	}
	if err := events.TaskCreatedV1.Publish(m.eventBus, event, nil); err != nil {
		log.Printf("[task] Warning: failed to publish TaskCreated event for task %s: %v", t.ID, err)
	}
}

func (m *TaskModule) publishUpdated(t *domain.Task) {
	if m.eventBus == nil {
		return
	}
	event := events.TaskUpdatedEvent{
		TaskID:      t.ID,
		OwnerID:     t.OwnerID,
		Title:       t.Title,
		IsCompleted: t.IsCompleted,
		UpdatedAt:   t.UpdatedAt,
	}
	if err := events.TaskUpdatedV1.Publish(m.eventBus, event, nil); err != nil {
		log.Printf("[task] Warning: failed to publish TaskUpdated event for task %s: %v", t.ID, err)
	}
}

func (m *TaskModule) publishDeleted(ownerID, taskID string) {
	if m.eventBus == nil {
		return
	}
	event := events.TaskDeletedEvent{
		TaskID:    taskID,
		OwnerID:   ownerID,
		DeletedAt: time.Now().UTC(),
	}
	if err := events.TaskDeletedV1.Publish(m.eventBus, event, nil); err != nil {
		log.Printf("[task] Warning: failed to publish TaskDeleted event for task %s: %v", taskID, err)
	}
}

// toTaskResponse converts a domain Task to a TaskResponse.
func toTaskResponse(t *domain.Task) TaskResponse {
	return TaskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		IsCompleted: t.IsCompleted,
		DueAt:       t.DueAt,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}
