package task

import (
	"context"
	"time"
)

// CreateTaskRequest is the request for creating a task. OwnerID comes
// from the verified token, never from the client.
type CreateTaskRequest struct {
	OwnerID     string     `json:"ownerId"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	DueAt       *time.Time `json:"dueAt,omitempty"`
}

// CreateTaskResponse is the response for creating a task.
type CreateTaskResponse struct {
	Task TaskResponse `json:"task"`
}

// GetTaskRequest is the request for getting a task.
type GetTaskRequest struct {
	OwnerID string `json:"ownerId"`
	TaskID  string `json:"taskId"`
}

// GetTaskResponse is the response for getting a task. Found=false means no
// such task exists for the owner.
type GetTaskResponse struct {
	Task  *TaskResponse `json:"task,omitempty"`
	Found bool          `json:"found"`
}

// UpdateTaskRequest is the request for updating a task. Updates are full
// replacements of the mutable fields; partial patches are not supported.
type UpdateTaskRequest struct {
	OwnerID     string     `json:"ownerId"`
	TaskID      string     `json:"taskId"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	IsCompleted bool       `json:"isCompleted"`
	DueAt       *time.Time `json:"dueAt,omitempty"`
}

// UpdateTaskResponse is the response for updating a task.
type UpdateTaskResponse struct {
	Task  *TaskResponse `json:"task,omitempty"`
	Found bool          `json:"found"`
}

// DeleteTaskRequest is the request for deleting a task.
type DeleteTaskRequest struct {
	OwnerID string `json:"ownerId"`
	TaskID  string `json:"taskId"`
}

// DeleteTaskResponse is the response for deleting a task.
type DeleteTaskResponse struct {
	Deleted bool `json:"deleted"`
}

// ListTasksRequest is the request for listing an owner's tasks.
type ListTasksRequest struct {
	OwnerID string `json:"ownerId"`
}

// ListTasksResponse is the response for listing tasks, ordered most
// recently created first.
type ListTasksResponse struct {
	Tasks []TaskResponse `json:"tasks"`
	Total int            `json:"total"`
}

// TaskResponse is the response for a single task.
type TaskResponse struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	IsCompleted bool       `json:"isCompleted"`
	DueAt       *time.Time `json:"dueAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// TaskPort defines the interface for task operations (hexagonal port).
// This is the contract that driving adapters (like the HTTP API) use to
// interact with the core domain.
type TaskPort interface {
	CreateTask(ctx context.Context, req *CreateTaskRequest) (*CreateTaskResponse, error)
	GetTask(ctx context.Context, ownerID, taskID string) (*GetTaskResponse, error)
	UpdateTask(ctx context.Context, req *UpdateTaskRequest) (*UpdateTaskResponse, error)
	DeleteTask(ctx context.Context, ownerID, taskID string) (*DeleteTaskResponse, error)
	ListTasks(ctx context.Context, ownerID string) (*ListTasksResponse, error)
}
