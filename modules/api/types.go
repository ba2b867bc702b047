package api

import "time"

// CreateTaskRequest is the HTTP request body for creating a task.
// An unparseable dueAt fails JSON decoding and is rejected with 400.
type CreateTaskRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	DueAt       *time.Time `json:"dueAt"`
}

// UpdateTaskRequest is the HTTP request body for updating a task. Updates
// are full replacements: title is required on every call, isCompleted
// defaults to false when omitted.
type UpdateTaskRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	IsCompleted bool       `json:"isCompleted"`
	DueAt       *time.Time `json:"dueAt"`
}

// TaskResponse is the HTTP representation of a single task.
type TaskResponse struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	IsCompleted bool       `json:"isCompleted"`
	DueAt       *time.Time `json:"dueAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// HealthResponse is the HTTP response for the health check.
type HealthResponse struct {
	Status  string         `json:"status"`
	Details map[string]any `json:"details,omitempty"`
}

// ErrorResponse is the single error body shape used by every endpoint.
type ErrorResponse struct {
	Message string `json:"message"`
}
