package api

import (
	"strings"

	"github.com/example/task-api/modules/task"
	"github.com/gofiber/fiber/v2"
)

// setupRoutes configures all HTTP routes. Everything under /tasks requires
// a verified bearer token.
func (m *APIModule) setupRoutes() {
	m.app.Get("/health", m.healthHandler)

	tasks := m.app.Group("/tasks")
	tasks.Use(AuthMiddleware(m.authAdapter))
	tasks.Get("/", m.listTasks)
	tasks.Post("/", m.createTask)
	tasks.Get("/:id", m.getTask)
	tasks.Put("/:id", m.updateTask)
	tasks.Delete("/:id", m.deleteTask)
}

// healthHandler handles GET /health.
func (m *APIModule) healthHandler(c *fiber.Ctx) error {
	return c.JSON(HealthResponse{
		Status: "healthy",
		Details: map[string]any{
			"module": "api",
		},
	})
}

// listTasks handles GET /tasks. The response is a bare JSON array of the
// owner's tasks, most recently created first.
func (m *APIModule) listTasks(c *fiber.Ctx) error {
	resp, err := m.taskAdapter.ListTasks(c.UserContext(), ownerID(c))
	if err != nil {
		return serverError(c)
	}

	out := make([]TaskResponse, 0, len(resp.Tasks))
	for _, t := range resp.Tasks {
		out = append(out, toHTTPTask(t))
	}
	return c.JSON(out)
}

// createTask handles POST /tasks.
func (m *APIModule) createTask(c *fiber.Ctx) error {
	var req CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Message: "invalid request body",
		})
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Message: "title is required",
		})
	}

	resp, err := m.taskAdapter.CreateTask(c.UserContext(), &task.CreateTaskRequest{
		OwnerID:     ownerID(c),
		Title:       title,
		Description: req.Description,
		DueAt:       req.DueAt,
	})
	if err != nil {
		return serverError(c)
	}

	return c.Status(fiber.StatusCreated).JSON(toHTTPTask(resp.Task))
}

// getTask handles GET /tasks/:id.
func (m *APIModule) getTask(c *fiber.Ctx) error {
	resp, err := m.taskAdapter.GetTask(c.UserContext(), ownerID(c), c.Params("id"))
	if err != nil {
		return serverError(c)
	}
	if !resp.Found {
		return notFound(c)
	}

	return c.JSON(toHTTPTask(*resp.Task))
}

// updateTask handles PUT /tasks/:id. The body carries the full mutable
// field set; partial patches are not supported.
func (m *APIModule) updateTask(c *fiber.Ctx) error {
	var req UpdateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Message: "invalid request body",
		})
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Message: "title is required",
		})
	}

	resp, err := m.taskAdapter.UpdateTask(c.UserContext(), &task.UpdateTaskRequest{
		OwnerID:     ownerID(c),
		TaskID:      c.Params("id"),
		Title:       title,
		Description: req.Description,
		IsCompleted: req.IsCompleted,
		DueAt:       req.DueAt,
	})
	if err != nil {
		return serverError(c)
	}
	if !resp.Found {
		return notFound(c)
	}

	return c.JSON(toHTTPTask(*resp.Task))
}

// deleteTask handles DELETE /tasks/:id. Deleting an id that does not exist
// for the owner is a 404, including on a repeated delete.
func (m *APIModule) deleteTask(c *fiber.Ctx) error {
	resp, err := m.taskAdapter.DeleteTask(c.UserContext(), ownerID(c), c.Params("id"))
	if err != nil {
		return serverError(c)
	}
	if !resp.Deleted {
		return notFound(c)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// notFound writes the 404 error body. The message never reveals whether
// the id exists for a different owner.
func notFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
		Message: "task not found",
	})
}

// serverError writes the 500 error body with a generic message; backend
// error details are never echoed to the client.
func serverError(c *fiber.Ctx) error {
	return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
		Message: "internal server error",
	})
}

// toHTTPTask converts a service-layer task to the HTTP representation.
func toHTTPTask(t task.TaskResponse) TaskResponse {
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
