package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/example/task-api/modules/auth"
	"github.com/example/task-api/modules/task"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTaskPort is an in-memory TaskPort with the same per-owner
// partitioning and Found/Deleted semantics as the task module.
type fakeTaskPort struct {
	mu          sync.Mutex
	tasks       map[string]map[string]task.TaskResponse
	createCalls int
	updateCalls int
}

func newFakeTaskPort() *fakeTaskPort {
	return &fakeTaskPort{tasks: make(map[string]map[string]task.TaskResponse)}
}

func (p *fakeTaskPort) CreateTask(_ context.Context, req *task.CreateTaskRequest) (*task.CreateTaskResponse, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.createCalls++

	now := time.Now().UTC()
	t := task.TaskResponse{
		ID:          uuid.New().String(),
		Title:       req.Title,
		Description: req.Description,
		DueAt:       req.DueAt,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if p.tasks[req.OwnerID] == nil {
		p.tasks[req.OwnerID] = make(map[string]task.TaskResponse)
	}
	p.tasks[req.OwnerID][t.ID] = t
	return &task.CreateTaskResponse{Task: t}, nil
}

func (p *fakeTaskPort) GetTask(_ context.Context, ownerID, taskID string) (*task.GetTaskResponse, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	t, ok := p.tasks[ownerID][taskID]
	if !ok {
		return &task.GetTaskResponse{Found: false}, nil
	}
	return &task.GetTaskResponse{Task: &t, Found: true}, nil
}

func (p *fakeTaskPort) UpdateTask(_ context.Context, req *task.UpdateTaskRequest) (*task.UpdateTaskResponse, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.updateCalls++

	existing, ok := p.tasks[req.OwnerID][req.TaskID]
	if !ok {
		return &task.UpdateTaskResponse{Found: false}, nil
	}
	existing.Title = req.Title
	existing.Description = req.Description
	existing.IsCompleted = req.IsCompleted
	existing.DueAt = req.DueAt
	existing.UpdatedAt = time.Now().UTC()
	p.tasks[req.OwnerID][req.TaskID] = existing
	return &task.UpdateTaskResponse{Task: &existing, Found: true}, nil
}

func (p *fakeTaskPort) DeleteTask(_ context.Context, ownerID, taskID string) (*task.DeleteTaskResponse, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.tasks[ownerID][taskID]; !ok {
		return &task.DeleteTaskResponse{Deleted: false}, nil
	}
	delete(p.tasks[ownerID], taskID)
	return &task.DeleteTaskResponse{Deleted: true}, nil
}

func (p *fakeTaskPort) ListTasks(_ context.Context, ownerID string) (*task.ListTasksResponse, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]task.TaskResponse, 0, len(p.tasks[ownerID]))
	for _, t := range p.tasks[ownerID] {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return &task.ListTasksResponse{Tasks: out, Total: len(out)}, nil
}

var _ task.TaskPort = (*fakeTaskPort)(nil)

// tokenMapAuthPort resolves each known token to its owner.
type tokenMapAuthPort struct {
	owners map[string]string
}

func (p *tokenMapAuthPort) VerifyToken(_ context.Context, token string) (string, error) {
	owner, ok := p.owners[token]
	if !ok {
		return "", fmt.Errorf("%w: invalid token", auth.ErrUnauthorized)
	}
	return owner, nil
}

func newHandlerTestApp() (*fiber.App, *fakeTaskPort) {
	port := newFakeTaskPort()
	m := &APIModule{
		authAdapter: &tokenMapAuthPort{owners: map[string]string{
			"alice-token": "alice",
			"bob-token":   "bob",
		}},
		taskAdapter: port,
	}
	m.app = fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})
	m.setupRoutes()
	return m.app, port
}

// doJSON performs a request against the test app and returns the status
// code and response body.
func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) (int, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, raw
}

func TestCreateTask_Created(t *testing.T) {
	app, _ := newHandlerTestApp()

	code, raw := doJSON(t, app, "POST", "/tasks", "alice-token", fiber.Map{
		"title":       "  Buy milk  ",
		"description": "2 liters",
	})
	require.Equal(t, fiber.StatusCreated, code)

	var got TaskResponse
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.NotEmpty(t, got.ID)
	assert.Equal(t, "Buy milk", got.Title, "title must be stored trimmed")
	assert.Equal(t, "2 liters", got.Description)
	assert.False(t, got.IsCompleted)
	assert.Equal(t, got.CreatedAt, got.UpdatedAt)
}

func TestCreateTask_BlankTitleRejected(t *testing.T) {
	app, port := newHandlerTestApp()

	for _, title := range []string{"", "   "} {
		code, raw := doJSON(t, app, "POST", "/tasks", "alice-token", fiber.Map{"title": title})
		require.Equal(t, fiber.StatusBadRequest, code)

		var body ErrorResponse
		require.NoError(t, json.Unmarshal(raw, &body))
		assert.Equal(t, "title is required", body.Message)
	}
	assert.Zero(t, port.createCalls, "rejected creates must not reach the domain")
}

func TestCreateTask_MalformedBody(t *testing.T) {
	app, port := newHandlerTestApp()

	req := httptest.NewRequest("POST", "/tasks", bytes.NewReader([]byte(`{"title": "x", "dueAt": "not-a-date"}`)))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer alice-token")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Zero(t, port.createCalls)
}

func TestGetTask_NotFound(t *testing.T) {
	app, _ := newHandlerTestApp()

	code, raw := doJSON(t, app, "GET", "/tasks/no-such-id", "alice-token", nil)
	require.Equal(t, fiber.StatusNotFound, code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, "task not found", body.Message)
}

func TestUpdateTask_RoundTrip(t *testing.T) {
	app, _ := newHandlerTestApp()

	_, raw := doJSON(t, app, "POST", "/tasks", "alice-token", fiber.Map{"title": "Buy milk"})
	var created TaskResponse
	require.NoError(t, json.Unmarshal(raw, &created))

	code, raw := doJSON(t, app, "PUT", "/tasks/"+created.ID, "alice-token", fiber.Map{
		"title":       "Buy oat milk",
		"isCompleted": true,
	})
	require.Equal(t, fiber.StatusOK, code)

	var updated TaskResponse
	require.NoError(t, json.Unmarshal(raw, &updated))
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Buy oat milk", updated.Title)
	assert.True(t, updated.IsCompleted)
	assert.Empty(t, updated.Description, "update is a full replacement")
}

func TestUpdateTask_UnknownID(t *testing.T) {
	app, _ := newHandlerTestApp()

	code, _ := doJSON(t, app, "PUT", "/tasks/no-such-id", "alice-token", fiber.Map{"title": "ghost"})
	assert.Equal(t, fiber.StatusNotFound, code)
}

func TestUpdateTask_BlankTitleRejected(t *testing.T) {
	app, port := newHandlerTestApp()

	_, raw := doJSON(t, app, "POST", "/tasks", "alice-token", fiber.Map{"title": "Buy milk"})
	var created TaskResponse
	require.NoError(t, json.Unmarshal(raw, &created))

	code, _ := doJSON(t, app, "PUT", "/tasks/"+created.ID, "alice-token", fiber.Map{"title": "  "})
	assert.Equal(t, fiber.StatusBadRequest, code)
	assert.Zero(t, port.updateCalls, "rejected updates must not reach the domain")
}

func TestDeleteTask_Idempotence(t *testing.T) {
	app, _ := newHandlerTestApp()

	_, raw := doJSON(t, app, "POST", "/tasks", "alice-token", fiber.Map{"title": "temp"})
	var created TaskResponse
	require.NoError(t, json.Unmarshal(raw, &created))

	code, _ := doJSON(t, app, "DELETE", "/tasks/"+created.ID, "alice-token", nil)
	assert.Equal(t, fiber.StatusNoContent, code)

	// Repeating the delete is a 404, not an error.
	code, _ = doJSON(t, app, "DELETE", "/tasks/"+created.ID, "alice-token", nil)
	assert.Equal(t, fiber.StatusNotFound, code)
}

func TestListTasks_RequiresAuth(t *testing.T) {
	app, _ := newHandlerTestApp()

	code, raw := doJSON(t, app, "GET", "/tasks", "", nil)
	require.Equal(t, fiber.StatusUnauthorized, code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.NotEmpty(t, body.Message)
}

func TestTasks_OwnerIsolation(t *testing.T) {
	app, _ := newHandlerTestApp()

	_, raw := doJSON(t, app, "POST", "/tasks", "alice-token", fiber.Map{"title": "hers"})
	var hers TaskResponse
	require.NoError(t, json.Unmarshal(raw, &hers))

	_, _ = doJSON(t, app, "POST", "/tasks", "bob-token", fiber.Map{"title": "his"})

	// Each owner lists only their own tasks.
	code, raw := doJSON(t, app, "GET", "/tasks", "alice-token", nil)
	require.Equal(t, fiber.StatusOK, code)

	var aliceTasks []TaskResponse
	require.NoError(t, json.Unmarshal(raw, &aliceTasks))
	require.Len(t, aliceTasks, 1)
	assert.Equal(t, "hers", aliceTasks[0].Title)

	// Bob cannot reach alice's task by id.
	code, _ = doJSON(t, app, "GET", "/tasks/"+hers.ID, "bob-token", nil)
	assert.Equal(t, fiber.StatusNotFound, code)

	code, _ = doJSON(t, app, "DELETE", "/tasks/"+hers.ID, "bob-token", nil)
	assert.Equal(t, fiber.StatusNotFound, code)
}

func TestHealth_Public(t *testing.T) {
	app, _ := newHandlerTestApp()

	code, raw := doJSON(t, app, "GET", "/health", "", nil)
	require.Equal(t, fiber.StatusOK, code)

	var body HealthResponse
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, "healthy", body.Status)
}
