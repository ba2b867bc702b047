package activity

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/example/task-api/events"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// maxEntries bounds the in-memory feed; older entries are dropped.
const maxEntries = 100

// Entry is a single recorded task mutation.
type Entry struct {
	TaskID  string    `json:"taskId"`
	OwnerID string    `json:"ownerId"`
	Action  string    `json:"action"`
	Detail  string    `json:"detail,omitempty"`
	At      time.Time `json:"at"`
}

// ActivityModule is a driven adapter: it subscribes to task domain events
// and records a bounded in-memory feed of recent mutations.
type ActivityModule struct {
	mu      sync.RWMutex
	entries []Entry
}

var _ mono.Module = (*ActivityModule)(nil)
var _ mono.EventConsumerModule = (*ActivityModule)(nil)

// NewModule creates a new ActivityModule.
func NewModule() *ActivityModule {
	return &ActivityModule{
		entries: make([]Entry, 0, maxEntries),
	}
}

// Name returns the module name.
func (m *ActivityModule) Name() string {
	return "activity"
}

// RegisterEventConsumers subscribes to the task domain events.
func (m *ActivityModule) RegisterEventConsumers(registry mono.EventRegistry) error {
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskCreatedV1, m.handleTaskCreated, m); err != nil {
		return fmt.Errorf("failed to register TaskCreated consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskUpdatedV1, m.handleTaskUpdated, m); err != nil {
		return fmt.Errorf("failed to register TaskUpdated consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskDeletedV1, m.handleTaskDeleted, m); err != nil {
		return fmt.Errorf("failed to register TaskDeleted consumer: %w", err)
	}

	log.Printf("[activity] Registered event consumers: TaskCreated, TaskUpdated, TaskDeleted")
	return nil
}

func (m *ActivityModule) handleTaskCreated(_ context.Context, event events.TaskCreatedEvent, _ *mono.Msg) error {
	log.Printf("[activity] Task created: %s (%s)", event.TaskID, event.Title)
	m.record(Entry{
		TaskID:  event.TaskID,
		OwnerID: event.OwnerID,
		Action:  "created",
		Detail:  event.Title,
		At:      event.CreatedAt,
	})
	return nil
}

func (m *ActivityModule) handleTaskUpdated(_ context.Context, event events.TaskUpdatedEvent, _ *mono.Msg) error {
	log.Printf("[activity] Task updated: %s (completed=%v)", event.TaskID, event.IsCompleted)
	m.record(Entry{
		TaskID:  event.TaskID,
		OwnerID: event.OwnerID,
		Action:  "updated",
		Detail:  event.Title,
		At:      event.UpdatedAt,
	})
	return nil
}

func (m *ActivityModule) handleTaskDeleted(_ context.Context, event events.TaskDeletedEvent, _ *mono.Msg) error {
	log.Printf("[activity] Task deleted: %s", event.TaskID)
	m.record(Entry{
		TaskID:  event.TaskID,
		OwnerID: event.OwnerID,
		Action:  "deleted",
		At:      event.DeletedAt,
	})
	return nil
}

func (m *ActivityModule) record(e Entry) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = append(m.entries, e)
	if len(m.entries) > maxEntries {
		m.entries = m.entries[len(m.entries)-maxEntries:]
	}
}

// Recent returns a copy of the recorded entries, oldest first.
func (m *ActivityModule) Recent() []Entry {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Entry, len(m.entries))
	copy(out, m.entries)
	return out
}

// Start initializes the module.
func (m *ActivityModule) Start(_ context.Context) error {
	log.Println("[activity] Module started - listening for task events")
	return nil
}

// Stop shuts down the module.
func (m *ActivityModule) Stop(_ context.Context) error {
	log.Println("[activity] Module stopped")
	return nil
}
