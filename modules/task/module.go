package task

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/example/task-api/events"
	"github.com/example/task-api/modules/cache"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const listCacheTTL = 5 * time.Minute

// TaskModule is the core domain module. It selects a storage backend at
// startup (in-memory or SQLite, optionally wrapped by a Redis list cache)
// and exposes the task operations as request-reply services.
type TaskModule struct {
	store    Store
	eventBus mono.EventBus

	storeKind string
	dbPath    string
	cacheAddr string

	db          *gorm.DB
	redisClient *redis.Client
}

// Compile-time interface checks.
var _ mono.Module = (*TaskModule)(nil)
var _ mono.ServiceProviderModule = (*TaskModule)(nil)
var _ mono.EventEmitterModule = (*TaskModule)(nil)
var _ mono.HealthCheckableModule = (*TaskModule)(nil)

// NewModule creates a new TaskModule configured from the environment:
// TASK_STORE selects the backend ("memory" or "sqlite"), TASK_DB_PATH the
// SQLite file, and TASK_CACHE_REDIS_ADDR enables the list cache when set.
func NewModule() *TaskModule {
	storeKind := os.Getenv("TASK_STORE")
	if storeKind == "" {
		storeKind = "memory"
	}
	dbPath := os.Getenv("TASK_DB_PATH")
	if dbPath == "" {
		dbPath = "tasks.db"
	}
	return &TaskModule{
		storeKind: storeKind,
		dbPath:    dbPath,
		cacheAddr: os.Getenv("TASK_CACHE_REDIS_ADDR"),
	}
}

// NewModuleWithStore creates a new TaskModule with an explicit store,
// bypassing backend selection. Used by tests.
func NewModuleWithStore(store Store) *TaskModule {
	return &TaskModule{store: store, storeKind: "custom"}
}

// Name returns the module name.
func (m *TaskModule) Name() string {
	return "task"
}

// SetEventBus receives the application event bus from the framework.
func (m *TaskModule) SetEventBus(bus mono.EventBus) {
	m.eventBus = bus
}

// EmitEvents declares the events this module publishes.
func (m *TaskModule) EmitEvents() []mono.BaseEventDefinition {
	return []mono.BaseEventDefinition{
		events.TaskCreatedV1.ToBase(),
		events.TaskUpdatedV1.ToBase(),
		events.TaskDeletedV1.ToBase(),
	}
}

// RegisterServices registers request-reply services in the service container.
func (m *TaskModule) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "create-task", json.Unmarshal, json.Marshal, m.createTask,
	); err != nil {
		return fmt.Errorf("failed to register create-task service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "get-task", json.Unmarshal, json.Marshal, m.getTask,
	); err != nil {
		return fmt.Errorf("failed to register get-task service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "update-task", json.Unmarshal, json.Marshal, m.updateTask,
	); err != nil {
		return fmt.Errorf("failed to register update-task service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "delete-task", json.Unmarshal, json.Marshal, m.deleteTask,
	); err != nil {
		return fmt.Errorf("failed to register delete-task service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "list-tasks", json.Unmarshal, json.Marshal, m.listTasks,
	); err != nil {
		return fmt.Errorf("failed to register list-tasks service: %w", err)
	}

	log.Printf("[task] Registered services: create-task, get-task, update-task, delete-task, list-tasks")
	return nil
}

// Start selects and initializes the storage backend.
func (m *TaskModule) Start(ctx context.Context) error {
	if m.store == nil {
		if err := m.openStore(); err != nil {
			return err
		}
	}

	if m.cacheAddr != "" {
		if err := m.wrapWithCache(ctx); err != nil {
			return err
		}
	}

	log.Printf("[task] Module started (store: %s)", m.storeKind)
	return nil
}

func (m *TaskModule) openStore() error {
	switch m.storeKind {
	case "memory":
		m.store = NewMemoryStore()
	case "sqlite":
		db, err := gorm.Open(sqlite.Open(m.dbPath), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		})
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		m.db = db

		store := NewGormStore(db)
		if err := store.Migrate(); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
		m.store = store
		log.Printf("[task] Using SQLite store (database: %s)", m.dbPath)
	default:
		return fmt.Errorf("unknown store kind: %q", m.storeKind)
	}
	return nil
}

func (m *TaskModule) wrapWithCache(ctx context.Context) error {
	m.redisClient = redis.NewClient(&redis.Options{
		Addr:         m.cacheAddr,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	if err := m.redisClient.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	m.store = NewCachedStore(m.store, cache.New(m.redisClient, "tasks:", listCacheTTL))
	log.Printf("[task] List cache enabled (redis: %s, TTL: %s)", m.cacheAddr, listCacheTTL)
	return nil
}

// Stop shuts down the module and closes backend connections.
func (m *TaskModule) Stop(_ context.Context) error {
	if m.redisClient != nil {
		if err := m.redisClient.Close(); err != nil {
			log.Printf("[task] Error closing Redis connection: %v", err)
		}
	}
	if m.db != nil {
		sqlDB, err := m.db.DB()
		if err == nil {
			sqlDB.Close()
		}
	}
	log.Println("[task] Module stopped")
	return nil
}

// Health returns the health status of the module.
func (m *TaskModule) Health(ctx context.Context) mono.HealthStatus {
	if m.store == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "store not initialized",
		}
	}

	if m.db != nil {
		sqlDB, err := m.db.DB()
		if err != nil {
			return mono.HealthStatus{
				Healthy: false,
				Message: fmt.Sprintf("failed to get database connection: %v", err),
			}
		}
		if err := sqlDB.PingContext(ctx); err != nil {
			return mono.HealthStatus{
				Healthy: false,
				Message: fmt.Sprintf("database ping failed: %v", err),
			}
		}
	}

	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"store": m.storeKind,
		},
	}
}
