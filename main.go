package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/example/task-api/modules/activity"
	"github.com/example/task-api/modules/api"
	"github.com/example/task-api/modules/auth"
	"github.com/example/task-api/modules/task"
	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"
)

const shutdownTimeout = 30 * time.Second

func main() {
	log.Println("=== Task API ===")

	// Create mono application
	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(shutdownTimeout),
		mono.WithLogLevel(mono.LogLevelInfo),
		mono.WithLogFormat(mono.LogFormatText),
	)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}

	// Register modules with the framework.
	// Order: independent modules first, then modules with dependencies.
	app.Register(auth.NewModule())     // Token verification (no dependencies)
	app.Register(activity.NewModule()) // Event consumer (subscribes to task events)
	app.Register(task.NewModule())     // Core domain (emits events)
	app.Register(api.NewModule())      // Driving adapter (depends on auth, task)

	// Start application
	if err := app.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	printStartupInfo()

	// Graceful shutdown
	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		shutdownTimeout,
		map[string]gfshutdown.Operation{
			"mono-app": func(ctx context.Context) error {
				log.Println("Graceful shutdown initiated...")
				return app.Stop(ctx)
			},
		},
	)

	exitCode := <-wait
	log.Printf("Application exited with code: %d", exitCode)
	os.Exit(exitCode)
}

func printStartupInfo() {
	log.Println("")
	log.Println("Application started successfully!")
	log.Println("")
	log.Println("REST API Endpoints (all /tasks routes require Authorization: Bearer <token>):")
	log.Println("  GET    /tasks      - List the caller's tasks")
	log.Println("  POST   /tasks      - Create a task")
	log.Println("  GET    /tasks/:id  - Get a task by ID")
	log.Println("  PUT    /tasks/:id  - Replace a task")
	log.Println("  DELETE /tasks/:id  - Delete a task")
	log.Println("  GET    /health     - Health check (public)")
	log.Println("")
	log.Println("Configuration (environment):")
	log.Println("  TASK_API_ADDR          - listen address (default :3000)")
	log.Println("  TASK_STORE             - storage backend: memory | sqlite (default memory)")
	log.Println("  TASK_DB_PATH           - SQLite file for the sqlite backend (default tasks.db)")
	log.Println("  TASK_CACHE_REDIS_ADDR  - enable the Redis list cache when set")
	log.Println("  AUTH_JWT_SECRET        - HS256 secret shared with the identity provider")
	log.Println("  AUTH_JWT_ISSUER        - expected token issuer (default task-api)")
	log.Println("")
	log.Println("Press Ctrl+C to shutdown gracefully")
}
