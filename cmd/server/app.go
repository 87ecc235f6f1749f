package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/parafreq/parafreq-api/internal/config"
	"github.com/parafreq/parafreq-api/internal/events"
	"github.com/parafreq/parafreq-api/internal/platform/postgres"
	"github.com/parafreq/parafreq-api/internal/service"
	"github.com/parafreq/parafreq-api/internal/service/auth"
	"github.com/parafreq/parafreq-api/internal/store"
	"github.com/parafreq/parafreq-api/internal/task"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	// Stores
	userStore      store.UserStore
	paragraphStore store.ParagraphStore
	frequencyStore store.WordFrequencyStore
	taskStore      task.TaskStore

	// Services
	jwtService       auth.JWTService
	passwordVerifier auth.PasswordVerifier
	indexerService   *service.FrequencyIndexerService
	paragraphService service.ParagraphService

	// Event system
	eventEmitter events.EventEmitter

	// Task handling
	taskRunner *task.TaskRunner
}

// newApplication creates a new application instance with all
// dependencies initialized. It accepts core dependencies that must be
// established before application wiring: configuration, logger and an
// open database connection.
func newApplication(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	db *sql.DB,
) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	app.passwordVerifier = auth.NewBcryptVerifier()

	lockout := postgres.LockoutPolicy{
		MaxAttempts:  cfg.Auth.MaxLoginAttempts,
		LockDuration: time.Duration(cfg.Auth.LockoutDurationMinutes) * time.Minute,
	}
	app.userStore = postgres.NewPostgresUserStore(db, cfg.Auth.BcryptCost, lockout, logger)
	app.paragraphStore = postgres.NewPostgresParagraphStore(db, logger)
	app.frequencyStore = postgres.NewPostgresWordFrequencyStore(db, logger)
	app.taskStore = postgres.NewPostgresTaskStore(db)

	app.indexerService, err = service.NewFrequencyIndexerService(
		db,
		app.paragraphStore,
		app.frequencyStore,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create frequency indexer: %w", err)
	}

	retry := task.RetryPolicy{
		MaxRetries:    cfg.Task.MaxRetries,
		NotFoundDelay: time.Duration(cfg.Task.NotFoundRetryDelaySeconds) * time.Second,
		FailureDelay:  time.Duration(cfg.Task.FailureRetryDelaySeconds) * time.Second,
	}
	taskFactory, err := task.NewFrequencyTaskFactory(app.indexerService, retry, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create task factory: %w", err)
	}

	app.taskRunner, err = setupTaskRunner(app, taskFactory)
	if err != nil {
		return nil, fmt.Errorf("failed to setup task runner: %w", err)
	}

	emitter := events.NewInMemoryEventEmitter(logger)
	emitter.RegisterHandler(task.NewTaskFactoryEventHandler(taskFactory, app.taskRunner, logger))
	app.eventEmitter = emitter

	paragraphRepo := service.NewParagraphRepositoryAdapter(app.paragraphStore, db)
	app.paragraphService, err = service.NewParagraphService(
		paragraphRepo,
		app.frequencyStore,
		app.eventEmitter,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create paragraph service: %w", err)
	}

	logger.Info("application initialized successfully")
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// setupTaskRunner initializes and starts the background task processor.
// Start requeues any tasks that were pending or interrupted when the
// previous process stopped.
func setupTaskRunner(app *application, hydrator task.Hydrator) (*task.TaskRunner, error) {
	taskRunner := task.NewTaskRunner(app.taskStore, hydrator, task.TaskRunnerConfig{
		QueueSize:    app.config.Task.QueueSize,
		WorkerCount:  app.config.Task.WorkerCount,
		StuckTaskAge: time.Duration(app.config.Task.StuckTaskAgeMinutes) * time.Minute,
	}, app.logger)

	if err := taskRunner.Start(); err != nil {
		return nil, fmt.Errorf("failed to start task runner: %w", err)
	}

	return taskRunner, nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.taskRunner != nil {
		app.taskRunner.Stop()
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", "error", err)
		}
	}

	app.logger.Info("application shutdown completed")
}
