// internal/app.go
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/robfig/cron/v3"

	router "points-ledger/internal/api"
	"points-ledger/internal/api/handler"
	"points-ledger/internal/config"
	"points-ledger/internal/presence"
	"points-ledger/internal/repository"
	"points-ledger/internal/repository/postgres"
	"points-ledger/internal/service"
	"points-ledger/internal/util"
	"points-ledger/pkg/db"
)

// Application holds all the initialized components of the application.
type Application struct {
	Config *config.AppConfig
	Logger *slog.Logger
	DB     *sqlx.DB

	// Repositories
	UserRepository           repository.UserRepository
	TransactionRepository    repository.TransactionRepository
	WithdrawMethodRepository repository.WithdrawMethodRepository

	// Services
	LedgerService service.LedgerService
	ReviewService service.ReviewService

	// Presence
	Presence *presence.Tracker
	cron     *cron.Cron

	// HTTP API
	HTTPHandler http.Handler
}

// NewApplication creates a new Application instance.
func NewApplication() *Application {
	return &Application{}
}

// Initialize initializes all application components.
func (app *Application) Initialize(ctx context.Context) error {
	// 1. Initialize Logger
	util.InitLogger()
	app.Logger = util.GetLogger()

	// 2. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	app.Config = cfg
	app.Logger.Info("Application configuration loaded successfully.")

	// 3. Connect to Database
	database, err := db.NewPostgresDB(app.Config.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = database
	app.Logger.Info("Database connection established.")

	// 4. Initialize Repositories
	app.UserRepository = postgres.NewUserRepository(app.DB)
	app.TransactionRepository = postgres.NewTransactionRepository(app.DB)
	app.WithdrawMethodRepository = postgres.NewWithdrawMethodRepository(app.DB)
	app.Logger.Info("Repositories initialized.")

	// 5. Initialize Services
	app.LedgerService = service.NewLedgerService(
		app.DB, // DBTxBeginner
		app.DB, // DBExecutor
		app.UserRepository,
		app.TransactionRepository,
		app.WithdrawMethodRepository,
		db.BeginTx,
		db.CommitTx,
		db.RollbackTx,
	)
	app.ReviewService = service.NewReviewService(
		app.DB,
		app.DB,
		app.UserRepository,
		app.TransactionRepository,
		db.BeginTx,
		db.CommitTx,
		db.RollbackTx,
	)
	app.Logger.Info("Services initialized.")

	// 6. Presence tracker and its periodic sweep
	app.Presence = presence.NewTracker(app.Config.PresenceTTL)
	app.cron = cron.New()
	_, err = app.cron.AddFunc(fmt.Sprintf("@every %s", app.Config.PresenceSweepInterval), func() {
		if removed := app.Presence.Sweep(time.Now().UTC()); removed > 0 {
			app.Logger.Info("Presence sweep expired entries", "removed", removed)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule presence sweep: %w", err)
	}
	app.cron.Start()
	app.Logger.Info("Presence tracker started.",
		"ttl", app.Config.PresenceTTL, "sweep_interval", app.Config.PresenceSweepInterval)

	// 7. Initialize HTTP Handlers and Router
	transactionHandler := handler.NewTransactionHandler(app.LedgerService, app.ReviewService, app.Logger)
	accountHandler := handler.NewAccountHandler(app.LedgerService, app.Presence, app.Logger)
	presenceHandler := handler.NewPresenceHandler(app.Presence, app.Logger)
	app.HTTPHandler = router.NewRouter(transactionHandler, accountHandler, presenceHandler, app.Logger)
	app.Logger.Info("HTTP router and handlers initialized.")

	return nil
}

// Shutdown gracefully shuts down application resources.
func (app *Application) Shutdown(ctx context.Context) error {
	app.Logger.Info("Shutting down application...")
	if app.cron != nil {
		cronCtx := app.cron.Stop()
		select {
		case <-cronCtx.Done():
		case <-ctx.Done():
		}
		app.Logger.Info("Presence sweep stopped.")
	}
	if app.DB != nil {
		if err := app.DB.Close(); err != nil {
			app.Logger.Error("Failed to close database connection", "error", err)
			return fmt.Errorf("failed to close database connection: %w", err)
		}
		app.Logger.Info("Database connection closed.")
	}
	app.Logger.Info("Application shut down gracefully.")
	return nil
}
