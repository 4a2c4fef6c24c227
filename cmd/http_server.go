package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/teampulse/attendance-points/internal"
	"github.com/teampulse/attendance-points/internal/attendance"
	attendancedb "github.com/teampulse/attendance-points/internal/attendance/postgres"
	"github.com/teampulse/attendance-points/internal/auth"
	authdb "github.com/teampulse/attendance-points/internal/auth/postgres"
	"github.com/teampulse/attendance-points/internal/core/events"
	"github.com/teampulse/attendance-points/internal/points"
	pointsdb "github.com/teampulse/attendance-points/internal/points/postgres"
	"github.com/teampulse/attendance-points/internal/status"
	statusdb "github.com/teampulse/attendance-points/internal/status/postgres"
	"github.com/teampulse/attendance-points/internal/transport/rest"
	"github.com/teampulse/attendance-points/internal/user"
	userdb "github.com/teampulse/attendance-points/internal/user/postgres"
	"github.com/teampulse/attendance-points/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config *internal.Config
	DB     *sqlx.DB
	GormDB *gorm.DB
	Router *chi.Mux
	Logger *slog.Logger

	AuthHandler       *auth.Handler
	UserHandler       *user.Handler
	AttendanceHandler *attendance.Handler
	StatusHandlers    rest.StatusHandlers
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	rest.RegisterAllRoutes(
		deps.Router,
		deps.DB.DB,
		deps.AuthHandler,
		deps.UserHandler,
		deps.AttendanceHandler,
		deps.StatusHandlers,
		deps.Config.Server.AllowedOrigins,
		deps.Logger,
	)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("received signal, shutting down", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("server shutdown error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			deps.Logger.Error("database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(config.Observability.Logging.Level, config.Observability.Logging.Format)
	appLogger := logger.L()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := initGorm(db)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize gorm: %w", err)
	}

	eventBus := events.NewEventBus(appLogger)
	registerAuditSubscriber(eventBus, appLogger)

	ledger := points.NewLedger(pointsdb.NewLedgerRepository(gormDB), eventBus, appLogger)

	tokenGen := auth.NewJWTTokenGenerator(
		config.Security.AccessTokenSecret,
		config.Security.RefreshTokenSecret,
		config.Security.AccessTokenDuration,
		config.Security.RefreshTokenDuration,
	)
	authService := auth.NewService(authdb.NewRepository(gormDB), tokenGen, config.Security.BCryptCost)
	authHandler := auth.NewHandler(authService)

	userService := user.NewService(userdb.NewUserRepository(gormDB), ledger, appLogger, config.Security.BCryptCost)
	userHandler := user.NewHandler(userService)

	attendanceService := attendance.NewService(attendancedb.NewAttendanceRepository(gormDB), ledger, appLogger)
	attendanceHandler := attendance.NewHandler(attendanceService)

	statusService := status.NewService(statusdb.NewStatusRepository(gormDB), eventBus, appLogger)
	statusHandlers := rest.StatusHandlers{
		Breaks:   status.NewHandler(statusService, points.CategoryBreak),
		Meetings: status.NewHandler(statusService, points.CategoryMeeting),
		Projects: status.NewHandler(statusService, points.CategoryProject),
	}

	return &Dependencies{
		Config: config,
		Logger: appLogger,
		DB:     db,
		GormDB: gormDB,
		Router: chi.NewRouter(),

		AuthHandler:       authHandler,
		UserHandler:       userHandler,
		AttendanceHandler: attendanceHandler,
		StatusHandlers:    statusHandlers,
	}, nil
}

// registerAuditSubscriber logs every points adjustment so balances stay
// explainable after the fact.
func registerAuditSubscriber(bus *events.EventBus, lg *slog.Logger) {
	bus.Subscribe(events.EventTypePointsAdjusted, func(ctx context.Context, event events.Event) error {
		lg.Info("points adjusted",
			"event_id", event.EventID(),
			"occurred_at", event.OccurredAt(),
			"payload", event.Payload())
		return nil
	})
}

// initDB initializes the database connection
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}

// initGorm wraps the existing connection pool so gorm and sqlx share it.
func initGorm(db *sqlx.DB) (*gorm.DB, error) {
	return gorm.Open(gormpostgres.New(gormpostgres.Config{
		Conn: db.DB,
	}), &gorm.Config{})
}
