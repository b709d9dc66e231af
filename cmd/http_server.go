package cmd

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/frahmantamala/jinzai/internal"
	"github.com/frahmantamala/jinzai/internal/admin"
	"github.com/frahmantamala/jinzai/internal/api"
	"github.com/frahmantamala/jinzai/internal/auth"
	"github.com/frahmantamala/jinzai/internal/dashboard"
	"github.com/frahmantamala/jinzai/internal/leave"
	"github.com/frahmantamala/jinzai/internal/nav"
	"github.com/frahmantamala/jinzai/internal/session"
	sessionpg "github.com/frahmantamala/jinzai/internal/session/postgres"
	"github.com/frahmantamala/jinzai/internal/transport"
	"github.com/frahmantamala/jinzai/internal/transport/rest"
	"github.com/frahmantamala/jinzai/internal/view"
	"github.com/frahmantamala/jinzai/internal/wfh"
	"github.com/frahmantamala/jinzai/pkg/logger"
)

const sessionSweepInterval = 10 * time.Minute

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server that serves the Jinzai pages`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config  *internal.Config
	DB      *sqlx.DB
	Router  *chi.Mux
	Logger  *slog.Logger
	Workers []func(ctx context.Context)
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("Starting HTTP server", "address", addr, "backend", deps.Config.API.BaseURL)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()
	for _, work := range deps.Workers {
		go work(workerCtx)
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
		deps.Logger.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("Server shutdown error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			deps.Logger.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	stopWorkers()
	if deps.DB != nil {
		if err := deps.DB.Close(); err != nil {
			deps.Logger.Error("Database close error", "error", err)
		}
	}
	deps.Logger.Info("Server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config := mustLoadConfig()
	lg := logger.LoggerWrapper()

	deps := &Dependencies{Config: config, Logger: lg, Router: chi.NewRouter()}

	cookieOpts := session.CookieOptions{
		Name:   config.Session.CookieName,
		MaxAge: config.Session.MaxAge,
		Secure: config.Session.Secure,
	}

	var store session.Store
	switch config.Session.Driver {
	case internal.SessionDriverPostgres:
		db, err := initDB(config.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db.DB}), &gorm.Config{})
		if err != nil {
			return nil, fmt.Errorf("failed to open gorm: %w", err)
		}
		dbStore := session.NewDBStore(sessionpg.NewSessionRepository(gormDB), cookieOpts, lg)
		deps.DB = db
		deps.Workers = append(deps.Workers, func(ctx context.Context) {
			sweepSessions(ctx, dbStore, lg)
		})
		store = dbStore
	default:
		store = session.NewCookieStore(config.Session.Secret, cookieOpts, lg)
	}

	views, err := view.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	apiCfg := api.Config{BaseURL: config.API.BaseURL, Timeout: config.API.Timeout}
	if config.API.ValidateRequests {
		contract, err := api.NewContractTransport(config.API.BaseURL, http.DefaultTransport)
		if err != nil {
			return nil, fmt.Errorf("failed to load api contract: %w", err)
		}
		apiCfg.Transport = contract
	}
	client := api.NewClient(apiCfg, api.TokenSourceFunc(session.TokenFromContext), lg)

	base := transport.NewBaseHandler(lg, views, store)

	adminScreens := admin.NewRegistry()
	navShells := nav.NewRegistry()
	base.OnSessionEnd(adminScreens.Drop)
	base.OnSessionEnd(navShells.Drop)

	idle := config.Session.ScreenIdleTTL
	deps.Workers = append(deps.Workers,
		func(ctx context.Context) { adminScreens.Run(ctx, idle/2, idle) },
		func(ctx context.Context) { navShells.Run(ctx, idle/2, idle) },
	)

	var sqlDB *sql.DB
	if deps.DB != nil {
		sqlDB = deps.DB.DB
	}

	rest.RegisterAllRoutes(deps.Router, sqlDB, rest.Handlers{
		Auth:      auth.NewHandler(base, auth.NewService(client, lg)),
		Guard:     auth.NewGuard(base),
		Nav:       nav.NewHandler(navShells, lg),
		Dashboard: dashboard.NewHandler(base, dashboard.NewService(client, lg)),
		Leave:     leave.NewHandler(base, leave.NewService(client, lg)),
		WFH:       wfh.NewHandler(base, wfh.NewService(client, lg)),
		Admin:     admin.NewHandler(base, admin.NewService(client, lg), adminScreens),
	}, lg)

	return deps, nil
}

func sweepSessions(ctx context.Context, store *session.DBStore, lg *slog.Logger) {
	ticker := time.NewTicker(sessionSweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := store.Sweep(ctx); err != nil && ctx.Err() == nil {
				lg.Error("failed to sweep sessions", "error", err)
			}
		}
	}
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

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}
