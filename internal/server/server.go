package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/yigit/collabhub/internal/bootstrap"
	"github.com/yigit/collabhub/internal/config"
	"github.com/yigit/collabhub/internal/db"
	"github.com/yigit/collabhub/internal/pkg/helpers"
	"github.com/yigit/collabhub/internal/scheduler"
)

// Server holds the state for the HTTP server.
type Server struct {
	config    *config.Config
	router    *gin.Engine
	database  *db.PostgresDB
	deps      *bootstrap.Dependencies
	scheduler *scheduler.Manager
	logger    zerolog.Logger
	http      *http.Server
}

// Options tune server startup
type Options struct {
	ConfigPath string
	// Migrate applies pending migrations before serving
	Migrate bool
}

// NewServer creates and initializes a new server instance by calling bootstrap functions.
func NewServer(ctx context.Context, opts Options) (*Server, error) {
	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config or setup logger: %w", err)
	}

	database, err := bootstrap.SetupDatabase(cfg, lgr)
	if err != nil {
		return nil, fmt.Errorf("failed to setup database: %w", err)
	}

	if opts.Migrate {
		if err := bootstrap.RunMigrations(ctx, cfg, database, lgr); err != nil {
			database.Close()
			return nil, err
		}
	}

	deps := bootstrap.BuildDependencies(cfg, database, lgr)

	router, err := bootstrap.SetupRouter(cfg, deps, lgr)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to setup router: %w", err)
	}

	s := &Server{
		config:   cfg,
		router:   router,
		database: database,
		deps:     deps,
		logger:   lgr,
	}

	if cfg.Reconcile.Enabled {
		if s.scheduler, err = newScheduler(cfg, deps, lgr); err != nil {
			database.Close()
			return nil, err
		}
	}

	return s, nil
}

func newScheduler(cfg *config.Config, deps *bootstrap.Dependencies, lgr zerolog.Logger) (*scheduler.Manager, error) {
	manager, err := scheduler.NewManager(lgr.With().Str("component", "scheduler").Logger())
	if err != nil {
		return nil, err
	}

	interval := helpers.ParseDuration(cfg.Reconcile.Interval, 5*time.Minute)
	if err := manager.Register(scheduler.NewReconcileJob(deps.ReconciliationService, interval, lgr)); err != nil {
		return nil, err
	}
	return manager, nil
}

// Run starts the HTTP server and background workers and blocks until ctx is
// cancelled or SIGINT/SIGTERM is received, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	s.http = &http.Server{
		Addr:         ":" + s.config.Server.Port,
		Handler:      s.router,
		ReadTimeout:  helpers.ParseDuration(s.config.Server.ReadTimeout, 10*time.Second),
		WriteTimeout: helpers.ParseDuration(s.config.Server.WriteTimeout, 10*time.Second),
		IdleTimeout:  120 * time.Second,
	}

	hubCtx, stopHub := context.WithCancel(context.Background())
	defer stopHub()
	go s.deps.Hub.Run(hubCtx)

	if s.scheduler != nil {
		s.scheduler.Start()
	}

	// Channel to listen for errors starting the server
	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info().Str("addr", s.http.Addr).Msg("HTTP server listening")
		serverErrors <- s.http.ListenAndServe()
	}()

	var runErr error
	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			runErr = fmt.Errorf("error starting server: %w", err)
		}
	case <-ctx.Done():
		s.logger.Info().Msg("Shutdown requested, stopping server...")
	}

	stopHub()
	if err := s.Shutdown(context.Background()); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}

// Shutdown gracefully stops the server and closes resources.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	shutdownError := false

	if s.http != nil {
		s.logger.Info().Msg("Shutting down HTTP server...")
		if err := s.http.Shutdown(ctx); err != nil {
			s.logger.Error().Err(err).Msg("HTTP server shutdown error")
			shutdownError = true
		} else {
			s.logger.Info().Msg("HTTP server gracefully stopped.")
		}
	}

	if s.scheduler != nil {
		s.scheduler.Stop()
	}

	if s.database != nil {
		s.logger.Info().Msg("Closing database connection pool...")
		s.database.Close()
	}

	s.logger.Info().Msg("Server shutdown process complete.")
	if shutdownError {
		return errors.New("server shutdown completed with errors")
	}
	return nil
}
