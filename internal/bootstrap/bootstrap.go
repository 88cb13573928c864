package bootstrap

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appAuth "github.com/yigit/collabhub/internal/app/auth"
	appControllers "github.com/yigit/collabhub/internal/app/controllers"
	appMigrations "github.com/yigit/collabhub/internal/app/migrations"
	appRepos "github.com/yigit/collabhub/internal/app/repositories"
	appRoutes "github.com/yigit/collabhub/internal/app/routes"
	appServices "github.com/yigit/collabhub/internal/app/services"
	"github.com/yigit/collabhub/internal/config"
	"github.com/yigit/collabhub/internal/db"
	appMiddleware "github.com/yigit/collabhub/internal/middleware"
	pkgAuth "github.com/yigit/collabhub/internal/pkg/auth"
	"github.com/yigit/collabhub/internal/pkg/helpers"
	"github.com/yigit/collabhub/internal/pkg/logger"
	"github.com/yigit/collabhub/internal/pkg/validation"
	"github.com/yigit/collabhub/internal/pkg/websocket"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos        *appRepos.Repositories
	JWTService   *pkgAuth.JWTService
	AuthzService *appAuth.AuthorizationService
	Hub          *websocket.Hub

	AuthService           *appServices.AuthService
	ProjectService        appServices.ProjectService
	FeedService           appServices.FeedService
	JoinRequestService    appServices.JoinRequestService
	ReactionService       appServices.ReactionService
	CommentService        appServices.CommentService
	NotificationService   appServices.NotificationService
	ReconciliationService appServices.ReconciliationService

	Controllers    appRoutes.Controllers
	AuthMiddleware *appMiddleware.AuthMiddleware
	Logger         zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger(configPath string) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logConfig := logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	}
	if cfg.Logging.File != "" {
		logConfig.File = &logger.FileConfig{
			Filename:   cfg.Logging.File,
			MaxSizeMB:  cfg.Logging.MaxSizeMB,
			MaxBackups: cfg.Logging.MaxBackups,
			MaxAgeDays: cfg.Logging.MaxAgeDays,
			Compress:   cfg.Logging.Compress,
		}
	}
	logger.Configure(logConfig)

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection pool.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")
	return database, nil
}

// RunMigrations applies pending SQL migrations from the configured directory.
func RunMigrations(ctx context.Context, cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) error {
	migrationsDir := cfg.Database.MigrationsDir
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	lgr.Info().Str("path", migrationsDir).Msg("Running database migrations...")
	if err := appMigrations.NewMigrator(database.Pool).MigrateFromDirectory(ctx, migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return fmt.Errorf("database migrations failed: %w", err)
	}

	lgr.Info().Msg("Database migrations successfully applied.")
	return nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) *Dependencies {
	deps := &Dependencies{Logger: lgr}
	repos := appRepos.NewRepositories(database)
	deps.Repos = repos

	deps.AuthzService = appAuth.NewAuthorizationService()
	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 24*time.Hour),
		TokenIssuer:    cfg.JWT.Issuer,
	})
	deps.Hub = websocket.NewHub(lgr.With().Str("component", "websocket").Logger())

	deps.AuthService = appServices.NewAuthService(repos.UserRepository, deps.JWTService, lgr)
	deps.FeedService = appServices.NewFeedService(
		repos.FeedRepository,
		repos.CollaborationRepository,
		appServices.FeedConfig{
			DefaultPageSize: cfg.Feed.DefaultPageSize,
			MaxPageSize:     cfg.Feed.MaxPageSize,
		},
		lgr,
	)
	deps.ProjectService = appServices.NewProjectService(
		database,
		repos.UserRepository,
		repos.ProjectRepository,
		repos.CollaborationRepository,
		repos.FeedRepository,
		deps.AuthzService,
		lgr,
	)
	deps.NotificationService = appServices.NewNotificationService(repos.NotificationRepository, deps.Hub, deps.AuthzService, lgr)
	deps.JoinRequestService = appServices.NewJoinRequestService(
		database,
		deps.ProjectService,
		repos.ProjectRepository,
		repos.JoinRequestRepository,
		repos.CollaborationRepository,
		repos.UserRepository,
		deps.NotificationService,
		deps.AuthzService,
		lgr,
	)
	deps.ReactionService = appServices.NewReactionService(repos.ProjectRepository, repos.ReactionRepository, lgr)
	deps.CommentService = appServices.NewCommentService(repos.ProjectRepository, repos.CommentRepository, repos.UserRepository, lgr)
	deps.ReconciliationService = appServices.NewReconciliationService(
		database,
		repos.JoinRequestRepository,
		repos.CollaborationRepository,
		appServices.ReconcileConfig{
			Workers:   cfg.Reconcile.Workers,
			BatchSize: cfg.Reconcile.BatchSize,
		},
		lgr.With().Str("component", "reconcile").Logger(),
	)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)
	deps.Controllers = appRoutes.Controllers{
		Auth:         appControllers.NewAuthController(deps.AuthService, lgr),
		Project:      appControllers.NewProjectController(deps.ProjectService, deps.FeedService, lgr),
		JoinRequest:  appControllers.NewJoinRequestController(deps.JoinRequestService, lgr),
		Reaction:     appControllers.NewReactionController(deps.ProjectService, deps.ReactionService, deps.FeedService),
		Comment:      appControllers.NewCommentController(deps.ProjectService, deps.CommentService),
		Notification: appControllers.NewNotificationController(deps.NotificationService),
		WebSocket:    websocket.NewHandler(deps.Hub, lgr),
	}

	return deps
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) (*gin.Engine, error) {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	if err := validation.RegisterRules(); err != nil {
		return nil, fmt.Errorf("failed to register validation rules: %w", err)
	}

	router := gin.New()
	router.Use(gin.Recovery(), appMiddleware.RequestLogger(lgr), appMiddleware.Metrics())
	if err := router.SetTrustedProxies(cfg.Server.TrustedProxies); err != nil {
		return nil, fmt.Errorf("invalid trusted proxies: %w", err)
	}

	appRoutes.SetupSwagger(router)
	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware, appRoutes.RateLimits{
		AuthPerMinute:         cfg.RateLimit.AuthPerMinute,
		JoinRequestsPerMinute: cfg.RateLimit.JoinRequestsPerMinute,
		Burst:                 cfg.RateLimit.Burst,
	})

	return router, nil
}
