package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appAuth "github.com/huddleapp/huddle/internal/app/auth"
	appControllers "github.com/huddleapp/huddle/internal/app/controllers"
	appMigrations "github.com/huddleapp/huddle/internal/app/migrations"
	appRepos "github.com/huddleapp/huddle/internal/app/repositories"
	appRoutes "github.com/huddleapp/huddle/internal/app/routes"
	appServices "github.com/huddleapp/huddle/internal/app/services"
	"github.com/huddleapp/huddle/internal/config"
	"github.com/huddleapp/huddle/internal/db"
	appMiddleware "github.com/huddleapp/huddle/internal/middleware"
	"github.com/huddleapp/huddle/internal/pkg/auth"
	"github.com/huddleapp/huddle/internal/pkg/filestorage"
	"github.com/huddleapp/huddle/internal/pkg/logger"
	"github.com/huddleapp/huddle/internal/pkg/realtime"
	"github.com/huddleapp/huddle/internal/pkg/websocket"
	"github.com/huddleapp/huddle/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	ChallengeService     appServices.ChallengeService
	MembershipService    appServices.MembershipService
	CheckinService       appServices.CheckinService
	LeaderboardService   appServices.LeaderboardService
	FeedService          appServices.FeedService
	CommentService       appServices.CommentService
	StreamService        *appServices.StreamService
	ChallengeController  *appControllers.ChallengeController
	MembershipController *appControllers.MembershipController
	CheckinController    *appControllers.CheckinController
	ViewController       *appControllers.ViewController
	CommentController    *appControllers.CommentController
	StreamController     *appControllers.StreamController
	AuthMiddleware       *appMiddleware.AuthMiddleware
	AuthzService         *appAuth.AuthorizationService
	Repos                *appRepos.Repositories
	Verifier             *auth.Verifier
	Hub                  *websocket.Hub
	Listener             *realtime.Listener
	Logger               zerolog.Logger
	PhotoStorage         *filestorage.LocalStorage
	DB                   *db.PostgresDB
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection, runs migrations and
// seeds demo data.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := dbPool.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		database.Close()
		return nil, err
	}

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		database.Close()
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.MigrateFromDirectory(migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		database.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	lgr.Info().Msg("Database migrations successfully applied.")

	if err := seed.CreateDefaultData(context.Background(), dbPool, lgr); err != nil {
		// Demo data is a convenience; startup proceeds without it.
		lgr.Error().Err(err).Msg("Failed to seed demo data, proceeding anyway...")
	}

	return database, nil
}

// BuildDependencies initializes repositories, services and controllers.
func BuildDependencies(cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr, DB: database}
	dbPool := database.Pool

	deps.Repos = appRepos.NewRepositories(dbPool)

	// Photo storage served statically under /uploads.
	photoBaseURL := cfg.Server.PublicURL + "/uploads"
	var err error
	deps.PhotoStorage, err = filestorage.NewLocalStorage(cfg.Server.StoragePath, photoBaseURL)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize photo storage")
		return nil, fmt.Errorf("failed to initialize photo storage: %w", err)
	}

	deps.Verifier = auth.NewVerifier(auth.VerifierConfig{
		SecretKey: cfg.Auth.JWTSecret,
		Issuer:    cfg.Auth.Issuer,
	})

	deps.ChallengeService = appServices.NewChallengeService(
		deps.Repos.Challenge,
		deps.Repos.Membership,
		deps.Repos.User,
		database,
		lgr,
	)
	deps.MembershipService = appServices.NewMembershipService(
		deps.Repos.Challenge,
		deps.Repos.Membership,
		deps.Repos.User,
		database,
		lgr,
	)
	deps.CheckinService = appServices.NewCheckinService(
		deps.Repos.Challenge,
		deps.Repos.Membership,
		deps.Repos.Entry,
		deps.PhotoStorage,
		database,
		lgr,
	)
	deps.LeaderboardService = appServices.NewLeaderboardService(deps.Repos.Challenge, deps.Repos.Membership, lgr)
	deps.FeedService = appServices.NewFeedService(deps.Repos.Challenge, deps.Repos.Entry, lgr)
	deps.AuthzService = appAuth.NewAuthorizationService(deps.Repos.Membership)
	deps.CommentService = appServices.NewCommentService(
		deps.Repos.Challenge,
		deps.Repos.Comment,
		deps.AuthzService,
		lgr,
	)

	// Live stream plumbing: postgres listener -> per-challenge reconcilers ->
	// websocket hub.
	deps.Hub = websocket.NewHub(lgr)
	deps.Listener = realtime.NewListener(dbPool, lgr)
	deps.StreamService = appServices.NewStreamService(
		deps.Listener,
		deps.Hub,
		deps.Repos.Challenge,
		deps.LeaderboardService,
		deps.FeedService,
		lgr,
	)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.Verifier)

	deps.ChallengeController = appControllers.NewChallengeController(deps.ChallengeService)
	deps.MembershipController = appControllers.NewMembershipController(deps.MembershipService)
	deps.CheckinController = appControllers.NewCheckinController(deps.CheckinService)
	deps.ViewController = appControllers.NewViewController(deps.LeaderboardService, deps.FeedService)
	deps.CommentController = appControllers.NewCommentController(deps.CommentService)
	deps.StreamController = appControllers.NewStreamController(deps.Hub, deps.ChallengeService, deps.Verifier, lgr)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.Default()

	// Check-in photos
	router.Static("/uploads", cfg.Server.StoragePath)

	appRoutes.SetupRouter(router,
		deps.ChallengeController,
		deps.MembershipController,
		deps.CheckinController,
		deps.ViewController,
		deps.CommentController,
		deps.StreamController,
		deps.AuthMiddleware,
	)

	return router
}

// StartBackground launches the hub, listener and stream manager goroutines.
// They stop when ctx is cancelled.
func StartBackground(ctx context.Context, deps *Dependencies) {
	go deps.Hub.Run()
	go deps.Listener.Run(ctx)
	go deps.StreamService.Run(ctx)
}
