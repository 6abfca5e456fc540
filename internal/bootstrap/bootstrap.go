package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	appControllers "github.com/yigit/coursereview/internal/app/controllers"
	appMigrations "github.com/yigit/coursereview/internal/app/migrations"
	appRepos "github.com/yigit/coursereview/internal/app/repositories"
	appRoutes "github.com/yigit/coursereview/internal/app/routes"
	appServices "github.com/yigit/coursereview/internal/app/services"
	"github.com/yigit/coursereview/internal/config"
	"github.com/yigit/coursereview/internal/db"
	"github.com/yigit/coursereview/internal/jobs"
	appMiddleware "github.com/yigit/coursereview/internal/middleware"
	"github.com/yigit/coursereview/internal/pkg/cache"
	"github.com/yigit/coursereview/internal/pkg/helpers"
	"github.com/yigit/coursereview/internal/pkg/logger"
	"github.com/yigit/coursereview/internal/pkg/validation"
	"github.com/yigit/coursereview/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	CourseService    appServices.CourseService // Interface type
	ReviewService    appServices.ReviewService // Interface type
	CourseController *appControllers.CourseController
	ReviewController *appControllers.ReviewController
	Repos            *appRepos.Repositories
	Cache            cache.Cache
	Jobs             *jobs.Manager // nil when the orphan report is disabled
	Logger           zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	lgr := logger.Configure(logger.ConfigFrom(cfg.Logging.Level, cfg.Logging.Format))
	lgr.Info().Str("logLevel", cfg.Logging.Level).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection, runs migrations and seeds an empty catalogue.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	ctx := context.Background()

	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(ctx, cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool, lgr)

	migrationsDir := cfg.Database.MigrationsDir
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		database.Close()
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.MigrateFromDirectory(ctx, migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		database.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	if cfg.Database.Seed {
		if err := seed.CreateDefaultData(ctx, appRepos.NewCourseRepository(dbPool), lgr); err != nil {
			// Log the error but don't fail the startup
			lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
		}
	}

	return dbPool, nil
}

// SetupCache connects to redis when caching is enabled.
// An unreachable redis degrades to the no-op cache instead of failing startup.
func SetupCache(cfg *config.Config, lgr zerolog.Logger) cache.Cache {
	if !cfg.Cache.Enabled {
		lgr.Info().Msg("Course summary cache disabled")
		return cache.Noop{}
	}

	rc, err := cache.NewRedisCache(context.Background(), cfg.Cache.URL)
	if err != nil {
		lgr.Warn().Err(err).Msg("Redis unavailable, continuing without cache")
		return cache.Noop{}
	}

	lgr.Info().Msg("Redis cache connected")
	return rc
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, c cache.Cache, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr, Cache: c}

	deps.Repos = appRepos.NewRepositories(dbPool)

	queryTimeout := helpers.ParseDuration(cfg.Store.QueryTimeout, 5*time.Second)
	cacheTTL := helpers.ParseDuration(cfg.Cache.TTL, time.Minute)

	deps.CourseService = appServices.NewCourseService(
		deps.Repos.CourseRepository,
		deps.Repos.ReviewRepository,
		c,
		appServices.CourseServiceConfig{QueryTimeout: queryTimeout, CacheTTL: cacheTTL},
		lgr,
	)
	deps.ReviewService = appServices.NewReviewService(
		deps.CourseService,
		deps.Repos.ReviewRepository,
		validation.New(),
		c,
		queryTimeout,
		lgr,
	)

	deps.CourseController = appControllers.NewCourseController(deps.CourseService, cfg.Store.SuggestionLimit, cfg.Store.TrendingLimit)
	deps.ReviewController = appControllers.NewReviewController(deps.ReviewService)

	if cfg.Jobs.OrphanReportEnabled {
		deps.Jobs = jobs.NewManager(deps.Repos.CourseRepository, cfg.Jobs.OrphanReportSchedule, queryTimeout, lgr)
	}

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

	router := gin.New()
	router.Use(gin.Recovery(), appMiddleware.RequestLogger(lgr))

	appRoutes.SetupRouter(router,
		deps.CourseController,
		deps.ReviewController,
	)

	// Liveness endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}
