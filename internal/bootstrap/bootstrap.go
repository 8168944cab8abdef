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
	"github.com/rs/zerolog"

	appControllers "github.com/yigit/placement/internal/app/controllers"
	appMigrations "github.com/yigit/placement/internal/app/migrations"
	"github.com/yigit/placement/internal/app/models"
	appRepos "github.com/yigit/placement/internal/app/repositories"
	appRoutes "github.com/yigit/placement/internal/app/routes"
	appServices "github.com/yigit/placement/internal/app/services"
	"github.com/yigit/placement/internal/config"
	"github.com/yigit/placement/internal/db"
	appMiddleware "github.com/yigit/placement/internal/middleware"
	pkgAuth "github.com/yigit/placement/internal/pkg/auth"
	"github.com/yigit/placement/internal/pkg/filestorage"
	"github.com/yigit/placement/internal/pkg/helpers"
	"github.com/yigit/placement/internal/pkg/logger"
	"github.com/yigit/placement/internal/pkg/metrics"
	"github.com/yigit/placement/internal/pkg/search"
	"github.com/yigit/placement/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos               *appRepos.Repositories
	JWTService          *pkgAuth.JWTService
	FileStorage         *filestorage.LocalStorage
	DriveIndex          search.DriveIndex
	AuthService         *appServices.AuthService
	ProfileService      *appServices.ProfileService
	DriveService        *appServices.DriveService
	ApplicationService  *appServices.ApplicationService
	ImportService       *appServices.ImportService
	ExportService       *appServices.ExportService
	NotificationService *appServices.NotificationService
	AnalyticsService    *appServices.AnalyticsService
	Controllers         appRoutes.Controllers
	AuthMiddleware      *appMiddleware.AuthMiddleware
	Logger              zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = filepath.Join("configs", "config.yaml")
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.ParseLevel(cfg.Logging.Level)
	lgr := logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: strings.ToLower(cfg.Logging.Format) == "text",
	})

	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection and runs migrations.
func SetupDatabase(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(ctx, cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	migrationsDir := cfg.Database.MigrationsDir
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		database.Close()
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	lgr.Info().Str("dir", migrationsDir).Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(database.Pool, lgr)
	if err := migrator.MigrateFromDirectory(ctx, migrationsDir); err != nil {
		database.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	return database, nil
}

// newDriveIndex connects to Elasticsearch when search is enabled
func newDriveIndex(cfg *config.Config, lgr zerolog.Logger) search.DriveIndex {
	if !cfg.Search.Enabled {
		lgr.Info().Msg("Drive search index disabled, q= falls back to a database scan")
		return search.NoopIndex{}
	}
	index, err := search.NewElasticIndex(cfg.Search.Addresses, cfg.Search.Index)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to create Elasticsearch client, search disabled")
		return search.NoopIndex{}
	}
	return index
}

// BuildDependencies initializes repositories, services, controllers and middleware.
func BuildDependencies(cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(database)

	var err error
	deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Server.StoragePath, cfg.PublicBaseURL())
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 24*time.Hour),
		TokenIssuer:    cfg.JWT.Issuer,
	})

	deps.DriveIndex = newDriveIndex(cfg, lgr)

	deps.AuthService = appServices.NewAuthService(deps.Repos.UserRepository, deps.JWTService, lgr)
	deps.ProfileService = appServices.NewProfileService(deps.Repos.ProfileRepository, deps.FileStorage, lgr)
	deps.DriveService = appServices.NewDriveService(
		deps.Repos.DriveRepository,
		deps.Repos.ProfileRepository,
		deps.Repos.NotificationRepository,
		deps.DriveIndex,
		lgr,
	)
	deps.ApplicationService = appServices.NewApplicationService(
		deps.Repos.ApplicationRepository,
		deps.Repos.DriveRepository,
		deps.Repos.ProfileRepository,
		deps.Repos.NotificationRepository,
		models.TransitionPolicy(strings.ToLower(cfg.Placement.StatusTransitions)),
		lgr,
	)
	deps.ImportService = appServices.NewImportService(deps.ApplicationService, lgr)
	deps.ExportService = appServices.NewExportService(deps.ApplicationService)
	deps.NotificationService = appServices.NewNotificationService(deps.Repos.NotificationRepository, cfg.Placement.NotificationLimit, lgr)
	deps.AnalyticsService = appServices.NewAnalyticsService(deps.Repos.AnalyticsRepository)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.Controllers = appRoutes.Controllers{
		Auth:         appControllers.NewAuthController(deps.AuthService, lgr),
		Profile:      appControllers.NewProfileController(deps.ProfileService, lgr),
		Drive:        appControllers.NewDriveController(deps.DriveService, lgr),
		Application:  appControllers.NewApplicationController(deps.ApplicationService, deps.ImportService, lgr),
		Notification: appControllers.NewNotificationController(deps.NotificationService),
		Analytics:    appControllers.NewAnalyticsController(deps.AnalyticsService, deps.ExportService),
	}

	return deps, nil
}

// SeedAndIndex creates the demo data when enabled and pushes every drive into the search index.
// Failures are logged and never stop startup.
func SeedAndIndex(ctx context.Context, cfg *config.Config, deps *Dependencies) {
	lgr := deps.Logger

	if cfg.Placement.SeedDemoData {
		err := seed.CreateDemoData(ctx, seed.Stores{
			Users:         deps.Repos.UserRepository,
			Profiles:      deps.Repos.ProfileRepository,
			Drives:        deps.Repos.DriveRepository,
			Applications:  deps.Repos.ApplicationRepository,
			Notifications: deps.Repos.NotificationRepository,
		}, time.Now(), lgr)
		if err != nil {
			lgr.Error().Err(err).Msg("Failed to create demo data, proceeding anyway...")
		}
	}

	if !cfg.Search.Enabled {
		return
	}
	n, err := deps.DriveService.SyncIndex(ctx)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to sync drive search index")
		return
	}
	lgr.Info().Int("drives", n).Msg("Drive search index synced")
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) (*gin.Engine, error) {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	if err := appMiddleware.SetupValidator(); err != nil {
		return nil, err
	}

	router := gin.New()
	router.Use(gin.Recovery(), appMiddleware.RequestID(), appMiddleware.AccessLogger(lgr))

	if cfg.Metrics.Enabled {
		metrics.Register()
		router.Use(appMiddleware.Metrics())
		router.GET(cfg.Metrics.Path, gin.WrapH(metrics.Handler()))
	}

	appRoutes.SetupSwagger(router)
	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware)

	router.Static(filestorage.PublicPrefix, deps.FileStorage.BasePath())
	lgr.Info().Str("path", deps.FileStorage.BasePath()).Msg("Static file serving configured for uploads directory")

	// Health endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router, nil
}
