package bootstrap

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	appControllers "github.com/ucsb-cs156/crudapi/internal/app/controllers"
	"github.com/ucsb-cs156/crudapi/internal/app/models"
	appRoutes "github.com/ucsb-cs156/crudapi/internal/app/routes"
	appServices "github.com/ucsb-cs156/crudapi/internal/app/services"
	"github.com/ucsb-cs156/crudapi/internal/config"
	"github.com/ucsb-cs156/crudapi/internal/db"
	appMiddleware "github.com/ucsb-cs156/crudapi/internal/middleware"
	pkgAuth "github.com/ucsb-cs156/crudapi/internal/pkg/auth"
	"github.com/ucsb-cs156/crudapi/internal/pkg/helpers"
	"github.com/ucsb-cs156/crudapi/internal/pkg/logger"
	"github.com/ucsb-cs156/crudapi/internal/pkg/metrics"
	"github.com/ucsb-cs156/crudapi/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Store          *db.Store
	Metrics        *metrics.Metrics
	JWTService     *pkgAuth.JWTService
	AuthService    *appServices.AuthService
	AuthMiddleware *appMiddleware.AuthMiddleware
	Controllers    *appRoutes.Controllers
	Logger         zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger(configPath string) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logger.Configure(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})

	lgr := logger.Get()
	lgr.Info().Str("logLevel", cfg.Logging.Level).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupStorage opens the configured storage engine and runs migrations.
func SetupStorage(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*db.Store, error) {
	lgr.Info().Str("driver", cfg.Database.Driver).Msg("Opening storage...")
	store, err := db.Open(ctx, cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to open storage")
		return nil, err
	}
	lgr.Info().Msg("Storage ready.")
	return store, nil
}

// BuildDependencies initializes services and controllers on top of store.
func BuildDependencies(cfg *config.Config, store *db.Store, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Store: store, Logger: lgr}

	if cfg.Metrics.Enabled {
		deps.Metrics = metrics.New()
	}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 1*time.Hour),
		TokenIssuer:    cfg.JWT.Issuer,
	})

	repos := store.Repos
	deps.AuthService = appServices.NewAuthService(repos.Users, deps.JWTService, cfg.Auth.AdminEmails, lgr)
	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.Controllers = &appRoutes.Controllers{
		Auth: appControllers.NewAuthController(deps.AuthService),
		Books: appControllers.NewCrudController(
			appServices.NewCrudService(models.BookKind, repos.Books, deps.Metrics, lgr)),
		Movies: appControllers.NewCrudController(
			appServices.NewCrudService(models.MovieKind, repos.Movies, deps.Metrics, lgr)),
		Students: appControllers.NewCrudController(
			appServices.NewCrudService(models.StudentKind, repos.Students, deps.Metrics, lgr)),
		Vehicles: appControllers.NewCrudController(
			appServices.NewCrudService(models.VehicleKind, repos.Vehicles, deps.Metrics, lgr)),
	}

	return deps, nil
}

// SeedAccounts creates the configured default accounts. Failures are
// logged and do not stop startup.
func SeedAccounts(ctx context.Context, cfg *config.Config, deps *Dependencies) {
	if err := seed.CreateDefaultAccounts(ctx, deps.AuthService, cfg, deps.Logger); err != nil {
		deps.Logger.Error().Err(err).Msg("Failed to create default accounts, proceeding anyway...")
	}
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	switch strings.ToLower(cfg.Server.Mode) {
	case "production":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}
	lgr.Info().Str("mode", gin.Mode()).Msg("Gin mode configured")

	appMiddleware.RegisterValidation()

	router := gin.New()
	router.Use(gin.Recovery(), appMiddleware.RequestLogger())

	if deps.Metrics != nil {
		router.Use(appMiddleware.Metrics(deps.Metrics))
		appRoutes.SetupMetrics(router, cfg.Metrics.Path, deps.Metrics)
	}

	appRoutes.SetupSwagger(router)
	appRoutes.SetupHealth(router, deps.Store.Ping)
	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware)

	return router
}

// Build runs every bootstrap step and returns the router and its dependencies.
func Build(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*gin.Engine, *Dependencies, error) {
	store, err := SetupStorage(ctx, cfg, lgr)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to setup storage: %w", err)
	}

	deps, err := BuildDependencies(cfg, store, lgr)
	if err != nil {
		store.Close()
		return nil, nil, fmt.Errorf("failed to setup dependencies: %w", err)
	}

	SeedAccounts(ctx, cfg, deps)

	return SetupRouter(cfg, deps, lgr), deps, nil
}
