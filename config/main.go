package config

import (
	"context"
	"time"

	"github.com/akeren/innr-waitlist/config/router"
	"github.com/akeren/innr-waitlist/internal/log"
	"github.com/akeren/innr-waitlist/internal/models"
	"github.com/akeren/innr-waitlist/pkg/constants"
	"github.com/akeren/innr-waitlist/pkg/edu"
	"github.com/akeren/innr-waitlist/pkg/utils"
	"gorm.io/gorm"
)

const tracingShutdownTimeout = 5 * time.Second

// ApplicationConfig holds every process-wide dependency the domain packages are built from.
type ApplicationConfig struct {
	DB              *gorm.DB
	RouterService   *router.RouterService
	Logger          *log.Logger
	Cache           Cache
	Schools         *edu.Directory
	Config          *AppConfig
	TracingShutdown func(context.Context) error
}

type AppConfig struct {
	RequestTimeout time.Duration
	// LeaderboardCacheTTL of zero keeps the leaderboard uncached.
	LeaderboardCacheTTL time.Duration
	// SchoolDirectoryPath overrides the embedded school directory when set.
	SchoolDirectoryPath string
}

func NewAppConfig() *AppConfig {
	cfg := &AppConfig{
		RequestTimeout:      utils.GetEnvDuration("REQUEST_TIMEOUT", constants.DefaultRequestTimeout),
		LeaderboardCacheTTL: utils.GetEnvDuration("LEADERBOARD_CACHE_TTL", 0),
		SchoolDirectoryPath: utils.GetEnvTrimmed("SCHOOL_DIRECTORY_PATH"),
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = constants.DefaultRequestTimeout
	}
	return cfg
}

// LoadSchoolDirectory reads the configured directory file, falling back to the embedded one.
// It returns nil only when the embedded directory itself is unreadable.
func (ac *AppConfig) LoadSchoolDirectory(logger *log.Logger) *edu.Directory {
	if ac.SchoolDirectoryPath != "" {
		directory, err := edu.LoadDirectory(ac.SchoolDirectoryPath)
		if err == nil {
			logger.Info("School directory loaded", "source", ac.SchoolDirectoryPath, "schools", directory.Len())
			return directory
		}
		logger.Error("Failed to load school directory; using embedded default", "path", ac.SchoolDirectoryPath, "error", err)
	}

	directory, err := edu.NewDefaultDirectory()
	if err != nil {
		logger.Error("Failed to load embedded school directory", "error", err)
		return nil
	}

	logger.Info("School directory loaded", "source", "embedded", "schools", directory.Len())
	return directory
}

// Cleanup releases resources in reverse order of acquisition.
func (ac *ApplicationConfig) Cleanup() {
	if ac.RouterService != nil {
		ac.RouterService.Cleanup()
	}

	_ = CloseCache(ac.Cache, ac.Logger)
	CloseDatabase(ac.DB, ac.Logger)

	if ac.TracingShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), tracingShutdownTimeout)
		defer cancel()
		if err := ac.TracingShutdown(ctx); err != nil {
			ac.Logger.Error("Failed to flush traces", "error", err)
		}
	}

	ac.Logger.Info("Application cleanup completed")
}

// LoadApplicationConfiguration wires env, tracing, the store, the optional cache and the router.
// autoMigrate is refused outside development and test environments.
func LoadApplicationConfiguration(logger *log.Logger, autoMigrate bool) (*ApplicationConfig, error) {
	InitializeEnvFile(logger)

	env := CurrentEnvironment()
	if autoMigrate {
		if err := ValidateAutoMigrateAllowed(string(env)); err != nil {
			return nil, err
		}
	}

	tracingShutdown, err := SetupTracing(logger)
	if err != nil {
		return nil, err
	}

	db, err := NewDatabase(logger, nil)
	if err != nil {
		return nil, err
	}

	if autoMigrate {
		if err := AutoMigrate(logger, db, models.ModelRegistry...); err != nil {
			CloseDatabase(db, logger)
			return nil, err
		}
	}

	appConfig := NewAppConfig()

	app := &ApplicationConfig{
		DB:              db,
		Logger:          logger,
		Cache:           NewCacheConfig().NewCacheOrNil(logger),
		Schools:         appConfig.LoadSchoolDirectory(logger),
		Config:          appConfig,
		TracingShutdown: tracingShutdown,
		RouterService: router.CreateRouterService(logger, &router.RouterConfig{
			RequestTimeout: appConfig.RequestTimeout,
		}),
	}

	logger.Info("Application configuration loaded",
		"environment", string(env),
		"request_timeout", appConfig.RequestTimeout.String(),
		"leaderboard_cache_ttl", appConfig.LeaderboardCacheTTL.String(),
		"cache_enabled", app.Cache != nil,
	)

	return app, nil
}
