package config

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/akeren/innr-waitlist/internal/log"
	"github.com/akeren/innr-waitlist/pkg/utils"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const databasePingTimeout = 5 * time.Second

// DatabaseConfig describes the waitlist store connection. URL wins over the POSTGRES_* parts.
type DatabaseConfig struct {
	URL      string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string

	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

func NewDatabaseConfig() *DatabaseConfig {
	return &DatabaseConfig{
		URL:             sanitizeEnv(utils.GetEnvTrimmed("APP_DATABASE_URL")),
		Host:            sanitizeEnv(utils.GetEnvTrimmed("POSTGRES_HOST")),
		Port:            sanitizeEnv(utils.GetEnvTrimmedOrDefault("POSTGRES_PORT", "5432")),
		User:            sanitizeEnv(utils.GetEnvTrimmed("POSTGRES_USER")),
		Password:        sanitizeEnv(utils.GetEnvTrimmed("POSTGRES_PASSWORD")),
		Name:            sanitizeEnv(utils.GetEnvTrimmed("POSTGRES_DB_NAME")),
		SSLMode:         sanitizeEnv(utils.GetEnvTrimmedOrDefault("POSTGRES_SSLMODE", "require")),
		MaxIdleConns:    utils.GetEnvInt("DB_MAX_IDLE_CONNS", 10),
		MaxOpenConns:    utils.GetEnvInt("DB_MAX_OPEN_CONNS", 50),
		ConnMaxLifetime: utils.GetEnvDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
	}
}

// DSN returns the connection string, naming every missing POSTGRES_* variable at once.
func (c *DatabaseConfig) DSN() (string, error) {
	if c.URL != "" {
		return c.URL, nil
	}

	var missing []string
	for _, required := range []struct{ name, value string }{
		{"POSTGRES_HOST", c.Host},
		{"POSTGRES_USER", c.User},
		{"POSTGRES_DB_NAME", c.Name},
	} {
		if required.value == "" {
			missing = append(missing, required.name)
		}
	}
	if len(missing) > 0 {
		return "", fmt.Errorf("missing required database env vars: %s", strings.Join(missing, ", "))
	}

	port, err := strconv.Atoi(c.Port)
	if err != nil || port <= 0 {
		return "", fmt.Errorf("invalid POSTGRES_PORT %q", c.Port)
	}

	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, port, c.User, c.Password, c.Name, c.SSLMode,
	), nil
}

// NewDatabase opens the PostgreSQL waitlist store. A nil cfg is read from the environment.
func NewDatabase(logger *log.Logger, cfg *DatabaseConfig) (*gorm.DB, error) {
	if cfg == nil {
		cfg = NewDatabaseConfig()
	}

	dsn, err := cfg.DSN()
	if err != nil {
		logger.Error("Invalid database configuration", "error", err)
		return nil, err
	}

	if cfg.URL != "" {
		logger.Info("Connecting to waitlist store", "source", "APP_DATABASE_URL")
	} else {
		logger.Info("Connecting to waitlist store", "host", cfg.Host, "port", cfg.Port, "dbname", cfg.Name, "sslmode", cfg.SSLMode)
	}

	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		logger.Error("Failed to connect to waitlist store", "error", err)
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), databasePingTimeout)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		logger.Error("Waitlist store ping failed", "error", err)
		_ = sqlDB.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	logger.Info("Waitlist store connection established", "max_open_conns", cfg.MaxOpenConns)
	return gdb, nil
}

// AutoMigrate lets gorm create the signup table in development. Production schemas,
// including the leaderboard views and SQL functions, come from pkg/migrations.
func AutoMigrate(logger *log.Logger, db *gorm.DB, models ...interface{}) error {
	if db == nil {
		return fmt.Errorf("cannot migrate: db is empty")
	}

	if err := db.AutoMigrate(models...); err != nil {
		logger.Error("Auto-migration failed", "error", err)
		return fmt.Errorf("auto-migrate failed: %w", err)
	}

	logger.Info("Auto-migration completed", "models", len(models))
	return nil
}

func CloseDatabase(db *gorm.DB, logger *log.Logger) {
	if db == nil {
		return
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Error("Failed to get SQL DB instance", "error", err)
		return
	}

	if err := sqlDB.Close(); err != nil {
		logger.Error("Failed to close waitlist store", "error", err)
		return
	}

	logger.Info("Waitlist store closed")
}
