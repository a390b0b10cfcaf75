// Package migrations applies the PostgreSQL schema of the waitlist store: the
// waitlist_signups table, the leaderboard views and the rank/count SQL functions.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"path/filepath"
	"strings"
	"sync"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed sql/*.sql
var embeddedSQL embed.FS

const (
	embeddedDir           = "sql"
	defaultMigrationTable = "schema_migrations"
)

type migrator interface {
	Up() error
	Steps(n int) error
	Version() (version uint, dirty bool, err error)
	Close() (sourceErr error, databaseErr error)
}

// source is either a directory on disk (URL) or the SQL shipped in the binary (FS).
type source struct {
	URL string
	FS  fs.FS
}

func (s source) String() string {
	if s.FS != nil {
		return "embedded"
	}
	return s.URL
}

var driverFactory = func(db *sql.DB, cfg Config) (database.Driver, error) {
	return postgres.WithInstance(db, &postgres.Config{MigrationsTable: cfg.MigrationsTable})
}

var migratorFactory = func(src source, driver database.Driver) (migrator, error) {
	if src.FS == nil {
		return migrate.NewWithDatabaseInstance(src.URL, "postgres", driver)
	}

	sourceDriver, err := iofs.New(src.FS, embeddedDir)
	if err != nil {
		return nil, err
	}
	return migrate.NewWithInstance("iofs", sourceDriver, "postgres", driver)
}

type Logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

type Config struct {
	// Dir overrides the embedded waitlist schema with SQL files from disk.
	Dir             string
	MigrationsTable string
	Logger          Logger
}

func (cfg Config) withDefaults() Config {
	if strings.TrimSpace(cfg.MigrationsTable) == "" {
		cfg.MigrationsTable = defaultMigrationTable
	}
	if cfg.Logger == nil {
		cfg.Logger = nopLogger{}
	}
	return cfg
}

// EmbeddedFiles lists the migration files compiled into the binary.
func EmbeddedFiles() ([]string, error) {
	return fs.Glob(embeddedSQL, embeddedDir+"/*.sql")
}

func resolveSource(dir string) (source, error) {
	if strings.TrimSpace(dir) == "" {
		return source{FS: embeddedSQL}, nil
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return source{}, fmt.Errorf("migrations: resolve dir: %w", err)
	}

	// ToSlash keeps the file:// URL valid for Windows paths.
	return source{URL: (&url.URL{Scheme: "file", Path: filepath.ToSlash(absDir)}).String()}, nil
}

// Up applies every pending migration. Nothing to apply is not an error.
func Up(ctx context.Context, db *sql.DB, cfg Config) error {
	cfg = cfg.withDefaults()
	return run(ctx, db, cfg, "up", func(m migrator) error {
		err := m.Up()
		if errors.Is(err, migrate.ErrNoChange) {
			cfg.Logger.Info("No migrations to apply")
			return nil
		}
		return err
	})
}

// Down rolls back the given number of applied migrations.
func Down(ctx context.Context, db *sql.DB, cfg Config, steps int) error {
	if steps <= 0 {
		return fmt.Errorf("migrations: down needs a positive step count, got %d", steps)
	}
	return run(ctx, db, cfg, "down", func(m migrator) error {
		return m.Steps(-steps)
	})
}

// Version reports the applied schema version; 0 means nothing has been applied yet.
func Version(ctx context.Context, db *sql.DB, cfg Config) (uint, bool, error) {
	var version uint
	var dirty bool

	err := run(ctx, db, cfg, "version", func(m migrator) error {
		v, d, err := m.Version()
		if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
			return err
		}
		version, dirty = v, d
		return nil
	})
	if err != nil {
		return 0, false, err
	}
	return version, dirty, nil
}

// run builds a migrator and executes op on it. migrate takes no context, so a
// cancelled ctx closes the migrator, which is the only way to interrupt it.
func run(ctx context.Context, db *sql.DB, cfg Config, name string, op func(migrator) error) error {
	if db == nil {
		return fmt.Errorf("migrations: db is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	cfg = cfg.withDefaults()

	src, err := resolveSource(cfg.Dir)
	if err != nil {
		return err
	}

	driver, err := driverFactory(db, cfg)
	if err != nil {
		return fmt.Errorf("migrations: postgres driver: %w", err)
	}

	m, err := migratorFactory(src, driver)
	if err != nil {
		return fmt.Errorf("migrations: init: %w", err)
	}

	var closeOnce sync.Once
	closeMigrator := func() {
		closeOnce.Do(func() {
			srcErr, dbErr := m.Close()
			if srcErr != nil {
				cfg.Logger.Warn("Migrations source close error", "error", srcErr)
			}
			if dbErr != nil {
				cfg.Logger.Warn("Migrations db close error", "error", dbErr)
			}
		})
	}
	defer closeMigrator()

	cfg.Logger.Info("Running SQL migrations", "operation", name, "source", src.String(), "table", cfg.MigrationsTable)

	errCh := make(chan error, 1)
	go func() { errCh <- op(m) }()

	select {
	case <-ctx.Done():
		closeMigrator()
		return ctx.Err()
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("migrations: %s: %w", name, err)
		}
	}

	cfg.Logger.Info("Migrations finished", "operation", name)
	return nil
}
