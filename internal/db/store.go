package db

import (
	"context"
	"fmt"
	"io/fs"
	"os"

	"github.com/ucsb-cs156/crudapi/internal/app/migrations"
	"github.com/ucsb-cs156/crudapi/internal/app/repositories"
	"github.com/ucsb-cs156/crudapi/internal/config"
	"github.com/ucsb-cs156/crudapi/internal/pkg/logger"
)

// Store is the storage engine selected by database.driver, migrated and
// wrapped in repositories.
type Store struct {
	Driver string
	Repos  *repositories.Repositories

	ping  func(ctx context.Context) error
	close func()
}

// Open connects to the configured storage engine and applies migrations
func Open(ctx context.Context, cfg *config.Config) (*Store, error) {
	switch cfg.Database.Driver {
	case config.DriverPostgres:
		pg, err := NewPostgresDB(ctx, cfg)
		if err != nil {
			return nil, err
		}
		if err := migrate(ctx, migrations.PgxDatabase{Pool: pg.Pool}, cfg, migrations.DirPostgres); err != nil {
			pg.Close()
			return nil, err
		}
		return &Store{
			Driver: cfg.Database.Driver,
			Repos:  repositories.NewPostgresRepositories(pg.Pool),
			ping:   pg.Pool.Ping,
			close:  pg.Close,
		}, nil

	case config.DriverSQLite:
		lite, err := NewSQLiteDB(ctx, cfg.Database.SQLitePath)
		if err != nil {
			return nil, err
		}
		if err := migrate(ctx, migrations.SQLDatabase{DB: lite.DB}, cfg, migrations.DirSQLite); err != nil {
			lite.Close()
			return nil, err
		}
		return &Store{
			Driver: cfg.Database.Driver,
			Repos:  repositories.NewSQLiteRepositories(lite.DB),
			ping:   lite.DB.PingContext,
			close:  lite.Close,
		}, nil

	case config.DriverMemory:
		repos, err := repositories.NewMemoryRepositories()
		if err != nil {
			return nil, err
		}
		return &Store{
			Driver: cfg.Database.Driver,
			Repos:  repos,
			ping:   func(context.Context) error { return nil },
			close:  func() {},
		}, nil
	}

	return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
}

// migrate applies migrations from database.migrations_path, or the embedded
// set for the dialect when no path is configured.
func migrate(ctx context.Context, database migrations.Database, cfg *config.Config, embeddedDir string) error {
	var (
		fsys fs.FS = migrations.Embedded
		dir        = embeddedDir
	)
	if cfg.Database.MigrationsPath != "" {
		fsys, dir = os.DirFS(cfg.Database.MigrationsPath), "."
	}

	logger.Info().Str("driver", cfg.Database.Driver).Str("dir", dir).Msg("Running database migrations...")
	if err := migrations.NewMigrator(database).MigrateFromDirectory(ctx, fsys, dir); err != nil {
		return fmt.Errorf("database migrations failed: %w", err)
	}
	logger.Info().Msg("Database migrations successfully applied.")
	return nil
}

// Ping checks that the storage engine is reachable
func (s *Store) Ping(ctx context.Context) error {
	return s.ping(ctx)
}

// Close releases the storage engine
func (s *Store) Close() {
	s.close()
}
