package migrations

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/ucsb-cs156/crudapi/internal/pkg/logger"
)

// Embedded holds the bundled migrations, one directory per dialect.
//
//go:embed sql
var Embedded embed.FS

// Dialect directories inside Embedded
const (
	DirPostgres = "sql/postgres"
	DirSQLite   = "sql/sqlite"
)

// Execer is the statement surface a migration runs against.
type Execer interface {
	Exec(ctx context.Context, query string, args ...any) error
}

// Database is a connection the migrator can track versions in.
type Database interface {
	Execer
	QueryBool(ctx context.Context, query string, args ...any) (bool, error)
	// InTx runs fn inside a transaction, committing when fn returns nil.
	InTx(ctx context.Context, fn func(tx Execer) error) error
	Placeholder() squirrel.PlaceholderFormat
}

// Migrator manages database migrations
type Migrator struct {
	db Database
	sb squirrel.StatementBuilderType
}

// NewMigrator creates a new migrator
func NewMigrator(db Database) *Migrator {
	return &Migrator{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(db.Placeholder()),
	}
}

// ensureMigrationTableExists creates the migration tracking table if it doesn't exist
func (m *Migrator) ensureMigrationTableExists(ctx context.Context) error {
	createTableSQL := `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		version VARCHAR(255) PRIMARY KEY,
		applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);`

	if err := m.db.Exec(ctx, createTableSQL); err != nil {
		return fmt.Errorf("failed to create migration tracking table: %w", err)
	}
	return nil
}

// isMigrationApplied checks if a specific migration has already been applied
func (m *Migrator) isMigrationApplied(ctx context.Context, version string) (bool, error) {
	query, args, err := m.sb.Select("1").
		From("schema_migrations").
		Where(squirrel.Eq{"version": version}).
		Prefix("SELECT EXISTS (").Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build migration status query: %w", err)
	}

	exists, err := m.db.QueryBool(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to check migration status: %w", err)
	}
	return exists, nil
}

// recordMigration marks a migration as applied
func (m *Migrator) recordMigration(ctx context.Context, tx Execer, version string) error {
	query, args, err := m.sb.Insert("schema_migrations").
		Columns("version").
		Values(version).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build record migration query: %w", err)
	}
	if err := tx.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to record migration: %w", err)
	}
	return nil
}

// MigrateFromFile executes SQL statements from one file of fsys
func (m *Migrator) MigrateFromFile(ctx context.Context, fsys fs.FS, filePath string) error {
	if err := m.ensureMigrationTableExists(ctx); err != nil {
		return err
	}

	// Extract version from filename (e.g., "001_init.sql" => "001")
	filename := path.Base(filePath)
	version := strings.Split(filename, "_")[0]

	applied, err := m.isMigrationApplied(ctx, version)
	if err != nil {
		return err
	}
	if applied {
		logger.Debug().Str("migration", filename).Msg("Migration already applied, skipping")
		return nil
	}

	content, err := fs.ReadFile(fsys, filePath)
	if err != nil {
		return fmt.Errorf("failed to read migration file: %w", err)
	}

	err = m.db.InTx(ctx, func(tx Execer) error {
		if err := tx.Exec(ctx, string(content)); err != nil {
			return fmt.Errorf("error occurred during SQL migration %s: %w", filename, err)
		}
		return m.recordMigration(ctx, tx, version)
	})
	if err != nil {
		return err
	}

	logger.Info().Str("migration", filename).Msg("Migration file successfully applied")
	return nil
}

// MigrateFromDirectory finds and executes all SQL files of dir in fsys, in name order
func (m *Migrator) MigrateFromDirectory(ctx context.Context, fsys fs.FS, dir string) error {
	files, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return fmt.Errorf("failed to read migration directory: %w", err)
	}

	var sqlFiles []string
	for _, file := range files {
		if !file.IsDir() && strings.HasSuffix(file.Name(), ".sql") {
			sqlFiles = append(sqlFiles, file.Name())
		}
	}
	sort.Strings(sqlFiles)

	for _, file := range sqlFiles {
		if err := m.MigrateFromFile(ctx, fsys, path.Join(dir, file)); err != nil {
			return err
		}
	}

	return nil
}
