package migrations

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxDatabase runs migrations over a pgx connection pool.
type PgxDatabase struct {
	Pool *pgxpool.Pool
}

func (d PgxDatabase) Exec(ctx context.Context, query string, args ...any) error {
	_, err := d.Pool.Exec(ctx, query, args...)
	return err
}

func (d PgxDatabase) QueryBool(ctx context.Context, query string, args ...any) (bool, error) {
	var v bool
	err := d.Pool.QueryRow(ctx, query, args...).Scan(&v)
	return v, err
}

func (d PgxDatabase) InTx(ctx context.Context, fn func(tx Execer) error) error {
	tx, err := d.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if err := fn(pgxTx{tx}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (PgxDatabase) Placeholder() squirrel.PlaceholderFormat { return squirrel.Dollar }

type pgxTx struct{ tx pgx.Tx }

func (t pgxTx) Exec(ctx context.Context, query string, args ...any) error {
	_, err := t.tx.Exec(ctx, query, args...)
	return err
}

// SQLDatabase runs migrations over a database/sql handle (sqlite).
type SQLDatabase struct {
	DB *sql.DB
}

func (d SQLDatabase) Exec(ctx context.Context, query string, args ...any) error {
	_, err := d.DB.ExecContext(ctx, query, args...)
	return err
}

func (d SQLDatabase) QueryBool(ctx context.Context, query string, args ...any) (bool, error) {
	var v bool
	err := d.DB.QueryRowContext(ctx, query, args...).Scan(&v)
	return v, err
}

func (d SQLDatabase) InTx(ctx context.Context, fn func(tx Execer) error) error {
	tx, err := d.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if err := fn(sqlTx{tx}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (SQLDatabase) Placeholder() squirrel.PlaceholderFormat { return squirrel.Question }

type sqlTx struct{ tx *sql.Tx }

func (t sqlTx) Exec(ctx context.Context, query string, args ...any) error {
	_, err := t.tx.ExecContext(ctx, query, args...)
	return err
}
