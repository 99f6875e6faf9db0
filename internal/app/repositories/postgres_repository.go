package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ucsb-cs156/crudapi/internal/app/models"
	"github.com/ucsb-cs156/crudapi/internal/pkg/dberrors"
	"github.com/ucsb-cs156/crudapi/internal/pkg/logger"
)

// PostgresRepository stores one entity type in a PostgreSQL table
type PostgresRepository[T any] struct {
	db *pgxpool.Pool
	q  queries[T]
}

// NewPostgresRepository creates a new PostgresRepository
func NewPostgresRepository[T any](db *pgxpool.Pool, kind *models.Kind[T]) *PostgresRepository[T] {
	return &PostgresRepository[T]{
		db: db,
		q:  newQueries(kind, squirrel.Dollar),
	}
}

// FindAll retrieves all rows ordered by id
func (r *PostgresRepository[T]) FindAll(ctx context.Context) ([]*T, error) {
	sql, args, err := r.q.selectAll()
	if err != nil {
		return nil, r.q.buildError("select all", err)
	}
	return r.list(ctx, sql, args)
}

// FindAllBy retrieves the rows whose indexed column equals value
func (r *PostgresRepository[T]) FindAllBy(ctx context.Context, column string, value any) ([]*T, error) {
	if _, err := indexedColumn(r.q.kind, column); err != nil {
		return nil, err
	}
	sql, args, err := r.q.selectAllWhere(column, value)
	if err != nil {
		return nil, r.q.buildError("select all by "+column, err)
	}
	return r.list(ctx, sql, args)
}

func (r *PostgresRepository[T]) list(ctx context.Context, sql string, args []any) ([]*T, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("table", r.q.kind.Table).Msg("Error executing select all query")
		return nil, fmt.Errorf("error querying %s: %w", r.q.kind.Table, err)
	}
	defer rows.Close()

	items := []*T{}
	for rows.Next() {
		item := new(T)
		if err := rows.Scan(r.q.kind.Refs(item)...); err != nil {
			logger.Error().Err(err).Str("table", r.q.kind.Table).Msg("Error scanning row during select all")
			return nil, fmt.Errorf("error scanning %s row: %w", r.q.kind.Table, err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Str("table", r.q.kind.Table).Msg("Error iterating rows")
		return nil, fmt.Errorf("error iterating %s rows: %w", r.q.kind.Table, err)
	}

	return items, nil
}

// FindByID retrieves a row by primary key
func (r *PostgresRepository[T]) FindByID(ctx context.Context, id int64) (*T, error) {
	return r.findWhere(ctx, "id", id)
}

// FindOneBy retrieves a row by a unique column
func (r *PostgresRepository[T]) FindOneBy(ctx context.Context, column string, value any) (*T, error) {
	if _, err := uniqueColumn(r.q.kind, column); err != nil {
		return nil, err
	}
	return r.findWhere(ctx, column, value)
}

func (r *PostgresRepository[T]) findWhere(ctx context.Context, column string, value any) (*T, error) {
	sql, args, err := r.q.selectWhere(column, value)
	if err != nil {
		return nil, r.q.buildError("select", err)
	}

	item := new(T)
	err = r.db.QueryRow(ctx, sql, args...).Scan(r.q.kind.Refs(item)...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		logger.Error().Err(err).Str("table", r.q.kind.Table).Str("column", column).Msg("Error scanning row")
		return nil, fmt.Errorf("error getting %s by %s: %w", r.q.kind.Table, column, err)
	}

	return item, nil
}

// Save inserts or updates v
func (r *PostgresRepository[T]) Save(ctx context.Context, v *T) (*T, error) {
	if r.q.kind.ID(v) == 0 {
		return r.insert(ctx, v)
	}
	return r.update(ctx, v)
}

func (r *PostgresRepository[T]) insert(ctx context.Context, v *T) (*T, error) {
	sql, args, err := r.q.insert(v)
	if err != nil {
		return nil, r.q.buildError("insert", err)
	}

	var id int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		if dberrors.IsDuplicateKeyError(err) {
			return nil, conflictError(r.q.kind, dberrors.ConstraintName(err))
		}
		logger.Error().Err(err).Str("table", r.q.kind.Table).Msg("Error executing insert query")
		return nil, fmt.Errorf("error creating %s row: %w", r.q.kind.Table, err)
	}

	saved := *v
	r.q.kind.SetID(&saved, id)
	return &saved, nil
}

func (r *PostgresRepository[T]) update(ctx context.Context, v *T) (*T, error) {
	sql, args, err := r.q.update(v)
	if err != nil {
		return nil, r.q.buildError("update", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsDuplicateKeyError(err) {
			return nil, conflictError(r.q.kind, dberrors.ConstraintName(err))
		}
		logger.Error().Err(err).Str("table", r.q.kind.Table).Int64("id", r.q.kind.ID(v)).Msg("Error executing update query")
		return nil, fmt.Errorf("error updating %s row: %w", r.q.kind.Table, err)
	}

	if cmdTag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}

	saved := *v
	return &saved, nil
}

// Delete removes the row with v's key
func (r *PostgresRepository[T]) Delete(ctx context.Context, v *T) error {
	id := r.q.kind.ID(v)
	sql, args, err := r.q.delete(id)
	if err != nil {
		return r.q.buildError("delete", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("table", r.q.kind.Table).Int64("id", id).Msg("Error executing delete query")
		return fmt.Errorf("error deleting %s row: %w", r.q.kind.Table, err)
	}

	if cmdTag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}
