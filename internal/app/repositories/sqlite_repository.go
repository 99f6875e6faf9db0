package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/ucsb-cs156/crudapi/internal/app/models"
	"github.com/ucsb-cs156/crudapi/internal/pkg/dberrors"
	"github.com/ucsb-cs156/crudapi/internal/pkg/logger"
)

// SQLiteRepository stores one entity type in a SQLite table
type SQLiteRepository[T any] struct {
	db *sql.DB
	q  queries[T]
}

// NewSQLiteRepository creates a new SQLiteRepository
func NewSQLiteRepository[T any](db *sql.DB, kind *models.Kind[T]) *SQLiteRepository[T] {
	return &SQLiteRepository[T]{
		db: db,
		q:  newQueries(kind, squirrel.Question),
	}
}

// FindAll retrieves all rows ordered by id
func (r *SQLiteRepository[T]) FindAll(ctx context.Context) ([]*T, error) {
	query, args, err := r.q.selectAll()
	if err != nil {
		return nil, r.q.buildError("select all", err)
	}
	return r.list(ctx, query, args)
}

// FindAllBy retrieves the rows whose indexed column equals value
func (r *SQLiteRepository[T]) FindAllBy(ctx context.Context, column string, value any) ([]*T, error) {
	if _, err := indexedColumn(r.q.kind, column); err != nil {
		return nil, err
	}
	query, args, err := r.q.selectAllWhere(column, value)
	if err != nil {
		return nil, r.q.buildError("select all by "+column, err)
	}
	return r.list(ctx, query, args)
}

func (r *SQLiteRepository[T]) list(ctx context.Context, query string, args []any) ([]*T, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.Error().Err(err).Str("table", r.q.kind.Table).Msg("Error executing select all query")
		return nil, fmt.Errorf("error querying %s: %w", r.q.kind.Table, err)
	}
	defer rows.Close()

	items := []*T{}
	for rows.Next() {
		item := new(T)
		if err := rows.Scan(r.q.kind.Refs(item)...); err != nil {
			return nil, fmt.Errorf("error scanning %s row: %w", r.q.kind.Table, err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s rows: %w", r.q.kind.Table, err)
	}

	return items, nil
}

// FindByID retrieves a row by primary key
func (r *SQLiteRepository[T]) FindByID(ctx context.Context, id int64) (*T, error) {
	return r.findWhere(ctx, "id", id)
}

// FindOneBy retrieves a row by a unique column
func (r *SQLiteRepository[T]) FindOneBy(ctx context.Context, column string, value any) (*T, error) {
	if _, err := uniqueColumn(r.q.kind, column); err != nil {
		return nil, err
	}
	return r.findWhere(ctx, column, value)
}

func (r *SQLiteRepository[T]) findWhere(ctx context.Context, column string, value any) (*T, error) {
	query, args, err := r.q.selectWhere(column, value)
	if err != nil {
		return nil, r.q.buildError("select", err)
	}

	item := new(T)
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(r.q.kind.Refs(item)...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		logger.Error().Err(err).Str("table", r.q.kind.Table).Str("column", column).Msg("Error scanning row")
		return nil, fmt.Errorf("error getting %s by %s: %w", r.q.kind.Table, column, err)
	}

	return item, nil
}

// Save inserts or updates v
func (r *SQLiteRepository[T]) Save(ctx context.Context, v *T) (*T, error) {
	if r.q.kind.ID(v) == 0 {
		return r.insert(ctx, v)
	}
	return r.update(ctx, v)
}

func (r *SQLiteRepository[T]) insert(ctx context.Context, v *T) (*T, error) {
	query, args, err := r.q.insert(v)
	if err != nil {
		return nil, r.q.buildError("insert", err)
	}

	var id int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		if dberrors.IsDuplicateKeyError(err) {
			return nil, conflictError(r.q.kind, "")
		}
		logger.Error().Err(err).Str("table", r.q.kind.Table).Msg("Error executing insert query")
		return nil, fmt.Errorf("error creating %s row: %w", r.q.kind.Table, err)
	}

	saved := *v
	r.q.kind.SetID(&saved, id)
	return &saved, nil
}

func (r *SQLiteRepository[T]) update(ctx context.Context, v *T) (*T, error) {
	query, args, err := r.q.update(v)
	if err != nil {
		return nil, r.q.buildError("update", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if dberrors.IsDuplicateKeyError(err) {
			return nil, conflictError(r.q.kind, "")
		}
		logger.Error().Err(err).Str("table", r.q.kind.Table).Int64("id", r.q.kind.ID(v)).Msg("Error executing update query")
		return nil, fmt.Errorf("error updating %s row: %w", r.q.kind.Table, err)
	}

	if n, err := res.RowsAffected(); err != nil {
		return nil, fmt.Errorf("error reading affected rows: %w", err)
	} else if n == 0 {
		return nil, ErrNotFound
	}

	saved := *v
	return &saved, nil
}

// Delete removes the row with v's key
func (r *SQLiteRepository[T]) Delete(ctx context.Context, v *T) error {
	id := r.q.kind.ID(v)
	query, args, err := r.q.delete(id)
	if err != nil {
		return r.q.buildError("delete", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		logger.Error().Err(err).Str("table", r.q.kind.Table).Int64("id", id).Msg("Error executing delete query")
		return fmt.Errorf("error deleting %s row: %w", r.q.kind.Table, err)
	}

	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("error reading affected rows: %w", err)
	} else if n == 0 {
		return ErrNotFound
	}

	return nil
}
