package repositories

import (
	"context"
	"fmt"

	"github.com/ucsb-cs156/crudapi/internal/app/models"
	"github.com/ucsb-cs156/crudapi/internal/pkg/apperrors"
)

// ErrNotFound is returned when no row matches a lookup.
var ErrNotFound = apperrors.ErrNotFound

// Repository is the persistence port for one entity type. Implementations
// must be safe for concurrent use.
type Repository[T any] interface {
	// FindAll returns every row of the table.
	FindAll(ctx context.Context) ([]*T, error)
	// FindByID returns the row with the given key or ErrNotFound.
	FindByID(ctx context.Context, id int64) (*T, error)
	// FindOneBy returns the row whose unique column equals value or ErrNotFound.
	FindOneBy(ctx context.Context, column string, value any) (*T, error)
	// FindAllBy returns every row whose indexed column equals value, ordered by key.
	FindAllBy(ctx context.Context, column string, value any) ([]*T, error)
	// Save inserts v when its key is zero and updates the row otherwise.
	// The stored row, including an assigned key, is returned.
	Save(ctx context.Context, v *T) (*T, error)
	// Delete removes the row identified by v's key.
	Delete(ctx context.Context, v *T) error
}

// conflictError reports a unique constraint violation on kind's table
func conflictError[T any](kind *models.Kind[T], constraint string) error {
	if constraint != "" {
		return apperrors.NewConflictError(fmt.Sprintf("%s violates unique constraint %s", kind.Name, constraint))
	}
	return apperrors.NewConflictError(fmt.Sprintf("%s violates a unique constraint", kind.Name))
}

// indexedColumn rejects searches on columns without an index
func indexedColumn[T any](kind *models.Kind[T], column string) (models.Column[T], error) {
	col, ok := kind.Column(column)
	if !ok || !(col.Unique || col.Indexed) {
		return models.Column[T]{}, fmt.Errorf("%s.%s is not an indexed column", kind.Table, column)
	}
	return col, nil
}

// uniqueColumn rejects lookups on columns that are not declared unique
func uniqueColumn[T any](kind *models.Kind[T], column string) (models.Column[T], error) {
	col, ok := kind.Column(column)
	if !ok || !col.Unique {
		return models.Column[T]{}, fmt.Errorf("%s.%s is not a unique column", kind.Table, column)
	}
	return col, nil
}
