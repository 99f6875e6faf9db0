package repositories

import (
	"context"
	"fmt"
	"reflect"

	"github.com/hashicorp/go-memdb"
	"github.com/ucsb-cs156/crudapi/internal/app/models"
)

// memdb index on the primary key. Every entity keeps its key in a field named ID.
const (
	idIndex = "id"
	idField = "ID"
)

// MemoryRepository stores one entity type in a go-memdb table. Unique
// columns get a unique index that Save checks before writing, indexed
// columns a plain one.
type MemoryRepository[T any] struct {
	db     *memdb.MemDB
	kind   *models.Kind[T]
	nextID int64 // guarded by the memdb writer lock
}

// NewMemoryRepository creates a new MemoryRepository
func NewMemoryRepository[T any](kind *models.Kind[T]) (*MemoryRepository[T], error) {
	schema, err := memorySchema(kind)
	if err != nil {
		return nil, err
	}
	db, err := memdb.NewMemDB(schema)
	if err != nil {
		return nil, fmt.Errorf("failed to create memdb for %s: %w", kind.Table, err)
	}
	return &MemoryRepository[T]{db: db, kind: kind}, nil
}

func memorySchema[T any](kind *models.Kind[T]) (*memdb.DBSchema, error) {
	typ := reflect.TypeOf((*T)(nil)).Elem()
	if f, ok := typ.FieldByName(idField); !ok || f.Type.Kind() != reflect.Int64 {
		return nil, fmt.Errorf("%s has no int64 %s field", typ.Name(), idField)
	}

	indexes := map[string]*memdb.IndexSchema{
		idIndex: {
			Name:    idIndex,
			Unique:  true,
			Indexer: &memdb.IntFieldIndex{Field: idField},
		},
	}
	for _, col := range kind.Columns {
		if !col.Unique && !col.Indexed {
			continue
		}
		f, ok := typ.FieldByName(col.Field)
		if !ok {
			return nil, fmt.Errorf("%s has no field %s", typ.Name(), col.Field)
		}
		var indexer memdb.Indexer
		switch f.Type.Kind() {
		case reflect.String:
			indexer = &memdb.StringFieldIndex{Field: col.Field}
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			indexer = &memdb.IntFieldIndex{Field: col.Field}
		default:
			return nil, fmt.Errorf("unsupported unique field type %s for %s.%s", f.Type, typ.Name(), col.Field)
		}
		indexes[col.Name] = &memdb.IndexSchema{
			Name:         col.Name,
			Unique:       col.Unique,
			AllowMissing: true,
			Indexer:      indexer,
		}
	}

	return &memdb.DBSchema{
		Tables: map[string]*memdb.TableSchema{
			kind.Table: {
				Name:    kind.Table,
				Indexes: indexes,
			},
		},
	}, nil
}

// FindAll retrieves all rows ordered by id
func (r *MemoryRepository[T]) FindAll(_ context.Context) ([]*T, error) {
	txn := r.db.Txn(false)
	defer txn.Abort()

	it, err := txn.Get(r.kind.Table, idIndex)
	if err != nil {
		return nil, fmt.Errorf("error iterating %s: %w", r.kind.Table, err)
	}

	// IntFieldIndex keys are big-endian, so the id index iterates in numeric order.
	items := []*T{}
	for raw := it.Next(); raw != nil; raw = it.Next() {
		item := *raw.(*T)
		items = append(items, &item)
	}
	return items, nil
}

// FindAllBy retrieves the rows whose indexed column equals value
func (r *MemoryRepository[T]) FindAllBy(_ context.Context, column string, value any) ([]*T, error) {
	if _, err := indexedColumn(r.kind, column); err != nil {
		return nil, err
	}

	txn := r.db.Txn(false)
	defer txn.Abort()

	it, err := txn.Get(r.kind.Table, column, value)
	if err != nil {
		return nil, fmt.Errorf("error getting %s by %s: %w", r.kind.Table, column, err)
	}

	// non-unique index keys end with the id, so matches come out in key order
	items := []*T{}
	for raw := it.Next(); raw != nil; raw = it.Next() {
		item := *raw.(*T)
		items = append(items, &item)
	}
	return items, nil
}

// FindByID retrieves a row by primary key
func (r *MemoryRepository[T]) FindByID(_ context.Context, id int64) (*T, error) {
	return r.first(idIndex, id)
}

// FindOneBy retrieves a row by a unique column
func (r *MemoryRepository[T]) FindOneBy(_ context.Context, column string, value any) (*T, error) {
	if _, err := uniqueColumn(r.kind, column); err != nil {
		return nil, err
	}
	return r.first(column, value)
}

func (r *MemoryRepository[T]) first(index string, value any) (*T, error) {
	txn := r.db.Txn(false)
	defer txn.Abort()

	raw, err := txn.First(r.kind.Table, index, value)
	if err != nil {
		return nil, fmt.Errorf("error getting %s by %s: %w", r.kind.Table, index, err)
	}
	if raw == nil {
		return nil, ErrNotFound
	}
	item := *raw.(*T)
	return &item, nil
}

// Save inserts or updates v
func (r *MemoryRepository[T]) Save(_ context.Context, v *T) (*T, error) {
	txn := r.db.Txn(true)
	defer txn.Abort()

	stored := *v
	id := r.kind.ID(&stored)
	if id != 0 {
		existing, err := txn.First(r.kind.Table, idIndex, id)
		if err != nil {
			return nil, fmt.Errorf("error getting %s by id: %w", r.kind.Table, err)
		}
		if existing == nil {
			return nil, ErrNotFound
		}
	}

	for _, col := range r.kind.Columns {
		if !col.Unique {
			continue
		}
		other, err := txn.First(r.kind.Table, col.Name, col.Value(&stored))
		if err != nil {
			return nil, fmt.Errorf("error checking %s.%s: %w", r.kind.Table, col.Name, err)
		}
		if other != nil && r.kind.ID(other.(*T)) != id {
			return nil, conflictError(r.kind, r.kind.Table+"_"+col.Name+"_key")
		}
	}

	if id == 0 {
		r.nextID++
		r.kind.SetID(&stored, r.nextID)
	}
	if err := txn.Insert(r.kind.Table, &stored); err != nil {
		return nil, fmt.Errorf("error saving %s row: %w", r.kind.Table, err)
	}
	txn.Commit()

	saved := stored
	return &saved, nil
}

// Delete removes the row with v's key
func (r *MemoryRepository[T]) Delete(_ context.Context, v *T) error {
	txn := r.db.Txn(true)
	defer txn.Abort()

	existing, err := txn.First(r.kind.Table, idIndex, r.kind.ID(v))
	if err != nil {
		return fmt.Errorf("error getting %s by id: %w", r.kind.Table, err)
	}
	if existing == nil {
		return ErrNotFound
	}
	if err := txn.Delete(r.kind.Table, existing); err != nil {
		return fmt.Errorf("error deleting %s row: %w", r.kind.Table, err)
	}
	txn.Commit()
	return nil
}
