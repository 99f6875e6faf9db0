package repositories

import (
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/ucsb-cs156/crudapi/internal/app/models"
)

// queries builds the SQL shared by the postgres and sqlite repositories.
type queries[T any] struct {
	kind *models.Kind[T]
	sb   squirrel.StatementBuilderType
}

func newQueries[T any](kind *models.Kind[T], placeholder squirrel.PlaceholderFormat) queries[T] {
	return queries[T]{
		kind: kind,
		sb:   squirrel.StatementBuilder.PlaceholderFormat(placeholder),
	}
}

func (q queries[T]) selectColumns() []string {
	return append([]string{"id"}, q.kind.ColumnNames()...)
}

func (q queries[T]) selectAll() (string, []any, error) {
	return q.sb.Select(q.selectColumns()...).
		From(q.kind.Table).
		OrderBy("id ASC").
		ToSql()
}

func (q queries[T]) selectWhere(column string, value any) (string, []any, error) {
	return q.sb.Select(q.selectColumns()...).
		From(q.kind.Table).
		Where(squirrel.Eq{column: value}).
		Limit(1).
		ToSql()
}

func (q queries[T]) selectAllWhere(column string, value any) (string, []any, error) {
	return q.sb.Select(q.selectColumns()...).
		From(q.kind.Table).
		Where(squirrel.Eq{column: value}).
		OrderBy("id ASC").
		ToSql()
}

func (q queries[T]) insert(v *T) (string, []any, error) {
	return q.sb.Insert(q.kind.Table).
		Columns(q.kind.ColumnNames()...).
		Values(q.kind.Values(v)...).
		Suffix("RETURNING id").
		ToSql()
}

func (q queries[T]) update(v *T) (string, []any, error) {
	return q.sb.Update(q.kind.Table).
		SetMap(q.kind.ValueMap(v)).
		Where(squirrel.Eq{"id": q.kind.ID(v)}).
		ToSql()
}

func (q queries[T]) delete(id int64) (string, []any, error) {
	return q.sb.Delete(q.kind.Table).
		Where(squirrel.Eq{"id": id}).
		ToSql()
}

func (q queries[T]) buildError(op string, err error) error {
	return fmt.Errorf("failed to build %s %s query: %w", op, q.kind.Table, err)
}
