package models

// Column describes one mutable, persisted field of an entity.
// Name is the SQL column, Field the Go struct field backing it.
type Column[T any] struct {
	Name   string
	Field  string
	Unique bool
	// Indexed columns can be searched with FindAllBy. Unique implies Indexed.
	Indexed bool
	// Value returns the field value for inserts and updates.
	Value func(*T) any
	// Ref returns a pointer to the field for row scanning.
	Ref func(*T) any
}

// Kind is the capability descriptor every entity type provides so that a
// single repository, service and controller implementation can serve it.
type Kind[T any] struct {
	// Name is the entity type name used in messages ("Book with id 1 not found").
	Name string
	// Route is the path segment under /api.
	Route string
	// Table is the backing table name.
	Table   string
	Columns []Column[T]
	// PresentParams are request keys whose zero value is valid. The
	// validator's required rule rejects zero, so the controller checks
	// these keys on the raw request instead.
	PresentParams []string
	// Key returns a pointer to the surrogate primary key.
	Key func(*T) *int64
}

// ID returns the primary key of v.
func (k *Kind[T]) ID(v *T) int64 {
	return *k.Key(v)
}

// SetID assigns the primary key of v.
func (k *Kind[T]) SetID(v *T, id int64) {
	*k.Key(v) = id
}

// ColumnNames returns the SQL names of the mutable columns in declaration order.
func (k *Kind[T]) ColumnNames() []string {
	names := make([]string, len(k.Columns))
	for i, c := range k.Columns {
		names[i] = c.Name
	}
	return names
}

// Values returns v's mutable column values in declaration order.
func (k *Kind[T]) Values(v *T) []any {
	values := make([]any, len(k.Columns))
	for i, c := range k.Columns {
		values[i] = c.Value(v)
	}
	return values
}

// ValueMap returns v's mutable column values keyed by column name.
func (k *Kind[T]) ValueMap(v *T) map[string]any {
	values := make(map[string]any, len(k.Columns))
	for _, c := range k.Columns {
		values[c.Name] = c.Value(v)
	}
	return values
}

// Refs returns scan destinations for a row selected as id followed by ColumnNames.
func (k *Kind[T]) Refs(v *T) []any {
	refs := make([]any, 0, len(k.Columns)+1)
	refs = append(refs, k.Key(v))
	for _, c := range k.Columns {
		refs = append(refs, c.Ref(v))
	}
	return refs
}

// Column looks up a column by SQL name.
func (k *Kind[T]) Column(name string) (Column[T], bool) {
	for _, c := range k.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column[T]{}, false
}

// Apply overwrites every mutable field of dst with the corresponding field
// of src. The key of dst is left untouched.
func (k *Kind[T]) Apply(dst, src *T) {
	id := k.ID(dst)
	*dst = *src
	k.SetID(dst, id)
}
