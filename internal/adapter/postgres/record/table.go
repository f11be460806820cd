// Package record implements a generic record access layer over PostgreSQL.
//
// Every entity type declares one *Table descriptor. A Manager bound to that
// descriptor provides create/get/query/update/delete operations that run
// against a Session, the unit of work that tracks loaded instances, collects
// pending changes and writes them inside a single pgx transaction.
package record

import (
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/go-viper/mapstructure/v2"
)

// Column maps one table column onto a field of T.
type Column[T any] struct {
	Name string
	// Get returns the current Go value of the column for inst.
	Get func(inst *T) any
	// ServerDefault columns are left out of INSERT while their Go value is
	// zero, so serial ids and DEFAULT clauses apply.
	ServerDefault bool
}

// Table describes how an entity type T is stored. Create one per entity
// type with NewTable and pass it to NewManager.
type Table[T any] struct {
	name     string
	pk       []string
	columns  []Column[T]
	index    map[string]int
	defaults Fields
}

// NewTable builds a table descriptor. It panics on an invalid descriptor:
// tables are package-level variables, so a misconfigured entity fails at
// program start instead of at query time.
func NewTable[T any](name string, primaryKey []string, columns ...Column[T]) *Table[T] {
	t, err := newTable(name, primaryKey, columns)
	if err != nil {
		panic(err)
	}
	return t
}

func newTable[T any](name string, primaryKey []string, columns []Column[T]) (*Table[T], error) {
	var zero T
	if reflect.TypeOf(zero).Kind() != reflect.Struct {
		return nil, fmt.Errorf("record: table %q: entity type %T is not a struct", name, zero)
	}
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("record: table name is required for %T", zero)
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("record: table %q has no columns", name)
	}
	if len(primaryKey) == 0 {
		return nil, fmt.Errorf("record: table %q has no primary key", name)
	}

	index := make(map[string]int, len(columns))
	for i, c := range columns {
		if c.Name == "" {
			return nil, fmt.Errorf("record: table %q: column %d has no name", name, i)
		}
		if c.Get == nil {
			return nil, fmt.Errorf("record: table %q: column %q has no getter", name, c.Name)
		}
		if _, dup := index[c.Name]; dup {
			return nil, fmt.Errorf("record: table %q: duplicate column %q", name, c.Name)
		}
		index[c.Name] = i
	}
	for _, k := range primaryKey {
		if _, ok := index[k]; !ok {
			return nil, fmt.Errorf("record: table %q: primary key column %q is not mapped", name, k)
		}
	}

	return &Table[T]{
		name:    name,
		pk:      slices.Clone(primaryKey),
		columns: slices.Clone(columns),
		index:   index,
	}, nil
}

// WithDefaults sets values that Manager.Create assigns before the caller's
// fields. It panics on unknown columns and returns t for chaining.
func (t *Table[T]) WithDefaults(defaults Fields) *Table[T] {
	for k := range defaults {
		if !t.HasColumn(k) {
			panic(&UnknownFieldError{Table: t.name, Field: k})
		}
	}
	t.defaults = merge(t.defaults, defaults)
	return t
}

// Name returns the table name.
func (t *Table[T]) Name() string { return t.name }

// PrimaryKey returns the primary-key column names in key order.
func (t *Table[T]) PrimaryKey() []string { return slices.Clone(t.pk) }

// Columns returns all mapped column names in declaration order.
func (t *Table[T]) Columns() []string {
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.Name
	}
	return names
}

// HasColumn reports whether name is a mapped column.
func (t *Table[T]) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

func (t *Table[T]) value(inst *T, column string) any {
	return t.columns[t.index[column]].Get(inst)
}

// values returns a snapshot of every column value of inst.
func (t *Table[T]) values(inst *T) map[string]any {
	out := make(map[string]any, len(t.columns))
	for _, c := range t.columns {
		out[c.Name] = c.Get(inst)
	}
	return out
}

// keyValues returns the primary-key values of inst. It fails with an
// *UnsetColumnError when a key column still holds its zero value.
func (t *Table[T]) keyValues(inst *T) ([]any, error) {
	key := make([]any, len(t.pk))
	for i, col := range t.pk {
		v := t.value(inst, col)
		if isZero(v) {
			return nil, &UnsetColumnError{Table: t.name, Column: col}
		}
		key[i] = v
	}
	return key, nil
}

func (t *Table[T]) identity(key []any) string {
	return identityOf(t.name, key)
}

func identityOf(table string, key []any) string {
	var b strings.Builder
	b.WriteString(table)
	for _, v := range key {
		b.WriteByte('|')
		writeKey(&b, v)
	}
	return b.String()
}

// writeKey writes v tagged with its type, so "1" and 1 never share an
// identity. All integer kinds share one tag: a key passed as int finds the
// row loaded into an int64 field.
func writeKey(b *strings.Builder, v any) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		fmt.Fprintf(b, "int:%d", rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		fmt.Fprintf(b, "int:%d", rv.Uint())
	default:
		fmt.Fprintf(b, "%T:%v", v, v)
	}
}

// keyEq converts a primary-key argument (a scalar for single-column keys or a
// Key for composite ones) into its values and an equality predicate.
func (t *Table[T]) keyEq(pk any) ([]any, squirrel.Eq, error) {
	var key []any
	switch v := pk.(type) {
	case Key:
		key = v
	default:
		key = []any{pk}
	}
	if len(key) != len(t.pk) {
		return nil, nil, fmt.Errorf("record: table %q: primary key has %d columns, got %d values",
			t.name, len(t.pk), len(key))
	}
	eq := make(squirrel.Eq, len(key))
	for i, col := range t.pk {
		eq[col] = key[i]
	}
	return key, eq, nil
}

// eq builds a conjunctive equality predicate from fields. Ref values are
// resolved here, so a reference to an unflushed instance fails with an
// *UnsetColumnError before any SQL is sent.
func (t *Table[T]) eq(fields Fields) (squirrel.Eq, error) {
	eq := make(squirrel.Eq, len(fields))
	for k, v := range fields {
		if !t.HasColumn(k) {
			return nil, &UnknownFieldError{Table: t.name, Field: k}
		}
		if ref, ok := v.(Ref); ok {
			resolved, err := ref.Resolve()
			if err != nil {
				return nil, err
			}
			v = resolved
		}
		eq[k] = v
	}
	return eq, nil
}

// assign writes fields onto inst using the db struct tags of T.
func (t *Table[T]) assign(inst *T, fields Fields) error {
	for k := range fields {
		if !t.HasColumn(k) {
			return &UnknownFieldError{Table: t.name, Field: k}
		}
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:     "db",
		ErrorUnused: true,
		ZeroFields:  true,
		Result:      inst,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
		),
	})
	if err != nil {
		return fmt.Errorf("record: table %q: decoder: %w", t.name, err)
	}
	if err := dec.Decode(map[string]any(fields)); err != nil {
		return fmt.Errorf("record: table %q: assign: %w", t.name, err)
	}
	return nil
}

func isZero(v any) bool {
	if v == nil {
		return true
	}
	return reflect.ValueOf(v).IsZero()
}
