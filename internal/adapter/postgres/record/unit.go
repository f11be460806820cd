package record

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
)

var builder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// unit is a tracked instance of any entity type.
type unit interface {
	instance() any
	persisted() bool
	identity() (string, bool)
	dirty() bool
	flush(ctx context.Context, q Querier) error
	remove(ctx context.Context, q Querier) error
}

// entry tracks one *T inside a Session.
type entry[T any] struct {
	t        *Table[T]
	inst     *T
	loaded   bool
	snapshot map[string]any
	deferred map[string]Ref
}

func newEntry[T any](t *Table[T], inst *T) *entry[T] {
	return &entry[T]{t: t, inst: inst}
}

// loadedEntry wraps an instance whose column values mirror a stored row.
func loadedEntry[T any](t *Table[T], inst *T) *entry[T] {
	return &entry[T]{t: t, inst: inst, loaded: true, snapshot: t.values(inst)}
}

func (e *entry[T]) instance() any   { return e.inst }
func (e *entry[T]) persisted() bool { return e.loaded }

func (e *entry[T]) identity() (string, bool) {
	if !e.loaded {
		return "", false
	}
	key := make([]any, len(e.t.pk))
	for i, col := range e.t.pk {
		key[i] = e.snapshot[col]
	}
	return e.t.identity(key), true
}

// apply assigns fields onto the instance. Ref values that cannot be resolved
// yet are kept and assigned at flush time.
func (e *entry[T]) apply(fields Fields) error {
	plain, deferred := split(fields)
	for k := range deferred {
		if !e.t.HasColumn(k) {
			return &UnknownFieldError{Table: e.t.name, Field: k}
		}
	}
	if err := e.t.assign(e.inst, plain); err != nil {
		return err
	}
	for k := range plain {
		delete(e.deferred, k)
	}
	if len(deferred) > 0 {
		if e.deferred == nil {
			e.deferred = make(map[string]Ref, len(deferred))
		}
		for k, ref := range deferred {
			e.deferred[k] = ref
		}
	}
	return nil
}

func (e *entry[T]) resolveDeferred() error {
	if len(e.deferred) == 0 {
		return nil
	}
	resolved := make(Fields, len(e.deferred))
	for _, k := range sortedKeys(e.deferred) {
		v, err := e.deferred[k].Resolve()
		if err != nil {
			return fmt.Errorf("record: %s.%s: %w", e.t.name, k, err)
		}
		resolved[k] = v
	}
	if err := e.t.assign(e.inst, resolved); err != nil {
		return err
	}
	e.deferred = nil
	return nil
}

func (e *entry[T]) flush(ctx context.Context, q Querier) error {
	if err := e.resolveDeferred(); err != nil {
		return err
	}
	if !e.loaded {
		return e.insert(ctx, q)
	}
	return e.update(ctx, q)
}

func (e *entry[T]) returning() string {
	return "RETURNING " + strings.Join(e.t.Columns(), ", ")
}

func (e *entry[T]) insert(ctx context.Context, q Querier) error {
	var cols []string
	var vals []any
	for _, c := range e.t.columns {
		v := c.Get(e.inst)
		if c.ServerDefault && isZero(v) {
			continue
		}
		cols = append(cols, c.Name)
		vals = append(vals, v)
	}

	var (
		sql  string
		args []any
		err  error
	)
	if len(cols) == 0 {
		sql = "INSERT INTO " + e.t.name + " DEFAULT VALUES " + e.returning()
	} else {
		sql, args, err = builder.Insert(e.t.name).
			Columns(cols...).
			Values(vals...).
			Suffix(e.returning()).
			ToSql()
		if err != nil {
			return fmt.Errorf("record: build insert %s: %w", e.t.name, err)
		}
	}
	if err := pgxscan.Get(ctx, q, e.inst, sql, args...); err != nil {
		return err
	}

	e.loaded = true
	e.snapshot = e.t.values(e.inst)
	return nil
}

// changes returns the columns whose value differs from the snapshot.
func (e *entry[T]) changes() (map[string]any, error) {
	current := e.t.values(e.inst)
	changed := make(map[string]any)
	for k, v := range current {
		if reflect.DeepEqual(v, e.snapshot[k]) {
			continue
		}
		for _, pk := range e.t.pk {
			if k == pk {
				return nil, fmt.Errorf("record: %s.%s: %w", e.t.name, k, ErrPrimaryKeyChanged)
			}
		}
		changed[k] = v
	}
	return changed, nil
}

func (e *entry[T]) dirty() bool {
	if !e.loaded {
		return true
	}
	changed, err := e.changes()
	return err != nil || len(changed) > 0 || len(e.deferred) > 0
}

func (e *entry[T]) keyPredicate() squirrel.Eq {
	eq := make(squirrel.Eq, len(e.t.pk))
	for _, col := range e.t.pk {
		eq[col] = e.snapshot[col]
	}
	return eq
}

func (e *entry[T]) update(ctx context.Context, q Querier) error {
	changed, err := e.changes()
	if err != nil {
		return err
	}
	if len(changed) == 0 {
		return nil
	}

	sql, args, err := builder.Update(e.t.name).
		SetMap(changed).
		Where(e.keyPredicate()).
		Suffix(e.returning()).
		ToSql()
	if err != nil {
		return fmt.Errorf("record: build update %s: %w", e.t.name, err)
	}
	if err := pgxscan.Get(ctx, q, e.inst, sql, args...); err != nil {
		return err
	}

	e.snapshot = e.t.values(e.inst)
	return nil
}

func (e *entry[T]) remove(ctx context.Context, q Querier) error {
	sql, args, err := builder.Delete(e.t.name).Where(e.keyPredicate()).ToSql()
	if err != nil {
		return fmt.Errorf("record: build delete %s: %w", e.t.name, err)
	}
	if _, err := q.Exec(ctx, sql, args...); err != nil {
		return err
	}
	e.loaded = false
	return nil
}

// matches reports whether the instance currently holds fields. Unresolvable
// Ref values never match.
func (e *entry[T]) matches(fields Fields) bool {
	for k, want := range fields {
		if !e.t.HasColumn(k) {
			return false
		}
		if ref, ok := want.(Ref); ok {
			v, err := ref.Resolve()
			if err != nil {
				return false
			}
			want = v
		}
		if !sameValue(e.t.value(e.inst, k), want) {
			return false
		}
	}
	return true
}

// sameValue compares column values, treating numbers of different integer
// or float types as equal when they hold the same value.
func sameValue(a, b any) bool {
	if reflect.DeepEqual(a, b) {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	if isNumber(a) && isNumber(b) {
		return fmt.Sprint(a) == fmt.Sprint(b)
	}
	return false
}

func isNumber(v any) bool {
	switch reflect.ValueOf(v).Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
