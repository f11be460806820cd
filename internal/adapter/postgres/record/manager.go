package record

import (
	"context"
	"errors"

	"github.com/Masterminds/squirrel"
)

// Manager provides uniform CRUD and lookup operations for one entity type.
// It holds no state beyond its session and table; embed it in a concrete
// manager to add entity-specific queries.
type Manager[T any] struct {
	s *Session
	t *Table[T]
}

// NewManager binds table to session. Both are required.
func NewManager[T any](s *Session, table *Table[T]) *Manager[T] {
	if s == nil {
		panic("record: NewManager: nil session")
	}
	if table == nil {
		panic("record: NewManager: nil table")
	}
	return &Manager[T]{s: s, t: table}
}

// Session returns the unit of work the manager runs against.
func (m *Manager[T]) Session() *Session { return m.s }

// Table returns the bound table descriptor.
func (m *Manager[T]) Table() *Table[T] { return m.t }

// Select returns an unexecuted query over every row of the table.
func (m *Manager[T]) Select() *Query[T] {
	return &Query[T]{m: m}
}

// Filter returns an unexecuted query restricted by preds.
func (m *Manager[T]) Filter(preds ...squirrel.Sqlizer) *Query[T] {
	return m.Select().Where(preds...)
}

// FilterBy returns an unexecuted query restricted by column equality.
func (m *Manager[T]) FilterBy(fields Fields) *Query[T] {
	return m.Select().FilterBy(fields)
}

// All loads every row of the table.
func (m *Manager[T]) All(ctx context.Context) ([]*T, error) {
	return m.Select().All(ctx)
}

// Get returns the instance with the given primary key, or nil when no row
// exists. pk is a scalar for single-column keys or a Key for composite ones.
// Tracked instances are returned without a database round trip.
func (m *Manager[T]) Get(ctx context.Context, pk any) (*T, error) {
	key, eq, err := m.t.keyEq(pk)
	if err != nil {
		return nil, err
	}
	if u, ok := m.s.lookup(m.t.identity(key)); ok {
		return u.instance().(*T), nil
	}
	return m.Filter(eq).OneOrNone(ctx)
}

// GetBy returns the single instance matching fields, nil when none does, and
// ErrAmbiguousResult when several do.
func (m *Manager[T]) GetBy(ctx context.Context, fields Fields) (*T, error) {
	return m.FilterBy(fields).OneOrNone(ctx)
}

// Create builds a new instance from fields and adds it to the session.
// The session is committed when commit is true.
func (m *Manager[T]) Create(ctx context.Context, fields Fields, commit bool) (*T, error) {
	inst := new(T)
	e := newEntry(m.t, inst)
	if err := e.apply(merge(m.t.defaults, fields)); err != nil {
		return nil, err
	}
	m.s.add(e)
	if commit {
		if err := m.s.Commit(ctx); err != nil {
			return nil, err
		}
	}
	return inst, nil
}

// GetOrCreate looks up an instance by fields and creates one from fields and
// defaults when none matches. The bool reports whether it was created.
func (m *Manager[T]) GetOrCreate(ctx context.Context, fields, defaults Fields, commit bool) (*T, bool, error) {
	inst, err := m.maybeGetBy(ctx, fields)
	if err != nil {
		return nil, false, err
	}
	if inst != nil {
		return inst, false, nil
	}

	inst, err = m.Create(ctx, merge(defaults, fields), commit)
	if err != nil {
		return nil, false, err
	}
	return inst, true, nil
}

// UpdateOrCreate looks up an instance by fields. A match gets defaults
// assigned in memory and is neither saved nor committed here; the change is
// written by the session's next flush. Without a match a new instance is
// created from fields and defaults, committed when commit is true.
func (m *Manager[T]) UpdateOrCreate(ctx context.Context, fields, defaults Fields, commit bool) (*T, bool, error) {
	inst, err := m.maybeGetBy(ctx, fields)
	if err != nil {
		return nil, false, err
	}
	if inst == nil {
		inst, err = m.Create(ctx, merge(defaults, fields), commit)
		if err != nil {
			return nil, false, err
		}
		return inst, true, nil
	}

	if err := m.entryOf(inst).apply(defaults); err != nil {
		return nil, false, err
	}
	return inst, false, nil
}

// maybeGetBy runs GetBy with autoflush suspended. Pending instances that
// already hold fields count as a match. A lookup that fails only because a
// filter value references an unflushed instance is treated as no match.
func (m *Manager[T]) maybeGetBy(ctx context.Context, fields Fields) (*T, error) {
	defer m.s.NoAutoflush()()

	if inst := m.pendingMatch(fields); inst != nil {
		return inst, nil
	}
	inst, err := m.GetBy(ctx, fields)
	if errors.Is(err, ErrUnsetColumn) {
		return nil, nil
	}
	return inst, err
}

func (m *Manager[T]) pendingMatch(fields Fields) *T {
	for _, u := range m.s.units {
		e, ok := u.(*entry[T])
		if !ok || e.t != m.t || e.loaded {
			continue
		}
		if e.matches(fields) {
			return e.inst
		}
	}
	return nil
}

// Update assigns fields onto inst and saves it. An untracked inst whose
// primary key is set is taken to mirror its stored row, so only fields are
// written, as an UPDATE. If the session already tracks another instance
// under that key, fields go onto the tracked instance, which is returned.
func (m *Manager[T]) Update(ctx context.Context, inst *T, fields Fields, commit bool) (*T, error) {
	e := m.updatable(inst)
	if err := e.apply(fields); err != nil {
		return nil, err
	}
	m.s.add(e)
	if commit {
		if err := m.s.Commit(ctx); err != nil {
			return nil, err
		}
	}
	return e.inst, nil
}

func (m *Manager[T]) updatable(inst *T) *entry[T] {
	if _, ok := m.s.byPtr[inst]; ok {
		return m.entryOf(inst)
	}
	key, err := m.t.keyValues(inst)
	if err != nil {
		return newEntry(m.t, inst)
	}
	if u, ok := m.s.lookup(m.t.identity(key)); ok {
		if e, ok := u.(*entry[T]); ok {
			return e
		}
	}
	return loadedEntry(m.t, inst)
}

// Save adds inst to the session. Untracked instances are inserted on the
// next flush; tracked ones are updated if their values changed.
func (m *Manager[T]) Save(ctx context.Context, inst *T, commit bool) (*T, error) {
	m.s.add(m.entryOf(inst))
	if commit {
		if err := m.s.Commit(ctx); err != nil {
			return nil, err
		}
	}
	return inst, nil
}

// SaveAll adds every instance to the session.
func (m *Manager[T]) SaveAll(ctx context.Context, insts []*T, commit bool) ([]*T, error) {
	for _, inst := range insts {
		m.s.add(m.entryOf(inst))
	}
	if commit {
		if err := m.s.Commit(ctx); err != nil {
			return nil, err
		}
	}
	return insts, nil
}

// Delete removes inst from the session and schedules its row for deletion.
// A pending instance is simply dropped. An untracked instance is deleted by
// its primary key and fails with ErrNotPersisted when that key is unset.
func (m *Manager[T]) Delete(ctx context.Context, inst *T, commit bool) error {
	if err := m.remove(inst); err != nil {
		return err
	}
	if commit {
		return m.s.Commit(ctx)
	}
	return nil
}

// DeleteAll deletes every instance.
func (m *Manager[T]) DeleteAll(ctx context.Context, insts []*T, commit bool) error {
	for _, inst := range insts {
		if err := m.remove(inst); err != nil {
			return err
		}
	}
	if commit {
		return m.s.Commit(ctx)
	}
	return nil
}

func (m *Manager[T]) remove(inst *T) error {
	if u, ok := m.s.byPtr[inst]; ok {
		m.s.remove(u)
		return nil
	}
	if _, err := m.t.keyValues(inst); err != nil {
		return errors.Join(ErrNotPersisted, err)
	}
	m.s.remove(loadedEntry(m.t, inst))
	return nil
}

// Commit flushes and commits the session.
func (m *Manager[T]) Commit(ctx context.Context) error {
	return m.s.Commit(ctx)
}

// NoAutoflush suspends session autoflush until the returned func is called.
func (m *Manager[T]) NoAutoflush() (restore func()) {
	return m.s.NoAutoflush()
}

func (m *Manager[T]) entryOf(inst *T) *entry[T] {
	if u, ok := m.s.byPtr[inst]; ok {
		if e, ok := u.(*entry[T]); ok {
			return e
		}
	}
	return newEntry(m.t, inst)
}

// load merges scanned rows into the identity map. A row whose key is already
// tracked yields the tracked instance, keeping one *T per primary key.
func (m *Manager[T]) load(rows []*T) []*T {
	out := make([]*T, 0, len(rows))
	for _, row := range rows {
		e := loadedEntry(m.t, row)
		id, _ := e.identity()
		if u, ok := m.s.lookup(id); ok {
			out = append(out, u.instance().(*T))
			continue
		}
		m.s.add(e)
		out = append(out, row)
	}
	return out
}
