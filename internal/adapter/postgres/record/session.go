package record

import (
	"context"
	"fmt"
	"slices"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier is the statement interface of pgx.Tx used by the session.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Beginner opens transactions. *pgxpool.Pool and pgxmock pools implement it.
type Beginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Session is a unit of work. It tracks instances loaded or saved through it,
// keeps an identity map so a primary key maps to one *T, and writes pending
// inserts, updates and deletes to a lazily opened transaction on Flush.
//
// A Session is not safe for concurrent use. Acquire one per request or task,
// usually through Factory.Run.
type Session struct {
	db        Beginner
	tx        pgx.Tx
	autoflush bool

	units    []unit
	byPtr    map[any]unit
	identity map[string]unit
	deleted  []unit
}

// NewSession creates a session over db with autoflush enabled.
func NewSession(db Beginner) *Session {
	return &Session{
		db:        db,
		autoflush: true,
		byPtr:     make(map[any]unit),
		identity:  make(map[string]unit),
	}
}

// Autoflush reports whether queries flush pending changes first.
func (s *Session) Autoflush() bool { return s.autoflush }

// SetAutoflush toggles flush-before-query.
func (s *Session) SetAutoflush(on bool) { s.autoflush = on }

// NoAutoflush suspends autoflush and returns a func restoring the previous
// setting. Use it with defer:
//
//	defer s.NoAutoflush()()
func (s *Session) NoAutoflush() (restore func()) {
	prev := s.autoflush
	s.autoflush = false
	return func() { s.autoflush = prev }
}

// WithoutAutoflush runs fn with autoflush suspended. The previous setting is
// restored even if fn fails or panics.
func (s *Session) WithoutAutoflush(fn func() error) error {
	defer s.NoAutoflush()()
	return fn()
}

// InTransaction reports whether the session has an open transaction.
func (s *Session) InTransaction() bool { return s.tx != nil }

// Dirty reports whether Flush would write anything.
func (s *Session) Dirty() bool {
	if len(s.deleted) > 0 {
		return true
	}
	for _, u := range s.units {
		if u.dirty() {
			return true
		}
	}
	return false
}

// Tracks reports whether inst is tracked by the session.
func (s *Session) Tracks(inst any) bool {
	_, ok := s.byPtr[inst]
	return ok
}

// Querier returns the session transaction, opening it when needed. Statements
// run through it share the session's transaction but bypass tracking.
func (s *Session) Querier(ctx context.Context) (Querier, error) {
	if s.tx != nil {
		return s.tx, nil
	}
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("record: begin transaction: %w", err)
	}
	s.tx = tx
	return tx, nil
}

// queryConn flushes when autoflush is on and returns the transaction.
func (s *Session) queryConn(ctx context.Context) (Querier, error) {
	if s.autoflush {
		if err := s.Flush(ctx); err != nil {
			return nil, err
		}
	}
	return s.Querier(ctx)
}

// Flush writes pending changes to the transaction: inserts and updates in
// the order instances were added, then deletes.
func (s *Session) Flush(ctx context.Context) error {
	if !s.Dirty() {
		return nil
	}
	q, err := s.Querier(ctx)
	if err != nil {
		return err
	}

	for _, u := range s.units {
		if !u.dirty() {
			continue
		}
		wasPersisted := u.persisted()
		if err := u.flush(ctx, q); err != nil {
			return err
		}
		if !wasPersisted {
			s.register(u)
		}
	}

	for len(s.deleted) > 0 {
		u := s.deleted[0]
		if err := u.remove(ctx, q); err != nil {
			return err
		}
		s.deleted = s.deleted[1:]
	}
	return nil
}

// Commit flushes and commits the transaction. Tracked instances stay
// attached and keep their values.
func (s *Session) Commit(ctx context.Context) error {
	if err := s.Flush(ctx); err != nil {
		return err
	}
	if s.tx == nil {
		return nil
	}
	tx := s.tx
	s.tx = nil
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("record: commit transaction: %w", err)
	}
	return nil
}

// Rollback aborts the transaction and forgets every tracked instance.
func (s *Session) Rollback(ctx context.Context) error {
	s.reset()
	if s.tx == nil {
		return nil
	}
	tx := s.tx
	s.tx = nil
	if err := tx.Rollback(ctx); err != nil {
		return fmt.Errorf("record: rollback transaction: %w", err)
	}
	return nil
}

// Close rolls back any open transaction and releases tracked state.
func (s *Session) Close(ctx context.Context) error {
	return s.Rollback(ctx)
}

// Expunge stops tracking inst without touching the database.
func (s *Session) Expunge(inst any) {
	u, ok := s.byPtr[inst]
	if !ok {
		return
	}
	s.untrack(u)
}

// ExpungeKey stops tracking the instance of table stored under key. Use it
// after statements issued through Querier removed rows behind the session.
func (s *Session) ExpungeKey(table string, key ...any) {
	if u, ok := s.identity[identityOf(table, key)]; ok {
		s.untrack(u)
	}
}

func (s *Session) reset() {
	s.units = nil
	s.deleted = nil
	clear(s.byPtr)
	clear(s.identity)
}

func (s *Session) add(u unit) {
	if _, ok := s.byPtr[u.instance()]; ok {
		return
	}
	s.units = append(s.units, u)
	s.byPtr[u.instance()] = u
	if u.persisted() {
		s.register(u)
	}
}

func (s *Session) register(u unit) {
	if id, ok := u.identity(); ok {
		s.identity[id] = u
	}
}

func (s *Session) untrack(u unit) {
	delete(s.byPtr, u.instance())
	if id, ok := u.identity(); ok && s.identity[id] == u {
		delete(s.identity, id)
	}
	if i := slices.Index(s.units, u); i >= 0 {
		s.units = slices.Delete(s.units, i, i+1)
	}
}

// remove untracks u and schedules a DELETE when it has a stored row.
func (s *Session) remove(u unit) {
	s.untrack(u)
	if u.persisted() && !slices.Contains(s.deleted, u) {
		s.deleted = append(s.deleted, u)
	}
}

func (s *Session) lookup(id string) (unit, bool) {
	u, ok := s.identity[id]
	return u, ok
}
