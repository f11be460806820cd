package postgres

import (
	"context"

	"github.com/briancappello/starter/internal/adapter/postgres/record"
)

type sessionCtxKey struct{}

func withSession(ctx context.Context, s *record.Session) context.Context {
	return context.WithValue(ctx, sessionCtxKey{}, s)
}

// SessionFromCtx returns the session bound by RunInTx, if any.
func SessionFromCtx(ctx context.Context) (*record.Session, bool) {
	s, ok := ctx.Value(sessionCtxKey{}).(*record.Session)
	return s, ok
}

// TxManager runs units of work by binding a record session to the context.
// Repositories pick the session up with Scoped.
type TxManager struct {
	factory *record.Factory
}

// NewTxManager creates a new TxManager.
func NewTxManager(factory *record.Factory) *TxManager {
	return &TxManager{factory: factory}
}

// Factory returns the underlying session factory.
func (m *TxManager) Factory() *record.Factory { return m.factory }

// RunInTx executes fn with a session bound to its context.
// On success: pending changes are flushed and committed.
// On error from fn: rolls back and returns the error.
// On panic from fn: rolls back and re-panics.
// A RunInTx inside another joins the outer session.
func (m *TxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := SessionFromCtx(ctx); ok {
		return fn(ctx)
	}
	return m.factory.Run(ctx, func(ctx context.Context, s *record.Session) error {
		return fn(withSession(ctx, s))
	})
}

// Scoped runs fn against the session bound to ctx. Without one it opens a
// session that is committed when fn succeeds.
func (m *TxManager) Scoped(ctx context.Context, fn func(ctx context.Context, s *record.Session) error) error {
	if s, ok := SessionFromCtx(ctx); ok {
		return fn(ctx, s)
	}
	return m.factory.Run(ctx, func(ctx context.Context, s *record.Session) error {
		return fn(withSession(ctx, s), s)
	})
}
