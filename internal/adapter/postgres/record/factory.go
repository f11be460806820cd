package record

import (
	"context"
	"fmt"
	"log/slog"
)

// Factory creates sessions over a shared connection pool.
type Factory struct {
	db        Beginner
	log       *slog.Logger
	autoflush bool
}

// Option configures a Factory.
type Option func(*Factory)

// WithAutoflush sets the autoflush default for new sessions.
func WithAutoflush(on bool) Option {
	return func(f *Factory) { f.autoflush = on }
}

// NewFactory creates a Factory. Sessions autoflush unless configured otherwise.
func NewFactory(db Beginner, logger *slog.Logger, opts ...Option) *Factory {
	f := &Factory{
		db:        db,
		log:       logger.With("component", "record"),
		autoflush: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// New returns a fresh session. The caller must Close it.
func (f *Factory) New() *Session {
	s := NewSession(f.db)
	s.autoflush = f.autoflush
	return s
}

// Run executes fn with a new session and always closes it.
// On success: pending changes are committed.
// On error from fn: rolls back and returns the error.
// On panic from fn: rolls back and re-panics.
// Nested Run calls create independent sessions and transactions.
func (f *Factory) Run(ctx context.Context, fn func(ctx context.Context, s *Session) error) (err error) {
	s := f.New()

	defer func() {
		if r := recover(); r != nil {
			_ = s.Close(ctx)
			panic(r)
		}
	}()

	if err := fn(ctx, s); err != nil {
		if rbErr := s.Rollback(ctx); rbErr != nil {
			f.log.ErrorContext(ctx, "rollback failed",
				slog.String("error", rbErr.Error()),
				slog.String("cause", err.Error()),
			)
			return fmt.Errorf("rollback failed: %w (original error: %v)", rbErr, err)
		}
		return err
	}

	if err := s.Commit(ctx); err != nil {
		_ = s.Close(ctx)
		return err
	}
	return s.Close(ctx)
}
