package token

import (
	"context"
	"fmt"
	"time"

	postgres "github.com/briancappello/starter/internal/adapter/postgres"
	"github.com/briancappello/starter/internal/adapter/postgres/record"
	"github.com/briancappello/starter/internal/domain"
)

// Repo exposes access-token persistence through record sessions.
type Repo struct {
	tx *postgres.TxManager
}

// NewRepo creates a new access-token repository.
func NewRepo(tx *postgres.TxManager) *Repo {
	return &Repo{tx: tx}
}

// Create stores token for userID.
func (r *Repo) Create(ctx context.Context, token string, userID int64) (*domain.AccessToken, error) {
	var t *domain.AccessToken
	err := r.tx.Scoped(ctx, func(ctx context.Context, s *record.Session) error {
		var err error
		t, err = New(s).Create(ctx, record.Fields{"token": token, "user_id": userID}, false)
		if err != nil {
			return postgres.MapError(err, "access_token", userID)
		}
		return postgres.MapError(s.Flush(ctx), "access_token", userID)
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// GetByToken returns a stored token. Returns domain.ErrNotFound if absent.
func (r *Repo) GetByToken(ctx context.Context, token string) (*domain.AccessToken, error) {
	var t *domain.AccessToken
	err := r.tx.Scoped(ctx, func(ctx context.Context, s *record.Session) error {
		var err error
		t, err = New(s).GetByToken(ctx, token)
		return err
	})
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, fmt.Errorf("access_token: %w", domain.ErrNotFound)
	}
	return t, nil
}

// ListRecent returns the newest tokens across users.
func (r *Repo) ListRecent(ctx context.Context, limit uint64) ([]*domain.AccessToken, error) {
	var toks []*domain.AccessToken
	err := r.tx.Scoped(ctx, func(ctx context.Context, s *record.Session) error {
		var err error
		toks, err = New(s).ListRecent(ctx, limit)
		return err
	})
	return toks, err
}

// Delete removes token. Deleting an unknown token is not an error.
func (r *Repo) Delete(ctx context.Context, token string) error {
	return r.tx.Scoped(ctx, func(ctx context.Context, s *record.Session) error {
		m := New(s)
		t, err := m.GetByToken(ctx, token)
		if err != nil || t == nil {
			return err
		}
		if err := m.Delete(ctx, t, false); err != nil {
			return postgres.MapError(err, "access_token", "***")
		}
		return postgres.MapError(s.Flush(ctx), "access_token", "***")
	})
}

// DeleteByUser removes every token of userID and returns how many.
func (r *Repo) DeleteByUser(ctx context.Context, userID int64) (int, error) {
	var n int
	err := r.tx.Scoped(ctx, func(ctx context.Context, s *record.Session) error {
		var err error
		if n, err = New(s).DeleteByUser(ctx, userID, false); err != nil {
			return err
		}
		return postgres.MapError(s.Flush(ctx), "access_token", userID)
	})
	return n, err
}

// DeleteExpired removes tokens created before cutoff.
func (r *Repo) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	var n int64
	err := r.tx.Scoped(ctx, func(ctx context.Context, s *record.Session) error {
		var err error
		n, err = New(s).DeleteExpired(ctx, cutoff)
		return err
	})
	return n, err
}
