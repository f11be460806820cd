// Package token provides the access_tokens table manager.
package token

import (
	"context"
	"time"

	"github.com/Masterminds/squirrel"

	postgres "github.com/briancappello/starter/internal/adapter/postgres"
	"github.com/briancappello/starter/internal/adapter/postgres/record"
	"github.com/briancappello/starter/internal/domain"
)

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Manager adds access-token queries to the generic record manager.
type Manager struct {
	*record.Manager[domain.AccessToken]
}

// New binds a token manager to s.
func New(s *record.Session) *Manager {
	return &Manager{Manager: record.NewManager(s, Table)}
}

// GetByToken returns the stored token, or nil when none exists.
func (m *Manager) GetByToken(ctx context.Context, token string) (*domain.AccessToken, error) {
	t, err := m.Get(ctx, token)
	if err != nil {
		return nil, postgres.MapError(err, "access_token", "***")
	}
	return t, nil
}

// ListByUser returns the tokens of a user, newest first.
func (m *Manager) ListByUser(ctx context.Context, userID int64) ([]*domain.AccessToken, error) {
	toks, err := m.FilterBy(record.Fields{"user_id": userID}).OrderBy("created_at DESC").All(ctx)
	if err != nil {
		return nil, postgres.MapError(err, "access_token", userID)
	}
	return toks, nil
}

// ListRecent returns the most recently issued tokens across all users.
func (m *Manager) ListRecent(ctx context.Context, limit uint64) ([]*domain.AccessToken, error) {
	toks, err := m.Select().OrderBy("created_at DESC", "token").Limit(limit).All(ctx)
	if err != nil {
		return nil, postgres.MapError(err, "access_token", "list")
	}
	return toks, nil
}

// DeleteByUser schedules every token of a user for deletion. The rows are
// removed on the session's next flush.
func (m *Manager) DeleteByUser(ctx context.Context, userID int64, commit bool) (int, error) {
	toks, err := m.ListByUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	if err := m.DeleteAll(ctx, toks, commit); err != nil {
		return 0, postgres.MapError(err, "access_token", userID)
	}
	return len(toks), nil
}

// DeleteExpired removes tokens created before cutoff with a single statement
// inside the session transaction and returns the number of deleted rows.
// Tracked instances of those rows are expunged from the session.
func (m *Manager) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	sql, args, err := psql.Delete(Table.Name()).
		Where(squirrel.Lt{"created_at": cutoff}).
		Suffix("RETURNING token").
		ToSql()
	if err != nil {
		return 0, err
	}

	s := m.Session()
	if err := s.Flush(ctx); err != nil {
		return 0, postgres.MapError(err, "access_token", "expired")
	}
	q, err := s.Querier(ctx)
	if err != nil {
		return 0, err
	}

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return 0, postgres.MapError(err, "access_token", "expired")
	}
	defer rows.Close()

	deleted := make(map[string]struct{})
	for rows.Next() {
		var tok string
		if err := rows.Scan(&tok); err != nil {
			return 0, postgres.MapError(err, "access_token", "expired")
		}
		deleted[tok] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return 0, postgres.MapError(err, "access_token", "expired")
	}

	for tok := range deleted {
		s.ExpungeKey(Table.Name(), tok)
	}
	return int64(len(deleted)), nil
}
