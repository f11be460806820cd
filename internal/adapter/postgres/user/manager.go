// Package user provides the users table manager.
package user

import (
	"context"

	"github.com/Masterminds/squirrel"

	postgres "github.com/briancappello/starter/internal/adapter/postgres"
	"github.com/briancappello/starter/internal/adapter/postgres/record"
	"github.com/briancappello/starter/internal/domain"
)

// Manager adds user-specific lookups to the generic record manager.
type Manager struct {
	*record.Manager[domain.User]
}

// New binds a user manager to s.
func New(s *record.Session) *Manager {
	return &Manager{Manager: record.NewManager(s, Table)}
}

// GetByID returns the user with id, or nil when none exists.
func (m *Manager) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	u, err := m.Get(ctx, id)
	if err != nil {
		return nil, postgres.MapError(err, "user", id)
	}
	return u, nil
}

// GetByEmail returns the user with the normalized email, or nil when none exists.
func (m *Manager) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	email = domain.NormalizeEmail(email)
	u, err := m.GetBy(ctx, record.Fields{"email": email})
	if err != nil {
		return nil, postgres.MapError(err, "user", email)
	}
	return u, nil
}

// GetByIDs loads users by id in a single query. Missing ids are skipped.
func (m *Manager) GetByIDs(ctx context.Context, ids []int64) ([]*domain.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	users, err := m.Filter(squirrel.Eq{"id": ids}).All(ctx)
	if err != nil {
		return nil, postgres.MapError(err, "user", ids)
	}
	return users, nil
}

// ListOrdered returns a page of users ordered by id. A zero limit returns all.
func (m *Manager) ListOrdered(ctx context.Context, limit, offset uint64) ([]*domain.User, error) {
	users, err := m.Select().OrderBy("id").Limit(limit).Offset(offset).All(ctx)
	if err != nil {
		return nil, postgres.MapError(err, "user", "list")
	}
	return users, nil
}

// Count returns the number of users.
func (m *Manager) Count(ctx context.Context) (int64, error) {
	n, err := m.Select().Count(ctx)
	if err != nil {
		return 0, postgres.MapError(err, "user", "count")
	}
	return n, nil
}
