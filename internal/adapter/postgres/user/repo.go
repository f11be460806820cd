package user

import (
	"context"
	"fmt"
	"maps"

	postgres "github.com/briancappello/starter/internal/adapter/postgres"
	"github.com/briancappello/starter/internal/adapter/postgres/record"
	"github.com/briancappello/starter/internal/domain"
)

// Repo exposes user persistence by id and email. Each call runs in the
// session bound to ctx, or in a session of its own.
type Repo struct {
	tx *postgres.TxManager
}

// NewRepo creates a new user repository.
func NewRepo(tx *postgres.TxManager) *Repo {
	return &Repo{tx: tx}
}

// GetByID returns a user by primary key. Returns domain.ErrNotFound if absent.
func (r *Repo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var u *domain.User
	err := r.tx.Scoped(ctx, func(ctx context.Context, s *record.Session) error {
		var err error
		u, err = New(s).GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, fmt.Errorf("user %d: %w", id, domain.ErrNotFound)
	}
	return u, nil
}

// GetByEmail returns a user by email. Returns domain.ErrNotFound if absent.
func (r *Repo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u *domain.User
	err := r.tx.Scoped(ctx, func(ctx context.Context, s *record.Session) error {
		var err error
		u, err = New(s).GetByEmail(ctx, email)
		return err
	})
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, fmt.Errorf("user %s: %w", domain.NormalizeEmail(email), domain.ErrNotFound)
	}
	return u, nil
}

// GetByIDs loads several users in one query.
func (r *Repo) GetByIDs(ctx context.Context, ids []int64) ([]*domain.User, error) {
	var users []*domain.User
	err := r.tx.Scoped(ctx, func(ctx context.Context, s *record.Session) error {
		var err error
		users, err = New(s).GetByIDs(ctx, ids)
		return err
	})
	return users, err
}

// List returns a page of users ordered by id and the total count.
func (r *Repo) List(ctx context.Context, limit, offset uint64) ([]*domain.User, int64, error) {
	var (
		users []*domain.User
		total int64
	)
	err := r.tx.Scoped(ctx, func(ctx context.Context, s *record.Session) error {
		m := New(s)
		var err error
		if users, err = m.ListOrdered(ctx, limit, offset); err != nil {
			return err
		}
		total, err = m.Count(ctx)
		return err
	})
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// Create inserts a user built from fields and returns it with server
// defaults populated. Returns domain.ErrAlreadyExists on a duplicate email.
func (r *Repo) Create(ctx context.Context, fields record.Fields) (*domain.User, error) {
	fields = normalized(fields)

	var u *domain.User
	err := r.tx.Scoped(ctx, func(ctx context.Context, s *record.Session) error {
		var err error
		if u, err = New(s).Create(ctx, fields, false); err != nil {
			return postgres.MapError(err, "user", fields["email"])
		}
		return postgres.MapError(s.Flush(ctx), "user", fields["email"])
	})
	if err != nil {
		return nil, err
	}
	return u, nil
}

// Update assigns fields to the user with id and writes them.
func (r *Repo) Update(ctx context.Context, id int64, fields record.Fields) (*domain.User, error) {
	fields = normalized(fields)

	var u *domain.User
	err := r.tx.Scoped(ctx, func(ctx context.Context, s *record.Session) error {
		m := New(s)
		var err error
		if u, err = m.GetByID(ctx, id); err != nil {
			return err
		}
		if u == nil {
			return fmt.Errorf("user %d: %w", id, domain.ErrNotFound)
		}
		if _, err := m.Update(ctx, u, fields, false); err != nil {
			return postgres.MapError(err, "user", id)
		}
		return postgres.MapError(s.Flush(ctx), "user", id)
	})
	if err != nil {
		return nil, err
	}
	return u, nil
}

// Delete removes the user with id. Access tokens go with it by cascade.
func (r *Repo) Delete(ctx context.Context, id int64) error {
	return r.tx.Scoped(ctx, func(ctx context.Context, s *record.Session) error {
		m := New(s)
		u, err := m.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if u == nil {
			return fmt.Errorf("user %d: %w", id, domain.ErrNotFound)
		}
		if err := m.Delete(ctx, u, false); err != nil {
			return postgres.MapError(err, "user", id)
		}
		return postgres.MapError(s.Flush(ctx), "user", id)
	})
}

func normalized(fields record.Fields) record.Fields {
	email, ok := fields["email"].(string)
	if !ok {
		return fields
	}
	out := maps.Clone(fields)
	out["email"] = domain.NormalizeEmail(email)
	return out
}
