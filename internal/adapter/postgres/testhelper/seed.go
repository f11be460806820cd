package testhelper

import (
	"context"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/briancappello/starter/internal/adapter/postgres/record"
	tokenrepo "github.com/briancappello/starter/internal/adapter/postgres/token"
	userrepo "github.com/briancappello/starter/internal/adapter/postgres/user"
	"github.com/briancappello/starter/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// Factory returns a session factory over pool that discards its logs.
func Factory(pool *pgxpool.Pool) *record.Factory {
	return record.NewFactory(pool, slog.New(slog.DiscardHandler))
}

// SeedUser inserts an active, verified user with a unique email.
// HashedPassword is a placeholder that never verifies.
func SeedUser(t *testing.T, pool *pgxpool.Pool) *domain.User {
	t.Helper()
	return SeedUserWith(t, pool, record.Fields{})
}

// SeedUserWith inserts a user built from fields over seed defaults.
func SeedUserWith(t *testing.T, pool *pgxpool.Pool, fields record.Fields) *domain.User {
	t.Helper()

	suffix := uniqueSuffix()
	values := record.Fields{
		"email":           "testuser-" + suffix + "@example.com",
		"hashed_password": "not-a-bcrypt-hash",
		"is_verified":     true,
		"first_name":      "Test",
		"last_name":       "User " + suffix,
	}
	for k, v := range fields {
		values[k] = v
	}

	var user *domain.User
	err := Factory(pool).Run(context.Background(), func(ctx context.Context, s *record.Session) error {
		var err error
		user, err = record.NewManager(s, userrepo.Table).Create(ctx, values, true)
		return err
	})
	if err != nil {
		t.Fatalf("testhelper: SeedUser: %v", err)
	}
	return user
}

// SeedAccessToken inserts an access token for userID.
func SeedAccessToken(t *testing.T, pool *pgxpool.Pool, userID int64) *domain.AccessToken {
	t.Helper()

	var tok *domain.AccessToken
	err := Factory(pool).Run(context.Background(), func(ctx context.Context, s *record.Session) error {
		var err error
		tok, err = record.NewManager(s, tokenrepo.Table).Create(ctx, record.Fields{
			"token":   "tok-" + uuid.New().String(),
			"user_id": userID,
		}, true)
		return err
	})
	if err != nil {
		t.Fatalf("testhelper: SeedAccessToken: %v", err)
	}
	return tok
}
