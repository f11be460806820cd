package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/briancappello/starter/internal/domain"
)

// Logout deletes the access token. Returns ErrUnauthorized for an empty token.
func (s *Service) Logout(ctx context.Context, token string) error {
	if token == "" {
		return domain.ErrUnauthorized
	}

	if err := s.tokens.Delete(ctx, token); err != nil {
		return fmt.Errorf("auth.Logout: %w", err)
	}

	s.log.InfoContext(ctx, "user logged out")
	return nil
}

// Authenticate resolves an access token to its user. The token must exist
// and be younger than the configured lifetime.
// Returns ErrUnauthorized otherwise.
func (s *Service) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, domain.ErrUnauthorized
	}

	tok, err := s.tokens.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, fmt.Errorf("auth.Authenticate get token: %w", err)
	}
	if tok.IsExpired(s.now(), s.cfg.TokenLifetime) {
		s.log.DebugContext(ctx, "access token expired", slog.Int64("user_id", tok.UserID))
		return nil, domain.ErrUnauthorized
	}

	user, err := s.users.GetByID(ctx, tok.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, fmt.Errorf("auth.Authenticate get user: %w", err)
	}
	return user, nil
}
