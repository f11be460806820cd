package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/briancappello/starter/internal/auth"
	"github.com/briancappello/starter/internal/domain"
)

// Login authenticates a user with email + password and stores a new opaque
// access token. Unknown email, wrong password and inactive accounts all
// return ErrUnauthorized. Unverified accounts return ErrForbidden when
// verification is required.
func (s *Service) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	input.Email = domain.NormalizeEmail(input.Email)

	if err := input.Validate(); err != nil {
		return nil, err
	}

	user, err := s.users.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.hasher.Verify(s.dummyHash, input.Password)
			return nil, domain.ErrUnauthorized
		}
		return nil, fmt.Errorf("auth.Login get user: %w", err)
	}

	if !s.hasher.Verify(user.HashedPassword, input.Password) || !user.IsActive {
		return nil, domain.ErrUnauthorized
	}
	if s.cfg.RequireVerified && !user.IsVerified {
		return nil, fmt.Errorf("auth.Login: user not verified: %w", domain.ErrForbidden)
	}

	raw, err := auth.GenerateAccessToken()
	if err != nil {
		return nil, fmt.Errorf("auth.Login generate token: %w", err)
	}
	if _, err := s.tokens.Create(ctx, raw, user.ID); err != nil {
		return nil, fmt.Errorf("auth.Login store token: %w", err)
	}

	s.log.InfoContext(ctx, "user logged in", slog.Int64("user_id", user.ID))

	return &LoginResult{AccessToken: raw, TokenType: TokenTypeBearer}, nil
}
