package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/briancappello/starter/internal/adapter/postgres/record"
	"github.com/briancappello/starter/internal/auth"
	"github.com/briancappello/starter/internal/domain"
)

// RequestVerify mails a verification link to an active, unverified user.
// Other emails are accepted silently.
func (s *Service) RequestVerify(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("auth.RequestVerify get user: %w", err)
	}
	if !user.IsActive || user.IsVerified {
		return nil
	}

	if err := s.sendVerifyRequest(ctx, user); err != nil {
		return fmt.Errorf("auth.RequestVerify: %w", err)
	}
	return nil
}

// Verify marks the user of a verification token as verified.
// Returns ErrConflict if the user is already verified.
func (s *Service) Verify(ctx context.Context, token string) (*domain.User, error) {
	claims, err := s.purpose.Parse(auth.AudienceVerify, token)
	if err != nil {
		return nil, badToken()
	}
	userID, err := claims.UserID()
	if err != nil {
		return nil, badToken()
	}

	var user *domain.User
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		current, err := s.users.GetByID(ctx, userID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return badToken()
			}
			return err
		}
		// The email may have changed since the link was sent.
		if current.Email != claims.Email {
			return badToken()
		}
		if current.IsVerified {
			return domain.ErrConflict
		}
		user, err = s.users.Update(ctx, userID, record.Fields{"is_verified": true})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("auth.Verify: %w", err)
	}

	s.log.InfoContext(ctx, "user verified", slog.Int64("user_id", user.ID))
	return user, nil
}
