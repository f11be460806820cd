package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/briancappello/starter/internal/adapter/postgres/record"
	"github.com/briancappello/starter/internal/domain"
)

// UpdateMe applies self-service profile changes for user. Changing the email
// resets the verified flag and triggers a new verification request.
func (s *Service) UpdateMe(ctx context.Context, user *domain.User, input UpdateMeInput) (*domain.User, error) {
	if err := input.Validate(s.cfg.MinPasswordLen); err != nil {
		return nil, err
	}

	fields := record.Fields{}
	if input.FirstName != nil {
		fields["first_name"] = strings.TrimSpace(*input.FirstName)
	}
	if input.LastName != nil {
		fields["last_name"] = strings.TrimSpace(*input.LastName)
	}
	emailChanged := false
	if input.Email != nil {
		if email := domain.NormalizeEmail(*input.Email); email != user.Email {
			fields["email"] = email
			fields["is_verified"] = false
			emailChanged = true
		}
	}
	if input.Password != nil {
		hash, err := s.hasher.Hash(*input.Password)
		if err != nil {
			return nil, fmt.Errorf("auth.UpdateMe hash password: %w", err)
		}
		fields["hashed_password"] = hash
	}

	if len(fields) == 0 {
		return user, nil
	}

	updated, err := s.users.Update(ctx, user.ID, fields)
	if err != nil {
		return nil, fmt.Errorf("auth.UpdateMe: %w", err)
	}

	s.log.InfoContext(ctx, "user updated profile", slog.Int64("user_id", updated.ID))

	if emailChanged {
		if err := s.sendVerifyRequest(ctx, updated); err != nil {
			s.log.ErrorContext(ctx, "send verify request failed",
				slog.Int64("user_id", updated.ID), slog.String("error", err.Error()))
		}
	}
	return updated, nil
}
