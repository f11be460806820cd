package auth

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/briancappello/starter/internal/adapter/postgres/record"
	"github.com/briancappello/starter/internal/domain"
	"github.com/briancappello/starter/internal/mail"
)

// Register creates a new user with email + password authentication.
// Returns ErrAlreadyExists if the email is already taken. A welcome mail is
// queued, followed by a verification request for unverified users.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	input.normalize()

	if err := input.Validate(s.cfg.MinPasswordLen); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth.Register hash password: %w", err)
	}

	// Email uniqueness is enforced by the database.
	user, err := s.users.Create(ctx, record.Fields{
		"email":           input.Email,
		"hashed_password": hash,
		"first_name":      input.FirstName,
		"last_name":       input.LastName,
	})
	if err != nil {
		return nil, fmt.Errorf("auth.Register: %w", err)
	}

	s.log.InfoContext(ctx, "user registered", slog.Int64("user_id", user.ID))

	s.sendMail(ctx, mail.Message{
		To:       []string{user.Email},
		Subject:  "Welcome to " + s.site.Name,
		Template: mail.TemplateUserRegistered,
		Data:     map[string]any{"User": user},
	})
	if !user.IsVerified {
		if err := s.sendVerifyRequest(ctx, user); err != nil {
			s.log.ErrorContext(ctx, "send verify request failed",
				slog.Int64("user_id", user.ID), slog.String("error", err.Error()))
		}
	}

	return user, nil
}
