package user

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/briancappello/starter/internal/adapter/postgres/record"
	"github.com/briancappello/starter/internal/domain"
	"github.com/briancappello/starter/internal/mail"
)

// Create adds a user. With sendEmail the welcome mail is queued, plus a
// verification request when the user is created unverified.
func (s *Service) Create(ctx context.Context, input CreateInput, sendEmail bool) (*domain.User, error) {
	input.normalize()

	if err := input.Validate(s.cfg.MinPasswordLen); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("user.Create hash password: %w", err)
	}

	user, err := s.users.Create(ctx, record.Fields{
		"email":           input.Email,
		"hashed_password": hash,
		"first_name":      input.FirstName,
		"last_name":       input.LastName,
		"is_verified":     input.IsVerified,
		"is_superuser":    input.IsSuperuser,
	})
	if err != nil {
		return nil, fmt.Errorf("user.Create: %w", err)
	}

	s.log.InfoContext(ctx, "user created",
		slog.Int64("user_id", user.ID),
		slog.Bool("superuser", user.IsSuperuser))

	if sendEmail {
		s.notify(ctx, user, "Welcome to "+s.site.Name, mail.TemplateUserRegistered)
		if !user.IsVerified {
			if err := s.verify.RequestVerify(ctx, user.Email); err != nil {
				s.log.ErrorContext(ctx, "send verify request failed",
					slog.Int64("user_id", user.ID), slog.String("error", err.Error()))
			}
		}
	}
	return user, nil
}

// Get returns the user with id.
func (s *Service) Get(ctx context.Context, id int64) (*domain.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("user.Get: %w", err)
	}
	return u, nil
}

// GetByEmail returns the user with email.
func (s *Service) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("user.GetByEmail: %w", err)
	}
	return u, nil
}

// List returns a page of users ordered by id and the total count. A zero
// limit returns every user.
func (s *Service) List(ctx context.Context, limit, offset uint64) ([]*domain.User, int64, error) {
	users, total, err := s.users.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("user.List: %w", err)
	}
	return users, total, nil
}

// Activate allows the user with email to log in again.
func (s *Service) Activate(ctx context.Context, email string) (*domain.User, error) {
	return s.setFlag(ctx, "user.Activate", email, "is_active", true)
}

// Deactivate blocks the user with email from logging in.
func (s *Service) Deactivate(ctx context.Context, email string) (*domain.User, error) {
	return s.setFlag(ctx, "user.Deactivate", email, "is_active", false)
}

// Promote grants superuser rights to the user with email.
func (s *Service) Promote(ctx context.Context, email string) (*domain.User, error) {
	return s.setFlag(ctx, "user.Promote", email, "is_superuser", true)
}

// Verify marks the user with email as verified.
func (s *Service) Verify(ctx context.Context, email string, sendEmail bool) (*domain.User, error) {
	u, err := s.setFlag(ctx, "user.Verify", email, "is_verified", true)
	if err != nil {
		return nil, err
	}
	if sendEmail {
		s.notify(ctx, u, "Your email address is verified", mail.TemplateUserVerified)
	}
	return u, nil
}

// SetPassword replaces the password of the user with email.
func (s *Service) SetPassword(ctx context.Context, email, password string, sendEmail bool) (*domain.User, error) {
	if msg := checkPassword(password, s.cfg.MinPasswordLen); msg != "" {
		return nil, domain.NewValidationError("password", msg)
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("user.SetPassword: %w", err)
	}
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("user.SetPassword hash password: %w", err)
	}
	u, err = s.users.Update(ctx, u.ID, record.Fields{"hashed_password": hash})
	if err != nil {
		return nil, fmt.Errorf("user.SetPassword: %w", err)
	}

	s.log.InfoContext(ctx, "user password set", slog.Int64("user_id", u.ID))
	if sendEmail {
		s.notify(ctx, u, "Your password has been reset", mail.TemplateUserPasswordReset)
	}
	return u, nil
}

// Delete removes the user with email together with its access tokens.
func (s *Service) Delete(ctx context.Context, email string, sendEmail bool) error {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("user.Delete: %w", err)
	}
	if err := s.users.Delete(ctx, u.ID); err != nil {
		return fmt.Errorf("user.Delete: %w", err)
	}

	s.log.InfoContext(ctx, "user deleted", slog.Int64("user_id", u.ID))
	if sendEmail {
		s.notify(ctx, u, "Your account has been deleted", mail.TemplateUserDeleted)
	}
	return nil
}

func (s *Service) setFlag(ctx context.Context, op, email, column string, value bool) (*domain.User, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	u, err = s.users.Update(ctx, u.ID, record.Fields{column: value})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.InfoContext(ctx, "user updated",
		slog.Int64("user_id", u.ID),
		slog.String("field", column),
		slog.Bool("value", value))
	return u, nil
}
