package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/briancappello/starter/internal/adapter/postgres/record"
	"github.com/briancappello/starter/internal/auth"
	"github.com/briancappello/starter/internal/domain"
	"github.com/briancappello/starter/internal/mail"
)

// ForgotPassword mails a password reset link to an active user. Unknown and
// inactive emails are accepted silently so the endpoint cannot be used to
// probe for accounts.
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("auth.ForgotPassword get user: %w", err)
	}
	if !user.IsActive {
		return nil
	}

	token, err := s.purpose.Issue(auth.AudienceResetPassword, user.ID, user.Email,
		auth.Fingerprint(user.HashedPassword), s.cfg.ResetTokenTTL)
	if err != nil {
		return fmt.Errorf("auth.ForgotPassword issue token: %w", err)
	}

	if err := s.deliver(ctx, mail.Message{
		To:       []string{user.Email},
		Subject:  "Forgot Password Request",
		Template: mail.TemplateUserForgotPassword,
		Data:     map[string]any{"User": user, "Token": token},
	}); err != nil {
		return fmt.Errorf("auth.ForgotPassword send mail: %w", err)
	}

	s.log.InfoContext(ctx, "password reset requested", slog.Int64("user_id", user.ID))
	return nil
}

// ResetPassword sets a new password using a token from ForgotPassword. The
// token is single use: it embeds a fingerprint of the old password hash.
func (s *Service) ResetPassword(ctx context.Context, token, password string) (*domain.User, error) {
	claims, err := s.purpose.Parse(auth.AudienceResetPassword, token)
	if err != nil {
		return nil, badToken()
	}
	userID, err := claims.UserID()
	if err != nil {
		return nil, badToken()
	}

	if errs := validatePassword(nil, "password", password, s.cfg.MinPasswordLen); len(errs) > 0 {
		return nil, domain.NewValidationErrors(errs)
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
		if !current.IsActive || claims.PasswordFingerprint != auth.Fingerprint(current.HashedPassword) {
			return badToken()
		}

		hash, err := s.hasher.Hash(password)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		user, err = s.users.Update(ctx, userID, record.Fields{"hashed_password": hash})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("auth.ResetPassword: %w", err)
	}

	s.log.InfoContext(ctx, "password reset", slog.Int64("user_id", user.ID))
	s.sendMail(ctx, mail.Message{
		To:       []string{user.Email},
		Subject:  "Your password has been reset",
		Template: mail.TemplateUserPasswordReset,
		Data:     map[string]any{"User": user},
	})
	return user, nil
}
