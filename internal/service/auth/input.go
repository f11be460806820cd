package auth

import (
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/briancappello/starter/internal/domain"
)

const (
	maxEmailLen    = 320
	maxNameLen     = 64
	maxPasswordLen = 72 // bcrypt ignores everything past 72 bytes
)

// RegisterInput holds parameters for registration.
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

func (i *RegisterInput) normalize() {
	i.Email = domain.NormalizeEmail(i.Email)
	i.FirstName = strings.TrimSpace(i.FirstName)
	i.LastName = strings.TrimSpace(i.LastName)
}

// Validate validates the registration input.
func (i RegisterInput) Validate(minPasswordLen int) error {
	var errs []domain.FieldError
	errs = validateEmail(errs, "email", i.Email)
	errs = validatePassword(errs, "password", i.Password, minPasswordLen)
	errs = validateName(errs, "first_name", i.FirstName)
	errs = validateName(errs, "last_name", i.LastName)

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// LoginInput holds email + password credentials.
type LoginInput struct {
	Email    string
	Password string
}

// Validate validates the login input.
func (i LoginInput) Validate() error {
	var errs []domain.FieldError
	if i.Email == "" {
		errs = append(errs, domain.FieldError{Field: "email", Message: "required"})
	}
	if i.Password == "" {
		errs = append(errs, domain.FieldError{Field: "password", Message: "required"})
	}
	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// UpdateMeInput holds the self-service profile changes. Nil fields are kept.
type UpdateMeInput struct {
	Email     *string
	Password  *string
	FirstName *string
	LastName  *string
}

// Validate validates the update input.
func (i UpdateMeInput) Validate(minPasswordLen int) error {
	var errs []domain.FieldError
	if i.Email != nil {
		errs = validateEmail(errs, "email", domain.NormalizeEmail(*i.Email))
	}
	if i.Password != nil {
		errs = validatePassword(errs, "password", *i.Password, minPasswordLen)
	}
	if i.FirstName != nil {
		errs = validateName(errs, "first_name", strings.TrimSpace(*i.FirstName))
	}
	if i.LastName != nil {
		errs = validateName(errs, "last_name", strings.TrimSpace(*i.LastName))
	}
	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

func validateEmail(errs []domain.FieldError, field, email string) []domain.FieldError {
	switch {
	case email == "":
		return append(errs, domain.FieldError{Field: field, Message: "required"})
	case len(email) > maxEmailLen:
		return append(errs, domain.FieldError{Field: field, Message: "too long"})
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return append(errs, domain.FieldError{Field: field, Message: "invalid email format"})
	}
	return errs
}

func validatePassword(errs []domain.FieldError, field, password string, minLen int) []domain.FieldError {
	switch {
	case password == "":
		return append(errs, domain.FieldError{Field: field, Message: "required"})
	case utf8.RuneCountInString(password) < minLen:
		return append(errs, domain.FieldError{Field: field, Message: "too short"})
	case len(password) > maxPasswordLen:
		return append(errs, domain.FieldError{Field: field, Message: "too long"})
	}
	return errs
}

func validateName(errs []domain.FieldError, field, name string) []domain.FieldError {
	if utf8.RuneCountInString(name) > maxNameLen {
		return append(errs, domain.FieldError{Field: field, Message: "too long"})
	}
	return errs
}
