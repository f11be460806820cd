package user

import (
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/briancappello/starter/internal/domain"
)

// CreateInput holds parameters for creating a user.
type CreateInput struct {
	Email       string
	Password    string
	FirstName   string
	LastName    string
	IsVerified  bool
	IsSuperuser bool
}

func (i *CreateInput) normalize() {
	i.Email = domain.NormalizeEmail(i.Email)
	i.FirstName = strings.TrimSpace(i.FirstName)
	i.LastName = strings.TrimSpace(i.LastName)
}

// Validate validates the create input.
func (i CreateInput) Validate(minPasswordLen int) error {
	var errs []domain.FieldError

	if i.Email == "" {
		errs = append(errs, domain.FieldError{Field: "email", Message: "required"})
	} else if addr, err := mail.ParseAddress(i.Email); err != nil || addr.Address != i.Email {
		errs = append(errs, domain.FieldError{Field: "email", Message: "invalid email format"})
	}

	if i.FirstName == "" {
		errs = append(errs, domain.FieldError{Field: "first_name", Message: "required"})
	}
	if i.LastName == "" {
		errs = append(errs, domain.FieldError{Field: "last_name", Message: "required"})
	}

	if msg := checkPassword(i.Password, minPasswordLen); msg != "" {
		errs = append(errs, domain.FieldError{Field: "password", Message: msg})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

func checkPassword(password string, minLen int) string {
	switch {
	case password == "":
		return "required"
	case utf8.RuneCountInString(password) < minLen:
		return "too short"
	case len(password) > 72:
		return "too long"
	}
	return ""
}
