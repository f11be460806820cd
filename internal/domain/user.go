package domain

import (
	"strings"
	"time"
)

// User represents an application user with password authentication.
type User struct {
	ID             int64     `db:"id"              json:"id"`
	Email          string    `db:"email"           json:"email"`
	HashedPassword string    `db:"hashed_password" json:"-"`
	IsActive       bool      `db:"is_active"       json:"is_active"`
	IsSuperuser    bool      `db:"is_superuser"    json:"is_superuser"`
	IsVerified     bool      `db:"is_verified"     json:"is_verified"`
	FirstName      string    `db:"first_name"      json:"first_name"`
	LastName       string    `db:"last_name"       json:"last_name"`
	CreatedAt      time.Time `db:"created_at"      json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"      json:"updated_at"`
}

// FullName joins first and last name.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

func (u *User) String() string { return u.Email }

// NormalizeEmail trims and lowercases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
