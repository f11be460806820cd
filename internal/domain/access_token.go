package domain

import "time"

// AccessToken is an opaque bearer token stored in the database.
type AccessToken struct {
	Token     string    `db:"token"      json:"token"`
	UserID    int64     `db:"user_id"    json:"user_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// IsExpired reports whether the token is older than lifetime at now.
// A zero lifetime never expires.
func (t *AccessToken) IsExpired(now time.Time, lifetime time.Duration) bool {
	if lifetime <= 0 {
		return false
	}
	return !t.CreatedAt.Add(lifetime).After(now)
}

func (t *AccessToken) String() string { return t.Token }
