package user

import (
	"github.com/briancappello/starter/internal/adapter/postgres/record"
	"github.com/briancappello/starter/internal/domain"
)

// Table maps domain.User onto the users table. New users are active unless
// the caller says otherwise.
var Table = record.NewTable("users", []string{"id"},
	record.Column[domain.User]{Name: "id", Get: func(u *domain.User) any { return u.ID }, ServerDefault: true},
	record.Column[domain.User]{Name: "email", Get: func(u *domain.User) any { return u.Email }},
	record.Column[domain.User]{Name: "hashed_password", Get: func(u *domain.User) any { return u.HashedPassword }},
	record.Column[domain.User]{Name: "is_active", Get: func(u *domain.User) any { return u.IsActive }},
	record.Column[domain.User]{Name: "is_superuser", Get: func(u *domain.User) any { return u.IsSuperuser }},
	record.Column[domain.User]{Name: "is_verified", Get: func(u *domain.User) any { return u.IsVerified }},
	record.Column[domain.User]{Name: "first_name", Get: func(u *domain.User) any { return u.FirstName }},
	record.Column[domain.User]{Name: "last_name", Get: func(u *domain.User) any { return u.LastName }},
	record.Column[domain.User]{Name: "created_at", Get: func(u *domain.User) any { return u.CreatedAt }, ServerDefault: true},
	record.Column[domain.User]{Name: "updated_at", Get: func(u *domain.User) any { return u.UpdatedAt }, ServerDefault: true},
).WithDefaults(record.Fields{"is_active": true})
