package token

import (
	"github.com/briancappello/starter/internal/adapter/postgres/record"
	"github.com/briancappello/starter/internal/domain"
)

// Table maps domain.AccessToken onto the access_tokens table.
var Table = record.NewTable("access_tokens", []string{"token"},
	record.Column[domain.AccessToken]{Name: "token", Get: func(t *domain.AccessToken) any { return t.Token }},
	record.Column[domain.AccessToken]{Name: "user_id", Get: func(t *domain.AccessToken) any { return t.UserID }},
	record.Column[domain.AccessToken]{Name: "created_at", Get: func(t *domain.AccessToken) any { return t.CreatedAt }, ServerDefault: true},
)
