package ctxutil

import (
	"context"

	"github.com/briancappello/starter/internal/domain"
)

type ctxKey string

const (
	userKey        ctxKey = "user"
	accessTokenKey ctxKey = "access_token"
	requestIDKey   ctxKey = "request_id"
	baseURLKey     ctxKey = "base_url"
)

// WithUser stores the authenticated user in the context.
func WithUser(ctx context.Context, u *domain.User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

// UserFromCtx extracts the authenticated user from the context.
// Returns nil and false if the value is missing, nil, or wrong type.
func UserFromCtx(ctx context.Context) (*domain.User, bool) {
	u, ok := ctx.Value(userKey).(*domain.User)
	if !ok || u == nil {
		return nil, false
	}
	return u, true
}

// WithAccessToken stores the bearer token the request authenticated with.
func WithAccessToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, accessTokenKey, token)
}

// AccessTokenFromCtx returns the bearer token, or "" if absent.
func AccessTokenFromCtx(ctx context.Context) string {
	t, _ := ctx.Value(accessTokenKey).(string)
	return t
}

// WithRequestID stores the request ID in the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromCtx extracts the request ID from the context.
// Returns an empty string if absent.
func RequestIDFromCtx(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// WithBaseURL stores the public base URL the request arrived on.
func WithBaseURL(ctx context.Context, url string) context.Context {
	return context.WithValue(ctx, baseURLKey, url)
}

// BaseURLFromCtx returns the request base URL, or "" if absent.
func BaseURLFromCtx(ctx context.Context) string {
	u, _ := ctx.Value(baseURLKey).(string)
	return u
}
