package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/briancappello/starter/internal/domain"
	"github.com/briancappello/starter/pkg/ctxutil"
)

type authenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.User, error)
}

// Auth resolves a bearer token into the request's user and access token.
// Requests without a bearer token continue anonymously. A rejected token
// gets 401; any other Authenticate failure gets 500.
func Auth(authn authenticator) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r.Header.Get("Authorization"))
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			user, err := authn.Authenticate(r.Context(), token)
			switch {
			case errors.Is(err, domain.ErrUnauthorized):
				w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token"`)
				writeJSONError(w, http.StatusUnauthorized, "unauthorized")
				return
			case err != nil:
				noteError(r.Context(), err)
				writeJSONError(w, http.StatusInternalServerError, "internal error")
				return
			}

			noteUser(r.Context(), user)
			ctx := ctxutil.WithAccessToken(ctxutil.WithUser(r.Context(), user), token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bearerToken returns the credentials of a "Bearer <token>" header value.
// The scheme is case-insensitive.
func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
