package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/briancappello/starter/internal/domain"
	"github.com/briancappello/starter/pkg/ctxutil"
)

// RequireUserOptions lists the flags the current user must carry.
type RequireUserOptions struct {
	Active    bool
	Verified  bool
	Superuser bool
}

// UserHandler is an http handler that receives the authenticated user.
type UserHandler func(w http.ResponseWriter, r *http.Request, user *domain.User)

// RequireUser returns an adapter that runs a UserHandler only for an
// authenticated user satisfying opts. Anonymous requests get 401, failed
// checks get 403.
func RequireUser(opts RequireUserOptions) func(UserHandler) http.Handler {
	return func(h UserHandler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := ctxutil.UserFromCtx(r.Context())
			if !ok {
				writeJSONError(w, http.StatusUnauthorized, "not authenticated")
				return
			}
			if msg := opts.check(user); msg != "" {
				writeJSONError(w, http.StatusForbidden, msg)
				return
			}
			h(w, r, user)
		})
	}
}

func (o RequireUserOptions) check(u *domain.User) string {
	switch {
	case o.Active && !u.IsActive:
		return "inactive user"
	case o.Verified && !u.IsVerified:
		return "unverified user"
	case o.Superuser && !u.IsSuperuser:
		return "superuser required"
	}
	return ""
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"detail": msg})
}
