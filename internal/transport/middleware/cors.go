package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/briancappello/starter/internal/config"
)

// CORS answers preflight requests and adds the Access-Control-Allow-*
// headers for allowed origins. A preflight is an OPTIONS request carrying
// Access-Control-Request-Method; other OPTIONS requests reach the router.
func CORS(cfg config.CORSConfig) Middleware {
	allowed, any := parseOrigins(cfg.AllowedOrigins)
	maxAge := strconv.Itoa(cfg.MaxAge)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}

			h := w.Header()
			h.Add("Vary", "Origin")
			ok := any || allowed[origin]
			if ok {
				h.Set("Access-Control-Allow-Origin", origin)
				if cfg.AllowCredentials {
					h.Set("Access-Control-Allow-Credentials", "true")
				}
			}

			if r.Method != http.MethodOptions || r.Header.Get("Access-Control-Request-Method") == "" {
				next.ServeHTTP(w, r)
				return
			}

			if !ok {
				writeJSONError(w, http.StatusForbidden, "disallowed CORS origin")
				return
			}
			h.Set("Access-Control-Allow-Methods", cfg.AllowedMethods)
			h.Set("Access-Control-Allow-Headers", cfg.AllowedHeaders)
			h.Set("Access-Control-Max-Age", maxAge)
			w.WriteHeader(http.StatusNoContent)
		})
	}
}

// parseOrigins splits a comma-separated origin list. "*" allows any origin.
func parseOrigins(list string) (map[string]bool, bool) {
	set := make(map[string]bool)
	for _, o := range strings.Split(list, ",") {
		o = strings.TrimSpace(o)
		switch o {
		case "":
		case "*":
			return nil, true
		default:
			set[o] = true
		}
	}
	return set, false
}
