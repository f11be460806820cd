package middleware

import (
	"net/http"
	"strings"

	"github.com/briancappello/starter/pkg/ctxutil"
)

// BaseURL stores the scheme and host the request arrived on, honouring
// X-Forwarded-Proto and X-Forwarded-Host from a reverse proxy.
func BaseURL(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := ctxutil.WithBaseURL(r.Context(), requestBaseURL(r))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func requestBaseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if p := r.Header.Get("X-Forwarded-Proto"); p != "" {
		scheme, _, _ = strings.Cut(p, ",")
	}
	host := r.Host
	if h := r.Header.Get("X-Forwarded-Host"); h != "" {
		host, _, _ = strings.Cut(h, ",")
	}
	return strings.TrimSpace(scheme) + "://" + strings.TrimSpace(host)
}
