package rest

import (
	"context"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/briancappello/starter/internal/config"
	"github.com/briancappello/starter/internal/domain"
	"github.com/briancappello/starter/internal/transport/middleware"
	"github.com/briancappello/starter/internal/transport/rest/dataloader"
)

type authenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.User, error)
}

// RouterDeps holds everything NewRouter mounts.
type RouterDeps struct {
	Logger         *slog.Logger
	CORS           config.CORSConfig
	AuthPrefix     string
	LoginRateLimit int
	RequestTimeout time.Duration

	Authn       authenticator
	RateLimiter *middleware.RateLimiter
	Users       dataloader.UserSource

	Auth   *AuthHandler
	Admin  *AdminHandler
	Health *HealthHandler
}

var (
	activeUser   = middleware.RequireUser(middleware.RequireUserOptions{Active: true})
	verifiedUser = middleware.RequireUser(middleware.RequireUserOptions{Active: true, Verified: true})
	superuser    = middleware.RequireUser(middleware.RequireUserOptions{Active: true, Superuser: true})
)

// NewRouter builds the HTTP route tree.
func NewRouter(d RouterDeps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimiddleware.RealIP,
		middleware.Logger(d.Logger),
		middleware.Recovery(d.Logger),
		middleware.CORS(d.CORS),
		middleware.BaseURL,
		middleware.Auth(d.Authn),
	)
	if d.RequestTimeout > 0 {
		r.Use(chimiddleware.Timeout(d.RequestTimeout))
	}

	r.Get("/live", d.Health.Live)
	r.Get("/ready", d.Health.Ready)
	r.Get("/health", d.Health.Health)

	r.Get("/", Hello)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/", HelloAPI)
		r.Method(http.MethodGet, "/protected", verifiedUser(Protected))
	})

	prefix := d.AuthPrefix
	if prefix == "" {
		prefix = "/auth/v1"
	}
	r.Route(prefix, func(r chi.Router) {
		if d.RateLimiter != nil {
			r.Use(d.RateLimiter.Limit(d.LoginRateLimit))
		}
		h := d.Auth
		r.Post("/login", h.Login)
		r.Method(http.MethodPost, "/logout", activeUser(h.Logout))
		r.Post("/register", h.Register)
		r.Post("/forgot-password", h.ForgotPassword)
		r.Post("/reset-password", h.ResetPassword)
		r.Post("/request-verify-token", h.RequestVerify)
		r.Post("/verify", h.Verify)
		r.Method(http.MethodGet, "/users/me", activeUser(h.Me))
		r.Method(http.MethodPatch, "/users/me", activeUser(h.UpdateMe))
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(dataloader.Middleware(d.Users))
		h := d.Admin
		r.Method(http.MethodGet, "/users", superuser(h.ListUsers))
		r.Method(http.MethodGet, "/users/{id}", superuser(h.GetUser))
		r.Method(http.MethodGet, "/access-tokens", superuser(h.ListAccessTokens))
	})

	return r
}

// Route is one registered method and path.
type Route struct {
	Method string
	Path   string
}

// Routes lists every registered route sorted by path, then method.
func Routes(r chi.Routes) ([]Route, error) {
	var out []Route
	err := chi.Walk(r, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		out = append(out, Route{Method: method, Path: strings.ReplaceAll(route, "/*/", "/")})
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Path != out[j].Path {
			return out[i].Path < out[j].Path
		}
		return out[i].Method < out[j].Method
	})
	return out, nil
}
