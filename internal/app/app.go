package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/briancappello/starter/internal/adapter/mailer"
	"github.com/briancappello/starter/internal/adapter/postgres"
	"github.com/briancappello/starter/internal/adapter/postgres/record"
	tokenrepo "github.com/briancappello/starter/internal/adapter/postgres/token"
	userrepo "github.com/briancappello/starter/internal/adapter/postgres/user"
	"github.com/briancappello/starter/internal/auth"
	"github.com/briancappello/starter/internal/config"
	"github.com/briancappello/starter/internal/jobs"
	"github.com/briancappello/starter/internal/mail"
	authsvc "github.com/briancappello/starter/internal/service/auth"
	usersvc "github.com/briancappello/starter/internal/service/user"
	"github.com/briancappello/starter/internal/transport/middleware"
	"github.com/briancappello/starter/internal/transport/rest"
)

// App holds the wired dependency graph shared by the server and the CLI.
type App struct {
	Config *config.Config
	Logger *slog.Logger

	Pool   *pgxpool.Pool
	Tx     *postgres.TxManager
	Users  *userrepo.Repo
	Tokens *tokenrepo.Repo

	Mail      *mail.Dispatcher
	Auth      *authsvc.Service
	UserAdmin *usersvc.Service
	Cleanup   *jobs.TokenCleanup
}

type options struct {
	syncMail bool
}

// Option configures New.
type Option func(*options)

// WithSyncMail makes services deliver mail before returning. Commands that
// exit right after an operation use it so no message is lost.
func WithSyncMail() Option {
	return func(o *options) { o.syncMail = true }
}

// New connects to the database and wires every service. Close releases it.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts ...Option) (*App, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	sender, err := mailer.New(cfg.Mail, logger)
	if err != nil {
		pool.Close()
		return nil, err
	}
	renderer, err := mail.NewRenderer(cfg.Site, cfg.Mail.FromAddress())
	if err != nil {
		pool.Close()
		return nil, err
	}
	dispatcher := mail.NewDispatcher(logger, renderer, sender, cfg.Mail.Concurrency, cfg.Mail.QueueSize)
	var outbox mail.MessageSender = dispatcher
	if o.syncMail {
		outbox = dispatcher.Sync()
	}

	factory := record.NewFactory(pool, logger, record.WithAutoflush(cfg.Database.Autoflush))
	tx := postgres.NewTxManager(factory)
	users := userrepo.NewRepo(tx)
	tokens := tokenrepo.NewRepo(tx)

	hasher := auth.NewPasswordHasher(cfg.Auth.BcryptCost)
	purpose := auth.NewTokenManager(cfg.Auth.SecretKey, cfg.Site.Name)

	authService := authsvc.NewService(logger, users, tokens, tx, hasher, purpose, outbox, cfg.Auth, cfg.Site)
	userService := usersvc.NewService(logger, users, hasher, authService, outbox, cfg.Auth, cfg.Site)

	return &App{
		Config:    cfg,
		Logger:    logger,
		Pool:      pool,
		Tx:        tx,
		Users:     users,
		Tokens:    tokens,
		Mail:      dispatcher,
		Auth:      authService,
		UserAdmin: userService,
		Cleanup:   jobs.NewTokenCleanup(logger, tokens, cfg.Auth.TokenLifetime),
	}, nil
}

// Close waits for queued mail and closes the pool.
func (a *App) Close() {
	a.Mail.Wait()
	a.Pool.Close()
}

// Router builds the HTTP handler tree. limiter may be nil.
func (a *App) Router(limiter *middleware.RateLimiter) *chi.Mux {
	return rest.NewRouter(rest.RouterDeps{
		Logger:         a.Logger,
		CORS:           a.Config.CORS,
		AuthPrefix:     a.Config.Auth.URLPrefix,
		LoginRateLimit: a.Config.Auth.LoginRateLimit,
		RequestTimeout: a.Config.Server.WriteTimeout,
		Authn:          a.Auth,
		RateLimiter:    limiter,
		Users:          a.Users,
		Auth:           rest.NewAuthHandler(a.Auth, a.Logger),
		Admin:          rest.NewAdminHandler(a.UserAdmin, a.Tokens, a.Logger),
		Health:         rest.NewHealthHandler(BuildVersion()).Check("database", a.Pool),
	})
}

// RouteTable lists the HTTP routes for cfg without connecting anywhere.
func RouteTable(cfg *config.Config) ([]rest.Route, error) {
	return rest.Routes(rest.NewRouter(rest.RouterDeps{AuthPrefix: cfg.Auth.URLPrefix}))
}

// Scheduler registers the periodic jobs on a new scheduler.
func (a *App) Scheduler() (*jobs.Scheduler, error) {
	s := jobs.NewScheduler(a.Logger)
	if err := s.Add(jobs.CleanupTokensName, a.Config.Jobs.TokenCleanupCron, a.Cleanup.Func()); err != nil {
		return nil, err
	}
	return s, nil
}

// Serve runs the HTTP server and, when enabled, the job scheduler until ctx
// is cancelled, then shuts both down gracefully.
func (a *App) Serve(ctx context.Context) error {
	cfg := a.Config

	limiter := middleware.NewRateLimiter(time.Minute)
	defer limiter.Stop()

	var scheduler *jobs.Scheduler
	if cfg.Jobs.Enabled {
		s, err := a.Scheduler()
		if err != nil {
			return err
		}
		scheduler = s
		scheduler.Start()
	}

	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      a.Router(limiter),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info("http server listening",
			slog.String("addr", srv.Addr),
			slog.String("version", BuildVersion()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var serveErr error
	select {
	case <-ctx.Done():
	case serveErr = <-errCh:
	}

	a.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.Logger.Error("http shutdown", slog.String("error", err.Error()))
	}
	if scheduler != nil {
		if err := scheduler.Stop(shutdownCtx); err != nil {
			a.Logger.Error("scheduler shutdown", slog.String("error", err.Error()))
		}
	}
	a.Mail.Wait()

	if serveErr != nil {
		return fmt.Errorf("http server: %w", serveErr)
	}
	return nil
}
