package auth

import (
	"context"
	"log/slog"
	"time"

	"github.com/briancappello/starter/internal/adapter/postgres/record"
	"github.com/briancappello/starter/internal/auth"
	"github.com/briancappello/starter/internal/config"
	"github.com/briancappello/starter/internal/domain"
	"github.com/briancappello/starter/internal/mail"
	"github.com/briancappello/starter/pkg/ctxutil"
)

// userRepo defines the user repository interface needed by auth service.
type userRepo interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, fields record.Fields) (*domain.User, error)
	Update(ctx context.Context, id int64, fields record.Fields) (*domain.User, error)
}

// tokenRepo defines the access token repository interface needed by auth service.
type tokenRepo interface {
	Create(ctx context.Context, token string, userID int64) (*domain.AccessToken, error)
	GetByToken(ctx context.Context, token string) (*domain.AccessToken, error)
	Delete(ctx context.Context, token string) error
}

// txManager defines the transaction manager interface needed by auth service.
type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// passwordHasher defines the password hashing interface needed by auth service.
type passwordHasher interface {
	Hash(password string) (string, error)
	Verify(hash, password string) bool
}

// purposeTokens issues and parses the single-purpose JWTs mailed to users.
type purposeTokens interface {
	Issue(audience string, userID int64, email, fingerprint string, ttl time.Duration) (string, error)
	Parse(audience, token string) (*auth.PurposeClaims, error)
}

// mailer defines the outgoing mail interface needed by auth service.
type mailer interface {
	Send(ctx context.Context, msg mail.Message) error
}

// Service implements registration, login and account recovery.
type Service struct {
	log     *slog.Logger
	users   userRepo
	tokens  tokenRepo
	tx      txManager
	hasher  passwordHasher
	purpose purposeTokens
	mail    mailer
	cfg     config.AuthConfig
	site    config.SiteConfig
	now     func() time.Time
	// dummyHash is verified against when the email is unknown, so a failed
	// login takes as long whether or not the account exists.
	dummyHash string
}

// NewService creates a new auth service instance.
func NewService(
	logger *slog.Logger,
	users userRepo,
	tokens tokenRepo,
	tx txManager,
	hasher passwordHasher,
	purpose purposeTokens,
	mailer mailer,
	cfg config.AuthConfig,
	site config.SiteConfig,
) *Service {
	s := &Service{
		log:     logger.With("service", "auth"),
		users:   users,
		tokens:  tokens,
		tx:      tx,
		hasher:  hasher,
		purpose: purpose,
		mail:    mailer,
		cfg:     cfg,
		site:    site,
		now:     time.Now,
	}
	s.dummyHash, _ = hasher.Hash("timing-equalizer")
	return s
}

// deliver queues msg with links pointing at the host the request came in on.
func (s *Service) deliver(ctx context.Context, msg mail.Message) error {
	msg.BaseURL = ctxutil.BaseURLFromCtx(ctx)
	return s.mail.Send(ctx, msg)
}

// sendMail queues msg and logs instead of failing the caller.
func (s *Service) sendMail(ctx context.Context, msg mail.Message) {
	if err := s.deliver(ctx, msg); err != nil {
		s.log.ErrorContext(ctx, "queue email failed",
			slog.String("template", msg.Template),
			slog.String("error", err.Error()))
	}
}

func (s *Service) sendVerifyRequest(ctx context.Context, user *domain.User) error {
	token, err := s.purpose.Issue(auth.AudienceVerify, user.ID, user.Email, "", s.cfg.VerifyTokenTTL)
	if err != nil {
		return err
	}
	return s.deliver(ctx, mail.Message{
		To:       []string{user.Email},
		Subject:  "Verify Your Email Address",
		Template: mail.TemplateUserRequestVerify,
		Data:     map[string]any{"User": user, "Token": token},
	})
}

// badToken is returned for any verify or reset token that cannot be used.
func badToken() error {
	return domain.NewValidationError("token", "invalid or expired")
}
