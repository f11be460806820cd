package user

import (
	"context"
	"log/slog"

	"github.com/briancappello/starter/internal/adapter/postgres/record"
	"github.com/briancappello/starter/internal/config"
	"github.com/briancappello/starter/internal/domain"
	"github.com/briancappello/starter/internal/mail"
)

// userRepo defines the user repository interface needed by user service.
type userRepo interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context, limit, offset uint64) ([]*domain.User, int64, error)
	Create(ctx context.Context, fields record.Fields) (*domain.User, error)
	Update(ctx context.Context, id int64, fields record.Fields) (*domain.User, error)
	Delete(ctx context.Context, id int64) error
}

// passwordHasher defines the password hashing interface needed by user service.
type passwordHasher interface {
	Hash(password string) (string, error)
}

// verifyRequester sends the verification mail for a fresh account.
type verifyRequester interface {
	RequestVerify(ctx context.Context, email string) error
}

// mailer defines the outgoing mail interface needed by user service.
type mailer interface {
	Send(ctx context.Context, msg mail.Message) error
}

// Service implements administrative user management.
type Service struct {
	log    *slog.Logger
	users  userRepo
	hasher passwordHasher
	verify verifyRequester
	mail   mailer
	cfg    config.AuthConfig
	site   config.SiteConfig
}

// NewService creates a new user service instance.
func NewService(
	logger *slog.Logger,
	users userRepo,
	hasher passwordHasher,
	verify verifyRequester,
	mailer mailer,
	cfg config.AuthConfig,
	site config.SiteConfig,
) *Service {
	return &Service{
		log:    logger.With("service", "user"),
		users:  users,
		hasher: hasher,
		verify: verify,
		mail:   mailer,
		cfg:    cfg,
		site:   site,
	}
}

func (s *Service) notify(ctx context.Context, user *domain.User, subject, template string) {
	err := s.mail.Send(ctx, mail.Message{
		To:       []string{user.Email},
		Subject:  subject,
		Template: template,
		Data:     map[string]any{"User": user},
	})
	if err != nil {
		s.log.ErrorContext(ctx, "queue email failed",
			slog.String("template", template),
			slog.Int64("user_id", user.ID),
			slog.String("error", err.Error()))
	}
}
