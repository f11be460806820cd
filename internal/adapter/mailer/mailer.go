package mailer

import (
	"fmt"
	"log/slog"

	"github.com/briancappello/starter/internal/config"
	"github.com/briancappello/starter/internal/mail"
)

// New returns the sender selected by cfg.Backend.
func New(cfg config.MailConfig, logger *slog.Logger) (mail.Sender, error) {
	switch cfg.Backend {
	case config.MailBackendSMTP:
		return NewSMTPSender(cfg, logger), nil
	case config.MailBackendResend:
		return NewResendSenderWithURL(cfg.ResendURL, cfg.ResendAPIKey, logger), nil
	case config.MailBackendLog:
		return NewLogSender(logger), nil
	default:
		return nil, fmt.Errorf("mailer: unknown backend %q", cfg.Backend)
	}
}
