package mailer

import (
	"context"
	"log/slog"

	"github.com/briancappello/starter/internal/mail"
)

// LogSender writes emails to the logger instead of delivering them.
type LogSender struct {
	log *slog.Logger
}

// NewLogSender creates a LogSender.
func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{log: logger.With("adapter", "maillog")}
}

// Send logs e.
func (s *LogSender) Send(ctx context.Context, e mail.Email) error {
	s.log.InfoContext(ctx, "email",
		slog.String("from", e.From),
		slog.Any("to", e.To),
		slog.String("subject", e.Subject),
		slog.String("html", e.HTML),
	)
	return nil
}
