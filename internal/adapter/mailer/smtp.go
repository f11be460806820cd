package mailer

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"mime"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/briancappello/starter/internal/config"
	"github.com/briancappello/starter/internal/mail"
)

// SMTPSender delivers email through an SMTP relay.
type SMTPSender struct {
	addr     string
	host     string
	username string
	password string
	startTLS bool
	log      *slog.Logger
	now      func() time.Time
}

// NewSMTPSender creates a sender from mail settings.
func NewSMTPSender(cfg config.MailConfig, logger *slog.Logger) *SMTPSender {
	return &SMTPSender{
		addr:     net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		host:     cfg.Host,
		username: cfg.Username,
		password: cfg.Password,
		startTLS: cfg.StartTLS,
		log:      logger.With("adapter", "smtp"),
		now:      time.Now,
	}
}

// Send delivers e. The context bounds the dial and the whole session.
func (s *SMTPSender) Send(ctx context.Context, e mail.Email) error {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", s.addr)
	if err != nil {
		return fmt.Errorf("smtp: dial %s: %w", s.addr, err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	c, err := smtp.NewClient(conn, s.host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("smtp: handshake: %w", err)
	}
	defer c.Close()

	if s.startTLS {
		if err := c.StartTLS(&tls.Config{ServerName: s.host}); err != nil {
			return fmt.Errorf("smtp: starttls: %w", err)
		}
	}
	if s.username != "" {
		if err := c.Auth(smtp.PlainAuth("", s.username, s.password, s.host)); err != nil {
			return fmt.Errorf("smtp: auth: %w", err)
		}
	}

	if err := c.Mail(envelopeAddress(e.From)); err != nil {
		return fmt.Errorf("smtp: mail from: %w", err)
	}
	for _, to := range e.To {
		if err := c.Rcpt(envelopeAddress(to)); err != nil {
			return fmt.Errorf("smtp: rcpt %s: %w", to, err)
		}
	}

	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("smtp: data: %w", err)
	}
	if _, err := w.Write(s.buildMessage(e)); err != nil {
		return fmt.Errorf("smtp: write: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("smtp: close data: %w", err)
	}

	s.log.DebugContext(ctx, "smtp delivered", slog.Any("to", e.To))
	return c.Quit()
}

func (s *SMTPSender) buildMessage(e mail.Email) []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, "From: %s\r\n", e.From)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(e.To, ", "))
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", e.Subject))
	fmt.Fprintf(&b, "Date: %s\r\n", s.now().Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(e.HTML, "\n", "\r\n"))
	return b.Bytes()
}

// envelopeAddress strips a display name: "Name <a@b>" becomes "a@b".
func envelopeAddress(addr string) string {
	if i := strings.LastIndexByte(addr, '<'); i >= 0 {
		if j := strings.IndexByte(addr[i:], '>'); j > 0 {
			return addr[i+1 : i+j]
		}
	}
	return strings.TrimSpace(addr)
}
