// Package mail renders templated emails and delivers them in the background.
package mail

import (
	"context"
	"errors"
)

// Template names.
const (
	TemplateUserRegistered     = "email/user-registered.html"
	TemplateUserRequestVerify  = "email/user-request-verify.html"
	TemplateUserForgotPassword = "email/user-forgot-password.html"
	TemplateUserPasswordReset  = "email/user-password-reset.html"
	TemplateUserVerified       = "email/user-verified.html"
	TemplateUserDeleted        = "email/user-deleted.html"
)

// ErrNoRecipients is returned for messages without a recipient.
var ErrNoRecipients = errors.New("mail: message has no recipients")

// Message is an email to be rendered from a template.
type Message struct {
	To       []string
	Subject  string
	Template string
	Data     map[string]any
	// BaseURL overrides the configured site URL for links in the body.
	BaseURL string
}

// Email is a rendered message ready for delivery.
type Email struct {
	From    string
	To      []string
	Subject string
	HTML    string
}

// MessageSender queues a Message for rendering and delivery.
type MessageSender interface {
	Send(ctx context.Context, msg Message) error
}

// Sender delivers rendered emails.
type Sender interface {
	Send(ctx context.Context, e Email) error
}

// SenderFunc adapts a function to Sender.
type SenderFunc func(ctx context.Context, e Email) error

// Send calls f.
func (f SenderFunc) Send(ctx context.Context, e Email) error { return f(ctx, e) }
