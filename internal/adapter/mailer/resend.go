// Package mailer contains the delivery backends for outgoing email.
package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/briancappello/starter/internal/mail"
)

const defaultResendURL = "https://api.resend.com/emails"

// ResendSender delivers email through the Resend HTTP API.
type ResendSender struct {
	url        string
	apiKey     string
	httpClient *http.Client
	log        *slog.Logger
	retryDelay time.Duration
}

// NewResendSender creates a sender for the default Resend endpoint.
func NewResendSender(apiKey string, logger *slog.Logger) *ResendSender {
	return NewResendSenderWithURL(defaultResendURL, apiKey, logger)
}

// NewResendSenderWithURL creates a sender posting to url.
func NewResendSenderWithURL(url, apiKey string, logger *slog.Logger) *ResendSender {
	return &ResendSender{
		url:        url,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		log:        logger.With("adapter", "resend"),
		retryDelay: 500 * time.Millisecond,
	}
}

type resendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
	CC      []string `json:"cc,omitempty"`
	BCC     []string `json:"bcc,omitempty"`
	ReplyTo []string `json:"reply_to,omitempty"`
}

type resendResponse struct {
	ID string `json:"id"`
}

// Send posts e to the API.
func (s *ResendSender) Send(ctx context.Context, e mail.Email) error {
	body, err := json.Marshal(resendRequest{
		From:    e.From,
		To:      e.To,
		Subject: e.Subject,
		HTML:    e.HTML,
	})
	if err != nil {
		return fmt.Errorf("resend: encode json: %w", err)
	}

	resp, err := s.doWithRetry(ctx, body)
	if err != nil {
		return fmt.Errorf("resend: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("resend: unexpected status %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
	}

	var out resendResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return fmt.Errorf("resend: decode json: %w", err)
	}

	s.log.DebugContext(ctx, "resend accepted", slog.String("id", out.ID))
	return nil
}

func (s *ResendSender) newRequest(ctx context.Context, body []byte) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

// doWithRetry executes the request with a single retry on 5xx or network errors.
func (s *ResendSender) doWithRetry(ctx context.Context, body []byte) (*http.Response, error) {
	req, err := s.newRequest(ctx, body)
	if err != nil {
		return nil, err
	}
	resp, err := s.httpClient.Do(req)

	shouldRetry := err != nil || (resp != nil && resp.StatusCode >= 500)
	if !shouldRetry || ctx.Err() != nil {
		return resp, err
	}

	reason := "network error"
	if err == nil {
		reason = fmt.Sprintf("status %d", resp.StatusCode)
	}
	s.log.WarnContext(ctx, "resend retry", slog.String("reason", reason))

	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(s.retryDelay):
	}

	req, err = s.newRequest(ctx, body)
	if err != nil {
		return nil, err
	}
	return s.httpClient.Do(req)
}
