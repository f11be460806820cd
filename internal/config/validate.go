package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/robfig/cron/v3"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if err := c.Auth.validate(); err != nil {
		return fmt.Errorf("auth: %w", err)
	}
	if err := c.Mail.validate(); err != nil {
		return fmt.Errorf("mail: %w", err)
	}
	if err := c.Site.validate(); err != nil {
		return fmt.Errorf("site: %w", err)
	}
	if c.Jobs.Enabled {
		if _, err := cron.ParseStandard(c.Jobs.TokenCleanupCron); err != nil {
			return fmt.Errorf("jobs.token_cleanup_cron: %w", err)
		}
	}
	return nil
}

func (a *AuthConfig) validate() error {
	if len(a.SecretKey) < 32 {
		return fmt.Errorf("secret_key must be at least 32 characters (got %d)", len(a.SecretKey))
	}
	if a.TokenLifetime <= 0 {
		return fmt.Errorf("token_lifetime must be > 0 (got %s)", a.TokenLifetime)
	}
	if a.VerifyTokenTTL <= 0 || a.ResetTokenTTL <= 0 {
		return fmt.Errorf("verify_token_ttl and reset_token_ttl must be > 0")
	}
	if a.BcryptCost < 4 || a.BcryptCost > 31 {
		return fmt.Errorf("bcrypt_cost must be within 4..31 (got %d)", a.BcryptCost)
	}
	if !strings.HasPrefix(a.URLPrefix, "/") {
		return fmt.Errorf("url_prefix must start with / (got %q)", a.URLPrefix)
	}
	return nil
}

func (m *MailConfig) validate() error {
	switch m.Backend {
	case MailBackendSMTP:
		if m.Host == "" || m.Port <= 0 {
			return fmt.Errorf("smtp backend requires host and port")
		}
	case MailBackendResend:
		if m.ResendAPIKey == "" {
			return fmt.Errorf("resend backend requires resend_api_key")
		}
	case MailBackendLog:
	default:
		return fmt.Errorf("backend must be one of smtp, resend, log (got %q)", m.Backend)
	}
	if m.From == "" {
		return fmt.Errorf("from is required")
	}
	if m.Concurrency < 1 {
		return fmt.Errorf("concurrency must be >= 1 (got %d)", m.Concurrency)
	}
	if m.QueueSize < m.Concurrency {
		return fmt.Errorf("queue_size must be >= concurrency (got %d)", m.QueueSize)
	}
	return nil
}

func (s *SiteConfig) validate() error {
	u, err := url.Parse(s.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("base_url must be an absolute URL (got %q)", s.BaseURL)
	}
	return nil
}
