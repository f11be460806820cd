package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// CleanupTokensName is the registered name of the token cleanup job.
const CleanupTokensName = "cleanup-tokens"

type expiredTokenDeleter interface {
	DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error)
}

// TokenCleanup deletes access tokens older than their lifetime.
type TokenCleanup struct {
	tokens   expiredTokenDeleter
	lifetime time.Duration
	log      *slog.Logger
	now      func() time.Time
}

// NewTokenCleanup creates the cleanup job.
func NewTokenCleanup(logger *slog.Logger, tokens expiredTokenDeleter, lifetime time.Duration) *TokenCleanup {
	return &TokenCleanup{
		tokens:   tokens,
		lifetime: lifetime,
		log:      logger.With("job", CleanupTokensName),
		now:      time.Now,
	}
}

// Run deletes expired tokens and returns how many were removed. A
// non-positive lifetime means tokens never expire and nothing is deleted.
func (c *TokenCleanup) Run(ctx context.Context) (int64, error) {
	if c.lifetime <= 0 {
		return 0, nil
	}
	n, err := c.tokens.DeleteExpired(ctx, c.now().Add(-c.lifetime))
	if err != nil {
		return 0, fmt.Errorf("jobs.TokenCleanup: %w", err)
	}
	c.log.InfoContext(ctx, "expired access tokens deleted", slog.Int64("count", n))
	return n, nil
}

// Func adapts Run for the scheduler.
func (c *TokenCleanup) Func() Func {
	return func(ctx context.Context) error {
		_, err := c.Run(ctx)
		return err
	}
}
