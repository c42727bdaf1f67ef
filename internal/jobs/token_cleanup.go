package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/EgehanKilicarslan/meetapp/backend-go/internal/clock"
	"github.com/EgehanKilicarslan/meetapp/backend-go/internal/database/repository"
	"github.com/EgehanKilicarslan/meetapp/backend-go/internal/worker"
)

// TokenCleanup purges expired refresh tokens.
type TokenCleanup struct {
	tokens repository.RefreshTokenRepository
	clock  clock.Clock
	logger *slog.Logger
}

// NewTokenCleanup creates the cleanup job.
func NewTokenCleanup(tokens repository.RefreshTokenRepository, clk clock.Clock, logger *slog.Logger) *TokenCleanup {
	return &TokenCleanup{tokens: tokens, clock: clk, logger: logger}
}

// Run deletes every refresh token that expired before now.
func (j *TokenCleanup) Run(ctx context.Context) error {
	deleted, err := j.tokens.DeleteExpired(ctx, j.clock.Now())
	if err != nil {
		j.logger.Error("❌ [TokenCleanup] Failed to purge refresh tokens", "error", err)
		return err
	}
	if deleted > 0 {
		j.logger.Info("🧹 [TokenCleanup] Purged expired refresh tokens", "count", deleted)
	}
	return nil
}

// Schedule submits Run to pool every interval until ctx is done.
func (j *TokenCleanup) Schedule(ctx context.Context, pool *worker.Pool, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				err := pool.SubmitWithTimeout(time.Minute, func(taskCtx context.Context) {
					_ = j.Run(taskCtx)
				})
				if err != nil {
					return
				}
			}
		}
	}()
}
