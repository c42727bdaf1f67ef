package queue

import (
	"context"
	"log/slog"
	"time"

	"github.com/EgehanKilicarslan/meetapp/backend-go/internal/worker"
)

const memoryJobTimeout = 30 * time.Second

// PoolQueue runs jobs in-process on a worker pool. Jobs are lost if the
// process dies, so it is meant for development and single-node setups.
type PoolQueue struct {
	pool       *worker.Pool
	dispatcher *Dispatcher
	logger     *slog.Logger
	now        func() time.Time
}

// NewPoolQueue creates an in-process queue backed by pool.
func NewPoolQueue(pool *worker.Pool, dispatcher *Dispatcher, logger *slog.Logger) *PoolQueue {
	return &PoolQueue{
		pool:       pool,
		dispatcher: dispatcher,
		logger:     logger,
		now:        time.Now,
	}
}

func (q *PoolQueue) Enqueue(ctx context.Context, kind string, payload any) error {
	job, err := NewJob(kind, payload, q.now().UTC())
	if err != nil {
		return err
	}

	return q.pool.SubmitWithTimeout(memoryJobTimeout, func(ctx context.Context) {
		if err := q.dispatcher.Dispatch(ctx, job); err != nil {
			q.logger.Error("❌ [Queue] Job failed", "kind", job.Kind, "error", err)
			return
		}
		q.logger.Debug("✅ [Queue] Job processed", "kind", job.Kind)
	})
}

// Close is a no-op; the pool is drained by its owner.
func (q *PoolQueue) Close() error {
	return nil
}
