package notify

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dassimern/kosher-directory-api/internal/models"
	"github.com/dassimern/kosher-directory-api/pkg/config"
	"github.com/dassimern/kosher-directory-api/pkg/jobs"
)

// Dispatcher decouples notification delivery from the request path using the
// in-memory job queue. Delivery failures are retried by the queue and then
// dropped; the submitting request never sees them.
type Dispatcher struct {
	queue  *jobs.Queue
	logger *zap.Logger
}

// NewDispatcher wires the sink behind a worker queue.
func NewDispatcher(sink Notifier, cfg config.NotifyConfig, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	handler := func(ctx context.Context, job jobs.Job) error {
		r, ok := job.Payload.(models.Restaurant)
		if !ok {
			logger.Warn("dropping notification job with unexpected payload", zap.String("job_id", job.ID))
			return nil
		}
		return sink.NotifySubmission(ctx, r)
	}
	queue := jobs.NewQueue("notifications", handler, jobs.QueueConfig{
		Workers:    cfg.Workers,
		MaxRetries: cfg.MaxRetries,
		Logger:     logger,
	})
	return &Dispatcher{queue: queue, logger: logger}
}

// Start launches the queue workers.
func (d *Dispatcher) Start(ctx context.Context) {
	d.queue.Start(ctx)
}

// Stop drains the workers.
func (d *Dispatcher) Stop() {
	d.queue.Stop()
}

// NotifySubmission enqueues the email and returns immediately. Enqueue
// failures are logged, never propagated.
func (d *Dispatcher) NotifySubmission(ctx context.Context, r models.Restaurant) error {
	job := jobs.Job{
		ID:      fmt.Sprintf("notify-%s", uuid.NewString()[:8]),
		Type:    "submission",
		Payload: r,
	}
	if err := d.queue.Enqueue(job); err != nil {
		d.logger.Warn("failed to enqueue submission notification", zap.String("restaurant_id", r.ID), zap.Error(err))
	}
	return nil
}
