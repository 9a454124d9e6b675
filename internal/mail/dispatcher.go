package mail

import (
	"context"
	"log/slog"

	"yamdb/internal/metrics"

	"golang.org/x/time/rate"
)

// Dispatcher sends mail in the background through a worker pool, throttled
// to a fixed rate so a burst of code requests cannot flood the relay.
type Dispatcher struct {
	sender  Sender
	pool    *WorkerPool
	limiter *rate.Limiter
	logger  *slog.Logger
}

// NewDispatcher starts workers immediately. perSecond <= 0 disables throttling.
func NewDispatcher(sender Sender, workers int, perSecond float64, logger *slog.Logger) *Dispatcher {
	limit := rate.Inf
	if perSecond > 0 {
		limit = rate.Limit(perSecond)
	}
	d := &Dispatcher{
		sender:  sender,
		pool:    NewWorkerPool(workers, workers*16, logger),
		limiter: rate.NewLimiter(limit, 1),
		logger:  logger,
	}
	d.pool.Start()
	return d
}

// Dispatch queues msg. Delivery failures are logged and counted, never returned.
func (d *Dispatcher) Dispatch(ctx context.Context, msg Message) error {
	err := d.pool.Submit(ctx, func(poolCtx context.Context) error {
		if err := d.limiter.Wait(poolCtx); err != nil {
			metrics.MailDeliveries.WithLabelValues("dropped").Inc()
			return err
		}
		if err := d.sender.Send(poolCtx, msg); err != nil {
			metrics.MailDeliveries.WithLabelValues("failed").Inc()
			return err
		}
		metrics.MailDeliveries.WithLabelValues("sent").Inc()
		return nil
	})
	if err != nil {
		metrics.MailDeliveries.WithLabelValues("dropped").Inc()
		d.logger.WarnContext(ctx, "mail not queued", "to", msg.To, "error", err)
	}
	return err
}

// Close waits for queued mail to be sent.
func (d *Dispatcher) Close() {
	d.pool.Wait()
}
