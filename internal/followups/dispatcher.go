package followups

import (
	"context"
	"time"

	"github.com/dentalops/leadflow/pkg/logging"
)

// Dispatcher polls for due jobs and dispatches them. It backs the
// follow-up worker process.
type Dispatcher struct {
	service  *Service
	interval time.Duration
	logger   *logging.Logger
}

// NewDispatcher creates a dispatcher sweeping at the given interval.
func NewDispatcher(service *Service, interval time.Duration, logger *logging.Logger) *Dispatcher {
	if logger == nil {
		logger = logging.Default()
	}
	if interval <= 0 {
		interval = time.Minute
	}
	return &Dispatcher{service: service, interval: interval, logger: logger}
}

// Run sweeps until the context is cancelled. One sweep runs immediately
// so a restart does not wait a full interval to drain overdue jobs.
func (d *Dispatcher) Run(ctx context.Context) {
	d.logger.Info("follow-up dispatcher started", "interval", d.interval.String())
	d.sweep(ctx)

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			d.logger.Info("follow-up dispatcher stopped")
			return
		case <-ticker.C:
			d.sweep(ctx)
		}
	}
}

func (d *Dispatcher) sweep(ctx context.Context) {
	if sent := d.service.ProcessDue(ctx); sent > 0 {
		d.logger.Info("dispatched due follow-ups", "count", sent)
	}
}
