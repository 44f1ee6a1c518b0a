package booking

import (
	"context"
	"time"

	"github.com/robertarktes/holidaze-gateway/internal/observability"
)

type Sweeper struct {
	registry *Registry
	idle     time.Duration
	logger   observability.Logger
}

func NewSweeper(registry *Registry, idle time.Duration, logger observability.Logger) *Sweeper {
	return &Sweeper{registry: registry, idle: idle, logger: logger}
}

func (w *Sweeper) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.sweepOnce()
		}
	}
}

func (w *Sweeper) sweepOnce() int {
	n := w.registry.Sweep(w.idle)
	if n > 0 {
		observability.DraftsSwept.Add(float64(n))
		w.logger.WithField("drafts", n).Info("discarded idle booking drafts")
	}
	return n
}
