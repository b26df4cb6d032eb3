package poll

import (
	"context"
	"time"

	"go.uber.org/zap"

	"compdash/internal/logging"
)

// Runner invokes a fetch function at a fixed interval until the context is
// canceled. One immediate invocation fires before the first tick, matching
// the dashboard's load-then-poll behavior. A failed tick is logged and the
// previous state left untouched; there is no backoff or retry.
//
// The interactive dashboard drives its polls through the bubbletea event
// loop instead; Runner serves the one-shot CLI's follow modes.
type Runner struct {
	Resource Resource
	Interval time.Duration
	Fetch    func(ctx context.Context) error
}

// Run blocks until ctx is done.
func (r Runner) Run(ctx context.Context) {
	r.tick(ctx)

	ticker := time.NewTicker(r.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.tick(ctx)
		}
	}
}

func (r Runner) tick(ctx context.Context) {
	if err := r.Fetch(ctx); err != nil && ctx.Err() == nil {
		logging.L().Warn("poll tick failed",
			zap.String("resource", string(r.Resource)),
			zap.Error(err))
	}
}
