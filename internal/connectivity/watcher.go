package connectivity

import (
	"context"
	"time"

	"go.uber.org/zap"
)

const defaultPollInterval = 15 * time.Second

// Watcher polls a Checker and fires the callback whenever connectivity comes
// back after an outage. One catch-up callback also runs at startup so work
// queued while the process was down gets flushed.
type Watcher struct {
	checker  Checker
	interval time.Duration
	onOnline func(ctx context.Context)
	logger   *zap.Logger
}

func NewWatcher(checker Checker, interval time.Duration, onOnline func(ctx context.Context), logger ...*zap.Logger) *Watcher {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	l := zap.L().Named("connectivity.watcher")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("connectivity.watcher")
	}
	return &Watcher{
		checker:  checker,
		interval: interval,
		onOnline: onOnline,
		logger:   l,
	}
}

// Run blocks until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	online := w.checker.Online(ctx)
	w.logger.Info("connectivity watcher started",
		zap.Bool("online", online),
		zap.Duration("poll_interval", w.interval))

	if online {
		w.onOnline(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("connectivity watcher stopped")
			return
		case <-ticker.C:
			now := w.checker.Online(ctx)
			if now && !online {
				w.logger.Info("connectivity restored")
				w.onOnline(ctx)
			}
			if !now && online {
				w.logger.Warn("connectivity lost")
			}
			online = now
		}
	}
}
