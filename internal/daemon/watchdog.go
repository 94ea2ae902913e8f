// Package daemon keeps a published background alive: a watchdog polls
// the convention atoms and re-publishes ownership when a foreign tool
// overwrites them.
package daemon

import (
	"context"
	"log/slog"
	"time"
)

// OwnerProber reads the pixmap ids currently stored under the two
// convention atoms, zero when absent.
type OwnerProber func() (root, esetroot uint32, err error)

// Reasserter re-publishes ownership of the background pixmap.
type Reasserter func() error

// WatchdogConfig holds configuration for the watchdog.
type WatchdogConfig struct {
	Interval time.Duration
	Logger   *slog.Logger
}

// Watchdog periodically checks that both convention atoms still point at
// our pixmap and re-publishes when they do not.
type Watchdog struct {
	interval time.Duration
	pixmap   uint32
	probe    OwnerProber
	reassert Reasserter
	logger   *slog.Logger
}

// NewWatchdog creates a watchdog for the given published pixmap id.
func NewWatchdog(cfg WatchdogConfig, pixmap uint32, probe OwnerProber, reassert Reasserter) *Watchdog {
	interval := cfg.Interval
	if interval <= 0 {
		interval = 10 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Watchdog{
		interval: interval,
		pixmap:   pixmap,
		probe:    probe,
		reassert: reassert,
		logger:   logger,
	}
}

// Run starts the polling loop. Blocks until the context is cancelled.
func (w *Watchdog) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("watchdog started", "interval", w.interval)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("watchdog stopped")
			return
		case <-ticker.C:
			w.check()
		}
	}
}

// check performs a single ownership check.
func (w *Watchdog) check() {
	// Recover from panics to prevent crashing the daemon
	defer func() {
		if err := recover(); err != nil {
			w.logger.Error("watchdog panic recovered", "error", err)
		}
	}()

	root, esetroot, err := w.probe()
	if err != nil {
		w.logger.Error("watchdog: failed to probe atoms", "error", err)
		return
	}

	if root == w.pixmap && esetroot == w.pixmap {
		return
	}

	w.logger.Info("watchdog: ownership drift detected",
		"xrootpmap", root,
		"esetroot", esetroot,
		"want", w.pixmap)

	if err := w.reassert(); err != nil {
		w.logger.Error("watchdog: failed to re-publish ownership", "error", err)
	}
}

// CheckNow triggers an immediate ownership check.
func (w *Watchdog) CheckNow() {
	w.check()
}
