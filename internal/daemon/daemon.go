// Package daemon runs the window-state lifecycle against a live host:
// load the store at startup, restore and bind every window that
// becomes ready, flush the store on exit and optionally on a timer.
package daemon

import (
	"context"
	"log/slog"
	"time"

	"github.com/1broseidon/winstate/internal/config"
	"github.com/1broseidon/winstate/internal/host"
	"github.com/1broseidon/winstate/internal/tracker"
)

// App is the host surface the daemon drives: the tracker hooks plus a
// blocking event loop.
type App interface {
	host.App
	Run(ctx context.Context) error
}

// Daemon owns the tracking lifecycle for one application run.
type Daemon struct {
	app     App
	manager *tracker.Manager
	logger  *slog.Logger

	// saveInterval > 0 enables periodic flushing in addition to the
	// exit flush, so a crash loses at most one interval of changes.
	saveInterval time.Duration
}

// New builds a daemon from cfg, loading prior state from disk.
func New(app App, cfg *config.Config, logger *slog.Logger) *Daemon {
	opts := tracker.Options{
		AutoShow:  cfg.AutoShow,
		Blacklist: cfg.Blacklist,
		Logger:    logger,
	}
	return &Daemon{
		app:          app,
		manager:      tracker.NewManager(app, opts),
		logger:       logger,
		saveInterval: cfg.SaveInterval,
	}
}

// Manager exposes the underlying tracker for inspection surfaces.
func (d *Daemon) Manager() *tracker.Manager {
	return d.manager
}

// Run binds the lifecycle hooks and blocks until ctx is cancelled.
func (d *Daemon) Run(ctx context.Context) error {
	d.manager.Bind(d.app)
	d.logger.Info("window state daemon started",
		"state_file", d.manager.StatePath(),
		"tracked", d.manager.Store().Len())

	if d.saveInterval > 0 {
		go d.flushLoop(ctx)
	}

	return d.app.Run(ctx)
}

// flushLoop periodically writes the store to disk. Failures are logged
// and the loop keeps going; the exit flush is the last word.
func (d *Daemon) flushLoop(ctx context.Context) {
	ticker := time.NewTicker(d.saveInterval)
	defer ticker.Stop()

	d.logger.Info("periodic flush enabled", "interval", d.saveInterval)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := d.manager.Flush(); err != nil {
				d.logger.Warn("periodic window state flush failed", "error", err)
			} else {
				d.logger.Debug("window state flushed", "tracked", d.manager.Store().Len())
			}
		}
	}
}
