package tracker

import (
	"log/slog"
	"path/filepath"

	"github.com/1broseidon/winstate/internal/host"
	"github.com/1broseidon/winstate/internal/state"
)

// Manager wires the store lifecycle to the host application: load at
// startup, restore plus event binding per ready window, flush at exit.
// A single Manager owns the store for the whole run; every per-window
// handler references the same instance.
type Manager struct {
	store  *state.Store
	opts   Options
	logger *slog.Logger

	// path is the resolved state file location, empty when the host
	// has no data directory. Persistence is skipped entirely then.
	path string
}

// NewManager creates a manager backed by app's data directory and
// loads prior state from disk. A missing or corrupt state file is not
// an error: the manager starts with an empty store.
func NewManager(app host.App, opts Options) *Manager {
	m := &Manager{
		store:  state.NewStore(),
		opts:   opts,
		logger: opts.logger(),
	}
	if dir, ok := app.DataDir(); ok {
		m.path = filepath.Join(dir, state.FileName)
	}
	m.load()
	return m
}

// Store returns the shared state store.
func (m *Manager) Store() *state.Store {
	return m.store
}

// StatePath returns the resolved state file path, empty when the host
// has no data directory.
func (m *Manager) StatePath() string {
	return m.path
}

// WindowReady runs the ready protocol for win: restore or snapshot,
// then event binding. Restore failures are logged, never fatal.
func (m *Manager) WindowReady(win host.Window) {
	if err := WindowReady(win, m.store, m.opts); err != nil {
		m.logger.Warn("window state restore incomplete", "label", win.Label(), "error", err)
	} else {
		m.logger.Debug("window ready", "label", win.Label(), "tracked", m.store.Len())
	}
}

// Flush serializes the whole store to the state file. Failures are
// reported to the caller but the expectation is that callers log and
// continue: losing one session's geometry is acceptable, blocking
// shutdown is not.
func (m *Manager) Flush() error {
	if m.path == "" {
		return nil
	}
	return state.SaveFile(m.path, m.store)
}

// Bind registers the manager's ready and exit hooks on app. The exit
// hook performs a single best-effort flush.
func (m *Manager) Bind(app host.App) {
	app.OnWindowReady(m.WindowReady)
	app.OnExit(func() {
		if err := m.Flush(); err != nil {
			m.logger.Warn("window state flush failed", "error", err)
		}
	})
}

func (m *Manager) load() {
	if m.path == "" {
		m.logger.Debug("no data directory; window state persistence disabled")
		return
	}
	store, err := state.LoadFile(m.path)
	if err != nil {
		// Missing file on first run, or corrupt/stale bytes. Either
		// way we start fresh.
		m.logger.Debug("starting with empty window state", "path", m.path, "reason", err)
	}
	m.store = store
}
