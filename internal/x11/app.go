package x11

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/xwindow"

	"github.com/1broseidon/winstate/internal/appdir"
	"github.com/1broseidon/winstate/internal/host"
)

// App implements host.App on top of a live X11 connection. It watches
// the root window for client windows appearing and disappearing and
// translates X events into host events for each tracked window.
type App struct {
	conn   *Connection
	logger *slog.Logger

	mu       sync.Mutex
	windows  map[xproto.Window]*Window
	onReady  []func(host.Window)
	onExit   []func()
	shutdown bool
}

// NewApp wraps conn as a host application shell.
func NewApp(conn *Connection, logger *slog.Logger) *App {
	return &App{
		conn:    conn,
		logger:  logger,
		windows: make(map[xproto.Window]*Window),
	}
}

// OnWindowReady implements host.App.
func (a *App) OnWindowReady(handler func(host.Window)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onReady = append(a.onReady, handler)
}

// OnExit implements host.App.
func (a *App) OnExit(handler func()) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onExit = append(a.onExit, handler)
}

// DataDir implements host.App.
func (a *App) DataDir() (string, bool) {
	dir, err := appdir.Dir()
	if err != nil {
		a.logger.Warn("no data directory available", "error", err)
		return "", false
	}
	return dir, true
}

// Run subscribes to root window events, adopts already-mapped client
// windows and blocks in the X event loop until ctx is cancelled or the
// connection drops. Exit hooks run exactly once before Run returns.
func (a *App) Run(ctx context.Context) error {
	root := xwindow.New(a.conn.XUtil, a.conn.Root)
	if err := root.Listen(xproto.EventMaskSubstructureNotify); err != nil {
		return fmt.Errorf("listen on root window: %w", err)
	}

	a.adoptExisting()

	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			// Closing the connection unblocks WaitForEvent below.
			a.conn.Close()
		case <-done:
		}
	}()

	a.eventLoop()
	close(done)

	a.runExitHooks()
	return ctx.Err()
}

// eventLoop drains X events until the connection closes, routing the
// substructure notifications on the root window to tracked windows.
func (a *App) eventLoop() {
	for {
		ev, xerr := a.conn.XUtil.Conn().WaitForEvent()
		if ev == nil && xerr == nil {
			return
		}
		if xerr != nil {
			a.logger.Debug("x11 error", "error", xerr.Error())
			continue
		}

		switch e := ev.(type) {
		case xproto.MapNotifyEvent:
			if !e.OverrideRedirect {
				a.adopt(e.Window)
			}
		case xproto.ConfigureNotifyEvent:
			a.mu.Lock()
			win := a.windows[e.Window]
			a.mu.Unlock()
			if win != nil {
				win.configured(e.X, e.Y, e.Width, e.Height)
			}
		case xproto.DestroyNotifyEvent:
			a.mu.Lock()
			win := a.windows[e.Window]
			delete(a.windows, e.Window)
			a.mu.Unlock()
			if win != nil {
				// From outside the client the only observable end of a
				// window's life is its destruction; WM_DELETE_WINDOW
				// messages go to the owning client alone. Attribute reads
				// on the dead window fail, so handlers fall back to their
				// safe defaults.
				win.dispatch(host.CloseRequested{})
			}
		}
	}
}

// adoptExisting picks up client windows that were mapped before the
// daemon started.
func (a *App) adoptExisting() {
	clients, err := ewmh.ClientListGet(a.conn.XUtil)
	if err != nil {
		a.logger.Warn("client list unavailable", "error", err)
		return
	}
	for _, id := range clients {
		a.adopt(id)
	}
}

// adopt wraps an X11 window and announces it to the ready hooks. Only
// normal application windows with a WM_CLASS instance are tracked;
// docks, splashes and the like are ignored.
func (a *App) adopt(id xproto.Window) {
	a.mu.Lock()
	_, known := a.windows[id]
	a.mu.Unlock()
	if known {
		return
	}

	if !a.conn.IsNormalWindow(id) {
		return
	}

	win, err := WrapWindow(a.conn, id)
	if err != nil {
		a.logger.Debug("skipping window", "id", id, "reason", err)
		return
	}

	a.mu.Lock()
	if _, known := a.windows[id]; known {
		a.mu.Unlock()
		return
	}
	a.windows[id] = win
	ready := append([]func(host.Window){}, a.onReady...)
	a.mu.Unlock()

	a.logger.Debug("window adopted", "id", id, "label", win.Label())
	for _, handler := range ready {
		handler(win)
	}
}

func (a *App) runExitHooks() {
	a.mu.Lock()
	if a.shutdown {
		a.mu.Unlock()
		return
	}
	a.shutdown = true
	hooks := append([]func(){}, a.onExit...)
	a.mu.Unlock()

	for _, hook := range hooks {
		hook()
	}
}
