// Package tracker implements the window-state core: restoring cached
// geometry when a window becomes ready, snapshotting windows seen for
// the first time, and keeping the shared store synchronized with live
// move/resize/close events.
package tracker

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/1broseidon/winstate/internal/host"
	"github.com/1broseidon/winstate/internal/state"
)

// Options configures the tracking protocol.
type Options struct {
	// AutoShow makes the tracker show and focus a window after restore
	// or first snapshot. When false the host owns visibility entirely.
	AutoShow bool

	// Blacklist lists labels excluded from all tracking and
	// restoration: no snapshot, no restore, no event binding.
	Blacklist []string

	Logger *slog.Logger
}

// DefaultOptions returns the configuration the reference behavior
// assumes: windows are shown by the tracker, nothing is blacklisted.
func DefaultOptions() Options {
	return Options{AutoShow: true}
}

func (o Options) blacklisted(label string) bool {
	for _, skip := range o.Blacklist {
		if skip == label {
			return true
		}
	}
	return false
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

// WindowReady runs the full ready-time protocol for win: restore or
// snapshot (RestoreState) followed by event binding (Attach).
// Blacklisted windows are left completely alone.
func WindowReady(win host.Window, store *state.Store, opts Options) error {
	if opts.blacklisted(win.Label()) {
		return nil
	}
	err := RestoreState(win, store, opts)
	Attach(win, store, opts)
	return err
}

// RestoreState applies the cached metadata for win's label to the live
// window, or snapshots the window's current attributes into the store
// when no entry exists yet.
//
// Applying cached attributes is best-effort per attribute: a failure to
// apply one does not prevent applying the rest and already-applied
// changes are not rolled back. All failures are joined into the
// returned error.
func RestoreState(win host.Window, store *state.Store, opts Options) error {
	label := win.Label()
	if opts.blacklisted(label) {
		return nil
	}

	md, ok := store.Get(label)
	if !ok {
		md = snapshot(win)
		// Another ready event for the same label may have raced us;
		// the first snapshot wins.
		store.InsertIfAbsent(label, md)
		if opts.AutoShow {
			show(win, opts)
		}
		return nil
	}

	var errs []error
	if err := win.SetDecorations(md.Decorated); err != nil {
		errs = append(errs, fmt.Errorf("set decorations: %w", err))
	}
	if err := win.SetPosition(host.Position{X: md.X, Y: md.Y}); err != nil {
		errs = append(errs, fmt.Errorf("set position: %w", err))
	}
	if err := win.SetSize(host.Size{Width: md.Width, Height: md.Height}); err != nil {
		errs = append(errs, fmt.Errorf("set size: %w", err))
	}
	if md.Maximized {
		if err := win.Maximize(); err != nil {
			errs = append(errs, fmt.Errorf("maximize: %w", err))
		}
	}
	if md.Fullscreen {
		if err := win.SetFullscreen(true); err != nil {
			errs = append(errs, fmt.Errorf("set fullscreen: %w", err))
		}
	}

	if opts.AutoShow && md.Visible {
		show(win, opts)
	}
	return errors.Join(errs...)
}

// snapshot reads the window's current attributes, substituting safe
// defaults for anything the host cannot answer.
func snapshot(win host.Window) state.Metadata {
	md := state.DefaultMetadata()
	if size, err := win.InnerSize(); err == nil {
		md.Width = size.Width
		md.Height = size.Height
	}
	if pos, err := win.OuterPosition(); err == nil {
		md.X = pos.X
		md.Y = pos.Y
	}
	if maximized, err := win.IsMaximized(); err == nil {
		md.Maximized = maximized
	}
	if visible, err := win.IsVisible(); err == nil {
		md.Visible = visible
	}
	if decorated, err := win.IsDecorated(); err == nil {
		md.Decorated = decorated
	}
	if fullscreen, err := win.IsFullscreen(); err == nil {
		md.Fullscreen = fullscreen
	}
	return md
}

func show(win host.Window, opts Options) {
	if err := win.Show(); err != nil {
		opts.logger().Debug("show window failed", "label", win.Label(), "error", err)
	}
	if err := win.SetFocus(); err != nil {
		opts.logger().Debug("focus window failed", "label", win.Label(), "error", err)
	}
}

// Attach binds the live-update handler for win. The handler closes
// over the shared store and the window's label and keeps the entry
// created by RestoreState synchronized with geometry events. It is a
// no-op for blacklisted labels.
func Attach(win host.Window, store *state.Store, opts Options) {
	label := win.Label()
	if opts.blacklisted(label) {
		return
	}
	win.OnEvent(func(ev host.Event) {
		handleEvent(win, label, store, ev)
	})
}

// handleEvent folds one event into the store. Window attributes are
// read before taking the store lock. Missing entries are tolerated:
// the ready protocol normally runs first, but a stray event must not
// crash.
func handleEvent(win host.Window, label string, store *state.Store, ev host.Event) {
	switch ev := ev.(type) {
	case host.Moved:
		maximized := readBool(win.IsMaximized, false)
		monitor, err := win.CurrentMonitor()
		store.Update(label, func(md *state.Metadata) {
			md.Maximized = maximized
			if err != nil || monitor == nil {
				// No monitor to validate against; keep the old
				// coordinates for this event.
				return
			}
			// Accept only positions strictly inside the current
			// monitor. Minimizing windows report garbage coordinates
			// on some platforms, and a maximized window's position is
			// meaningless for restore.
			if ev.Position.X > monitor.Position.X && ev.Position.Y > monitor.Position.Y && !maximized {
				md.X = ev.Position.X
				md.Y = ev.Position.Y
			}
		})

	case host.Resized:
		maximized := readBool(win.IsMaximized, false)
		decorated := readBool(win.IsDecorated, true)
		fullscreen := readBool(win.IsFullscreen, false)
		store.Update(label, func(md *state.Metadata) {
			md.Maximized = maximized
			md.Decorated = decorated
			md.Fullscreen = fullscreen
			// A zero dimension signals a minimized or degenerate
			// state and a maximized size is not worth restoring.
			if ev.Size.Width > 0 && ev.Size.Height > 0 && !maximized {
				md.Width = ev.Size.Width
				md.Height = ev.Size.Height
			}
		})

	case host.CloseRequested:
		visible := readBool(win.IsVisible, true)
		store.Update(label, func(md *state.Metadata) {
			md.Visible = visible
		})
	}
}

func readBool(read func() (bool, error), fallback bool) bool {
	v, err := read()
	if err != nil {
		return fallback
	}
	return v
}
