package x11

import (
	"fmt"
	"sync"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/motif"
	"github.com/BurntSushi/xgbutil/xwindow"

	"github.com/1broseidon/winstate/internal/host"
)

const (
	stateMaxHorz    = "_NET_WM_STATE_MAXIMIZED_HORZ"
	stateMaxVert    = "_NET_WM_STATE_MAXIMIZED_VERT"
	stateFullscreen = "_NET_WM_STATE_FULLSCREEN"
)

// Window adapts one X11 client window to the host.Window surface.
type Window struct {
	conn  *Connection
	id    xproto.Window
	label string

	mu      sync.Mutex
	handler func(host.Event)

	// last reported geometry, used to split ConfigureNotify into
	// Moved and Resized events.
	lastX, lastY int16
	lastW, lastH uint16
}

// WrapWindow builds a Window for an existing X11 client. The label is
// the WM_CLASS instance name, which window managers keep stable across
// application restarts.
func WrapWindow(conn *Connection, id xproto.Window) (*Window, error) {
	class, err := icccm.WmClassGet(conn.XUtil, id)
	if err != nil || class.Instance == "" {
		return nil, fmt.Errorf("window %d has no WM_CLASS instance: %w", id, err)
	}
	w := &Window{conn: conn, id: id, label: class.Instance}

	if geom, err := xproto.GetGeometry(conn.XUtil.Conn(), xproto.Drawable(id)).Reply(); err == nil {
		w.lastW = geom.Width
		w.lastH = geom.Height
	}
	if pos, err := w.OuterPosition(); err == nil {
		w.lastX = int16(pos.X)
		w.lastY = int16(pos.Y)
	}
	return w, nil
}

// ID returns the X11 window identifier.
func (w *Window) ID() xproto.Window { return w.id }

// Label implements host.Window.
func (w *Window) Label() string { return w.label }

// SetPosition implements host.Window.
func (w *Window) SetPosition(pos host.Position) error {
	xwindow.New(w.conn.XUtil, w.id).Move(int(pos.X), int(pos.Y))
	return nil
}

// SetSize implements host.Window.
func (w *Window) SetSize(size host.Size) error {
	if size.Width == 0 || size.Height == 0 {
		return fmt.Errorf("refusing to resize %q to %dx%d", w.label, size.Width, size.Height)
	}
	xwindow.New(w.conn.XUtil, w.id).Resize(int(size.Width), int(size.Height))
	return nil
}

// SetDecorations implements host.Window via Motif WM hints.
func (w *Window) SetDecorations(decorated bool) error {
	hints := &motif.Hints{Flags: motif.HintDecorations}
	if decorated {
		hints.Decoration = motif.DecorationAll
	} else {
		hints.Decoration = motif.DecorationNone
	}
	return motif.WmHintsSet(w.conn.XUtil, w.id, hints)
}

// SetFullscreen implements host.Window.
func (w *Window) SetFullscreen(fullscreen bool) error {
	action := ewmh.StateRemove
	if fullscreen {
		action = ewmh.StateAdd
	}
	return ewmh.WmStateReq(w.conn.XUtil, w.id, action, stateFullscreen)
}

// Maximize implements host.Window.
func (w *Window) Maximize() error {
	if err := ewmh.WmStateReq(w.conn.XUtil, w.id, ewmh.StateAdd, stateMaxHorz); err != nil {
		return err
	}
	return ewmh.WmStateReq(w.conn.XUtil, w.id, ewmh.StateAdd, stateMaxVert)
}

// InnerSize implements host.Window.
func (w *Window) InnerSize() (host.Size, error) {
	geom, err := xproto.GetGeometry(w.conn.XUtil.Conn(), xproto.Drawable(w.id)).Reply()
	if err != nil {
		return host.Size{}, fmt.Errorf("get geometry: %w", err)
	}
	return host.Size{Width: uint32(geom.Width), Height: uint32(geom.Height)}, nil
}

// OuterPosition implements host.Window. Coordinates are translated to
// the root window so reparenting window managers do not skew them.
func (w *Window) OuterPosition() (host.Position, error) {
	translate, err := xproto.TranslateCoordinates(
		w.conn.XUtil.Conn(),
		w.id,
		w.conn.Root,
		0, 0,
	).Reply()
	if err != nil {
		return host.Position{}, fmt.Errorf("translate coordinates: %w", err)
	}
	return host.Position{X: int32(translate.DstX), Y: int32(translate.DstY)}, nil
}

// IsMaximized implements host.Window. A window counts as maximized
// only when both the horizontal and vertical EWMH states are set.
func (w *Window) IsMaximized() (bool, error) {
	states, err := ewmh.WmStateGet(w.conn.XUtil, w.id)
	if err != nil {
		return false, err
	}
	hasMaxH := false
	hasMaxV := false
	for _, state := range states {
		if state == stateMaxHorz {
			hasMaxH = true
		}
		if state == stateMaxVert {
			hasMaxV = true
		}
	}
	return hasMaxH && hasMaxV, nil
}

// IsVisible implements host.Window.
func (w *Window) IsVisible() (bool, error) {
	attrs, err := xproto.GetWindowAttributes(w.conn.XUtil.Conn(), w.id).Reply()
	if err != nil {
		return false, fmt.Errorf("get window attributes: %w", err)
	}
	return attrs.MapState == xproto.MapStateViewable, nil
}

// IsDecorated implements host.Window. Windows without Motif hints are
// decorated by convention.
func (w *Window) IsDecorated() (bool, error) {
	hints, err := motif.WmHintsGet(w.conn.XUtil, w.id)
	if err != nil {
		return true, nil
	}
	return motif.Decor(hints), nil
}

// IsFullscreen implements host.Window.
func (w *Window) IsFullscreen() (bool, error) {
	states, err := ewmh.WmStateGet(w.conn.XUtil, w.id)
	if err != nil {
		return false, err
	}
	for _, state := range states {
		if state == stateFullscreen {
			return true, nil
		}
	}
	return false, nil
}

// CurrentMonitor implements host.Window.
func (w *Window) CurrentMonitor() (*host.Monitor, error) {
	mon, err := w.conn.MonitorForWindow(w.id)
	if err != nil {
		return nil, err
	}
	if mon == nil {
		return nil, nil
	}
	return &host.Monitor{
		Name:     mon.Name,
		Position: host.Position{X: int32(mon.X), Y: int32(mon.Y)},
		Size:     host.Size{Width: uint32(mon.Width), Height: uint32(mon.Height)},
	}, nil
}

// Show implements host.Window.
func (w *Window) Show() error {
	xwindow.New(w.conn.XUtil, w.id).Map()
	return nil
}

// SetFocus implements host.Window.
func (w *Window) SetFocus() error {
	return ewmh.ActiveWindowReq(w.conn.XUtil, w.id)
}

// OnEvent implements host.Window. The most recent handler wins; the
// tracker binds exactly one.
func (w *Window) OnEvent(handler func(host.Event)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.handler = handler
}

func (w *Window) dispatch(ev host.Event) {
	w.mu.Lock()
	handler := w.handler
	w.mu.Unlock()
	if handler != nil {
		handler(ev)
	}
}

// configured feeds a ConfigureNotify into the window, emitting Moved
// and/or Resized depending on what actually changed.
func (w *Window) configured(x, y int16, width, height uint16) {
	w.mu.Lock()
	moved := x != w.lastX || y != w.lastY
	resized := width != w.lastW || height != w.lastH
	w.lastX, w.lastY = x, y
	w.lastW, w.lastH = width, height
	w.mu.Unlock()

	if moved {
		w.dispatch(host.Moved{Position: host.Position{X: int32(x), Y: int32(y)}})
	}
	if resized {
		w.dispatch(host.Resized{Size: host.Size{Width: uint32(width), Height: uint32(height)}})
	}
}

// IsNormalWindow checks if a window is a normal application window
func (c *Connection) IsNormalWindow(windowID xproto.Window) bool {
	types, err := ewmh.WmWindowTypeGet(c.XUtil, windowID)
	if err != nil {
		// If we can't determine type, assume it's normal
		return true
	}

	for _, t := range types {
		if t == "_NET_WM_WINDOW_TYPE_NORMAL" {
			return true
		}
		// Reject desktop, dock, splash, etc.
		if t == "_NET_WM_WINDOW_TYPE_DESKTOP" ||
			t == "_NET_WM_WINDOW_TYPE_DOCK" ||
			t == "_NET_WM_WINDOW_TYPE_SPLASH" ||
			t == "_NET_WM_WINDOW_TYPE_NOTIFICATION" {
			return false
		}
	}

	// If no specific type is set, assume it's normal
	return len(types) == 0
}
