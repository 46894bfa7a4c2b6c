// Package host defines the surface winstate needs from an application
// shell: per-window geometry get/set, monitor lookup, event delivery
// and an application data directory. The tracker core depends only on
// these interfaces; internal/x11 provides the live implementation.
package host

// Position is a point in physical screen coordinates.
type Position struct {
	X int32
	Y int32
}

// Size is a window extent in physical pixels.
type Size struct {
	Width  uint32
	Height uint32
}

// Monitor describes the display a window currently occupies. Position
// is the monitor's origin in the global coordinate space.
type Monitor struct {
	Name     string
	Position Position
	Size     Size
}

// Event is a window lifecycle notification delivered by the host.
type Event interface {
	isEvent()
}

// Moved reports a new outer position for the window.
type Moved struct {
	Position Position
}

// Resized reports a new inner size for the window.
type Resized struct {
	Size Size
}

// CloseRequested reports that the user asked to close the window. The
// window may still be alive when the handler runs.
type CloseRequested struct{}

func (Moved) isEvent()          {}
func (Resized) isEvent()        {}
func (CloseRequested) isEvent() {}

// Window is one live window of the host application. Every method that
// touches the windowing system may fail; the tracker treats each call
// as best-effort.
type Window interface {
	// Label returns the window's stable identifier for this run. Hosts
	// that assign labels deterministically (e.g. "main") get their
	// geometry restored across sessions.
	Label() string

	SetPosition(pos Position) error
	SetSize(size Size) error
	SetDecorations(decorated bool) error
	SetFullscreen(fullscreen bool) error
	Maximize() error

	InnerSize() (Size, error)
	OuterPosition() (Position, error)
	IsMaximized() (bool, error)
	IsVisible() (bool, error)
	IsDecorated() (bool, error)
	IsFullscreen() (bool, error)

	// CurrentMonitor returns the monitor containing the window, or nil
	// when the host cannot tell (e.g. the window is off-screen).
	CurrentMonitor() (*Monitor, error)

	Show() error
	SetFocus() error

	// OnEvent registers handler for this window's Moved, Resized and
	// CloseRequested events. Handlers run synchronously on the host's
	// event thread.
	OnEvent(handler func(Event))
}

// App is the application-level surface of the host shell.
type App interface {
	// OnWindowReady registers handler to run once per window, at the
	// moment the window can receive geometry commands.
	OnWindowReady(handler func(Window))

	// OnExit registers handler to run once when the application is
	// shutting down, before the process terminates.
	OnExit(handler func())

	// DataDir resolves the application-specific data directory. ok is
	// false when no directory can be determined; persistence is then
	// skipped for the whole run.
	DataDir() (dir string, ok bool)
}
