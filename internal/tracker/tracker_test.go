package tracker

import (
	"errors"
	"testing"

	"github.com/1broseidon/winstate/internal/host"
	"github.com/1broseidon/winstate/internal/state"
)

// fakeWindow implements host.Window in memory.
type fakeWindow struct {
	label string

	inner      host.Size
	outer      host.Position
	maximized  bool
	visible    bool
	decorated  bool
	fullscreen bool

	monitor    *host.Monitor
	monitorErr error

	shown   bool
	focused bool
	handler func(host.Event)

	// applied records what the tracker set on the live window, in order.
	applied []string

	failSetPosition bool
	failReads       bool
}

func newFakeWindow(label string) *fakeWindow {
	return &fakeWindow{
		label:     label,
		inner:     host.Size{Width: 800, Height: 600},
		outer:     host.Position{X: 100, Y: 100},
		visible:   true,
		decorated: true,
		monitor:   &host.Monitor{Position: host.Position{X: 0, Y: 0}},
	}
}

func (w *fakeWindow) Label() string { return w.label }

func (w *fakeWindow) SetPosition(pos host.Position) error {
	if w.failSetPosition {
		return errors.New("set position refused")
	}
	w.outer = pos
	w.applied = append(w.applied, "position")
	return nil
}

func (w *fakeWindow) SetSize(size host.Size) error {
	w.inner = size
	w.applied = append(w.applied, "size")
	return nil
}

func (w *fakeWindow) SetDecorations(decorated bool) error {
	w.decorated = decorated
	w.applied = append(w.applied, "decorations")
	return nil
}

func (w *fakeWindow) SetFullscreen(fullscreen bool) error {
	w.fullscreen = fullscreen
	w.applied = append(w.applied, "fullscreen")
	return nil
}

func (w *fakeWindow) Maximize() error {
	w.maximized = true
	w.applied = append(w.applied, "maximize")
	return nil
}

func (w *fakeWindow) InnerSize() (host.Size, error) {
	if w.failReads {
		return host.Size{}, errors.New("unreadable")
	}
	return w.inner, nil
}

func (w *fakeWindow) OuterPosition() (host.Position, error) {
	if w.failReads {
		return host.Position{}, errors.New("unreadable")
	}
	return w.outer, nil
}

func (w *fakeWindow) IsMaximized() (bool, error) {
	if w.failReads {
		return false, errors.New("unreadable")
	}
	return w.maximized, nil
}

func (w *fakeWindow) IsVisible() (bool, error) {
	if w.failReads {
		return false, errors.New("unreadable")
	}
	return w.visible, nil
}

func (w *fakeWindow) IsDecorated() (bool, error) {
	if w.failReads {
		return false, errors.New("unreadable")
	}
	return w.decorated, nil
}

func (w *fakeWindow) IsFullscreen() (bool, error) {
	if w.failReads {
		return false, errors.New("unreadable")
	}
	return w.fullscreen, nil
}

func (w *fakeWindow) CurrentMonitor() (*host.Monitor, error) {
	if w.monitorErr != nil {
		return nil, w.monitorErr
	}
	return w.monitor, nil
}

func (w *fakeWindow) Show() error {
	w.shown = true
	return nil
}

func (w *fakeWindow) SetFocus() error {
	w.focused = true
	return nil
}

func (w *fakeWindow) OnEvent(handler func(host.Event)) {
	w.handler = handler
}

func (w *fakeWindow) fire(ev host.Event) {
	if w.handler != nil {
		w.handler(ev)
	}
}

func TestRestoreState_SnapshotsUnseenWindow(t *testing.T) {
	store := state.NewStore()
	win := newFakeWindow("main")

	if err := RestoreState(win, store, DefaultOptions()); err != nil {
		t.Fatalf("restore: %v", err)
	}

	md, ok := store.Get("main")
	if !ok {
		t.Fatalf("expected a snapshot entry for main")
	}
	want := state.Metadata{Width: 800, Height: 600, X: 100, Y: 100, Visible: true, Decorated: true}
	if md != want {
		t.Fatalf("expected %+v, got %+v", want, md)
	}
	if len(win.applied) != 0 {
		t.Fatalf("snapshot must not modify the live window, applied %v", win.applied)
	}
	if !win.shown || !win.focused {
		t.Fatalf("a newly tracked window should be shown and focused")
	}
}

func TestRestoreState_SnapshotDefaultsWhenUnreadable(t *testing.T) {
	store := state.NewStore()
	win := newFakeWindow("main")
	win.failReads = true

	if err := RestoreState(win, store, DefaultOptions()); err != nil {
		t.Fatalf("restore: %v", err)
	}

	md, _ := store.Get("main")
	if !md.Visible || !md.Decorated {
		t.Fatalf("visible and decorated must default to true, got %+v", md)
	}
	if md.Maximized || md.Fullscreen {
		t.Fatalf("maximized and fullscreen must default to false, got %+v", md)
	}
}

func TestRestoreState_AppliesCachedEntry(t *testing.T) {
	store := state.NewStore()
	store.Insert("main", state.Metadata{
		Width: 1024, Height: 768, X: 20, Y: 30,
		Maximized: true, Visible: true, Decorated: false, Fullscreen: true,
	})
	win := newFakeWindow("main")

	if err := RestoreState(win, store, DefaultOptions()); err != nil {
		t.Fatalf("restore: %v", err)
	}

	if win.outer.X != 20 || win.outer.Y != 30 {
		t.Fatalf("expected position (20,30), got (%d,%d)", win.outer.X, win.outer.Y)
	}
	if win.inner.Width != 1024 || win.inner.Height != 768 {
		t.Fatalf("expected size 1024x768, got %dx%d", win.inner.Width, win.inner.Height)
	}
	if !win.maximized || !win.fullscreen || win.decorated {
		t.Fatalf("expected maximized+fullscreen+undecorated, got %+v", win)
	}
	if !win.shown || !win.focused {
		t.Fatalf("stored-visible window should be shown and focused")
	}

	want := []string{"decorations", "position", "size", "maximize", "fullscreen"}
	if len(win.applied) != len(want) {
		t.Fatalf("expected applications %v, got %v", want, win.applied)
	}
	for i := range want {
		if win.applied[i] != want[i] {
			t.Fatalf("expected application order %v, got %v", want, win.applied)
		}
	}
}

func TestRestoreState_HiddenEntryIsNotShown(t *testing.T) {
	store := state.NewStore()
	store.Insert("main", state.Metadata{Width: 800, Height: 600, Decorated: true, Visible: false})
	win := newFakeWindow("main")

	if err := RestoreState(win, store, DefaultOptions()); err != nil {
		t.Fatalf("restore: %v", err)
	}
	if win.shown || win.focused {
		t.Fatalf("window stored as hidden must not be shown")
	}
}

func TestRestoreState_AutoShowDisabled(t *testing.T) {
	store := state.NewStore()
	win := newFakeWindow("main")

	opts := DefaultOptions()
	opts.AutoShow = false
	if err := RestoreState(win, store, opts); err != nil {
		t.Fatalf("restore: %v", err)
	}
	if win.shown || win.focused {
		t.Fatalf("auto_show disabled: the tracker must never show or focus")
	}
}

func TestRestoreState_PartialFailureAppliesTheRest(t *testing.T) {
	store := state.NewStore()
	store.Insert("main", state.Metadata{Width: 1024, Height: 768, X: 20, Y: 30, Visible: true, Decorated: true})
	win := newFakeWindow("main")
	win.failSetPosition = true

	err := RestoreState(win, store, DefaultOptions())
	if err == nil {
		t.Fatalf("expected an error from the failed position application")
	}
	if win.inner.Width != 1024 || win.inner.Height != 768 {
		t.Fatalf("size must still be applied after a position failure")
	}
	if !win.shown {
		t.Fatalf("window must still be shown after a partial failure")
	}
}

func TestRestoreState_BlacklistedLabelUntouched(t *testing.T) {
	store := state.NewStore()
	win := newFakeWindow("devtools")

	opts := DefaultOptions()
	opts.Blacklist = []string{"devtools"}
	if err := WindowReady(win, store, opts); err != nil {
		t.Fatalf("ready: %v", err)
	}

	if store.Len() != 0 {
		t.Fatalf("blacklisted window must not gain a store entry")
	}
	if win.shown || win.focused {
		t.Fatalf("blacklisted window must not be shown or focused")
	}
	if win.handler != nil {
		t.Fatalf("blacklisted window must not get an event handler")
	}

	// Events on a blacklisted window change nothing even if fired.
	win.fire(host.Moved{Position: host.Position{X: 1, Y: 1}})
	if store.Len() != 0 {
		t.Fatalf("expected store to stay empty")
	}
}

func TestAttach_MovedInsideMonitorUpdatesPosition(t *testing.T) {
	store := state.NewStore()
	win := newFakeWindow("main")
	if err := WindowReady(win, store, DefaultOptions()); err != nil {
		t.Fatalf("ready: %v", err)
	}

	win.fire(host.Moved{Position: host.Position{X: 50, Y: 50}})

	md, _ := store.Get("main")
	if md.X != 50 || md.Y != 50 {
		t.Fatalf("expected position (50,50), got (%d,%d)", md.X, md.Y)
	}
}

func TestAttach_MovedOutsideMonitorIsRejected(t *testing.T) {
	store := state.NewStore()
	win := newFakeWindow("main")
	win.monitor = &host.Monitor{Position: host.Position{X: 0, Y: 0}}
	if err := WindowReady(win, store, DefaultOptions()); err != nil {
		t.Fatalf("ready: %v", err)
	}

	cases := []host.Position{
		{X: 0, Y: 50},     // on the monitor edge
		{X: -32000, Y: 5}, // minimize garbage
		{X: 50, Y: -1},
	}
	for _, pos := range cases {
		win.fire(host.Moved{Position: pos})
		md, _ := store.Get("main")
		if md.X != 100 || md.Y != 100 {
			t.Fatalf("position %+v must be rejected, entry moved to (%d,%d)", pos, md.X, md.Y)
		}
	}
}

func TestAttach_MovedWhileMaximizedKeepsPosition(t *testing.T) {
	store := state.NewStore()
	win := newFakeWindow("main")
	if err := WindowReady(win, store, DefaultOptions()); err != nil {
		t.Fatalf("ready: %v", err)
	}

	win.maximized = true
	win.fire(host.Moved{Position: host.Position{X: 5, Y: 5}})

	md, _ := store.Get("main")
	if md.X != 100 || md.Y != 100 {
		t.Fatalf("maximized move must not update position, got (%d,%d)", md.X, md.Y)
	}
	if !md.Maximized {
		t.Fatalf("maximized state must be recomputed from the live window")
	}
}

func TestAttach_MovedWithoutMonitorSkipsCoordinates(t *testing.T) {
	store := state.NewStore()
	win := newFakeWindow("main")
	if err := WindowReady(win, store, DefaultOptions()); err != nil {
		t.Fatalf("ready: %v", err)
	}

	win.monitorErr = errors.New("monitor query failed")
	win.maximized = true
	win.fire(host.Moved{Position: host.Position{X: 50, Y: 50}})

	md, _ := store.Get("main")
	if md.X != 100 || md.Y != 100 {
		t.Fatalf("coordinates must be skipped without a monitor, got (%d,%d)", md.X, md.Y)
	}
	if !md.Maximized {
		t.Fatalf("maximized must still be recomputed")
	}
}

func TestAttach_ResizedZeroIsRejected(t *testing.T) {
	store := state.NewStore()
	win := newFakeWindow("main")
	if err := WindowReady(win, store, DefaultOptions()); err != nil {
		t.Fatalf("ready: %v", err)
	}

	win.fire(host.Resized{Size: host.Size{Width: 0, Height: 0}})

	md, _ := store.Get("main")
	if md.Width != 800 || md.Height != 600 {
		t.Fatalf("zero resize must be rejected, got %dx%d", md.Width, md.Height)
	}
}

func TestAttach_ResizedUpdatesSizeAndFlags(t *testing.T) {
	store := state.NewStore()
	win := newFakeWindow("main")
	if err := WindowReady(win, store, DefaultOptions()); err != nil {
		t.Fatalf("ready: %v", err)
	}

	win.decorated = false
	win.fullscreen = true
	win.fire(host.Resized{Size: host.Size{Width: 1280, Height: 720}})

	md, _ := store.Get("main")
	if md.Width != 1280 || md.Height != 720 {
		t.Fatalf("expected 1280x720, got %dx%d", md.Width, md.Height)
	}
	if md.Decorated || !md.Fullscreen {
		t.Fatalf("decorated/fullscreen must be recomputed, got %+v", md)
	}
}

func TestAttach_ResizedWhileMaximizedKeepsSize(t *testing.T) {
	store := state.NewStore()
	win := newFakeWindow("main")
	if err := WindowReady(win, store, DefaultOptions()); err != nil {
		t.Fatalf("ready: %v", err)
	}

	win.maximized = true
	win.fire(host.Resized{Size: host.Size{Width: 1920, Height: 1080}})

	md, _ := store.Get("main")
	if md.Width != 800 || md.Height != 600 {
		t.Fatalf("maximized resize must not update size, got %dx%d", md.Width, md.Height)
	}
	if !md.Maximized {
		t.Fatalf("maximized state must be stored")
	}
}

func TestAttach_CloseRequestedStoresVisibility(t *testing.T) {
	store := state.NewStore()
	win := newFakeWindow("main")
	if err := WindowReady(win, store, DefaultOptions()); err != nil {
		t.Fatalf("ready: %v", err)
	}

	win.visible = false
	win.fire(host.CloseRequested{})

	md, _ := store.Get("main")
	if md.Visible {
		t.Fatalf("close on a hidden window must store visible=false")
	}
}

func TestAttach_CloseRequestedUnreadableDefaultsVisible(t *testing.T) {
	store := state.NewStore()
	win := newFakeWindow("main")
	if err := WindowReady(win, store, DefaultOptions()); err != nil {
		t.Fatalf("ready: %v", err)
	}

	store.Update("main", func(md *state.Metadata) { md.Visible = false })
	win.failReads = true
	win.fire(host.CloseRequested{})

	md, _ := store.Get("main")
	if !md.Visible {
		t.Fatalf("unreadable visibility must default to true")
	}
}

func TestAttach_EventsWithoutEntryDoNotCrash(t *testing.T) {
	store := state.NewStore()
	win := newFakeWindow("main")
	Attach(win, store, DefaultOptions())

	win.fire(host.Moved{Position: host.Position{X: 10, Y: 10}})
	win.fire(host.Resized{Size: host.Size{Width: 10, Height: 10}})
	win.fire(host.CloseRequested{})

	if store.Len() != 0 {
		t.Fatalf("events must never create entries, got %d", store.Len())
	}
}
