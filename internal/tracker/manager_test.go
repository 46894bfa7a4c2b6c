package tracker

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/1broseidon/winstate/internal/host"
	"github.com/1broseidon/winstate/internal/state"
)

// fakeApp implements host.App over a fixed data directory.
type fakeApp struct {
	dir     string
	ok      bool
	onReady []func(host.Window)
	onExit  []func()
}

func (a *fakeApp) OnWindowReady(handler func(host.Window)) {
	a.onReady = append(a.onReady, handler)
}

func (a *fakeApp) OnExit(handler func()) {
	a.onExit = append(a.onExit, handler)
}

func (a *fakeApp) DataDir() (string, bool) { return a.dir, a.ok }

func (a *fakeApp) windowReady(win host.Window) {
	for _, handler := range a.onReady {
		handler(win)
	}
}

func (a *fakeApp) exit() {
	for _, hook := range a.onExit {
		hook()
	}
}

func TestManager_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	app := &fakeApp{dir: dir, ok: true}

	mgr := NewManager(app, DefaultOptions())
	mgr.Bind(app)

	win := newFakeWindow("main")
	app.windowReady(win)

	md, ok := mgr.Store().Get("main")
	if !ok {
		t.Fatalf("expected main to be tracked after ready")
	}
	want := state.Metadata{Width: 800, Height: 600, X: 100, Y: 100, Visible: true, Decorated: true}
	if md != want {
		t.Fatalf("expected %+v, got %+v", want, md)
	}
	if !win.shown {
		t.Fatalf("expected main to be shown")
	}

	// A zero-sized resize is noise and changes nothing.
	win.fire(host.Resized{Size: host.Size{Width: 0, Height: 0}})
	md, _ = mgr.Store().Get("main")
	if md != want {
		t.Fatalf("zero resize changed the entry: %+v", md)
	}

	// A move inside the monitor is accepted.
	win.fire(host.Moved{Position: host.Position{X: 50, Y: 50}})
	md, _ = mgr.Store().Get("main")
	if md.X != 50 || md.Y != 50 {
		t.Fatalf("expected (50,50), got (%d,%d)", md.X, md.Y)
	}

	// Exit flushes to disk; a fresh manager reloads the same entry.
	app.exit()

	path := filepath.Join(dir, state.FileName)
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected state file after exit: %v", err)
	}

	reloaded := NewManager(&fakeApp{dir: dir, ok: true}, DefaultOptions())
	got, ok := reloaded.Store().Get("main")
	if !ok {
		t.Fatalf("expected reloaded store to contain main")
	}
	want.X, want.Y = 50, 50
	if got != want {
		t.Fatalf("expected persisted entry %+v, got %+v", want, got)
	}
}

func TestManager_RestoresKnownWindow(t *testing.T) {
	dir := t.TempDir()

	// Persist a prior session's state by hand.
	store := state.NewStore()
	store.Insert("main", state.Metadata{Width: 1024, Height: 768, X: 20, Y: 30, Visible: true, Decorated: true})
	if err := state.SaveFile(filepath.Join(dir, state.FileName), store); err != nil {
		t.Fatalf("seed state: %v", err)
	}

	app := &fakeApp{dir: dir, ok: true}
	mgr := NewManager(app, DefaultOptions())
	mgr.Bind(app)

	win := newFakeWindow("main")
	app.windowReady(win)

	if win.inner.Width != 1024 || win.inner.Height != 768 {
		t.Fatalf("expected restored size 1024x768, got %dx%d", win.inner.Width, win.inner.Height)
	}
	if win.outer.X != 20 || win.outer.Y != 30 {
		t.Fatalf("expected restored position (20,30), got (%d,%d)", win.outer.X, win.outer.Y)
	}
}

func TestManager_NoDataDirDisablesPersistence(t *testing.T) {
	app := &fakeApp{ok: false}
	mgr := NewManager(app, DefaultOptions())

	if mgr.StatePath() != "" {
		t.Fatalf("expected empty state path, got %q", mgr.StatePath())
	}
	mgr.Store().Insert("main", state.Metadata{Visible: true})
	if err := mgr.Flush(); err != nil {
		t.Fatalf("flush without a data dir must be a silent no-op, got %v", err)
	}
}

func TestManager_CorruptStateFileStartsEmpty(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, state.FileName), []byte("garbage"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	mgr := NewManager(&fakeApp{dir: dir, ok: true}, DefaultOptions())
	if mgr.Store().Len() != 0 {
		t.Fatalf("expected empty store from corrupt file, got %d entries", mgr.Store().Len())
	}
}

func TestManager_FlushFailureIsReportedNotFatal(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("directory permissions do not bind root")
	}
	dir := t.TempDir()
	// Make the directory unwritable so the flush fails.
	blocked := filepath.Join(dir, "blocked")
	if err := os.MkdirAll(blocked, 0555); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	app := &fakeApp{dir: filepath.Join(blocked, "nested"), ok: true}
	mgr := NewManager(app, DefaultOptions())
	mgr.Store().Insert("main", state.Metadata{Visible: true})

	if err := mgr.Flush(); err == nil {
		t.Fatalf("expected flush into unwritable directory to fail")
	}

	// The exit hook swallows the same failure.
	mgr.Bind(app)
	app.exit()
}
