package x11

import (
	"os"
	"sync"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
)

// Connection manages the X11 connection and core X resources
type Connection struct {
	XUtil *xgbutil.XUtil
	Root  xproto.Window

	closeOnce sync.Once
}

// ConnectOptions override how the X server is reached. Zero values use
// the session environment (DISPLAY, XAUTHORITY).
type ConnectOptions struct {
	Display    string
	Xauthority string
}

// NewConnection establishes a connection to the X11 server.
func NewConnection(opts ConnectOptions) (*Connection, error) {
	if opts.Xauthority != "" {
		// xgb reads XAUTHORITY from the environment at dial time.
		os.Setenv("XAUTHORITY", opts.Xauthority)
	}

	var xu *xgbutil.XUtil
	var err error
	if opts.Display != "" {
		xu, err = xgbutil.NewConnDisplay(opts.Display)
	} else {
		xu, err = xgbutil.NewConn()
	}
	if err != nil {
		return nil, err
	}

	return &Connection{
		XUtil: xu,
		Root:  xu.RootWin(),
	}, nil
}

// Close cleanly disconnects from the X11 server. Safe to call more
// than once; closing also unblocks a pending event wait.
func (c *Connection) Close() {
	c.closeOnce.Do(func() {
		c.XUtil.Conn().Close()
	})
}
