package x11

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
)

// ErrNoScreen is returned by Connect when the display offers no screens or
// the requested screen index is out of range.
var ErrNoScreen = errors.New("no usable screen on display")

// Screen is the target screen's geometry and image capabilities, read once
// at connect time and immutable afterwards.
type Screen struct {
	Index  int
	Root   xproto.Window
	Width  uint16
	Height uint16
	Depth  byte

	// Pixmap format matching Depth, needed to serialize image data.
	BitsPerPixel byte
	ScanlinePad  byte

	White uint32
	Black uint32

	// Largest request the server accepts, in bytes. Image uploads must be
	// split to fit under it.
	MaxRequestBytes int
}

// Connection manages the X11 connection and the selected screen.
type Connection struct {
	XUtil  *xgbutil.XUtil
	Screen Screen

	logger *slog.Logger
}

// Options configures Connect. The zero value connects to $DISPLAY and uses
// the display string's default screen.
type Options struct {
	// Display follows the usual X syntax (":0", "hostname:1.2"). Empty means
	// $DISPLAY.
	Display string

	// Screen overrides the display string's screen number when >= 0.
	Screen int

	Logger *slog.Logger
}

// Connect establishes a connection to the X server and selects the target
// screen. The screen index is validated before any use: an out-of-range
// index fails with ErrNoScreen instead of trapping inside the transport.
func Connect(opts Options) (*Connection, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	conn, err := xgb.NewConnDisplay(opts.Display)
	if err != nil {
		return nil, fmt.Errorf("connect to display %q: %w", opts.Display, err)
	}

	setup := xproto.Setup(conn)
	index := conn.DefaultScreen
	if opts.Screen >= 0 {
		index = opts.Screen
	}
	if index < 0 || index >= len(setup.Roots) {
		conn.Close()
		return nil, fmt.Errorf("screen %d of %d: %w", index, len(setup.Roots), ErrNoScreen)
	}
	// xgbutil caches the default screen at construction, so the override has
	// to land on the conn before wrapping it.
	conn.DefaultScreen = index

	xu, err := xgbutil.NewConnXgb(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("wrap connection: %w", err)
	}

	screen := setup.Roots[index]
	bpp, pad, ok := pixmapFormat(setup, screen.RootDepth)
	if !ok {
		conn.Close()
		return nil, fmt.Errorf("server advertises no pixmap format for depth %d", screen.RootDepth)
	}

	return &Connection{
		XUtil: xu,
		Screen: Screen{
			Index:           index,
			Root:            screen.Root,
			Width:           screen.WidthInPixels,
			Height:          screen.HeightInPixels,
			Depth:           screen.RootDepth,
			BitsPerPixel:    bpp,
			ScanlinePad:     pad,
			White:           screen.WhitePixel,
			Black:           screen.BlackPixel,
			MaxRequestBytes: int(setup.MaximumRequestLength) * 4,
		},
		logger: logger,
	}, nil
}

// pixmapFormat finds the server's image format for the given depth.
func pixmapFormat(setup *xproto.SetupInfo, depth byte) (bpp, pad byte, ok bool) {
	for _, f := range setup.PixmapFormats {
		if f.Depth == depth {
			return f.BitsPerPixel, f.ScanlinePad, true
		}
	}
	return 0, 0, false
}

// Sync forces a full round trip, draining every queued request.
func (c *Connection) Sync() {
	c.XUtil.Conn().Sync()
}

// Close disconnects from the X server. Resources created under
// RetainOnDisconnect survive the disconnect.
func (c *Connection) Close() {
	c.XUtil.Conn().Close()
}
