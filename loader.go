package shade

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/yxnxs/shade/internal/x11"
)

// Loader owns the one-shot background initialization. Construct one at
// startup and pass it by reference; there is deliberately no package-level
// instance hiding this state.
//
// The first Load runs the full bootstrap-through-publish sequence exactly
// once, even under concurrent callers; its outcome, handle or error, is
// cached and replayed to every later call without re-running side effects.
// A failed Loader stays failed; recovery means a fresh Loader (normally a
// fresh process).
//
// The zero value connects to $DISPLAY and pins screen 0, which is the
// default screen everywhere but multi-screen "Zaphod" setups; set Screen
// to -1 to follow the display string instead.
type Loader struct {
	// Display follows the usual X syntax (":0", "host:1.2"). Empty means
	// $DISPLAY.
	Display string

	// Screen selects the screen by index when >= 0, overriding the display
	// string. Negative follows the display string's default.
	Screen int

	// Logger receives step-by-step initialization logging. Nil discards.
	Logger *slog.Logger

	once   sync.Once
	handle *Background
	err    error

	// bootstrap stands in for the real sequence in tests.
	bootstrap func(m OpenMethod) (*Background, error)
}

// Load returns the process-lifetime background handle, initializing it on
// first call. See the Loader documentation for the caching contract.
//
// A LoadFromFile method always fails with ErrUnsupported, before the
// one-shot state is touched, so probing it never burns the single
// initialization.
func (l *Loader) Load(m OpenMethod) (*Background, error) {
	if m.mode == modeLoadFromFile {
		return nil, fmt.Errorf("load background from %q (%s): %w", m.path, m.scaling, ErrUnsupported)
	}

	l.once.Do(func() {
		boot := l.bootstrap
		if boot == nil {
			boot = l.load
		}
		l.handle, l.err = boot(m)
	})
	return l.handle, l.err
}

func (l *Loader) logger() *slog.Logger {
	if l.Logger != nil {
		return l.Logger
	}
	return slog.New(slog.DiscardHandler)
}

// Ownership is a read-only snapshot of the root pixmap convention state.
type Ownership struct {
	// Pixmap ids currently published under each atom; zero means the atom
	// is uninterned or carries no usable property.
	RootPixmap uint32
	ESetRoot   uint32

	Screen int
	Width  int
	Height int
	Depth  int
}

// Owned reports whether any background is published at all.
func (o *Ownership) Owned() bool {
	return o.RootPixmap != 0 || o.ESetRoot != 0
}

// Consistent reports whether both atoms agree on one pixmap, the state
// every well-behaved tool leaves behind.
func (o *Ownership) Consistent() bool {
	return o.RootPixmap != 0 && o.RootPixmap == o.ESetRoot
}

// Inspect reads the convention atoms without side effects: nothing is
// created, killed or published, and the one-shot Load state is untouched.
// It opens and closes its own connection.
func (l *Loader) Inspect() (*Ownership, error) {
	conn, err := x11.Connect(x11.Options{Display: l.Display, Screen: l.Screen, Logger: l.Logger})
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	info := &Ownership{
		Screen: conn.Screen.Index,
		Width:  int(conn.Screen.Width),
		Height: int(conn.Screen.Height),
		Depth:  int(conn.Screen.Depth),
	}

	for _, probe := range []struct {
		name string
		dst  *uint32
	}{
		{x11.AtomRootPixmap, &info.RootPixmap},
		{x11.AtomESetRoot, &info.ESetRoot},
	} {
		atom, err := conn.InternAtom(probe.name, true)
		if err != nil {
			return nil, &RequestError{Op: "probe atom " + probe.name, Err: err}
		}
		pix, ok, err := conn.PixmapProperty(conn.Screen.Root, atom)
		if err != nil {
			return nil, &RequestError{Op: "read " + probe.name, Err: err}
		}
		if ok {
			*probe.dst = uint32(pix)
		}
	}
	return info, nil
}
