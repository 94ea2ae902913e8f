package shade

import (
	"errors"
	"fmt"

	"github.com/BurntSushi/xgb/xproto"

	"github.com/yxnxs/shade/internal/x11"
)

// load runs the bootstrap sequence on the caller's goroutine:
//
//	connect -> select screen -> probe atoms -> [adopt previous image]
//	-> evict owners -> provision pixmap+gc -> publish -> retain
//
// Every reply-expecting request blocks until its round trip completes, so
// the steps never overlap. Any error is terminal for this Loader; nothing
// is rolled back (see the package error docs for the partial-publish
// window).
func (l *Loader) load(m OpenMethod) (*Background, error) {
	log := l.logger()

	conn, err := x11.Connect(x11.Options{Display: l.Display, Screen: l.Screen, Logger: l.Logger})
	if err != nil {
		if errors.Is(err, ErrNoScreen) {
			return nil, err
		}
		return nil, &RequestError{Op: "connect", Err: err}
	}
	screen := conn.Screen
	log.Debug("connected",
		"screen", screen.Index,
		"size", fmt.Sprintf("%dx%d", screen.Width, screen.Height),
		"depth", screen.Depth,
		"bpp", screen.BitsPerPixel)

	if !supportedBPP(screen.BitsPerPixel) {
		return nil, fmt.Errorf("server stores depth-%d pixmaps at %d bpp: %w",
			screen.Depth, screen.BitsPerPixel, ErrUnsupported)
	}

	// Probe both convention atoms without creating them; a never-interned
	// atom means no previous owner ever ran here.
	prev, err := probeOwners(conn)
	if err != nil {
		return nil, err
	}
	log.Debug("atoms probed", "xrootpmap", prev.root, "esetroot", prev.esetroot)

	pixmap, err := conn.CreatePixmap(screen.Width, screen.Height)
	if err != nil {
		return nil, &ResourceError{Resource: "pixmap", Err: err}
	}
	gc, err := conn.CreateGC(xproto.Drawable(pixmap))
	if err != nil {
		return nil, &ResourceError{Resource: "graphics context", Err: err}
	}
	log.Debug("pixmap created", "pixmap", uint32(pixmap))

	bg := newBackground(conn, pixmap, gc)

	// Adoption must happen before eviction: killing the retained previous
	// owner destroys its pixmap, and with it the image being copied.
	if m.mode == modeKeepExisting {
		if src := prev.adoptSource(); src != 0 {
			if err := adoptPrevious(bg, src); err != nil {
				log.Warn("could not adopt previous background, starting fresh", "err", err)
			} else {
				log.Debug("previous background adopted", "from", uint32(src))
			}
		}
	}

	evicted, err := conn.EvictOwners(prev.root, prev.esetroot)
	if err != nil {
		return nil, &RequestError{Op: "evict previous owner", Err: err}
	}
	log.Debug("owners evicted", "count", evicted)

	if err := publishPixmap(conn, pixmap); err != nil {
		return nil, err
	}
	if err := conn.RetainOnDisconnect(); err != nil {
		return nil, &RequestError{Op: "retain resources", Err: err}
	}
	conn.Sync()

	log.Info("background published",
		"pixmap", uint32(pixmap),
		"screen", screen.Index,
		"size", fmt.Sprintf("%dx%d", screen.Width, screen.Height))
	return bg, nil
}

// previousOwners carries the pixmap ids found under each convention atom
// during the probe; zero means absent.
type previousOwners struct {
	root     xproto.Pixmap
	esetroot xproto.Pixmap
}

// adoptSource picks which previous pixmap to copy forward. When the atoms
// disagree, _XROOTPMAP_ID wins: it is the one compositors render from.
func (p previousOwners) adoptSource() xproto.Pixmap {
	if p.root != 0 {
		return p.root
	}
	return p.esetroot
}

func probeOwners(conn *x11.Connection) (previousOwners, error) {
	var prev previousOwners
	for _, probe := range []struct {
		name string
		dst  *xproto.Pixmap
	}{
		{x11.AtomRootPixmap, &prev.root},
		{x11.AtomESetRoot, &prev.esetroot},
	} {
		atom, err := conn.InternAtom(probe.name, true)
		if err != nil {
			return prev, &RequestError{Op: "probe atom " + probe.name, Err: err}
		}
		pix, ok, err := conn.PixmapProperty(conn.Screen.Root, atom)
		if err != nil {
			return prev, &RequestError{Op: "read " + probe.name, Err: err}
		}
		if ok {
			*probe.dst = pix
		}
	}
	return prev, nil
}

// adoptPrevious copies the old background image into the new pixmap and
// primes the handle's buffer with it, clipped to the overlap when the old
// pixmap does not match the current screen size.
func adoptPrevious(bg *Background, src xproto.Pixmap) error {
	conn := bg.conn
	screen := conn.Screen

	w, h, depth, err := conn.DrawableGeometry(xproto.Drawable(src))
	if err != nil {
		return fmt.Errorf("previous pixmap %#x: %w", uint32(src), err)
	}
	if depth != screen.Depth {
		return fmt.Errorf("previous pixmap depth %d does not match screen depth %d", depth, screen.Depth)
	}
	if w > screen.Width {
		w = screen.Width
	}
	if h > screen.Height {
		h = screen.Height
	}
	if w == 0 || h == 0 {
		return fmt.Errorf("previous pixmap is empty")
	}

	data, err := conn.FetchZPixmap(xproto.Drawable(src), w, h)
	if err != nil {
		return err
	}

	stride := paddedStride(int(w), screen.BitsPerPixel, screen.ScanlinePad)
	if need := stride * int(h); len(data) < need {
		return fmt.Errorf("previous image is %d bytes, want %d", len(data), need)
	}
	if err := conn.PutZPixmap(xproto.Drawable(bg.pixmap), bg.gc, w, h, stride, data[:stride*int(h)]); err != nil {
		return err
	}

	pixels, err := decodeZPixmap(data, int(w), int(h), screen.BitsPerPixel, screen.ScanlinePad)
	if err != nil {
		return err
	}
	bg.prime(pixels, int(w), int(h))
	return nil
}

// publishPixmap runs the publication sequence: force-intern both atoms,
// verify both exist, write both properties, install the background
// attribute, repaint. Interning happens two-phase so a refused second atom
// is caught before the first property write, keeping the inconsistency
// window as small as the protocol allows.
func publishPixmap(conn *x11.Connection, pixmap xproto.Pixmap) error {
	names := []string{x11.AtomRootPixmap, x11.AtomESetRoot}
	atoms := make([]xproto.Atom, len(names))
	for i, name := range names {
		atom, err := conn.InternAtom(name, false)
		if err != nil {
			return &RequestError{Op: "register atom " + name, Err: err}
		}
		atoms[i] = atom
	}
	for i, atom := range atoms {
		if atom == xproto.AtomNone {
			return fmt.Errorf("atom %s: %w", names[i], ErrAtomRegistration)
		}
	}

	for i, atom := range atoms {
		if err := conn.SetPixmapProperty(conn.Screen.Root, atom, pixmap); err != nil {
			return &RequestError{Op: "publish " + names[i], Err: err}
		}
	}

	if err := conn.SetRootBackground(pixmap); err != nil {
		return &RequestError{Op: "install root background", Err: err}
	}
	if err := conn.ClearRoot(); err != nil {
		return &RequestError{Op: "repaint root window", Err: err}
	}
	return nil
}
