package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
)

// The two property names independent tools agree on for publishing the root
// background pixmap. Both always carry the same id after a publish; writing
// both keeps transparency-aware terminals (xterm lineage reads ESETROOT,
// most compositors read _XROOTPMAP) in sync.
const (
	AtomRootPixmap = "_XROOTPMAP_ID"
	AtomESetRoot   = "ESETROOT_PMAP_ID"
)

// InternAtom resolves a name to a server atom with a blocking round trip.
// With onlyIfExists set, a name nobody ever registered yields AtomNone and a
// nil error. Results are deliberately not cached client-side: the publisher
// re-interns to observe the server's current state, and a cache holding a
// stale miss would break that.
func (c *Connection) InternAtom(name string, onlyIfExists bool) (xproto.Atom, error) {
	reply, err := xproto.InternAtom(c.XUtil.Conn(), onlyIfExists, uint16(len(name)), name).Reply()
	if err != nil {
		return xproto.AtomNone, fmt.Errorf("intern atom %q: %w", name, err)
	}
	return reply.Atom, nil
}

// PixmapProperty reads the pixmap id stored under atom on win. A none atom
// returns (0, false, nil) without a round trip. A property whose declared
// type is not PIXMAP is treated as absent; a foreign tool may have
// repurposed the atom, so that case is logged.
func (c *Connection) PixmapProperty(win xproto.Window, atom xproto.Atom) (xproto.Pixmap, bool, error) {
	if atom == xproto.AtomNone {
		return 0, false, nil
	}

	reply, err := xproto.GetProperty(c.XUtil.Conn(), false, win, atom,
		xproto.GetPropertyTypeAny, 0, 1).Reply()
	if err != nil {
		return 0, false, fmt.Errorf("read property %d: %w", atom, err)
	}

	if reply.Type == xproto.AtomNone {
		// Atom exists but nobody set the property.
		return 0, false, nil
	}
	if reply.Type != xproto.AtomPixmap || reply.ValueLen == 0 {
		c.logger.Warn("root pixmap property has unexpected type, ignoring",
			"atom", uint32(atom), "type", uint32(reply.Type), "format", reply.Format)
		return 0, false, nil
	}

	id, err := decodePropertyValue(reply.Format, reply.Value)
	if err != nil {
		return 0, false, fmt.Errorf("decode property %d: %w", atom, err)
	}
	return xproto.Pixmap(id), true, nil
}

// decodePropertyValue extracts the first integer from a property value run,
// honoring the reply's wire format. The transport always speaks
// little-endian regardless of host order. Historically only 32-bit values
// appear under the convention atoms, but 16- and 8-bit writers exist; any
// other width is a protocol violation surfaced as an error.
func decodePropertyValue(format byte, value []byte) (uint32, error) {
	switch format {
	case 32:
		if len(value) < 4 {
			return 0, fmt.Errorf("format 32 property with %d value bytes", len(value))
		}
		return xgb.Get32(value), nil
	case 16:
		if len(value) < 2 {
			return 0, fmt.Errorf("format 16 property with %d value bytes", len(value))
		}
		return uint32(xgb.Get16(value)), nil
	case 8:
		if len(value) < 1 {
			return 0, fmt.Errorf("format 8 property with no value bytes")
		}
		return uint32(value[0]), nil
	default:
		return 0, fmt.Errorf("property format %d is not one of 32/16/8", format)
	}
}

// SetPixmapProperty writes p as the sole value under atom on win, replacing
// whatever was there, declared as a 32-bit PIXMAP property.
func (c *Connection) SetPixmapProperty(win xproto.Window, atom xproto.Atom, p xproto.Pixmap) error {
	buf := make([]byte, 4)
	xgb.Put32(buf, uint32(p))
	err := xproto.ChangePropertyChecked(c.XUtil.Conn(), xproto.PropModeReplace,
		win, atom, xproto.AtomPixmap, 32, 1, buf).Check()
	if err != nil {
		return fmt.Errorf("write pixmap property %d: %w", atom, err)
	}
	return nil
}
