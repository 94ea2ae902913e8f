package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
)

// killTargets selects which pixmap owners to terminate, deduplicating the
// common case where both convention atoms reference the same pixmap. Zero
// is the absent sentinel.
func killTargets(a, b xproto.Pixmap) []xproto.Pixmap {
	switch {
	case a == 0 && b == 0:
		return nil
	case a == 0:
		return []xproto.Pixmap{b}
	case b == 0 || a == b:
		return []xproto.Pixmap{a}
	default:
		return []xproto.Pixmap{a, b}
	}
}

// EvictOwners terminates the client(s) owning the given pixmaps. The same
// owner is never killed twice. Returns how many kill requests were issued.
// The first failure aborts immediately and is not retried.
func (c *Connection) EvictOwners(a, b xproto.Pixmap) (int, error) {
	targets := killTargets(a, b)
	for i, t := range targets {
		if err := xproto.KillClientChecked(c.XUtil.Conn(), uint32(t)).Check(); err != nil {
			return i, fmt.Errorf("kill client owning pixmap %#x: %w", uint32(t), err)
		}
		c.logger.Debug("evicted previous background owner", "pixmap", uint32(t))
	}
	return len(targets), nil
}
