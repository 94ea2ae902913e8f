package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
)

// SetRootBackground installs p as the root window's background attribute.
// The change becomes visible on the next clear/expose.
func (c *Connection) SetRootBackground(p xproto.Pixmap) error {
	err := xproto.ChangeWindowAttributesChecked(c.XUtil.Conn(), c.Screen.Root,
		xproto.CwBackPixmap, []uint32{uint32(p)}).Check()
	if err != nil {
		return fmt.Errorf("set root background pixmap: %w", err)
	}
	return nil
}

// ClearRoot repaints the whole root window from its background attribute,
// with exposures so background-watching clients redraw too.
func (c *Connection) ClearRoot() error {
	err := xproto.ClearAreaChecked(c.XUtil.Conn(), true, c.Screen.Root,
		0, 0, c.Screen.Width, c.Screen.Height).Check()
	if err != nil {
		return fmt.Errorf("clear root window: %w", err)
	}
	return nil
}

// RetainOnDisconnect marks this client's resources to survive disconnect.
// Without it the server would destroy the published pixmap the moment the
// process exits, and the convention atoms would dangle.
func (c *Connection) RetainOnDisconnect() error {
	err := xproto.SetCloseDownModeChecked(c.XUtil.Conn(), xproto.CloseDownRetainPermanent).Check()
	if err != nil {
		return fmt.Errorf("set close-down mode: %w", err)
	}
	return nil
}
