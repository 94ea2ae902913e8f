package x11

import (
	"fmt"
	"math"

	"github.com/BurntSushi/xgb/xproto"
)

// putImageHeader is the fixed part of a PutImage request, in bytes.
const putImageHeader = 24

// CreatePixmap allocates a pixmap of the screen's depth, parented to the
// root window.
func (c *Connection) CreatePixmap(width, height uint16) (xproto.Pixmap, error) {
	id, err := xproto.NewPixmapId(c.XUtil.Conn())
	if err != nil {
		return 0, fmt.Errorf("allocate pixmap id: %w", err)
	}
	err = xproto.CreatePixmapChecked(c.XUtil.Conn(), c.Screen.Depth, id,
		xproto.Drawable(c.Screen.Root), width, height).Check()
	if err != nil {
		return 0, fmt.Errorf("create %dx%d depth-%d pixmap: %w", width, height, c.Screen.Depth, err)
	}
	return id, nil
}

// CreateGC allocates a graphics context for d, preset with the screen's
// white foreground and black background.
func (c *Connection) CreateGC(d xproto.Drawable) (xproto.Gcontext, error) {
	id, err := xproto.NewGcontextId(c.XUtil.Conn())
	if err != nil {
		return 0, fmt.Errorf("allocate gcontext id: %w", err)
	}
	err = xproto.CreateGCChecked(c.XUtil.Conn(), id, d,
		xproto.GcForeground|xproto.GcBackground,
		[]uint32{c.Screen.White, c.Screen.Black}).Check()
	if err != nil {
		return 0, fmt.Errorf("create gcontext: %w", err)
	}
	return id, nil
}

// PutZPixmap uploads a full ZPixmap image of width x height into d. data
// must hold exactly height rows of stride bytes. The transport has no
// BIG-REQUESTS support, so the image travels in row bands sized to fit the
// server's maximum request length; each band is checked and the first
// failure aborts the upload.
func (c *Connection) PutZPixmap(d xproto.Drawable, gc xproto.Gcontext, width, height uint16, stride int, data []byte) error {
	if want := stride * int(height); len(data) != want {
		return fmt.Errorf("image data is %d bytes, want %d (%d rows of %d)", len(data), want, height, stride)
	}

	bandRows := int(height)
	if stride > 0 {
		bandRows = (c.Screen.MaxRequestBytes - putImageHeader) / stride
	}
	if bandRows < 1 {
		return fmt.Errorf("row of %d bytes exceeds server request limit %d", stride, c.Screen.MaxRequestBytes)
	}

	for y := 0; y < int(height); y += bandRows {
		rows := bandRows
		if rem := int(height) - y; rows > rem {
			rows = rem
		}
		band := data[y*stride : (y+rows)*stride]
		err := xproto.PutImageChecked(c.XUtil.Conn(), xproto.ImageFormatZPixmap, d, gc,
			width, uint16(rows), 0, int16(y), 0, c.Screen.Depth, band).Check()
		if err != nil {
			return fmt.Errorf("put image rows %d-%d: %w", y, y+rows-1, err)
		}
	}
	return nil
}

// FetchZPixmap reads the full contents of d back as ZPixmap bytes, rows
// padded to the server's scanline pad.
func (c *Connection) FetchZPixmap(d xproto.Drawable, width, height uint16) ([]byte, error) {
	reply, err := xproto.GetImage(c.XUtil.Conn(), xproto.ImageFormatZPixmap, d,
		0, 0, width, height, math.MaxUint32).Reply()
	if err != nil {
		return nil, fmt.Errorf("fetch %dx%d image: %w", width, height, err)
	}
	return reply.Data, nil
}

// DrawableGeometry reports the size and depth of d. Used to clip the
// continuity copy when the previous owner's pixmap does not match the
// current screen size.
func (c *Connection) DrawableGeometry(d xproto.Drawable) (width, height uint16, depth byte, err error) {
	reply, err := xproto.GetGeometry(c.XUtil.Conn(), d).Reply()
	if err != nil {
		return 0, 0, 0, fmt.Errorf("query drawable geometry: %w", err)
	}
	return reply.Width, reply.Height, reply.Depth, nil
}
