package shade

import (
	"image"
	"image/draw"
	"sync"

	"github.com/BurntSushi/xgb/xproto"

	"github.com/yxnxs/shade/internal/x11"
)

// Background is the process-lifetime handle to the published background
// pixmap. It owns a mutable pixel buffer; mutations are local until Flush
// uploads the whole buffer to the server.
//
// All buffer access goes through one RWMutex. Flush holds it only while
// serializing, never for the upload round trip, so writers may proceed
// while an upload is in flight.
//
// A Background is never destroyed: the session is marked
// retain-on-disconnect, and the pixmap plus its property bindings outlive
// the process so a later invocation can discover and adopt or evict them.
type Background struct {
	conn   *x11.Connection
	pixmap xproto.Pixmap
	gc     xproto.Gcontext
	width  int
	height int

	mu  sync.RWMutex
	buf []Pixel
}

// Output is an active display output's rectangle in background coordinates.
type Output struct {
	Name string
	Rect image.Rectangle
}

func newBackground(conn *x11.Connection, pixmap xproto.Pixmap, gc xproto.Gcontext) *Background {
	w := int(conn.Screen.Width)
	h := int(conn.Screen.Height)
	return &Background{
		conn:   conn,
		pixmap: pixmap,
		gc:     gc,
		width:  w,
		height: h,
		buf:    make([]Pixel, w*h),
	}
}

// Bounds is the background rectangle: (0,0) to (width, height).
func (b *Background) Bounds() image.Rectangle {
	return image.Rect(0, 0, b.width, b.height)
}

// Depth is the color depth of the underlying pixmap in bits.
func (b *Background) Depth() int {
	return int(b.conn.Screen.Depth)
}

// Pixmap is the server-side id published under the convention atoms.
func (b *Background) Pixmap() xproto.Pixmap {
	return b.pixmap
}

// Fill sets every buffer pixel to p.
func (b *Background) Fill(p Pixel) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.buf {
		b.buf[i] = p
	}
}

// FillRect sets every buffer pixel inside r to p. r is clipped to the
// background bounds.
func (b *Background) FillRect(r image.Rectangle, p Pixel) {
	r = r.Intersect(b.Bounds())
	if r.Empty() {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := b.buf[y*b.width+r.Min.X : y*b.width+r.Max.X]
		for i := range row {
			row[i] = p
		}
	}
}

// SetPixel sets one pixel. Out-of-bounds coordinates are ignored.
func (b *Background) SetPixel(x, y int, p Pixel) {
	if x < 0 || y < 0 || x >= b.width || y >= b.height {
		return
	}
	b.mu.Lock()
	b.buf[y*b.width+x] = p
	b.mu.Unlock()
}

// At reads one pixel. Out-of-bounds coordinates read as the zero Pixel.
func (b *Background) At(x, y int) Pixel {
	if x < 0 || y < 0 || x >= b.width || y >= b.height {
		return Pixel{}
	}
	b.mu.RLock()
	p := b.buf[y*b.width+x]
	b.mu.RUnlock()
	return p
}

// DrawImage copies img into the buffer with its top-left corner at `at`,
// clipped to the background bounds. The image is converted outside the
// lock; only the row copies hold it.
func (b *Background) DrawImage(img image.Image, at image.Point) {
	bounds := img.Bounds()
	rgba, ok := img.(*image.RGBA)
	if !ok {
		rgba = image.NewRGBA(bounds)
		draw.Draw(rgba, bounds, img, bounds.Min, draw.Src)
	}

	target := image.Rectangle{Min: at, Max: at.Add(bounds.Size())}.Intersect(b.Bounds())
	if target.Empty() {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for y := target.Min.Y; y < target.Max.Y; y++ {
		srcY := bounds.Min.Y + (y - at.Y)
		for x := target.Min.X; x < target.Max.X; x++ {
			srcX := bounds.Min.X + (x - at.X)
			o := rgba.PixOffset(srcX, srcY)
			b.buf[y*b.width+x] = Pixel{
				R: rgba.Pix[o],
				G: rgba.Pix[o+1],
				B: rgba.Pix[o+2],
			}
		}
	}
}

// prime overwrites the top-left w x h region of the buffer with pixels,
// row-major. Used once at load time to adopt the previous background
// image, before the handle is shared.
func (b *Background) prime(pixels []Pixel, w, h int) {
	if w > b.width {
		w = b.width
	}
	if h > b.height {
		h = b.height
	}
	for y := 0; y < h; y++ {
		copy(b.buf[y*b.width:y*b.width+w], pixels[y*w:(y+1)*w])
	}
}

// Flush serializes the whole buffer and uploads it into the pixmap, then
// clears the root window so the server repaints from the new contents.
// The buffer lock is held only while serializing, not for the upload.
func (b *Background) Flush() error {
	screen := b.conn.Screen

	b.mu.RLock()
	data, err := encodeZPixmap(b.buf, b.width, b.height, screen.BitsPerPixel, screen.ScanlinePad)
	b.mu.RUnlock()
	if err != nil {
		return err
	}

	stride := paddedStride(b.width, screen.BitsPerPixel, screen.ScanlinePad)
	err = b.conn.PutZPixmap(xproto.Drawable(b.pixmap), b.gc,
		uint16(b.width), uint16(b.height), stride, data)
	if err != nil {
		return &RequestError{Op: "upload background image", Err: err}
	}

	if err := b.conn.ClearRoot(); err != nil {
		return &RequestError{Op: "repaint root window", Err: err}
	}
	return nil
}

// Reassert republishes the existing pixmap: both convention atoms, the
// root background attribute and a repaint. It creates no new resources.
// Useful when a foreign tool has overwritten the atoms since Load.
func (b *Background) Reassert() error {
	if err := publishPixmap(b.conn, b.pixmap); err != nil {
		return err
	}
	return nil
}

// CurrentOwners reads the pixmap ids currently published under both
// convention atoms, zero when absent. Foreign tools can overwrite the
// atoms at any time; polling these detects a takeover.
func (b *Background) CurrentOwners() (root, esetroot uint32, err error) {
	prev, err := probeOwners(b.conn)
	if err != nil {
		return 0, 0, err
	}
	return uint32(prev.root), uint32(prev.esetroot), nil
}

// Outputs enumerates the active display outputs covering the background.
func (b *Background) Outputs() ([]Output, error) {
	raw, err := b.conn.Outputs()
	if err != nil {
		return nil, &RequestError{Op: "enumerate outputs", Err: err}
	}
	outputs := make([]Output, 0, len(raw))
	for _, o := range raw {
		outputs = append(outputs, Output{
			Name: o.Name,
			Rect: image.Rect(o.X, o.Y, o.X+o.Width, o.Y+o.Height),
		})
	}
	return outputs, nil
}
