package shade

import (
	"fmt"
	"strconv"
	"strings"
)

// Pixel is one buffer cell: 8-bit RGB, no alpha. The background convention
// has no transparency; compositors derive translucency themselves from the
// published pixmap.
type Pixel struct {
	R, G, B uint8
}

// RGBA implements image/color.Color, so a Pixel can be used anywhere the
// standard image packages expect a color.
func (p Pixel) RGBA() (r, g, b, a uint32) {
	r = uint32(p.R) * 0x101
	g = uint32(p.G) * 0x101
	b = uint32(p.B) * 0x101
	a = 0xffff
	return
}

// Hex formats p as "#rrggbb".
func (p Pixel) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", p.R, p.G, p.B)
}

// ParseColor parses "rrggbb", "#rrggbb" or the short "#rgb" form.
func ParseColor(s string) (Pixel, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	switch len(hex) {
	case 6:
		v, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return Pixel{}, fmt.Errorf("invalid color %q: %w", s, err)
		}
		return Pixel{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
	case 3:
		v, err := strconv.ParseUint(hex, 16, 16)
		if err != nil {
			return Pixel{}, fmt.Errorf("invalid color %q: %w", s, err)
		}
		r := uint8(v >> 8 & 0xf)
		g := uint8(v >> 4 & 0xf)
		b := uint8(v & 0xf)
		return Pixel{R: r<<4 | r, G: g<<4 | g, B: b<<4 | b}, nil
	default:
		return Pixel{}, fmt.Errorf("invalid color %q: want rrggbb or rgb hex", s)
	}
}
