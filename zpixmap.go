package shade

import "fmt"

// ZPixmap serialization for the true-color formats X servers actually
// advertise for 24-bit-deep roots: 32 bits per pixel (the near-universal
// case) and packed 24. The transport handshakes little-endian, so a pixel
// is laid down B, G, R[, pad] regardless of host byte order. Rows are
// padded to the server's scanline unit.

// supportedBPP reports whether the serializer can produce the server's
// pixel layout.
func supportedBPP(bpp byte) bool {
	return bpp == 32 || bpp == 24
}

// paddedStride is the byte length of one serialized row: width pixels of
// bpp bits, rounded up to the scanline pad (a power of two: 8, 16 or 32
// bits).
func paddedStride(width int, bpp, pad byte) int {
	row := width * int(bpp) / 8
	unit := int(pad) / 8
	if unit <= 1 {
		return row
	}
	return (row + unit - 1) &^ (unit - 1)
}

// encodeZPixmap serializes pixels row-major into ZPixmap bytes. The pixel
// count must match width*height exactly; the mismatch check is the bounds
// check for every write below it.
func encodeZPixmap(pixels []Pixel, width, height int, bpp, pad byte) ([]byte, error) {
	if len(pixels) != width*height {
		return nil, fmt.Errorf("buffer holds %d pixels, want %d (%dx%d)", len(pixels), width*height, width, height)
	}
	if !supportedBPP(bpp) {
		return nil, fmt.Errorf("cannot serialize %d bits per pixel", bpp)
	}

	stride := paddedStride(width, bpp, pad)
	bytesPP := int(bpp) / 8
	out := make([]byte, stride*height)

	for y := 0; y < height; y++ {
		row := pixels[y*width : (y+1)*width]
		off := y * stride
		for x, p := range row {
			o := off + x*bytesPP
			out[o] = p.B
			out[o+1] = p.G
			out[o+2] = p.R
			if bytesPP == 4 {
				out[o+3] = 0
			}
		}
	}
	return out, nil
}

// decodeZPixmap is the inverse, used to adopt a previous owner's image:
// ZPixmap bytes with padded rows back into pixels. data may carry trailing
// bytes past the last row (servers pad replies); too little data is an
// error.
func decodeZPixmap(data []byte, width, height int, bpp, pad byte) ([]Pixel, error) {
	if !supportedBPP(bpp) {
		return nil, fmt.Errorf("cannot deserialize %d bits per pixel", bpp)
	}

	stride := paddedStride(width, bpp, pad)
	bytesPP := int(bpp) / 8
	if need := stride * height; len(data) < need {
		return nil, fmt.Errorf("image data is %d bytes, want at least %d (%dx%d at %d bpp)",
			len(data), need, width, height, bpp)
	}

	pixels := make([]Pixel, width*height)
	for y := 0; y < height; y++ {
		off := y * stride
		for x := 0; x < width; x++ {
			o := off + x*bytesPP
			pixels[y*width+x] = Pixel{R: data[o+2], G: data[o+1], B: data[o]}
		}
	}
	return pixels, nil
}
