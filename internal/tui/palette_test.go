package tui

import (
	"testing"

	"github.com/yxnxs/shade"
)

func TestPaletteColorsAllParse(t *testing.T) {
	seen := make(map[string]bool)
	for _, c := range builtinPalette {
		if c.name == "" {
			t.Errorf("palette entry %q has no name", c.hex)
		}
		if seen[c.name] {
			t.Errorf("duplicate palette name %q", c.name)
		}
		seen[c.name] = true

		if _, err := shade.ParseColor(c.hex); err != nil {
			t.Errorf("palette color %q (%s) does not parse: %v", c.name, c.hex, err)
		}
	}
}

func TestPaletteColorsOrdered(t *testing.T) {
	colors := paletteColors()
	if len(colors) != len(builtinPalette) {
		t.Fatalf("got %d colors, want %d", len(colors), len(builtinPalette))
	}
	for i := 1; i < len(colors); i++ {
		if paletteKey(colors[i-1]) > paletteKey(colors[i]) {
			t.Errorf("palette out of order at %d: %q after %q", i, colors[i].name, colors[i-1].name)
		}
	}
	if colors[0].name != "black" {
		t.Errorf("got first color %q, want black (darkest gray leads)", colors[0].name)
	}
}
