package tui

import (
	"math"
	"sort"

	"github.com/lucasb-eyer/go-colorful"
)

// namedColor is one builtin palette entry.
type namedColor struct {
	name string
	hex  string
}

// builtinPalette is a starter set drawn from the classic X11 color names.
var builtinPalette = []namedColor{
	{"black", "#000000"},
	{"dark slate gray", "#2f4f4f"},
	{"dim gray", "#696969"},
	{"gray", "#808080"},
	{"dark gray", "#a9a9a9"},
	{"silver", "#c0c0c0"},
	{"gainsboro", "#dcdcdc"},
	{"white", "#ffffff"},
	{"maroon", "#800000"},
	{"indian red", "#cd5c5c"},
	{"crimson", "#dc143c"},
	{"red", "#ff0000"},
	{"orange red", "#ff4500"},
	{"saddle brown", "#8b4513"},
	{"orange", "#ffa500"},
	{"gold", "#ffd700"},
	{"yellow", "#ffff00"},
	{"olive", "#808000"},
	{"yellow green", "#9acd32"},
	{"green", "#008000"},
	{"lime", "#00ff00"},
	{"sea green", "#2e8b57"},
	{"teal", "#008080"},
	{"cyan", "#00ffff"},
	{"steel blue", "#4682b4"},
	{"royal blue", "#4169e1"},
	{"blue", "#0000ff"},
	{"navy", "#000080"},
	{"midnight blue", "#191970"},
	{"slate blue", "#6a5acd"},
	{"purple", "#800080"},
	{"magenta", "#ff00ff"},
	{"orchid", "#da70d6"},
	{"rosy brown", "#bc8f8f"},
}

// paletteColors returns the builtin palette in browsing order: grays by
// brightness first, then the rest around the hue wheel.
func paletteColors() []namedColor {
	colors := make([]namedColor, len(builtinPalette))
	copy(colors, builtinPalette)
	sort.SliceStable(colors, func(i, j int) bool {
		return paletteKey(colors[i]) < paletteKey(colors[j])
	})
	return colors
}

// paletteKey maps a color to its sort position. Grays land in [0,1),
// chromatic colors in [10,370) by hue angle.
func paletteKey(c namedColor) float64 {
	col, err := colorful.Hex(c.hex)
	if err != nil {
		return math.MaxFloat64
	}
	h, s, v := col.Hsv()
	if s < 0.15 {
		return v
	}
	return 10 + h
}
