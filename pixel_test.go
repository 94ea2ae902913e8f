package shade

import (
	"strings"
	"testing"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Pixel
	}{
		{"long form with hash", "#336699", Pixel{0x33, 0x66, 0x99}},
		{"long form bare", "336699", Pixel{0x33, 0x66, 0x99}},
		{"short form with hash", "#abc", Pixel{0xaa, 0xbb, 0xcc}},
		{"short form bare", "f0f", Pixel{0xff, 0x00, 0xff}},
		{"surrounding whitespace", "  #102030  ", Pixel{0x10, 0x20, 0x30}},
		{"uppercase digits", "#AABBCC", Pixel{0xaa, 0xbb, 0xcc}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseColor(tt.input)
			if err != nil {
				t.Fatalf("ParseColor(%q) failed: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseColor(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseColorInvalid(t *testing.T) {
	for _, input := range []string{"", "#", "#12345", "#1234567", "#gghhii", "#xyz", "red"} {
		_, err := ParseColor(input)
		if err == nil {
			t.Errorf("ParseColor(%q) succeeded, want error", input)
			continue
		}
		if !strings.Contains(err.Error(), "invalid color") {
			t.Errorf("ParseColor(%q) error = %q, want it to name the invalid color", input, err)
		}
	}
}

func TestPixelHexRoundTrip(t *testing.T) {
	p := Pixel{R: 0x28, G: 0x2c, B: 0x34}
	hex := p.Hex()
	if hex != "#282c34" {
		t.Errorf("Hex() = %q, want %q", hex, "#282c34")
	}
	back, err := ParseColor(hex)
	if err != nil {
		t.Fatalf("ParseColor(%q) failed: %v", hex, err)
	}
	if back != p {
		t.Errorf("ParseColor(Hex()) = %v, want %v", back, p)
	}
}

func TestPixelRGBA(t *testing.T) {
	r, g, b, a := Pixel{R: 0xff, G: 0x00, B: 0x80}.RGBA()
	if r != 0xffff || g != 0 || b != 0x8080 || a != 0xffff {
		t.Errorf("RGBA() = (%#x, %#x, %#x, %#x), want (0xffff, 0x0, 0x8080, 0xffff)", r, g, b, a)
	}
}
