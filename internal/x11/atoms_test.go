package x11

import (
	"strings"
	"testing"
)

func TestDecodePropertyValue(t *testing.T) {
	tests := []struct {
		name   string
		format byte
		value  []byte
		want   uint32
	}{
		{"format 32", 32, []byte{0x78, 0x56, 0x34, 0x12}, 0x12345678},
		{"format 32 with trailing run", 32, []byte{0x01, 0x00, 0x00, 0x00, 0xff, 0xff, 0xff, 0xff}, 1},
		{"format 16", 16, []byte{0x34, 0x12}, 0x1234},
		{"format 8", 8, []byte{0x7f}, 0x7f},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodePropertyValue(tt.format, tt.value)
			if err != nil {
				t.Fatalf("decodePropertyValue(%d, % x) failed: %v", tt.format, tt.value, err)
			}
			if got != tt.want {
				t.Errorf("decodePropertyValue(%d, % x) = %#x, want %#x", tt.format, tt.value, got, tt.want)
			}
		})
	}
}

func TestDecodePropertyValueRejectsShortValues(t *testing.T) {
	tests := []struct {
		name   string
		format byte
		value  []byte
	}{
		{"format 32 short", 32, []byte{1, 2, 3}},
		{"format 16 short", 16, []byte{1}},
		{"format 8 empty", 8, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := decodePropertyValue(tt.format, tt.value); err == nil {
				t.Errorf("decodePropertyValue(%d, % x) succeeded, want error", tt.format, tt.value)
			}
		})
	}
}

func TestDecodePropertyValueRejectsUnknownFormat(t *testing.T) {
	_, err := decodePropertyValue(24, []byte{1, 2, 3})
	if err == nil {
		t.Fatal("format 24 accepted, want error")
	}
	if !strings.Contains(err.Error(), "32/16/8") {
		t.Errorf("error %q does not name the accepted formats", err)
	}
}
