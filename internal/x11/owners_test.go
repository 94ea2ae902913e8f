package x11

import (
	"reflect"
	"testing"

	"github.com/BurntSushi/xgb/xproto"
)

func TestKillTargets(t *testing.T) {
	tests := []struct {
		name string
		a, b xproto.Pixmap
		want []xproto.Pixmap
	}{
		{"no owners", 0, 0, nil},
		{"only first", 5, 0, []xproto.Pixmap{5}},
		{"only second", 0, 7, []xproto.Pixmap{7}},
		{"same owner under both atoms", 5, 5, []xproto.Pixmap{5}},
		{"two distinct owners", 5, 7, []xproto.Pixmap{5, 7}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := killTargets(tt.a, tt.b)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("killTargets(%d, %d) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}
