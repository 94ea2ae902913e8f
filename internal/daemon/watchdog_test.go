package daemon

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestCheckReassertsOnlyOnDrift(t *testing.T) {
	const pix = uint32(0x2a)

	tests := []struct {
		name         string
		root         uint32
		esetroot     uint32
		wantReassert bool
	}{
		{"both ours", pix, pix, false},
		{"both absent", 0, 0, true},
		{"both foreign", 0x99, 0x99, true},
		{"root overwritten", 0x99, pix, true},
		{"esetroot overwritten", pix, 0x99, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reasserts := 0
			w := NewWatchdog(WatchdogConfig{}, pix,
				func() (uint32, uint32, error) { return tt.root, tt.esetroot, nil },
				func() error { reasserts++; return nil })

			w.CheckNow()

			want := 0
			if tt.wantReassert {
				want = 1
			}
			if reasserts != want {
				t.Errorf("got %d reasserts, want %d", reasserts, want)
			}
		})
	}
}

func TestCheckSkipsReassertOnProbeError(t *testing.T) {
	reasserts := 0
	w := NewWatchdog(WatchdogConfig{}, 0x2a,
		func() (uint32, uint32, error) { return 0, 0, errors.New("connection lost") },
		func() error { reasserts++; return nil })

	w.CheckNow()

	if reasserts != 0 {
		t.Errorf("got %d reasserts after probe error, want 0", reasserts)
	}
}

func TestCheckRecoversFromPanic(t *testing.T) {
	calls := 0
	w := NewWatchdog(WatchdogConfig{}, 0x2a,
		func() (uint32, uint32, error) {
			calls++
			if calls == 1 {
				panic("boom")
			}
			return 0x2a, 0x2a, nil
		},
		func() error { return nil })

	w.CheckNow()
	w.CheckNow()

	if calls != 2 {
		t.Errorf("got %d probe calls, want 2 (panic must not kill the watchdog)", calls)
	}
}

func TestRunStopsOnContextCancel(t *testing.T) {
	w := NewWatchdog(WatchdogConfig{Interval: time.Millisecond}, 0x2a,
		func() (uint32, uint32, error) { return 0x2a, 0x2a, nil },
		func() error { return nil })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after context cancel")
	}
}

func TestNewWatchdogDefaultInterval(t *testing.T) {
	w := NewWatchdog(WatchdogConfig{}, 0x2a, nil, nil)
	if w.interval != 10*time.Second {
		t.Errorf("got default interval %v, want 10s", w.interval)
	}
}
