package ipc

import (
	"errors"
	"image"
	"net"
	"strings"
	"sync"
	"testing"

	"github.com/BurntSushi/xgb/xproto"

	"github.com/yxnxs/shade"
	"github.com/yxnxs/shade/internal/runtimepath"
)

type fakeBackground struct {
	mu        sync.Mutex
	fills     []shade.Pixel
	rects     []image.Rectangle
	flushes   int
	reasserts int

	flushErr   error
	outputs    []shade.Output
	outputsErr error
}

func (f *fakeBackground) Bounds() image.Rectangle { return image.Rect(0, 0, 1920, 1080) }
func (f *fakeBackground) Depth() int              { return 24 }
func (f *fakeBackground) Pixmap() xproto.Pixmap   { return 0x2a }

func (f *fakeBackground) Fill(p shade.Pixel) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fills = append(f.fills, p)
}

func (f *fakeBackground) FillRect(r image.Rectangle, p shade.Pixel) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fills = append(f.fills, p)
	f.rects = append(f.rects, r)
}

func (f *fakeBackground) Flush() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.flushErr != nil {
		return f.flushErr
	}
	f.flushes++
	return nil
}

func (f *fakeBackground) Reassert() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reasserts++
	return nil
}

func (f *fakeBackground) Outputs() ([]shade.Output, error) {
	if f.outputsErr != nil {
		return nil, f.outputsErr
	}
	return f.outputs, nil
}

func startServer(t *testing.T, bg Background) *Client {
	t.Helper()
	t.Setenv("XDG_RUNTIME_DIR", t.TempDir())

	srv, err := NewServer(bg, nil)
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	if err := srv.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	t.Cleanup(srv.Stop)

	return NewClient()
}

func TestServerStatusRoundTrip(t *testing.T) {
	client := startServer(t, &fakeBackground{})

	status, err := client.GetStatus()
	if err != nil {
		t.Fatalf("GetStatus failed: %v", err)
	}
	if status.Width != 1920 || status.Height != 1080 {
		t.Errorf("got geometry %dx%d, want 1920x1080", status.Width, status.Height)
	}
	if status.Depth != 24 {
		t.Errorf("got depth %d, want 24", status.Depth)
	}
	if status.Pixmap != 0x2a {
		t.Errorf("got pixmap %#x, want 0x2a", status.Pixmap)
	}
	if status.Color != "" {
		t.Errorf("got color %q before any SET_COLOR, want empty", status.Color)
	}
}

func TestServerSetColor(t *testing.T) {
	bg := &fakeBackground{}
	client := startServer(t, bg)

	if err := client.SetColor("#336699", ""); err != nil {
		t.Fatalf("SetColor failed: %v", err)
	}

	bg.mu.Lock()
	defer bg.mu.Unlock()
	if len(bg.fills) != 1 {
		t.Fatalf("got %d fills, want 1", len(bg.fills))
	}
	want := shade.Pixel{R: 0x33, G: 0x66, B: 0x99}
	if bg.fills[0] != want {
		t.Errorf("got fill %+v, want %+v", bg.fills[0], want)
	}
	if len(bg.rects) != 0 {
		t.Errorf("whole-background fill recorded %d rects, want 0", len(bg.rects))
	}
	if bg.flushes != 1 {
		t.Errorf("got %d flushes, want 1", bg.flushes)
	}
}

func TestServerSetColorUpdatesStatus(t *testing.T) {
	client := startServer(t, &fakeBackground{})

	if err := client.SetColor("336699", ""); err != nil {
		t.Fatalf("SetColor failed: %v", err)
	}
	status, err := client.GetStatus()
	if err != nil {
		t.Fatalf("GetStatus failed: %v", err)
	}
	if status.Color != "#336699" {
		t.Errorf("got color %q, want %q", status.Color, "#336699")
	}
}

func TestServerSetColorOnOutput(t *testing.T) {
	bg := &fakeBackground{
		outputs: []shade.Output{
			{Name: "DP-1", Rect: image.Rect(0, 0, 960, 1080)},
			{Name: "DP-2", Rect: image.Rect(960, 0, 1920, 1080)},
		},
	}
	client := startServer(t, bg)

	if err := client.SetColor("#abc", "DP-2"); err != nil {
		t.Fatalf("SetColor failed: %v", err)
	}

	bg.mu.Lock()
	defer bg.mu.Unlock()
	if len(bg.rects) != 1 {
		t.Fatalf("got %d rect fills, want 1", len(bg.rects))
	}
	if got, want := bg.rects[0], image.Rect(960, 0, 1920, 1080); got != want {
		t.Errorf("got rect %v, want %v", got, want)
	}
	if got, want := bg.fills[0], (shade.Pixel{R: 0xaa, G: 0xbb, B: 0xcc}); got != want {
		t.Errorf("got fill %+v, want %+v", got, want)
	}
}

func TestServerSetColorErrors(t *testing.T) {
	tests := []struct {
		name    string
		color   string
		output  string
		wantErr string
	}{
		{"bad color", "nope", "", "color"},
		{"unknown output", "#fff", "HDMI-9", "unknown output"},
	}

	bg := &fakeBackground{
		outputs: []shade.Output{{Name: "DP-1", Rect: image.Rect(0, 0, 1920, 1080)}},
	}
	client := startServer(t, bg)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := client.SetColor(tt.color, tt.output)
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("got error %q, want it to mention %q", err, tt.wantErr)
			}
		})
	}

	bg.mu.Lock()
	defer bg.mu.Unlock()
	if bg.flushes != 0 {
		t.Errorf("failed requests flushed %d times, want 0", bg.flushes)
	}
}

func TestServerFlushFailureLeavesStatusColorUnset(t *testing.T) {
	bg := &fakeBackground{flushErr: errors.New("upload failed")}
	client := startServer(t, bg)

	err := client.SetColor("#fff", "")
	if err == nil || !strings.Contains(err.Error(), "upload failed") {
		t.Fatalf("got err %v, want upload failure", err)
	}

	status, err := client.GetStatus()
	if err != nil {
		t.Fatalf("GetStatus failed: %v", err)
	}
	if status.Color != "" {
		t.Errorf("got color %q after failed apply, want empty", status.Color)
	}
}

func TestServerRefresh(t *testing.T) {
	bg := &fakeBackground{}
	client := startServer(t, bg)

	if err := client.Refresh(); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}

	bg.mu.Lock()
	defer bg.mu.Unlock()
	if bg.flushes != 1 || bg.reasserts != 1 {
		t.Errorf("got %d flushes and %d reasserts, want 1 and 1", bg.flushes, bg.reasserts)
	}
}

func TestServerGetOutputs(t *testing.T) {
	bg := &fakeBackground{
		outputs: []shade.Output{{Name: "eDP-1", Rect: image.Rect(0, 0, 2560, 1440)}},
	}
	client := startServer(t, bg)

	outputs, err := client.GetOutputs()
	if err != nil {
		t.Fatalf("GetOutputs failed: %v", err)
	}
	if len(outputs) != 1 {
		t.Fatalf("got %d outputs, want 1", len(outputs))
	}
	got := outputs[0]
	if got.Name != "eDP-1" || got.Width != 2560 || got.Height != 1440 {
		t.Errorf("got output %+v, want eDP-1 2560x1440", got)
	}
}

func TestServerUnknownCommand(t *testing.T) {
	client := startServer(t, &fakeBackground{})

	_, err := client.send(CommandType("NOPE"), nil)
	if err == nil || !strings.Contains(err.Error(), "unknown command") {
		t.Errorf("got err %v, want unknown command error", err)
	}
}

func TestServerMalformedRequest(t *testing.T) {
	startServer(t, &fakeBackground{})

	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		t.Fatalf("socket path: %v", err)
	}
	conn, err := net.Dial("unix", socketPath)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	defer conn.Close()

	if _, err := conn.Write([]byte("{not json\n")); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	buf := make([]byte, 4096)
	n, err := conn.Read(buf)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if !strings.Contains(string(buf[:n]), `"ERROR"`) {
		t.Errorf("got response %s, want an ERROR status", buf[:n])
	}
}

func TestClientWithoutDaemon(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", t.TempDir())

	if err := NewClient().Ping(); err == nil {
		t.Error("expected Ping to fail with no daemon listening")
	}
}

func TestParseRequest(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
		wantCmd CommandType
	}{
		{"valid", `{"command":"GET_STATUS"}`, false, CommandGetStatus},
		{"valid with payload", `{"command":"SET_COLOR","payload":{"color":"#fff"}}`, false, CommandSetColor},
		{"invalid json", `{oops`, true, ""},
		{"missing command", `{"payload":{}}`, true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := ParseRequest([]byte(tt.input))
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseRequest failed: %v", err)
			}
			if req.Command != tt.wantCmd {
				t.Errorf("got command %q, want %q", req.Command, tt.wantCmd)
			}
		})
	}
}
