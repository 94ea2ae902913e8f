package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"image"
	"io"
	"log/slog"
	"net"
	"os"
	"sync"
	"time"

	"github.com/BurntSushi/xgb/xproto"

	"github.com/yxnxs/shade"
	"github.com/yxnxs/shade/internal/runtimepath"
)

// Background is the handle surface the server drives. *shade.Background
// implements it; tests substitute a fake.
type Background interface {
	Bounds() image.Rectangle
	Depth() int
	Pixmap() xproto.Pixmap
	Fill(p shade.Pixel)
	FillRect(r image.Rectangle, p shade.Pixel)
	Flush() error
	Reassert() error
	Outputs() ([]shade.Output, error)
}

// Server answers IPC requests on the daemon's unix socket. One goroutine
// accepts connections; each connection is served by its own goroutine.
type Server struct {
	socketPath string
	listener   net.Listener
	bg         Background
	logger     *slog.Logger
	startTime  time.Time

	mu        sync.Mutex
	lastColor string

	shutdownMu   sync.Mutex
	shuttingDown bool
}

// NewServer prepares a server for the standard socket path. Any stale
// socket left by a previous daemon is removed.
func NewServer(bg Background, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		return nil, fmt.Errorf("resolve socket path: %w", err)
	}
	if err := os.Remove(socketPath); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("remove stale socket %s: %w", socketPath, err)
	}
	return &Server{
		socketPath: socketPath,
		bg:         bg,
		logger:     logger,
		startTime:  time.Now(),
	}, nil
}

// SocketPath is the unix socket the server listens on.
func (s *Server) SocketPath() string {
	return s.socketPath
}

// Start binds the socket and begins accepting connections. It returns
// once the listener is up; serving happens in the background.
func (s *Server) Start() error {
	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.socketPath, err)
	}
	s.listener = listener

	// The socket is this user's control channel only.
	if err := os.Chmod(s.socketPath, 0600); err != nil {
		listener.Close()
		return fmt.Errorf("set socket permissions: %w", err)
	}
	s.logger.Info("ipc server listening", "socket", s.socketPath)

	go s.acceptLoop()
	return nil
}

func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.shutdownMu.Lock()
			quitting := s.shuttingDown
			s.shutdownMu.Unlock()
			if quitting {
				return
			}
			s.logger.Warn("accept failed", "error", err)
			continue
		}
		go s.handleConnection(conn)
	}
}

func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(conn)
	for {
		line, err := reader.ReadBytes('\n')
		if err != nil {
			if err != io.EOF {
				s.logger.Warn("read request failed", "error", err)
			}
			return
		}

		req, err := ParseRequest(line)
		var resp *Response
		if err != nil {
			resp = NewErrorResponse(err.Error())
		} else {
			resp = s.handleCommand(req)
		}

		data, err := resp.Marshal()
		if err != nil {
			s.logger.Warn("marshal response failed", "error", err)
			return
		}
		if _, err := conn.Write(data); err != nil {
			s.logger.Warn("write response failed", "error", err)
			return
		}
	}
}

func (s *Server) handleCommand(req *Request) *Response {
	s.logger.Debug("ipc request", "command", req.Command)

	switch req.Command {
	case CommandGetStatus:
		return okResponse(s.status())
	case CommandGetOutputs:
		return s.handleGetOutputs()
	case CommandSetColor:
		return s.handleSetColor(req.Payload)
	case CommandRefresh:
		return s.handleRefresh()
	default:
		return NewErrorResponse(fmt.Sprintf("unknown command %q", req.Command))
	}
}

func (s *Server) status() StatusData {
	bounds := s.bg.Bounds()

	s.mu.Lock()
	color := s.lastColor
	s.mu.Unlock()

	return StatusData{
		UptimeSeconds: int64(time.Since(s.startTime).Seconds()),
		Width:         bounds.Dx(),
		Height:        bounds.Dy(),
		Depth:         s.bg.Depth(),
		Pixmap:        uint32(s.bg.Pixmap()),
		Color:         color,
	}
}

func (s *Server) handleGetOutputs() *Response {
	outputs, err := s.bg.Outputs()
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	data := OutputsData{Outputs: make([]OutputInfo, 0, len(outputs))}
	for _, o := range outputs {
		data.Outputs = append(data.Outputs, OutputInfo{
			Name:   o.Name,
			X:      o.Rect.Min.X,
			Y:      o.Rect.Min.Y,
			Width:  o.Rect.Dx(),
			Height: o.Rect.Dy(),
		})
	}
	return okResponse(data)
}

func (s *Server) handleSetColor(payload json.RawMessage) *Response {
	var p SetColorPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return NewErrorResponse(fmt.Sprintf("decode SET_COLOR payload: %v", err))
	}

	color, err := shade.ParseColor(p.Color)
	if err != nil {
		return NewErrorResponse(err.Error())
	}

	if p.Output != "" {
		rect, err := s.outputRect(p.Output)
		if err != nil {
			return NewErrorResponse(err.Error())
		}
		s.bg.FillRect(rect, color)
	} else {
		s.bg.Fill(color)
	}

	if err := s.bg.Flush(); err != nil {
		return NewErrorResponse(err.Error())
	}

	s.mu.Lock()
	s.lastColor = color.Hex()
	s.mu.Unlock()

	s.logger.Info("applied color", "color", color.Hex(), "output", p.Output)
	return okResponse(SetColorPayload{Color: color.Hex(), Output: p.Output})
}

func (s *Server) outputRect(name string) (image.Rectangle, error) {
	outputs, err := s.bg.Outputs()
	if err != nil {
		return image.Rectangle{}, err
	}
	for _, o := range outputs {
		if o.Name == name {
			return o.Rect, nil
		}
	}
	return image.Rectangle{}, fmt.Errorf("unknown output %q", name)
}

func (s *Server) handleRefresh() *Response {
	if err := s.bg.Flush(); err != nil {
		return NewErrorResponse(err.Error())
	}
	if err := s.bg.Reassert(); err != nil {
		return NewErrorResponse(err.Error())
	}
	return okResponse(nil)
}

func okResponse(data interface{}) *Response {
	resp, err := NewOKResponse(data)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

// Stop shuts the listener down and removes the socket. Safe to call once
// after Start.
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
	}
	os.Remove(s.socketPath)
	s.logger.Info("ipc server stopped")
}
