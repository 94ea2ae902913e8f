package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/yxnxs/shade/internal/runtimepath"
)

const dialTimeout = 5 * time.Second

// Client talks to a running daemon over its unix socket. The zero value
// is usable; the socket path is resolved on each request so a client can
// outlive a daemon restart.
type Client struct{}

// NewClient returns a client for the standard socket path.
func NewClient() *Client {
	return &Client{}
}

// Ping reports whether a daemon is reachable on the socket.
func (c *Client) Ping() error {
	_, err := c.GetStatus()
	return err
}

// GetStatus fetches the daemon's status.
func (c *Client) GetStatus() (*StatusData, error) {
	resp, err := c.send(CommandGetStatus, nil)
	if err != nil {
		return nil, err
	}
	var status StatusData
	if err := json.Unmarshal(resp.Data, &status); err != nil {
		return nil, fmt.Errorf("decode status: %w", err)
	}
	return &status, nil
}

// GetOutputs fetches the connected outputs and their geometry.
func (c *Client) GetOutputs() ([]OutputInfo, error) {
	resp, err := c.send(CommandGetOutputs, nil)
	if err != nil {
		return nil, err
	}
	var data OutputsData
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return nil, fmt.Errorf("decode outputs: %w", err)
	}
	return data.Outputs, nil
}

// SetColor fills the background with a color. An empty output name means
// the whole background; otherwise only that output's rectangle is filled.
func (c *Client) SetColor(color, output string) error {
	_, err := c.send(CommandSetColor, SetColorPayload{Color: color, Output: output})
	return err
}

// Refresh re-uploads the daemon's buffer and re-publishes ownership.
func (c *Client) Refresh() error {
	_, err := c.send(CommandRefresh, nil)
	return err
}

func (c *Client) send(cmd CommandType, payload interface{}) (*Response, error) {
	req := &Request{Command: cmd}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal payload: %w", err)
		}
		req.Payload = raw
	}

	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		return nil, fmt.Errorf("resolve socket path: %w", err)
	}

	conn, err := net.DialTimeout("unix", socketPath, dialTimeout)
	if err != nil {
		return nil, fmt.Errorf("connect to daemon: %w", err)
	}
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(dialTimeout))

	data, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	data = append(data, '\n')
	if _, err := conn.Write(data); err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}

	line, err := bufio.NewReader(conn).ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(line, &resp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if resp.Status != "OK" {
		return nil, fmt.Errorf("daemon error: %s", resp.Error)
	}
	return &resp, nil
}
