// Package ipc implements the JSON protocol spoken over the shade daemon's
// unix socket. Each request is a single newline-terminated JSON object and
// receives a single newline-terminated JSON response.
package ipc

import (
	"encoding/json"
	"fmt"
)

// CommandType identifies an IPC command.
type CommandType string

const (
	// CommandGetStatus reports daemon uptime and the published background.
	CommandGetStatus CommandType = "GET_STATUS"
	// CommandGetOutputs lists the connected outputs and their geometry.
	CommandGetOutputs CommandType = "GET_OUTPUTS"
	// CommandSetColor fills the background (or one output) with a color.
	CommandSetColor CommandType = "SET_COLOR"
	// CommandRefresh re-uploads the buffer and re-publishes ownership.
	CommandRefresh CommandType = "REFRESH"
)

// Request is a command sent to the daemon.
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response is the daemon's answer to a request.
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// SetColorPayload is the payload for CommandSetColor. Output may name a
// single output to restrict the fill to; empty means the whole background.
type SetColorPayload struct {
	Color  string `json:"color"`
	Output string `json:"output,omitempty"`
}

// StatusData is the response data for CommandGetStatus.
type StatusData struct {
	UptimeSeconds int64  `json:"uptime_seconds"`
	Width         int    `json:"width"`
	Height        int    `json:"height"`
	Depth         int    `json:"depth"`
	Pixmap        uint32 `json:"pixmap"`
	Color         string `json:"color,omitempty"`
}

// OutputInfo describes one output in an OutputsData response.
type OutputInfo struct {
	Name   string `json:"name"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// OutputsData is the response data for CommandGetOutputs.
type OutputsData struct {
	Outputs []OutputInfo `json:"outputs"`
}

// NewOKResponse builds a success response with the given data payload.
func NewOKResponse(data interface{}) (*Response, error) {
	var raw json.RawMessage
	if data != nil {
		b, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("marshal response data: %w", err)
		}
		raw = b
	}
	return &Response{Status: "OK", Data: raw}, nil
}

// NewErrorResponse builds an error response with the given message.
func NewErrorResponse(msg string) *Response {
	return &Response{Status: "ERROR", Error: msg}
}

// ParseRequest decodes a request from a raw JSON line.
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("parse request: %w", err)
	}
	if req.Command == "" {
		return nil, fmt.Errorf("request has no command")
	}
	return &req, nil
}

// Marshal encodes the response as a single JSON line, newline included.
func (r *Response) Marshal() ([]byte, error) {
	b, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("marshal response: %w", err)
	}
	return append(b, '\n'), nil
}
