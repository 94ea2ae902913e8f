package shade

import (
	"errors"
	"fmt"

	"github.com/yxnxs/shade/internal/x11"
)

// ErrNoScreen is returned when the display offers no screens or the
// requested screen index is out of range.
var ErrNoScreen = x11.ErrNoScreen

// ErrAtomRegistration is returned when the server refuses to intern one of
// the convention atoms during publication. Without both atoms the new
// background would be invisible to every other convention-following tool.
var ErrAtomRegistration = errors.New("server refused to register the root pixmap atoms")

// ErrUnsupported marks a requested capability this build does not provide:
// file-backed background loading, and pixel layouts other than 24/32 bpp
// true color.
var ErrUnsupported = errors.New("unsupported feature")

// ResourceError reports the server refusing to create a pixmap or graphics
// context.
type ResourceError struct {
	Resource string
	Err      error
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("create %s: %v", e.Resource, e.Err)
}

func (e *ResourceError) Unwrap() error { return e.Err }

// RequestError reports a rejected or failed protocol request. Op names the
// initialization or runtime step; Err carries the transport or server
// cause.
type RequestError struct {
	Op  string
	Err error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *RequestError) Unwrap() error { return e.Err }
