package config

import (
	"fmt"
	"log/slog"

	"github.com/yxnxs/shade"
)

// Config is the effective shade configuration.
type Config struct {
	// Display follows the usual X syntax; empty means $DISPLAY.
	Display string `yaml:"display,omitempty"`

	// Screen overrides the display string's screen number when >= 0.
	Screen int `yaml:"screen"`

	// Open selects the default open method: "keep" adopts the previous
	// background, "new" starts from black.
	Open string `yaml:"open"`

	// Color is the fill color applied by `shade set` and at daemon start,
	// as rrggbb hex. Empty means leave the buffer as the open method
	// produced it.
	Color string `yaml:"color,omitempty"`

	LogLevel string `yaml:"log_level"`

	// WatchInterval is the ownership watchdog period in seconds; 0
	// disables the watchdog.
	WatchInterval int `yaml:"watch_interval"`
}

type ValidationError struct {
	Path string
	Err  error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("config: %s: %v", e.Path, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

func DefaultConfig() *Config {
	return &Config{
		Screen:        -1, // follow the display string
		Open:          "keep",
		LogLevel:      "info",
		WatchInterval: 0,
	}
}

// Validate performs strict validation of the effective configuration.
func (c *Config) Validate() error {
	switch c.Open {
	case "keep", "new":
	default:
		return &ValidationError{Path: "open", Err: fmt.Errorf("open must be one of: keep, new")}
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warn, error")}
	}
	if c.Color != "" {
		if _, err := shade.ParseColor(c.Color); err != nil {
			return &ValidationError{Path: "color", Err: err}
		}
	}
	if c.WatchInterval < 0 {
		return &ValidationError{Path: "watch_interval", Err: fmt.Errorf("watch_interval must not be negative")}
	}
	return nil
}

// OpenMethod maps the configured open mode onto the library type.
func (c *Config) OpenMethod() shade.OpenMethod {
	if c.Open == "new" {
		return shade.MakeNew()
	}
	return shade.KeepExisting()
}

// FillColor returns the configured color and whether one is set. Call
// Validate first; an unparseable color reads as unset here.
func (c *Config) FillColor() (shade.Pixel, bool) {
	if c.Color == "" {
		return shade.Pixel{}, false
	}
	p, err := shade.ParseColor(c.Color)
	if err != nil {
		return shade.Pixel{}, false
	}
	return p, true
}

// SlogLevel maps log_level onto a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
