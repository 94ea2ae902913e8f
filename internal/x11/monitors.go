package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/randr"
)

// Output is an active RandR CRTC's rectangle in root window coordinates.
type Output struct {
	Name   string
	X      int
	Y      int
	Width  int
	Height int
}

// Outputs enumerates active outputs via RandR. Disabled CRTCs are skipped.
// Servers without RandR degrade to a single output covering the whole
// screen, so per-output painting still works on minimal setups.
func (c *Connection) Outputs() ([]Output, error) {
	if err := randr.Init(c.XUtil.Conn()); err != nil {
		c.logger.Warn("randr unavailable, treating screen as one output", "err", err)
		return []Output{c.wholeScreenOutput()}, nil
	}

	resources, err := randr.GetScreenResources(c.XUtil.Conn(), c.Screen.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("get screen resources: %w", err)
	}

	var outputs []Output
	for i, crtc := range resources.Crtcs {
		info, err := randr.GetCrtcInfo(c.XUtil.Conn(), crtc, resources.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}
		if info.Width == 0 || info.Height == 0 || len(info.Outputs) == 0 {
			continue
		}

		name := fmt.Sprintf("Output%d", i)
		if outputInfo, err := randr.GetOutputInfo(c.XUtil.Conn(), info.Outputs[0], resources.ConfigTimestamp).Reply(); err == nil {
			name = string(outputInfo.Name)
		}

		outputs = append(outputs, Output{
			Name:   name,
			X:      int(info.X),
			Y:      int(info.Y),
			Width:  int(info.Width),
			Height: int(info.Height),
		})
	}

	if len(outputs) == 0 {
		return []Output{c.wholeScreenOutput()}, nil
	}
	return outputs, nil
}

func (c *Connection) wholeScreenOutput() Output {
	return Output{
		Name:   fmt.Sprintf("Screen%d", c.Screen.Index),
		Width:  int(c.Screen.Width),
		Height: int(c.Screen.Height),
	}
}
