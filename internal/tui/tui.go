// Package tui implements the interactive color picker. It drives a live
// background through an Applier, either the daemon's IPC socket or a
// directly loaded handle.
package tui

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/yxnxs/shade"
)

// Applier pushes a picked color to the live background.
type Applier interface {
	Apply(color shade.Pixel) error
}

// Run starts the picker and blocks until the user quits.
func Run(applier Applier, daemonConnected bool) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("tui requires an interactive terminal (stdin/stdout must be TTYs)")
	}

	program := tea.NewProgram(newModel(applier, daemonConnected), tea.WithAltScreen())
	_, err := program.Run()
	return err
}
