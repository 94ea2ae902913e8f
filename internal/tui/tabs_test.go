package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/yxnxs/shade"
)

type fakeApplier struct {
	applied []shade.Pixel
	err     error
}

func (a *fakeApplier) Apply(color shade.Pixel) error {
	a.applied = append(a.applied, color)
	return a.err
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func TestCustomTabChannelCycle(t *testing.T) {
	ct := NewCustomTab(&fakeApplier{}, shade.Pixel{R: 10, G: 20, B: 30})

	ct, _ = ct.Update(keyMsg("j"))
	if ct.channel != 1 {
		t.Fatalf("after j: channel = %d, want 1", ct.channel)
	}
	ct, _ = ct.Update(keyMsg("j"))
	ct, _ = ct.Update(keyMsg("j"))
	if ct.channel != 0 {
		t.Fatalf("after jjj: channel = %d, want wrap to 0", ct.channel)
	}
	ct, _ = ct.Update(keyMsg("k"))
	if ct.channel != 2 {
		t.Fatalf("after k from 0: channel = %d, want wrap to 2", ct.channel)
	}
}

func TestCustomTabAdjustClamps(t *testing.T) {
	ct := NewCustomTab(&fakeApplier{}, shade.Pixel{R: 250})

	ct, _ = ct.Update(keyMsg("]"))
	if ct.color.R != 255 {
		t.Fatalf("R after +16 from 250 = %d, want clamp at 255", ct.color.R)
	}
	ct, _ = ct.Update(keyMsg("h"))
	if ct.color.R != 254 {
		t.Fatalf("R after -1 = %d, want 254", ct.color.R)
	}

	// Green starts at zero and must not wrap below it.
	ct, _ = ct.Update(keyMsg("j"))
	ct, _ = ct.Update(keyMsg("["))
	if ct.color.G != 0 {
		t.Fatalf("G after -16 from 0 = %d, want clamp at 0", ct.color.G)
	}
	ct, _ = ct.Update(keyMsg("l"))
	if ct.color.G != 1 {
		t.Fatalf("G after +1 = %d, want 1", ct.color.G)
	}
}

func TestCustomTabDimAndBrighten(t *testing.T) {
	ct := NewCustomTab(&fakeApplier{}, shade.Pixel{R: 200, G: 100, B: 50})

	ct, _ = ct.Update(keyMsg("d"))
	if ct.color.R >= 200 || ct.color.R == 0 {
		t.Fatalf("R after dim = %d, want between 1 and 199", ct.color.R)
	}

	// Brightening pure black must escape it rather than multiply zero.
	ct = NewCustomTab(&fakeApplier{}, shade.Pixel{})
	ct, _ = ct.Update(keyMsg("b"))
	if ct.color == (shade.Pixel{}) {
		t.Fatal("brighten left the color at pure black")
	}
}

func TestCustomTabApply(t *testing.T) {
	applier := &fakeApplier{}
	ct := NewCustomTab(applier, shade.Pixel{R: 0x28, G: 0x2c, B: 0x34})

	ct, cmd := ct.Update(keyMsg("a"))
	if len(applier.applied) != 1 {
		t.Fatalf("applier called %d times, want 1", len(applier.applied))
	}
	if applier.applied[0] != (shade.Pixel{R: 0x28, G: 0x2c, B: 0x34}) {
		t.Errorf("applied %v, want the tab's color", applier.applied[0])
	}
	if !strings.Contains(ct.statusText, "applied: #282c34") {
		t.Errorf("status = %q, want applied confirmation", ct.statusText)
	}
	if cmd == nil {
		t.Error("apply returned no status-clear command")
	}
}

func TestCustomTabApplyErrorShowsStatus(t *testing.T) {
	applier := &fakeApplier{err: errors.New("daemon error: socket closed")}
	ct := NewCustomTab(applier, shade.Pixel{R: 1})

	ct, _ = ct.Update(keyMsg("enter"))
	if !strings.Contains(ct.statusText, "error: daemon error: socket closed") {
		t.Errorf("status = %q, want the apply error", ct.statusText)
	}
}

func TestCustomTabHexEntry(t *testing.T) {
	ct := NewCustomTab(&fakeApplier{}, shade.Pixel{})

	ct, _ = ct.Update(keyMsg("e"))
	if !ct.Editing() {
		t.Fatal("e did not enter hex editing mode")
	}
	if got := ct.textInput.Value(); got != "#000000" {
		t.Fatalf("input prefilled with %q, want current color", got)
	}

	ct.textInput.SetValue("#a1b2c3")
	ct, _ = ct.Update(keyMsg("enter"))
	if ct.Editing() {
		t.Fatal("enter did not leave editing mode")
	}
	if ct.color != (shade.Pixel{R: 0xa1, G: 0xb2, B: 0xc3}) {
		t.Errorf("color = %v, want parsed hex value", ct.color)
	}
}

func TestCustomTabHexEntryEscCancels(t *testing.T) {
	initial := shade.Pixel{R: 5, G: 6, B: 7}
	ct := NewCustomTab(&fakeApplier{}, initial)

	ct, _ = ct.Update(keyMsg("e"))
	ct.textInput.SetValue("#ffffff")
	ct, _ = ct.Update(keyMsg("esc"))

	if ct.Editing() {
		t.Fatal("esc did not leave editing mode")
	}
	if ct.color != initial {
		t.Errorf("color = %v, want %v unchanged", ct.color, initial)
	}
}

func TestCustomTabHexEntryRejectsInvalid(t *testing.T) {
	initial := shade.Pixel{R: 5}
	ct := NewCustomTab(&fakeApplier{}, initial)

	ct, _ = ct.Update(keyMsg("e"))
	ct.textInput.SetValue("not-a-color")
	ct, _ = ct.Update(keyMsg("enter"))

	if ct.Editing() {
		t.Fatal("invalid hex left the tab in editing mode")
	}
	if !strings.Contains(ct.statusText, "error:") {
		t.Errorf("status = %q, want a parse error", ct.statusText)
	}
	if ct.color != initial {
		t.Errorf("color = %v, want %v unchanged", ct.color, initial)
	}
}

func TestPaletteTabEnterAppliesSelection(t *testing.T) {
	applier := &fakeApplier{}
	pt := NewPaletteTab(applier)

	pt, _ = pt.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	pt, _ = pt.Update(keyMsg("enter"))

	if len(applier.applied) != 1 {
		t.Fatalf("applier called %d times, want 1", len(applier.applied))
	}
	// The list opens on the first palette entry, which sorts as black.
	if applier.applied[0] != (shade.Pixel{}) {
		t.Errorf("applied %v, want black", applier.applied[0])
	}
	if !strings.Contains(pt.statusText, "applied: black") {
		t.Errorf("status = %q, want applied confirmation", pt.statusText)
	}
}
