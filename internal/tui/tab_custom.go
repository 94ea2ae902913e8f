package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/yxnxs/shade"
)

// CustomTab is the sub-model for the free-form color mixer tab.
type CustomTab struct {
	applier Applier

	color   shade.Pixel
	channel int // 0=R 1=G 2=B

	// Hex entry mode
	editing   bool
	textInput textinput.Model

	statusText string

	width  int
	height int
}

// NewCustomTab creates a new CustomTab starting from the given color.
func NewCustomTab(applier Applier, initial shade.Pixel) CustomTab {
	ti := textinput.New()
	ti.Placeholder = "#rrggbb"
	ti.CharLimit = 7

	return CustomTab{
		applier:   applier,
		color:     initial,
		textInput: ti,
	}
}

// Editing reports whether the hex input is capturing keys.
func (ct CustomTab) Editing() bool { return ct.editing }

// Init implements tea.Model.
func (ct CustomTab) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (ct CustomTab) Update(msg tea.Msg) (CustomTab, tea.Cmd) {
	if ct.editing {
		return ct.updateEditing(msg)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		ct.width = msg.Width
		ct.height = msg.Height
		return ct, nil

	case statusMsg:
		ct.statusText = msg.text
		return ct, clearStatusAfter()

	case clearStatusMsg:
		ct.statusText = ""
		return ct, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			ct.channel = (ct.channel + 2) % 3
		case "down", "j":
			ct.channel = (ct.channel + 1) % 3
		case "left", "h":
			ct = ct.adjusted(-1)
		case "right", "l":
			ct = ct.adjusted(1)
		case "[":
			ct = ct.adjusted(-16)
		case "]":
			ct = ct.adjusted(16)
		case "d":
			ct = ct.scaled(0.9)
		case "b":
			ct = ct.scaled(1.1)
		case "e":
			ct.editing = true
			ct.textInput.SetValue(ct.color.Hex())
			ct.textInput.Focus()
			return ct, textinput.Blink
		case "enter", "a":
			return ct.apply()
		}
	}

	return ct, nil
}

func (ct CustomTab) updateEditing(msg tea.Msg) (CustomTab, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			value := strings.TrimSpace(ct.textInput.Value())
			color, err := shade.ParseColor(value)
			if err != nil {
				ct.statusText = fmt.Sprintf("error: %v", err)
				ct.editing = false
				ct.textInput.Blur()
				return ct, clearStatusAfter()
			}
			ct.color = color
			ct.editing = false
			ct.textInput.Blur()
			return ct, nil
		case "esc":
			ct.editing = false
			ct.textInput.Blur()
			return ct, nil
		}
	case tea.WindowSizeMsg:
		ct.width = msg.Width
		ct.height = msg.Height
		return ct, nil
	}

	var cmd tea.Cmd
	ct.textInput, cmd = ct.textInput.Update(msg)
	return ct, cmd
}

// adjusted nudges the selected channel by delta, clamped to 0..255.
func (ct CustomTab) adjusted(delta int) CustomTab {
	v := int(ct.value(ct.channel)) + delta
	if v < 0 {
		v = 0
	}
	if v > 255 {
		v = 255
	}
	switch ct.channel {
	case 0:
		ct.color.R = uint8(v)
	case 1:
		ct.color.G = uint8(v)
	case 2:
		ct.color.B = uint8(v)
	}
	return ct
}

// scaled darkens or brightens the whole color by scaling its HSV value.
func (ct CustomTab) scaled(factor float64) CustomTab {
	col := colorful.Color{
		R: float64(ct.color.R) / 255,
		G: float64(ct.color.G) / 255,
		B: float64(ct.color.B) / 255,
	}
	h, s, v := col.Hsv()
	v *= factor
	if factor > 1 && v < 0.05 {
		v = 0.05
	}
	if v > 1 {
		v = 1
	}
	r, g, b := colorful.Hsv(h, s, v).Clamped().RGB255()
	ct.color = shade.Pixel{R: r, G: g, B: b}
	return ct
}

func (ct CustomTab) value(channel int) uint8 {
	switch channel {
	case 0:
		return ct.color.R
	case 1:
		return ct.color.G
	default:
		return ct.color.B
	}
}

func (ct CustomTab) apply() (CustomTab, tea.Cmd) {
	if err := ct.applier.Apply(ct.color); err != nil {
		ct.statusText = fmt.Sprintf("error: %v", err)
	} else {
		ct.statusText = fmt.Sprintf("applied: %s", ct.color.Hex())
	}
	return ct, clearStatusAfter()
}

// View implements tea.Model.
func (ct CustomTab) View() string {
	if ct.width == 0 || ct.height == 0 {
		return ""
	}

	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("15")).
		Render(" Custom color")

	channels := lipgloss.JoinVertical(lipgloss.Left,
		ct.renderChannel(0, "R", "196"),
		ct.renderChannel(1, "G", "46"),
		ct.renderChannel(2, "B", "33"),
	)

	swatchHeight := ct.height - 12
	if swatchHeight < 3 {
		swatchHeight = 3
	}
	if swatchHeight > 8 {
		swatchHeight = 8
	}
	swatchWidth := ct.width - 4
	if swatchWidth > 60 {
		swatchWidth = 60
	}
	swatch := lipgloss.NewStyle().
		Background(lipgloss.Color(ct.color.Hex())).
		Width(swatchWidth).
		Height(swatchHeight).
		Render("")

	var valueLine string
	if ct.editing {
		prompt := lipgloss.NewStyle().
			Foreground(lipgloss.Color("62")).
			Bold(true).
			Render(" Hex: ")
		hint := lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Render("  enter: confirm  esc: cancel")
		valueLine = prompt + ct.textInput.View() + hint
	} else {
		valueLine = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250")).
			Render(fmt.Sprintf(" %s   rgb(%d, %d, %d)", ct.color.Hex(), ct.color.R, ct.color.G, ct.color.B))
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		channels,
		"",
		"  "+swatch,
		"",
		valueLine,
	)

	content := lipgloss.NewStyle().
		Width(ct.width).
		Height(ct.height - 2).
		Padding(1, 1).
		Render(body)

	return lipgloss.JoinVertical(lipgloss.Left, content, ct.renderTabStatus())
}

func (ct CustomTab) renderChannel(idx int, label, barColor string) string {
	marker := "  "
	if idx == ct.channel && !ct.editing {
		marker = lipgloss.NewStyle().Foreground(lipgloss.Color("62")).Render("▸ ")
	}

	v := ct.value(idx)

	barWidth := ct.width - 16
	if barWidth < 10 {
		barWidth = 10
	}
	if barWidth > 40 {
		barWidth = 40
	}
	filled := int(v) * barWidth / 255

	bar := lipgloss.NewStyle().Foreground(lipgloss.Color(barColor)).Render(strings.Repeat("█", filled)) +
		lipgloss.NewStyle().Foreground(lipgloss.Color("238")).Render(strings.Repeat("░", barWidth-filled))

	return fmt.Sprintf(" %s%s %3d %s", marker, label, v, bar)
}

func (ct CustomTab) renderTabStatus() string {
	left := ""
	if ct.statusText != "" {
		left = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Render(ct.statusText)
	}

	right := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Render("j/k:channel  h/l:±1  [/]:±16  d/b:dim/brighten  e:hex")

	gap := ct.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}

	return lipgloss.NewStyle().
		Width(ct.width).
		Padding(0, 1).
		Render(left + strings.Repeat(" ", gap) + right)
}
