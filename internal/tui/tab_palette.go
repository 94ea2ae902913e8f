package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/yxnxs/shade"
)

// paletteItem implements list.Item for the color list sidebar.
type paletteItem struct {
	name string
	hex  string
}

func (i paletteItem) Title() string {
	swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(i.hex)).Render("██")
	return swatch + " " + i.name
}

func (i paletteItem) Description() string { return i.hex }
func (i paletteItem) FilterValue() string { return i.name }

// statusMsg is sent after an apply completes.
type statusMsg struct {
	text string
}

// clearStatusMsg clears the status message after a delay.
type clearStatusMsg struct{}

func clearStatusAfter() tea.Cmd {
	return tea.Tick(3*time.Second, func(time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}

// PaletteTab is the sub-model for the named-color browser tab.
type PaletteTab struct {
	list    list.Model
	applier Applier

	statusText string

	width  int
	height int
	ready  bool
}

// NewPaletteTab creates a new PaletteTab sub-model.
func NewPaletteTab(applier Applier) PaletteTab {
	colors := paletteColors()
	items := make([]list.Item, 0, len(colors))
	for _, c := range colors {
		items = append(items, paletteItem{name: c.name, hex: c.hex})
	}

	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false
	delegate.SetSpacing(0)

	l := list.New(items, delegate, 0, 0)
	l.Title = "Colors"
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(true)
	l.DisableQuitKeybindings()

	return PaletteTab{
		list:    l,
		applier: applier,
	}
}

// Filtering reports whether the list's filter input is capturing keys.
func (pt PaletteTab) Filtering() bool {
	return pt.list.FilterState() == list.Filtering
}

// Init implements tea.Model.
func (pt PaletteTab) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (pt PaletteTab) Update(msg tea.Msg) (PaletteTab, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		pt.width = msg.Width
		pt.height = msg.Height
		pt.updateListSize()
		pt.ready = true
		return pt, nil

	case statusMsg:
		pt.statusText = msg.text
		return pt, clearStatusAfter()

	case clearStatusMsg:
		pt.statusText = ""
		return pt, nil

	case tea.KeyMsg:
		if !pt.Filtering() {
			switch msg.String() {
			case "enter", "a":
				return pt.applySelected()
			}
		}
	}

	var cmd tea.Cmd
	pt.list, cmd = pt.list.Update(msg)
	return pt, cmd
}

func (pt *PaletteTab) updateListSize() {
	// Reserve 2 lines for the status bar at the bottom of the tab content
	listHeight := pt.height - 2
	if listHeight < 1 {
		listHeight = 1
	}
	pt.list.SetSize(pt.sidebarWidth(), listHeight)
}

func (pt PaletteTab) sidebarWidth() int {
	// Sidebar takes ~40% of width, min 22, max 36
	sw := pt.width * 40 / 100
	if sw < 22 {
		sw = 22
	}
	if sw > 36 {
		sw = 36
	}
	return sw
}

func (pt PaletteTab) selected() (paletteItem, bool) {
	item, ok := pt.list.SelectedItem().(paletteItem)
	return item, ok
}

func (pt PaletteTab) applySelected() (PaletteTab, tea.Cmd) {
	item, ok := pt.selected()
	if !ok {
		return pt, nil
	}
	color, err := shade.ParseColor(item.hex)
	if err != nil {
		pt.statusText = fmt.Sprintf("error: %v", err)
		return pt, clearStatusAfter()
	}
	if err := pt.applier.Apply(color); err != nil {
		pt.statusText = fmt.Sprintf("error: %v", err)
	} else {
		pt.statusText = fmt.Sprintf("applied: %s", item.name)
	}
	return pt, clearStatusAfter()
}

// View implements tea.Model.
func (pt PaletteTab) View() string {
	if !pt.ready || pt.width == 0 || pt.height == 0 {
		return ""
	}

	sidebarWidth := pt.sidebarWidth()
	detailWidth := pt.width - sidebarWidth - 3 // 3 for separator + padding
	if detailWidth < 10 {
		detailWidth = 10
	}

	sidebar := lipgloss.NewStyle().
		Width(sidebarWidth).
		Height(pt.height - 2).
		Render(pt.list.View())

	detail := pt.renderDetail(detailWidth)

	sep := lipgloss.NewStyle().
		Foreground(lipgloss.Color("238")).
		Render(strings.Repeat("│\n", pt.height-2))

	columns := lipgloss.JoinHorizontal(lipgloss.Top, sidebar, " "+sep, detail)
	status := pt.renderTabStatus()

	return lipgloss.JoinVertical(lipgloss.Left, columns, status)
}

func (pt PaletteTab) renderDetail(width int) string {
	item, ok := pt.selected()
	if !ok {
		return ""
	}

	color, err := shade.ParseColor(item.hex)
	if err != nil {
		return ""
	}

	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("15")).
		Render(" " + item.name)

	swatchHeight := pt.height - 8
	if swatchHeight < 3 {
		swatchHeight = 3
	}
	if swatchHeight > 10 {
		swatchHeight = 10
	}
	swatch := lipgloss.NewStyle().
		Background(lipgloss.Color(item.hex)).
		Width(width - 2).
		Height(swatchHeight).
		Render("")

	values := lipgloss.NewStyle().
		Foreground(lipgloss.Color("250")).
		Render(fmt.Sprintf(" %s   rgb(%d, %d, %d)", color.Hex(), color.R, color.G, color.B))

	return lipgloss.JoinVertical(lipgloss.Left, title, "", " "+swatch, "", values)
}

func (pt PaletteTab) renderTabStatus() string {
	left := ""
	if pt.statusText != "" {
		left = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Render(pt.statusText)
	}

	right := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Render("enter/a:apply  /:filter")

	gap := pt.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}

	return lipgloss.NewStyle().
		Width(pt.width).
		Padding(0, 1).
		Render(left + strings.Repeat(" ", gap) + right)
}
