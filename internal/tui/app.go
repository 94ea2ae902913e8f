package tui

import (
	"github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/yxnxs/shade"
)

// model is the root bubbletea model for the TUI.
type model struct {
	applier         Applier
	daemonConnected bool

	// Tab navigation
	activeTab Tab

	// Sub-models
	paletteTab PaletteTab
	customTab  CustomTab

	// Terminal dimensions
	width  int
	height int
}

func newModel(applier Applier, daemonConnected bool) model {
	return model{
		applier:         applier,
		daemonConnected: daemonConnected,
		activeTab:       TabPalette,
		paletteTab:      NewPaletteTab(applier),
		customTab:       NewCustomTab(applier, shade.Pixel{R: 0x28, G: 0x2c, B: 0x34}),
	}
}

// contentHeight returns the height available for tab content.
func (m model) contentHeight() int {
	// Approximate: status bar (1) + tab bar (2 with margin) + help bar (1) = 4 lines
	h := m.height - 4
	if h < 1 {
		h = 1
	}
	return h
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// When a sub-model captures input, delegate all messages to it
	// (the input consumes keys; only ctrl+c escapes to quit)
	capturing := (m.activeTab == TabCustom && m.customTab.Editing()) ||
		(m.activeTab == TabPalette && m.paletteTab.Filtering())
	if capturing {
		switch msg := msg.(type) {
		case tea.KeyMsg:
			if msg.String() == "ctrl+c" {
				return m, tea.Quit
			}
		case tea.WindowSizeMsg:
			return m.resize(msg), nil
		}
		var cmd tea.Cmd
		switch m.activeTab {
		case TabPalette:
			m.paletteTab, cmd = m.paletteTab.Update(msg)
		case TabCustom:
			m.customTab, cmd = m.customTab.Update(msg)
		}
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit

		case "tab":
			m.activeTab = (m.activeTab + 1) % tabCount
			return m, nil

		case "shift+tab":
			m.activeTab = (m.activeTab - 1 + tabCount) % tabCount
			return m, nil

		case "1":
			m.activeTab = TabPalette
			return m, nil
		case "2":
			m.activeTab = TabCustom
			return m, nil
		}

	case tea.WindowSizeMsg:
		return m.resize(msg), nil
	}

	// Delegate to active tab's sub-model
	switch m.activeTab {
	case TabPalette:
		var cmd tea.Cmd
		m.paletteTab, cmd = m.paletteTab.Update(msg)
		return m, cmd
	case TabCustom:
		var cmd tea.Cmd
		m.customTab, cmd = m.customTab.Update(msg)
		return m, cmd
	}

	return m, nil
}

// resize stores the new terminal size and forwards content dimensions to
// every sub-model.
func (m model) resize(msg tea.WindowSizeMsg) model {
	m.width = msg.Width
	m.height = msg.Height
	subMsg := tea.WindowSizeMsg{Width: m.width, Height: m.contentHeight()}
	m.paletteTab, _ = m.paletteTab.Update(subMsg)
	m.customTab, _ = m.customTab.Update(subMsg)
	return m
}

// View implements tea.Model.
func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	statusBar := renderStatusBar(m.daemonConnected, m.width)
	tabBar := renderTabBar(m.activeTab, m.width)
	helpBar := renderHelpBar(m.width)

	usedHeight := lipgloss.Height(statusBar) + lipgloss.Height(tabBar) + lipgloss.Height(helpBar)
	contentHeight := m.height - usedHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	var content string
	switch m.activeTab {
	case TabPalette:
		content = m.paletteTab.View()
	case TabCustom:
		content = m.customTab.View()
	}
	content = lipgloss.NewStyle().Height(contentHeight).Render(content)

	return lipgloss.JoinVertical(lipgloss.Left,
		statusBar,
		tabBar,
		content,
		helpBar,
	)
}
