// Copyright (c) 2026 Keymaster Team
// Conntest - SSH connection tester
// This source code is licensed under the MIT license found in the LICENSE file.
package footer

import (
	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/toeirei/conntest/ui/tui/models/components/keyhelp"
	"github.com/toeirei/conntest/ui/tui/styles"
	"github.com/toeirei/conntest/ui/tui/util"
)

// Model shows the key help of the focused view merged with baseKeyMap, and
// a one-line status above it.
type Model struct {
	baseKeyMap help.KeyMap
	size       util.Size
	help       *keyhelp.Model
	status     string
}

func New(baseKeyMap help.KeyMap) *Model {
	return &Model{
		baseKeyMap: baseKeyMap,
		help:       keyhelp.New(),
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) tea.Cmd {
	// inject baseKeyMap into announced key maps
	if msg, ok := msg.(util.AnnounceKeyMapMsg); ok {
		return m.help.Update(util.AnnounceKeyMapMsg{
			KeyMap: util.MergeKeyMaps(msg.KeyMap, m.baseKeyMap),
		})
	}
	if msg, ok := msg.(StatusMsg); ok {
		m.status = string(msg)
		return nil
	}

	m.size.Update(msg)
	return m.help.Update(msg)
}

func (m Model) View() string {
	hPos := lipgloss.Left
	if m.help.Expanded {
		hPos = lipgloss.Center
	}
	content := m.help.View()
	if m.status != "" {
		content = lipgloss.JoinVertical(lipgloss.Left, styles.Subtle.Render(m.status), content)
	}
	return styles.Footer.Render(lipgloss.PlaceHorizontal(m.size.Width, hPos, content))
}

func (m *Model) Focus() (tea.Cmd, help.KeyMap) {
	return nil, nil
}

func (m *Model) Blur() {}

// *Model implements util.Model
var _ util.Model = (*Model)(nil)

func (m *Model) ToggleExpanded() {
	m.help.ToggleExpanded()
}

func (m Model) Status() string { return m.status }

// StatusMsg replaces the footer status line. An empty status hides it.
type StatusMsg string

func SetStatus(status string) tea.Cmd {
	return func() tea.Msg { return StatusMsg(status) }
}
