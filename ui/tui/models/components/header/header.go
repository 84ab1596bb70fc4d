// Copyright (c) 2026 Keymaster Team
// Conntest - SSH connection tester
// This source code is licensed under the MIT license found in the LICENSE file.
package header

import (
	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/toeirei/conntest/ui/tui/styles"
	"github.com/toeirei/conntest/ui/tui/util"
)

const logo string = "🔌 conntest"

type Model struct {
	size    util.Size
	version string
}

func New(version string) *Model {
	return &Model{version: version}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) tea.Cmd {
	m.size.Update(msg)
	return nil
}

func (m Model) View() string {
	text := logo
	if m.version != "" {
		text += " " + m.version
	}
	return styles.Header.Render(lipgloss.PlaceHorizontal(m.size.Width, lipgloss.Center, text))
}

func (m *Model) Focus() (tea.Cmd, help.KeyMap) {
	return nil, nil
}

func (m *Model) Blur() {}

// *Model implements util.Model
var _ util.Model = (*Model)(nil)
