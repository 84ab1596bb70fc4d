// Copyright (c) 2026 Keymaster Team
// Conntest - SSH connection tester
// This source code is licensed under the MIT license found in the LICENSE file.
package root

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/toeirei/conntest/buildvars"
	"github.com/toeirei/conntest/internal/backend"
	"github.com/toeirei/conntest/internal/i18n"
	"github.com/toeirei/conntest/internal/model"
	"github.com/toeirei/conntest/ui/tui/models/components/header"
	windowtitle "github.com/toeirei/conntest/ui/tui/models/helpers/title"
	"github.com/toeirei/conntest/ui/tui/models/views/conntest"
	"github.com/toeirei/conntest/ui/tui/models/views/footer"
	"github.com/toeirei/conntest/ui/tui/styles"
	"github.com/toeirei/conntest/ui/tui/util"
)

// Model frames the connection test screen with a header and the key help
// footer. Retest unmounts the screen and mounts a fresh one.
type Model struct {
	gateway backend.Gateway
	request model.ConnectionTestRequest
	keyMap  KeyMap

	header       *header.Model
	screen       *conntest.Model
	footer       *footer.Model
	titleHandler *windowtitle.TitleHandler
	size         util.Size
}

func New(gw backend.Gateway, req model.ConnectionTestRequest) *Model {
	keyMap := NewKeyMap()
	return &Model{
		gateway:      gw,
		request:      req,
		keyMap:       keyMap,
		header:       header.New(buildvars.VersionOrDefault("dev")),
		screen:       conntest.New(gw, req),
		footer:       footer.New(keyMap),
		titleHandler: windowtitle.NewHandler(i18n.T("app.window_title"), " | "),
	}
}

func (m *Model) Init() tea.Cmd {
	return tea.Sequence(
		m.titleHandler.Init(),
		windowtitle.Set(m.request.Target()),
		m.mountScreen(),
	)
}

// mountScreen mounts m.screen and announces its key map to the footer.
func (m *Model) mountScreen() tea.Cmd {
	initCmd := m.screen.Init()
	focusCmd, keyMap := m.screen.Focus()
	return tea.Batch(initCmd, focusCmd, util.AnnounceKeyMapCmd(keyMap))
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keyMap.Exit):
			m.screen.Unmount()
			return m, tea.Quit
		case key.Matches(msg, m.keyMap.Help):
			m.footer.ToggleExpanded()
			return m, m.resize()
		case key.Matches(msg, m.keyMap.Retest):
			m.screen.Unmount()
			m.screen = conntest.New(m.gateway, m.request)
			return m, tea.Batch(footer.SetStatus(""), m.mountScreen(), m.resize())
		}
		return m, m.screen.Update(msg)

	case tea.WindowSizeMsg:
		m.size.Update(msg)
		return m, m.resize()

	case util.AnnounceKeyMapMsg, footer.StatusMsg:
		return m, m.footer.Update(msg)
	}

	if cmd, handled := m.titleHandler.Handle(msg); handled {
		return m, cmd
	}
	return m, m.screen.Update(msg)
}

// resize hands every part its share of the window: header and footer keep
// their natural height, the screen gets the rest.
func (m *Model) resize() tea.Cmd {
	full := m.size.ToMsg()
	m.header.Update(full)
	m.footer.Update(full)
	used := lipgloss.Height(m.header.View()) + lipgloss.Height(m.footer.View())
	inner := m.size.Shrink(styles.Doc.GetHorizontalFrameSize(), used+styles.Doc.GetVerticalFrameSize())
	return m.screen.Update(inner.ToMsg())
}

func (m *Model) View() string {
	body := styles.Doc.Render(m.screen.View())
	if h := m.size.Height - lipgloss.Height(m.header.View()) - lipgloss.Height(m.footer.View()); h > 0 {
		body = lipgloss.PlaceVertical(h, lipgloss.Top, body)
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.header.View(),
		body,
		m.footer.View(),
	)
}

// Screen exposes the mounted screen.
func (m *Model) Screen() *conntest.Model { return m.screen }

// *Model implements tea.Model
var _ tea.Model = (*Model)(nil)
