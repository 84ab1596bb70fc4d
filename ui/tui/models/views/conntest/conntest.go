// Copyright (c) 2026 Keymaster Team
// Conntest - SSH connection tester
// This source code is licensed under the MIT license found in the LICENSE file.

// Package conntest is the connection test screen. Each mount issues exactly
// one test_connection call through a backend.Gateway and shows either the
// result or the error.
package conntest

import (
	"context"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/toeirei/conntest/internal/backend"
	"github.com/toeirei/conntest/internal/i18n"
	"github.com/toeirei/conntest/internal/logging"
	"github.com/toeirei/conntest/internal/model"
	"github.com/toeirei/conntest/ui/tui/models/views/footer"
	"github.com/toeirei/conntest/ui/tui/styles"
	"github.com/toeirei/conntest/ui/tui/util"
)

// clipboardWrite is swapped in tests.
var clipboardWrite = clipboard.WriteAll

type Model struct {
	gateway backend.Gateway
	request model.ConnectionTestRequest
	keyMap  KeyMap

	mount   *mount
	state   State
	result  model.ConnectionTestResult
	errText string

	spinner spinner.Model
	size    util.Size
}

// New creates an unmounted screen that will test req through gw.
func New(gw backend.Gateway, req model.ConnectionTestRequest) *Model {
	return &Model{
		gateway: gw,
		request: req,
		keyMap:  DefaultKeyMap(),
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(styles.Spinner)),
	}
}

// Init mounts the screen and starts the connection test. Calling Init on a
// screen that is still mounted does nothing.
func (m *Model) Init() tea.Cmd {
	if m.mount.active() {
		return nil
	}

	mt := newMount()
	m.mount = mt
	m.state = StatePending
	m.result = model.ConnectionTestResult{}
	m.errText = ""

	gw, req := m.gateway, m.request
	call := func() tea.Msg {
		logging.Debugf("mount %d: testing %s", mt.id, req.Target())
		res, err := gw.TestConnection(context.Background(), req)
		return resultMsg{mount: mt, result: res, err: err}
	}
	return tea.Batch(call, m.spinner.Tick)
}

// Unmount cancels the current mount. An outcome that arrives afterwards is
// dropped; the call itself keeps running.
func (m *Model) Unmount() {
	if m.mount != nil {
		m.mount.cancelled.Store(true)
	}
}

func (m *Model) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case resultMsg:
		if msg.mount != m.mount || !m.mount.active() || m.state != StatePending {
			logging.Debugf("mount %d: dropping outcome for inactive mount", msg.mount.id)
			return nil
		}
		if msg.err != nil {
			m.state = StateFailed
			m.errText = msg.err.Error()
			logging.Debugf("mount %d: failed: %s", msg.mount.id, m.errText)
		} else {
			m.state = StateSucceeded
			m.result = msg.result
			logging.Debugf("mount %d: succeeded", msg.mount.id)
		}
		return nil

	case spinner.TickMsg:
		if m.state != StatePending || !m.mount.active() {
			return nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return cmd

	case copiedMsg:
		if msg.err != nil {
			return footer.SetStatus(i18n.T("screen.copy_failed", msg.err))
		}
		return footer.SetStatus(i18n.T("screen.copied"))

	case tea.KeyMsg:
		if key.Matches(msg, m.keyMap.Copy) && m.state != StatePending {
			body := m.Body()
			return func() tea.Msg { return copiedMsg{err: clipboardWrite(body)} }
		}
	}

	m.size.Update(msg)
	return nil
}

// State reports the state of the current mount.
func (m Model) State() State { return m.state }

// Body is the unstyled rendering of the current state.
func (m Model) Body() string {
	return RenderBody(m.state, m.result, m.errText)
}

func (m Model) View() string {
	var body string
	switch m.state {
	case StateSucceeded:
		body = styles.Result.Render(m.Body())
	case StateFailed:
		body = styles.Error.Render(m.Body())
	default:
		body = m.spinner.View() + " " + m.Body()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		styles.Title.Render(Heading()),
		styles.Subtle.Render(i18n.T("screen.target", m.request.Target())),
		"",
		body,
	)
}

func (m *Model) Focus() (tea.Cmd, help.KeyMap) {
	return nil, m.keyMap
}

func (m *Model) Blur() {}

// *Model implements util.Model
var _ util.Model = (*Model)(nil)
