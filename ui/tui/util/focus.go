// Copyright (c) 2026 Keymaster Team
// Conntest - SSH connection tester
// This source code is licensed under the MIT license found in the LICENSE file.
package util

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

type Focusable interface {
	Focus() (tea.Cmd, help.KeyMap)
	Blur()
}

type AnnounceKeyMapMsg struct {
	KeyMap help.KeyMap
}

func AnnounceKeyMapCmd(k help.KeyMap) tea.Cmd {
	return func() tea.Msg {
		return AnnounceKeyMapMsg{KeyMap: k}
	}
}

func MergeKeyMaps(keymaps ...help.KeyMap) help.KeyMap {
	return MergedKeyMaps{KeyMaps: keymaps}
}

type MergedKeyMaps struct {
	KeyMaps []help.KeyMap
}

func (m MergedKeyMaps) ShortHelp() []key.Binding {
	var bindings []key.Binding
	for _, k := range m.KeyMaps {
		if k != nil {
			bindings = append(bindings, k.ShortHelp()...)
		}
	}
	return bindings
}

func (m MergedKeyMaps) FullHelp() [][]key.Binding {
	var groups [][]key.Binding
	for _, k := range m.KeyMaps {
		if k != nil {
			groups = append(groups, k.FullHelp()...)
		}
	}
	return groups
}

var _ help.KeyMap = (*MergedKeyMaps)(nil)
