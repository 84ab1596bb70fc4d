// Copyright (c) 2026 Keymaster Team
// Conntest - SSH connection tester
// This source code is licensed under the MIT license found in the LICENSE file.
package root

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/toeirei/conntest/internal/i18n"
)

type KeyMap struct {
	Exit   key.Binding
	Retest key.Binding
	Help   key.Binding
}

func (km KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{km.Retest, km.Help, km.Exit}
}

func (km KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{km.Retest}, {km.Help, km.Exit}}
}

// *KeyMap implements help.KeyMap
var _ help.KeyMap = (*KeyMap)(nil)

func NewKeyMap() KeyMap {
	return KeyMap{
		Exit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", i18n.T("keys.quit")),
		),
		Retest: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", i18n.T("keys.retest")),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", i18n.T("keys.help")),
		),
	}
}
