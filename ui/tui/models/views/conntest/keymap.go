// Copyright (c) 2026 Keymaster Team
// Conntest - SSH connection tester
// This source code is licensed under the MIT license found in the LICENSE file.
package conntest

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/toeirei/conntest/internal/i18n"
)

type KeyMap struct {
	Copy key.Binding
}

func (km KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{km.Copy}
}

func (km KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{km.Copy}}
}

// *KeyMap implements help.KeyMap
var _ help.KeyMap = (*KeyMap)(nil)

// DefaultKeyMap builds the bindings with the active language's help texts.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Copy: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", i18n.T("keys.copy")),
		),
	}
}
