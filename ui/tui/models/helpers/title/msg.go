// Copyright (c) 2026 Keymaster Team
// Conntest - SSH connection tester
// This source code is licensed under the MIT license found in the LICENSE file.
package windowtitle

import tea "github.com/charmbracelet/bubbletea"

type titleMsg string

// Set asks the TitleHandler to show title after the base title. An empty
// title shows the base only.
func Set(title string) tea.Cmd {
	return func() tea.Msg { return titleMsg(title) }
}
