// Copyright (c) 2026 Keymaster Team
// Conntest - SSH connection tester
// This source code is licensed under the MIT license found in the LICENSE file.

// Package styles holds the shared lipgloss styles of the TUI.
package styles // import "github.com/toeirei/conntest/ui/tui/styles"

import "github.com/charmbracelet/lipgloss"

// colorPalette defines the core colors used in the TUI.
const (
	colorSubtle    = lipgloss.Color("240") // Muted gray
	colorHighlight = lipgloss.Color("81")  // A nice teal/cyan
	colorError     = lipgloss.Color("196") // A bright red
	colorSuccess   = lipgloss.Color("40")  // A nice green
)

var (
	Doc = lipgloss.NewStyle().Margin(1, 2)

	Title = lipgloss.NewStyle().
		Foreground(colorHighlight).
		Bold(true).
		PaddingBottom(1)

	Subtle = lipgloss.NewStyle().Foreground(colorSubtle)

	Spinner = lipgloss.NewStyle().Foreground(colorHighlight)

	// Error block, pre-formatted text.
	Error = lipgloss.NewStyle().Foreground(colorError)

	Success = lipgloss.NewStyle().Foreground(colorSuccess)

	// Result block.
	Result = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorSuccess).
		Padding(0, 1)

	Header = lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false).
		BorderBottom(true).
		Foreground(colorHighlight)

	Footer = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true)
)
