// Copyright (c) 2026 Keymaster Team
// Conntest - SSH connection tester
// This source code is licensed under the MIT license found in the LICENSE file.
package tui

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/toeirei/conntest/internal/backend"
	"github.com/toeirei/conntest/internal/model"
	"github.com/toeirei/conntest/ui/tui/models/views/root"
)

type options struct {
	altScreen bool
	input     io.Reader
	output    io.Writer
}

type Option func(*options)

// WithoutAltScreen renders inline instead of taking over the terminal.
func WithoutAltScreen() Option { return func(o *options) { o.altScreen = false } }

// WithIO replaces stdin and stdout.
func WithIO(in io.Reader, out io.Writer) Option {
	return func(o *options) { o.input, o.output = in, out }
}

// Run shows the connection test screen for req until the user quits.
func Run(ctx context.Context, gw backend.Gateway, req model.ConnectionTestRequest, opts ...Option) error {
	o := options{altScreen: true}
	for _, opt := range opts {
		opt(&o)
	}

	programOpts := []tea.ProgramOption{tea.WithContext(ctx)}
	if o.altScreen {
		programOpts = append(programOpts, tea.WithAltScreen())
	}
	if o.input != nil {
		programOpts = append(programOpts, tea.WithInput(o.input))
	}
	if o.output != nil {
		programOpts = append(programOpts, tea.WithOutput(o.output))
	}

	_, err := tea.NewProgram(root.New(gw, req), programOpts...).Run()
	return err
}
