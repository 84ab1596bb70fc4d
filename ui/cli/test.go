// Copyright (c) 2026 Keymaster Team
// Conntest - SSH connection tester
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/toeirei/conntest/internal/i18n"
	"github.com/toeirei/conntest/internal/model"
	"github.com/toeirei/conntest/ui/tui/models/views/conntest"
)

// newTestCmd runs the connection test once without the TUI and prints what
// the screen would show.
func newTestCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "test",
		Short: i18n.T("cli.test_short"),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := a.config.Request
			gw := newGateway(a.config, promptPassphrase(cmd))
			res, err := gw.TestConnection(cmd.Context(), req)

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, conntest.Heading())
			fmt.Fprintln(out, i18n.T("screen.target", req.Target()))
			fmt.Fprintln(out)
			fmt.Fprintln(out, headlessResult(res, err))

			if err != nil {
				return ErrTestFailed
			}
			return nil
		},
	}
}

// headlessResult renders the settled outcome the same way the screen does.
func headlessResult(res model.ConnectionTestResult, err error) string {
	if err != nil {
		return conntest.RenderBody(conntest.StateFailed, res, err.Error())
	}
	return conntest.RenderBody(conntest.StateSucceeded, res, "")
}
