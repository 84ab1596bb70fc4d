// Copyright (c) 2026 Keymaster Team
// Conntest - SSH connection tester
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/toeirei/conntest/buildvars"
	"github.com/toeirei/conntest/internal/i18n"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: i18n.T("cli.version_short"),
		Args:  cobra.NoArgs,
		// No configuration needed; a broken config file must not hide the version.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			v, c, d := buildvars.Resolve(nil)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "version: %s\n", v)
			if c != "" {
				fmt.Fprintf(out, "commit: %s\n", c)
			}
			if d != "" {
				fmt.Fprintf(out, "built: %s\n", d)
			}
		},
	}
}
