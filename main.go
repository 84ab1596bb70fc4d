// Copyright (c) 2026 Keymaster Team
// Conntest - SSH connection tester
// This source code is licensed under the MIT license found in the LICENSE file.

// Command-line entrypoint for conntest.
//
// Usage:
//
//	go run . [flags]
//	./conntest [flags]
//
// Without a subcommand the connection test screen is shown. See --help.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/toeirei/conntest/ui/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		if !errors.Is(err, cli.ErrTestFailed) {
			fmt.Fprintf(os.Stderr, "conntest: %v\n", err)
		}
		os.Exit(1)
	}
}
