// Copyright (c) 2026 Keymaster Team
// Conntest - SSH connection tester
// This source code is licensed under the MIT license found in the LICENSE file.

// Package cli wires configuration, logging and the SSH backend together and
// exposes them as the conntest command: the TUI by default, plus `test`,
// `config init` and `version` subcommands.
package cli
