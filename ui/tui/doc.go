// Copyright (c) 2026 Keymaster Team
// Conntest - SSH connection tester
// This source code is licensed under the MIT license found in the LICENSE file.

// Package tui runs the terminal UI. Presentation and input handling live
// here; the connection test itself is reached through backend.Gateway.
package tui
