// Copyright (c) 2026 Keymaster Team
// Conntest - SSH connection tester
// This source code is licensed under the MIT license found in the LICENSE file.
package windowtitle

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestTitleHandler(t *testing.T) {
	h := NewHandler("conntest", " | ")
	if h.Title() != "conntest" {
		t.Fatalf("unexpected base title %q", h.Title())
	}
	if h.Init() == nil {
		t.Fatalf("Init should set the window title")
	}

	if cmd, handled := h.Handle(tea.KeyMsg{}); cmd != nil || handled {
		t.Fatalf("foreign messages must not be handled")
	}

	cmd, handled := h.Handle(Set("user@host:22")())
	if !handled || cmd == nil {
		t.Fatalf("expected title update")
	}
	if h.Title() != "conntest | user@host:22" {
		t.Fatalf("unexpected title %q", h.Title())
	}

	if cmd, handled := h.Handle(Set("user@host:22")()); cmd != nil || !handled {
		t.Fatalf("unchanged title must not emit a command")
	}

	h.Handle(Set("")())
	if h.Title() != "conntest" {
		t.Fatalf("empty title should reset to base, got %q", h.Title())
	}
}
