// Copyright (c) 2026 Keymaster Team
// Conntest - SSH connection tester
// This source code is licensed under the MIT license found in the LICENSE file.
package util

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

type testKeyMap []key.Binding

func (k testKeyMap) ShortHelp() []key.Binding  { return k }
func (k testKeyMap) FullHelp() [][]key.Binding { return [][]key.Binding{k} }

func TestSize(t *testing.T) {
	var s Size
	if s.Update(tea.KeyMsg{}) {
		t.Fatalf("non-size message must not update")
	}
	if !s.Update(tea.WindowSizeMsg{Width: 80, Height: 24}) || s.Width != 80 || s.Height != 24 {
		t.Fatalf("unexpected size %+v", s)
	}
	if got := s.Shrink(4, 30); got.Width != 76 || got.Height != 0 {
		t.Fatalf("unexpected shrink %+v", got)
	}
	if msg := s.ToMsg(); msg.Width != 80 || msg.Height != 24 {
		t.Fatalf("unexpected msg %+v", msg)
	}
}

func TestMergeKeyMaps(t *testing.T) {
	a := testKeyMap{key.NewBinding(key.WithKeys("a"))}
	b := testKeyMap{key.NewBinding(key.WithKeys("b")), key.NewBinding(key.WithKeys("c"))}

	merged := MergeKeyMaps(a, nil, b)
	if n := len(merged.ShortHelp()); n != 3 {
		t.Fatalf("expected 3 short bindings, got %d", n)
	}
	if n := len(merged.FullHelp()); n != 2 {
		t.Fatalf("expected 2 groups, got %d", n)
	}

	msg := AnnounceKeyMapCmd(merged)()
	if _, ok := msg.(AnnounceKeyMapMsg); !ok {
		t.Fatalf("unexpected message %T", msg)
	}
}
