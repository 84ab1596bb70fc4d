// Copyright (c) 2026 Keymaster Team
// Conntest - SSH connection tester
// This source code is licensed under the MIT license found in the LICENSE file.

package sshprobe

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"syscall"
	"testing"
)

func TestClassifyDialError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		want     error
		contains string
	}{
		{"deadline", context.DeadlineExceeded, ErrTimeout, "connection to h:22 timed out"},
		{"io timeout", errors.New("dial tcp 10.0.0.1:22: i/o timeout"), ErrTimeout, "i/o timeout"},
		{"auth", errors.New("ssh: handshake failed: ssh: unable to authenticate, attempted methods [none publickey]"), ErrAuthFailed, "authentication failed for bob@h:22"},
		{"permission", errors.New("Permission denied (publickey)"), ErrAuthFailed, "bob@h:22"},
		{"refused errno", fmt.Errorf("dial: %w", syscall.ECONNREFUSED), ErrConnectionRefused, "connection refused by h:22"},
		{"refused text", errors.New("connect: connection refused"), ErrConnectionRefused, "by h:22"},
		{"other", errors.New("no route to host"), nil, "connect to h:22: no route to host"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyDialError("bob", "h:22", tt.err)
			if tt.want != nil && !errors.Is(got, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
			if !strings.Contains(got.Error(), tt.contains) {
				t.Fatalf("expected %q in %q", tt.contains, got.Error())
			}
		})
	}

	if classifyDialError("bob", "h:22", nil) != nil {
		t.Fatalf("nil error must stay nil")
	}
}

func TestClassifyDialError_KeepsCause(t *testing.T) {
	cause := errors.New("no route to host")
	got := classifyDialError("bob", "h:22", cause)
	if !errors.Is(got, cause) {
		t.Fatalf("unclassified errors must wrap the cause")
	}
}

func TestCommandError(t *testing.T) {
	err := error(&CommandError{ExitStatus: 1, Output: "boom"})
	if err.Error() != "ssh failed: boom" {
		t.Fatalf("unexpected message %q", err.Error())
	}
	if !errors.Is(err, ErrCommandFailed) {
		t.Fatalf("CommandError should match ErrCommandFailed")
	}
	if errors.Is(err, ErrEmptyOutput) {
		t.Fatalf("CommandError must not match other sentinels")
	}

	silent := &CommandError{ExitStatus: 255}
	if silent.Error() != "ssh failed: exit status 255" {
		t.Fatalf("unexpected message %q", silent.Error())
	}
}
