// Copyright (c) 2026 Keymaster Team
// Conntest - SSH connection tester
// This source code is licensed under the MIT license found in the LICENSE file.

package sshprobe

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"syscall"
)

var (
	ErrHostRequired       = errors.New("host is required")
	ErrUserRequired       = errors.New("username is required")
	ErrNoAuthMethods      = errors.New("no authentication method available (no key file found and no ssh agent)")
	ErrPassphraseRequired = errors.New("private key is encrypted and no passphrase was provided")
	ErrTimeout            = errors.New("timed out")
	ErrAuthFailed         = errors.New("authentication failed")
	ErrConnectionRefused  = errors.New("connection refused")
	ErrHostKeyUnknown     = errors.New("host key verification failed: unknown host key")
	ErrHostKeyMismatch    = errors.New("host key verification failed: REMOTE HOST IDENTIFICATION HAS CHANGED")
	ErrCommandFailed      = errors.New("remote command failed")
	ErrEmptyOutput        = errors.New("ssh succeeded but stdout is empty")
)

// CommandError reports a remote command that exited unsuccessfully. Output is
// the trimmed stderr, or stdout when stderr was empty.
type CommandError struct {
	ExitStatus int
	Output     string
}

func (e *CommandError) Error() string {
	if e.Output == "" {
		return fmt.Sprintf("ssh failed: exit status %d", e.ExitStatus)
	}
	return "ssh failed: " + e.Output
}

// Is makes errors.Is(err, ErrCommandFailed) match any CommandError.
func (e *CommandError) Is(target error) bool { return target == ErrCommandFailed }

// classifyDialError maps low-level dial and handshake failures onto the
// package sentinels while keeping the original cause in the message.
func classifyDialError(user, addr string, err error) error {
	if err == nil {
		return nil
	}
	msg := strings.ToLower(err.Error())
	switch {
	case isTimeout(err):
		return fmt.Errorf("connection to %s %w: %v", addr, ErrTimeout, err)
	case strings.Contains(msg, "unable to authenticate"),
		strings.Contains(msg, "permission denied"),
		strings.Contains(msg, "no supported methods remain"):
		return fmt.Errorf("%w for %s@%s: %v", ErrAuthFailed, user, addr, err)
	case errors.Is(err, syscall.ECONNREFUSED), strings.Contains(msg, "connection refused"):
		return fmt.Errorf("%w by %s", ErrConnectionRefused, addr)
	default:
		return fmt.Errorf("connect to %s: %w", addr, err)
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "i/o timeout") || strings.Contains(msg, "timed out")
}
