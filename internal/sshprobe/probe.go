// Copyright (c) 2026 Keymaster Team
// Conntest - SSH connection tester
// This source code is licensed under the MIT license found in the LICENSE file.

// Package sshprobe implements the test_connection backend operation: it
// connects to a host over SSH, verifies the host key against known_hosts,
// authenticates with a key file or the SSH agent and runs `hostname`.
package sshprobe // import "github.com/toeirei/conntest/internal/sshprobe"

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/toeirei/conntest/internal/logging"
	"github.com/toeirei/conntest/internal/model"
	"golang.org/x/crypto/ssh"
)

// DefaultRemoteCommand is run on the remote host to prove the session works.
const DefaultRemoteCommand = "hostname"

// Options configures a Prober.
type Options struct {
	// KnownHostsPath defaults to ~/.ssh/known_hosts.
	KnownHostsPath string
	// SFTPFallback reports success through the sftp subsystem when the
	// remote command produced no output (accounts forced to internal-sftp).
	SFTPFallback bool
	// RemoteCommand defaults to DefaultRemoteCommand.
	RemoteCommand string
	// Passphrase is asked for encrypted explicit keys. Nil means such keys
	// fail with ErrPassphraseRequired.
	Passphrase PassphraseFunc
}

// DefaultOptions returns the options used by the CLI when nothing is configured.
func DefaultOptions() Options {
	return Options{
		KnownHostsPath: "~/.ssh/known_hosts",
		RemoteCommand:  DefaultRemoteCommand,
	}
}

// Prober runs connection tests. It holds no connection state between calls
// and is safe for concurrent use.
type Prober struct {
	knownHosts    string
	sftpFallback  bool
	remoteCommand string
	passphrase    PassphraseFunc
}

// New creates a Prober, filling unset options with their defaults.
func New(opts Options) *Prober {
	def := DefaultOptions()
	if opts.KnownHostsPath == "" {
		opts.KnownHostsPath = def.KnownHostsPath
	}
	if opts.RemoteCommand == "" {
		opts.RemoteCommand = def.RemoteCommand
	}
	return &Prober{
		knownHosts:    opts.KnownHostsPath,
		sftpFallback:  opts.SFTPFallback,
		remoteCommand: opts.RemoteCommand,
		passphrase:    opts.Passphrase,
	}
}

// TestConnection connects to req.Host, runs the remote command and reports
// the remote hostname. Every failure is returned as an error; a returned
// result always has OK set.
func (p *Prober) TestConnection(ctx context.Context, req model.ConnectionTestRequest) (model.ConnectionTestResult, error) {
	if strings.TrimSpace(req.Host) == "" {
		return model.ConnectionTestResult{}, ErrHostRequired
	}
	if strings.TrimSpace(req.Username) == "" {
		return model.ConnectionTestResult{}, ErrUserRequired
	}

	addr := req.Address()
	timeout := req.Timeout()
	logging.Debugf("testing %s (timeout %s, accept-new %t)", req.Target(), timeout, req.AcceptNew())

	hostKeys := newHostKeyCheck(p.knownHosts, req.AcceptNew())
	callback, err := hostKeys.Callback()
	if err != nil {
		return model.ConnectionTestResult{}, fmt.Errorf("ssh failed: %w", err)
	}

	auth, release, err := p.authMethods(req.Host, req.KeyPath())
	defer release()
	if err != nil {
		return model.ConnectionTestResult{}, fmt.Errorf("ssh failed: %w", err)
	}

	cfg := &ssh.ClientConfig{
		User:            req.Username,
		Auth:            auth,
		HostKeyCallback: callback,
		Timeout:         timeout,
	}
	if algos := hostKeys.Algorithms(addr); len(algos) > 0 {
		cfg.HostKeyAlgorithms = algos
	}

	dialCtx, cancel := context.WithTimeout(ctx, timeout)
	client, err := sshDial(dialCtx, addr, cfg)
	cancel()
	if err != nil {
		if hkErr := hostKeys.Err(); hkErr != nil {
			return model.ConnectionTestResult{}, fmt.Errorf("ssh failed: %w", hkErr)
		}
		return model.ConnectionTestResult{}, fmt.Errorf("ssh failed: %w", classifyDialError(req.Username, addr, err))
	}
	defer client.Close()

	stdout, stderr, err := client.Run(ctx, p.remoteCommand)
	if err != nil {
		var exitErr *ssh.ExitError
		if errors.As(err, &exitErr) {
			out := strings.TrimSpace(string(stderr))
			if out == "" {
				out = strings.TrimSpace(string(stdout))
			}
			return model.ConnectionTestResult{}, &CommandError{ExitStatus: exitErr.ExitStatus(), Output: out}
		}
		return model.ConnectionTestResult{}, fmt.Errorf("ssh failed: run %q: %w", p.remoteCommand, err)
	}

	hostname := strings.TrimSpace(string(stdout))
	if hostname == "" {
		if p.sftpFallback {
			dir, sftpErr := client.SFTPWorkingDir()
			if sftpErr == nil {
				logging.Infof("%s: empty command output, sftp subsystem answered", req.Target())
				return model.ConnectionTestResult{
					OK:      true,
					Message: fmt.Sprintf("Connected (sftp only). Working directory: %s", dir),
				}, nil
			}
			logging.Debugf("sftp fallback for %s failed: %v", req.Target(), sftpErr)
		}
		return model.ConnectionTestResult{}, ErrEmptyOutput
	}

	logging.Infof("%s reachable, hostname %s", req.Target(), hostname)
	return model.ConnectionTestResult{
		OK:      true,
		Message: fmt.Sprintf("Connected. Hostname: %s", hostname),
	}, nil
}
