// Copyright (c) 2026 Keymaster Team
// Conntest - SSH connection tester
// This source code is licensed under the MIT license found in the LICENSE file.

package sshprobe

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
)

// remoteClient is the part of an SSH connection the probe needs. Tests swap
// sshDial to return fakes.
type remoteClient interface {
	Run(ctx context.Context, cmd string) (stdout, stderr []byte, err error)
	SFTPWorkingDir() (string, error)
	Close() error
}

// Package-level seams, overridden in tests.
var (
	sshDial        = dialContext
	sshAgentGetter = getSSHAgent
	userHomeDir    = os.UserHomeDir
)

// dialContext connects and completes the SSH handshake. Both steps are bounded
// by cfg.Timeout and by ctx.
func dialContext(ctx context.Context, addr string, cfg *ssh.ClientConfig) (remoteClient, error) {
	d := net.Dialer{Timeout: cfg.Timeout}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}

	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	if cfg.Timeout > 0 {
		_ = conn.SetDeadline(time.Now().Add(cfg.Timeout))
	}
	c, chans, reqs, err := ssh.NewClientConn(conn, addr, cfg)
	if err != nil {
		_ = conn.Close()
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("%w: %v", ctxErr, err)
		}
		return nil, err
	}
	_ = conn.SetDeadline(time.Time{})

	return &sshRemote{client: ssh.NewClient(c, chans, reqs)}, nil
}

type sshRemote struct {
	client *ssh.Client
}

// Run executes cmd in a new session and collects its output.
func (r *sshRemote) Run(ctx context.Context, cmd string) ([]byte, []byte, error) {
	session, err := r.client.NewSession()
	if err != nil {
		return nil, nil, fmt.Errorf("open session: %w", err)
	}
	defer session.Close()

	var stdout, stderr bytes.Buffer
	session.Stdout = &stdout
	session.Stderr = &stderr

	done := make(chan error, 1)
	go func() { done <- session.Run(cmd) }()

	select {
	case err := <-done:
		return stdout.Bytes(), stderr.Bytes(), err
	case <-ctx.Done():
		_ = session.Close()
		return nil, nil, ctx.Err()
	}
}

// SFTPWorkingDir opens the sftp subsystem and returns the remote working
// directory. It succeeds on accounts restricted to internal-sftp.
func (r *sshRemote) SFTPWorkingDir() (string, error) {
	client, err := sftp.NewClient(r.client)
	if err != nil {
		return "", fmt.Errorf("open sftp subsystem: %w", err)
	}
	defer client.Close()
	return client.Getwd()
}

func (r *sshRemote) Close() error {
	return r.client.Close()
}
