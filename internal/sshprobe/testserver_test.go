// Copyright (c) 2026 Keymaster Team
// Conntest - SSH connection tester
// This source code is licensed under the MIT license found in the LICENSE file.

package sshprobe

import (
	"bytes"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rand"
	"encoding/pem"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"sync/atomic"
	"testing"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/agent"
)

// serverOptions configures the in-process SSH server used by the probe tests.
type serverOptions struct {
	authorized ssh.PublicKey
	// exec answers exec requests; nil means empty output and status 0.
	exec func(cmd string) (stdout, stderr string, status uint32)
	sftp bool
	// ecdsaHostKey makes the server offer an ecdsa-sha2-nistp256 host key
	// next to its ed25519 one.
	ecdsaHostKey bool
}

type testServer struct {
	host    string
	port    int
	hostKey ssh.PublicKey
	execs   atomic.Int32

	// ecdsaKey is set when serverOptions.ecdsaHostKey is.
	ecdsaKey ssh.PublicKey
}

func startTestServer(t *testing.T, opts serverOptions) *testServer {
	t.Helper()

	_, hostPriv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("generate host key: %v", err)
	}
	hostSigner, err := ssh.NewSignerFromKey(hostPriv)
	if err != nil {
		t.Fatalf("host signer: %v", err)
	}

	cfg := &ssh.ServerConfig{
		PublicKeyCallback: func(meta ssh.ConnMetadata, key ssh.PublicKey) (*ssh.Permissions, error) {
			if opts.authorized != nil && bytes.Equal(key.Marshal(), opts.authorized.Marshal()) {
				return &ssh.Permissions{}, nil
			}
			return nil, fmt.Errorf("unknown public key for %s", meta.User())
		},
	}
	cfg.AddHostKey(hostSigner)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { _ = ln.Close() })

	tcpAddr := ln.Addr().(*net.TCPAddr)
	s := &testServer{host: "127.0.0.1", port: tcpAddr.Port, hostKey: hostSigner.PublicKey()}
	if opts.ecdsaHostKey {
		ecPriv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
		if err != nil {
			t.Fatalf("generate ecdsa host key: %v", err)
		}
		ecSigner, err := ssh.NewSignerFromKey(ecPriv)
		if err != nil {
			t.Fatalf("ecdsa host signer: %v", err)
		}
		cfg.AddHostKey(ecSigner)
		s.ecdsaKey = ecSigner.PublicKey()
	}

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go s.serve(conn, cfg, opts)
		}
	}()
	return s
}

func (s *testServer) addr() string {
	return net.JoinHostPort(s.host, strconv.Itoa(s.port))
}

func (s *testServer) serve(conn net.Conn, cfg *ssh.ServerConfig, opts serverOptions) {
	defer conn.Close()
	sconn, chans, reqs, err := ssh.NewServerConn(conn, cfg)
	if err != nil {
		return
	}
	defer sconn.Close()
	go ssh.DiscardRequests(reqs)

	for newCh := range chans {
		if newCh.ChannelType() != "session" {
			_ = newCh.Reject(ssh.UnknownChannelType, "unsupported channel type")
			continue
		}
		ch, chReqs, err := newCh.Accept()
		if err != nil {
			continue
		}
		go s.session(ch, chReqs, opts)
	}
}

func (s *testServer) session(ch ssh.Channel, reqs <-chan *ssh.Request, opts serverOptions) {
	defer func() {
		go ssh.DiscardRequests(reqs)
		_ = ch.Close()
	}()

	for req := range reqs {
		switch req.Type {
		case "exec":
			var payload struct{ Command string }
			if err := ssh.Unmarshal(req.Payload, &payload); err != nil {
				_ = req.Reply(false, nil)
				continue
			}
			_ = req.Reply(true, nil)
			s.execs.Add(1)

			var stdout, stderr string
			var status uint32
			if opts.exec != nil {
				stdout, stderr, status = opts.exec(payload.Command)
			}
			_, _ = io.WriteString(ch, stdout)
			_, _ = io.WriteString(ch.Stderr(), stderr)
			_, _ = ch.SendRequest("exit-status", false, ssh.Marshal(struct{ Status uint32 }{status}))
			return
		case "subsystem":
			var payload struct{ Name string }
			if err := ssh.Unmarshal(req.Payload, &payload); err != nil || !opts.sftp || payload.Name != "sftp" {
				_ = req.Reply(false, nil)
				continue
			}
			_ = req.Reply(true, nil)
			server, err := sftp.NewServer(ch)
			if err != nil {
				return
			}
			_ = server.Serve()
			return
		default:
			_ = req.Reply(false, nil)
		}
	}
}

// hostnameExec answers `hostname` like a normal shell account.
func hostnameExec(name string) func(string) (string, string, uint32) {
	return func(cmd string) (string, string, uint32) {
		if cmd == "hostname" {
			return name + "\n", "", 0
		}
		return "", "sh: " + cmd + ": not found\n", 127
	}
}

// writeKey generates an ed25519 key, writes it in OpenSSH format to dir/name
// (encrypted when passphrase is set) and returns its path and public key.
func writeKey(t *testing.T, dir, name, passphrase string) (string, ssh.PublicKey, ed25519.PrivateKey) {
	t.Helper()
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	var block *pem.Block
	if passphrase == "" {
		block, err = ssh.MarshalPrivateKey(priv, "conntest-test")
	} else {
		block, err = ssh.MarshalPrivateKeyWithPassphrase(priv, "conntest-test", []byte(passphrase))
	}
	if err != nil {
		t.Fatalf("marshal key: %v", err)
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, pem.EncodeToMemory(block), 0o600); err != nil {
		t.Fatalf("write key: %v", err)
	}
	sshPub, err := ssh.NewPublicKey(pub)
	if err != nil {
		t.Fatalf("public key: %v", err)
	}
	return path, sshPub, priv
}

// isolateProbe points the home directory at a temp dir and disables the SSH
// agent so tests never touch the developer's keys.
func isolateProbe(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	origHome, origAgent := userHomeDir, sshAgentGetter
	userHomeDir = func() (string, error) { return home, nil }
	sshAgentGetter = func() (agent.Agent, func()) { return nil, func() {} }
	t.Cleanup(func() {
		userHomeDir = origHome
		sshAgentGetter = origAgent
	})
	return home
}
