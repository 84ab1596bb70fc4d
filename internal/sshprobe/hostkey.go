// Copyright (c) 2026 Keymaster Team
// Conntest - SSH connection tester
// This source code is licensed under the MIT license found in the LICENSE file.

package sshprobe

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/toeirei/conntest/internal/logging"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"
)

// hostKeyCheck verifies presented host keys against a known_hosts file and
// remembers why verification failed, independent of how the handshake error
// is wrapped further up.
type hostKeyCheck struct {
	path      string
	acceptNew bool

	known ssh.HostKeyCallback

	mu     sync.Mutex
	failed error
}

func newHostKeyCheck(path string, acceptNew bool) *hostKeyCheck {
	return &hostKeyCheck{path: expandPath(path), acceptNew: acceptNew}
}

// Err returns the verification failure seen during the handshake, if any.
func (h *hostKeyCheck) Err() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.failed
}

func (h *hostKeyCheck) fail(err error) error {
	h.mu.Lock()
	h.failed = err
	h.mu.Unlock()
	return err
}

// Callback builds the ssh.HostKeyCallback. A missing known_hosts file is
// treated as empty.
func (h *hostKeyCheck) Callback() (ssh.HostKeyCallback, error) {
	var files []string
	if _, err := os.Stat(h.path); err == nil {
		files = append(files, h.path)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("known_hosts %s: %w", h.path, err)
	}

	known, err := knownhosts.New(files...)
	if err != nil {
		return nil, fmt.Errorf("parse known_hosts %s: %w", h.path, err)
	}
	h.known = known

	return func(hostname string, remote net.Addr, key ssh.PublicKey) error {
		err := known(hostname, remote, key)
		if err == nil {
			return nil
		}

		var keyErr *knownhosts.KeyError
		if errors.As(err, &keyErr) {
			if len(keyErr.Want) > 0 {
				return h.fail(fmt.Errorf("%w for %s: presented %s key %s", ErrHostKeyMismatch, hostname, key.Type(), ssh.FingerprintSHA256(key)))
			}
			if !h.acceptNew {
				return h.fail(fmt.Errorf("%w for %s (%s %s)", ErrHostKeyUnknown, hostname, key.Type(), ssh.FingerprintSHA256(key)))
			}
			if err := appendKnownHost(h.path, hostname, key); err != nil {
				return h.fail(fmt.Errorf("record host key for %s: %w", hostname, err))
			}
			logging.Infof("permanently added %s (%s) to %s", knownhosts.Normalize(hostname), key.Type(), h.path)
			return nil
		}

		return h.fail(fmt.Errorf("host key verification failed for %s: %w", hostname, err))
	}, nil
}

// Algorithms returns the host key algorithms to offer when dialing address,
// derived from the key types known_hosts already holds for it. Nil means
// the host is unknown and the library defaults apply. Callback must have
// been built first.
func (h *hostKeyCheck) Algorithms(address string) []string {
	if h.known == nil {
		return nil
	}
	var keyErr *knownhosts.KeyError
	if err := h.known(address, &net.TCPAddr{}, lookupKey{}); !errors.As(err, &keyErr) {
		return nil
	}

	types := make([]string, 0, len(keyErr.Want))
	for _, k := range keyErr.Want {
		types = append(types, k.Key.Type())
	}
	sort.Strings(types)

	var algos []string
	seen := map[string]bool{}
	for _, typ := range types {
		for _, algo := range algorithmsForKeyType(typ) {
			if !seen[algo] {
				seen[algo] = true
				algos = append(algos, algo)
			}
		}
	}
	return algos
}

// algorithmsForKeyType maps a known_hosts key type to the signature
// algorithms a server may use to prove it.
func algorithmsForKeyType(typ string) []string {
	switch typ {
	case ssh.KeyAlgoRSA:
		return []string{ssh.KeyAlgoRSASHA512, ssh.KeyAlgoRSASHA256, ssh.KeyAlgoRSA}
	default:
		return []string{typ}
	}
}

// lookupKey never matches a known_hosts entry, so checking it yields the
// full list of keys recorded for a host.
type lookupKey struct{}

func (lookupKey) Type() string { return "conntest-lookup" }

func (lookupKey) Marshal() []byte { return []byte("conntest-lookup") }

func (lookupKey) Verify([]byte, *ssh.Signature) error { return errors.New("lookup key cannot verify") }

// appendKnownHost adds a known_hosts line for hostname, creating the file and
// its directory when needed.
func appendKnownHost(path, hostname string, key ssh.PublicKey) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}

	prefix := ""
	if data, err := os.ReadFile(path); err == nil && len(data) > 0 && data[len(data)-1] != '\n' {
		prefix = "\n"
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	line := knownhosts.Line([]string{knownhosts.Normalize(hostname)}, key)
	if _, err := f.WriteString(prefix + line + "\n"); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
