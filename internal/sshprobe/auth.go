// Copyright (c) 2026 Keymaster Team
// Conntest - SSH connection tester
// This source code is licensed under the MIT license found in the LICENSE file.

package sshprobe

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/toeirei/conntest/internal/logging"
	"github.com/toeirei/conntest/internal/security"
	"golang.org/x/crypto/ssh"
)

// defaultIdentityFiles mirrors the order OpenSSH tries when no -i is given.
var defaultIdentityFiles = []string{
	"~/.ssh/id_ed25519",
	"~/.ssh/id_ecdsa",
	"~/.ssh/id_rsa",
}

// PassphraseFunc supplies the passphrase for an encrypted key file.
type PassphraseFunc func(keyPath string) (security.Secret, error)

// authMethods assembles a single publickey method. Signers come from the
// explicit key (if any), the SSH agent, and otherwise from ~/.ssh/config or
// the default identity files. The returned func releases the agent connection.
func (p *Prober) authMethods(host, keyPath string) ([]ssh.AuthMethod, func(), error) {
	var signers []ssh.Signer

	if keyPath != "" {
		signer, err := p.loadSigner(keyPath, true)
		if err != nil {
			return nil, func() {}, err
		}
		signers = append(signers, signer)
	} else {
		for _, candidate := range p.identityCandidates(host) {
			signer, err := p.loadSigner(candidate, false)
			if err != nil {
				logging.Debugf("skipping identity %s: %v", candidate, err)
				continue
			}
			signers = append(signers, signer)
			break // use first available key
		}
	}

	sshAgent, release := sshAgentGetter()
	if sshAgent == nil && len(signers) == 0 {
		release()
		return nil, func() {}, ErrNoAuthMethods
	}

	callback := func() ([]ssh.Signer, error) {
		out := append([]ssh.Signer(nil), signers...)
		if sshAgent != nil {
			agentSigners, err := sshAgent.Signers()
			if err != nil {
				logging.Warnf("ssh agent: %v", err)
			} else {
				out = append(out, agentSigners...)
			}
		}
		return out, nil
	}
	return []ssh.AuthMethod{ssh.PublicKeysCallback(callback)}, release, nil
}

// loadSigner reads and parses a private key. Encrypted keys use the
// PassphraseFunc when ask is set; otherwise ErrPassphraseRequired is returned.
func (p *Prober) loadSigner(keyPath string, ask bool) (ssh.Signer, error) {
	expanded := expandPath(keyPath)
	raw, err := os.ReadFile(expanded)
	if err != nil {
		return nil, fmt.Errorf("read key file: %w", err)
	}
	keyData := security.FromBytes(raw)
	defer keyData.Zero()
	for i := range raw {
		raw[i] = 0
	}

	var signer ssh.Signer
	err = keyData.Use(func(b []byte) error {
		var perr error
		signer, perr = ssh.ParsePrivateKey(b)
		return perr
	})
	var missing *ssh.PassphraseMissingError
	if errors.As(err, &missing) {
		if !ask || p.passphrase == nil {
			return nil, fmt.Errorf("%s: %w", expanded, ErrPassphraseRequired)
		}
		pass, perr := p.passphrase(expanded)
		if perr != nil {
			return nil, fmt.Errorf("read passphrase: %w", perr)
		}
		defer pass.Zero()
		err = keyData.Use(func(b []byte) error {
			var perr error
			signer, perr = ssh.ParsePrivateKeyWithPassphrase(b, pass.Bytes())
			return perr
		})
	}
	if err != nil {
		return nil, fmt.Errorf("parse private key %s: %w", expanded, err)
	}
	return signer, nil
}

// identityCandidates lists the key files to try when no explicit key was
// requested: the IdentityFile from ~/.ssh/config first, then the defaults.
func (p *Prober) identityCandidates(host string) []string {
	var out []string
	if configKey := sshConfigIdentityFile(host); configKey != "" {
		out = append(out, configKey)
	}
	for _, candidate := range defaultIdentityFiles {
		expanded := expandPath(candidate)
		if _, err := os.Stat(expanded); err == nil {
			out = append(out, expanded)
		}
	}
	return out
}

// expandPath expands a leading ~ to the home directory.
func expandPath(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") || strings.HasPrefix(p, `~\`) {
		if home, err := userHomeDir(); err == nil {
			return filepath.Join(home, p[1:])
		}
	}
	return p
}

// sshConfigIdentityFile returns the first IdentityFile that ~/.ssh/config
// assigns to host, or "".
func sshConfigIdentityFile(host string) string {
	file, err := os.Open(expandPath("~/.ssh/config"))
	if err != nil {
		return ""
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	// Options before the first Host line apply to every host.
	matches := true
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		keyword, value := splitConfigLine(line)
		if value == "" {
			continue
		}
		switch strings.ToLower(keyword) {
		case "host":
			matches = matchHostPatterns(host, strings.Fields(value))
		case "identityfile":
			if matches {
				return expandPath(strings.Trim(value, `"`))
			}
		}
	}
	return ""
}

// splitConfigLine splits an ssh_config line into keyword and value. Both
// "Keyword value" and "Keyword=value" are accepted.
func splitConfigLine(line string) (string, string) {
	i := strings.IndexAny(line, " \t=")
	if i < 0 {
		return line, ""
	}
	keyword, rest := line[:i], strings.TrimLeft(line[i:], " \t")
	if strings.HasPrefix(rest, "=") {
		rest = strings.TrimLeft(rest[1:], " \t")
	}
	return keyword, strings.TrimSpace(rest)
}

// matchHostPatterns applies ssh_config Host patterns (* and ?, ! negation).
func matchHostPatterns(host string, patterns []string) bool {
	matched := false
	for _, pattern := range patterns {
		negate := strings.HasPrefix(pattern, "!")
		pattern = strings.TrimPrefix(pattern, "!")
		ok, err := path.Match(pattern, host)
		if err != nil || !ok {
			continue
		}
		if negate {
			return false
		}
		matched = true
	}
	return matched
}

// IsEncryptedKey reports whether the private key at keyPath needs a
// passphrase. Callers use it to ask before a terminal UI takes over stdin.
func IsEncryptedKey(keyPath string) (bool, error) {
	raw, err := os.ReadFile(expandPath(keyPath))
	if err != nil {
		return false, fmt.Errorf("read key file: %w", err)
	}
	defer func() {
		for i := range raw {
			raw[i] = 0
		}
	}()
	_, err = ssh.ParseRawPrivateKey(raw)
	var missing *ssh.PassphraseMissingError
	if errors.As(err, &missing) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("parse private key %s: %w", keyPath, err)
	}
	return false, nil
}
