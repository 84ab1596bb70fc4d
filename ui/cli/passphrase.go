// Copyright (c) 2026 Keymaster Team
// Conntest - SSH connection tester
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/toeirei/conntest/internal/i18n"
	"github.com/toeirei/conntest/internal/logging"
	"github.com/toeirei/conntest/internal/security"
	"github.com/toeirei/conntest/internal/sshprobe"
	"golang.org/x/term"
)

// Terminal seams, swapped in tests.
var (
	isTerminal   = term.IsTerminal
	readPassword = term.ReadPassword
	stdinFd      = func() int { return int(os.Stdin.Fd()) }
)

// promptPassphrase asks for a key passphrase on the terminal. Without a
// terminal it returns nil, leaving encrypted keys to fail with
// sshprobe.ErrPassphraseRequired.
func promptPassphrase(cmd *cobra.Command) sshprobe.PassphraseFunc {
	if !isTerminal(stdinFd()) {
		return nil
	}
	return func(keyPath string) (security.Secret, error) {
		fmt.Fprint(cmd.ErrOrStderr(), i18n.T("cli.passphrase_prompt", keyPath))
		pw, err := readPassword(stdinFd())
		fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return nil, err
		}
		secret := security.FromBytes(pw)
		for i := range pw {
			pw[i] = 0
		}
		return secret, nil
	}
}

// collectPassphrase asks up front, before the TUI takes over the terminal,
// when the configured key is encrypted. The returned func hands out copies so
// every remount can decrypt the key again.
func collectPassphrase(cmd *cobra.Command, keyPath string) (sshprobe.PassphraseFunc, error) {
	if keyPath == "" {
		return nil, nil
	}
	encrypted, err := sshprobe.IsEncryptedKey(keyPath)
	if err != nil {
		// The probe reports unreadable keys itself.
		logging.Debugf("cannot inspect %s: %v", keyPath, err)
		return nil, nil
	}
	if !encrypted {
		return nil, nil
	}
	ask := promptPassphrase(cmd)
	if ask == nil {
		return nil, nil
	}
	secret, err := ask(keyPath)
	if err != nil {
		return nil, fmt.Errorf("read passphrase: %w", err)
	}
	return func(string) (security.Secret, error) {
		return security.FromBytes(secret.Bytes()), nil
	}, nil
}
