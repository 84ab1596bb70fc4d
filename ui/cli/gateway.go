// Copyright (c) 2026 Keymaster Team
// Conntest - SSH connection tester
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"github.com/toeirei/conntest/internal/backend"
	"github.com/toeirei/conntest/internal/config"
	"github.com/toeirei/conntest/internal/sshprobe"
)

// newGateway is swapped in tests.
var newGateway = defaultGateway

// defaultGateway serves test_connection with an SSH prober and hands the UIs
// the dispatcher-backed gateway.
func defaultGateway(cfg config.Config, passphrase sshprobe.PassphraseFunc) backend.Gateway {
	prober := sshprobe.New(sshprobe.Options{
		KnownHostsPath: cfg.KnownHosts,
		SFTPFallback:   cfg.SFTPFallback,
		Passphrase:     passphrase,
	})
	return backend.InvokeGateway{Dispatcher: backend.New(prober)}
}
