// Copyright (c) 2026 Keymaster Team
// Conntest - SSH connection tester
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/toeirei/conntest/buildvars"
	"github.com/toeirei/conntest/internal/config"
	"github.com/toeirei/conntest/internal/i18n"
	"github.com/toeirei/conntest/internal/logging"
	"github.com/toeirei/conntest/internal/model"
	"github.com/toeirei/conntest/ui/tui"
)

// ErrTestFailed is returned by `conntest test` after the failure has been
// printed. Callers exit non-zero without printing it again.
var ErrTestFailed = errors.New("connection test failed")

// flagKeys maps flag names onto config keys.
var flagKeys = map[string]string{
	"host":          "request.host",
	"user":          "request.username",
	"port":          "request.port",
	"identity":      "request.private_key_path",
	"accept-new":    "request.accept_new_host_key",
	"timeout":       "request.timeout_secs",
	"known-hosts":   "known_hosts",
	"sftp-fallback": "sftp_fallback",
	"lang":          "language",
	"log-level":     "log.level",
	"log-file":      "log.file",
}

// runTUI is swapped in tests.
var runTUI = tui.Run

// app carries what PersistentPreRunE set up to the subcommands.
type app struct {
	cfgFile string
	config  config.Config
	logFile io.Closer
}

// setup loads the configuration and initialises i18n and logging. interactive
// is set when the TUI will own the terminal.
func (a *app) setup(cmd *cobra.Command, interactive bool) error {
	configPath, err := getConfigPathFromCli(cmd)
	if err != nil {
		return err
	}

	a.config, err = config.LoadConfig[config.Config](cmd, config.Defaults(), configPath, flagKeys)
	if err != nil {
		return errors.New(i18n.T("cli.error_load_config", err))
	}

	i18n.Init(a.config.Language)

	if err := logging.SetLevel(a.config.Log.Level); err != nil {
		return err
	}
	switch {
	case a.config.Log.File != "":
		closer, err := logging.OpenFile(a.config.Log.File)
		if err != nil {
			return err
		}
		a.logFile = closer
	case interactive:
		logging.SetOutput(io.Discard)
	default:
		logging.SetOutput(cmd.ErrOrStderr())
	}

	logging.Debugf("configuration loaded, target %s", a.config.Request.Target())
	return nil
}

func (a *app) teardown() {
	if a.logFile != nil {
		_ = a.logFile.Close()
		a.logFile = nil
		logging.SetOutput(os.Stderr)
	}
}

func getConfigPathFromCli(cmd *cobra.Command) (*string, error) {
	// Only proceed if the user has explicitly set the --config flag.
	if !cmd.Flags().Changed("config") {
		return nil, nil
	}
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("could not read --config flag: %w", err)
	}
	if path == "" {
		return nil, nil
	}
	// Make sure the user-provided file exists to avoid unwanted behavior.
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file specified via --config flag not found or is not accessible: %w", err)
	}
	return &path, nil
}

// NewRootCmd creates and configures a new root cobra command. Tests build a
// fresh one per case.
func NewRootCmd() *cobra.Command {
	a := &app{}
	def := model.DefaultRequest()

	cmd := &cobra.Command{
		Use:           "conntest",
		Short:         i18n.T("cli.short"),
		Version:       buildvars.Summary(nil),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd, cmd.Name() == "conntest")
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.teardown()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			req := a.config.Request
			passphrase, err := collectPassphrase(cmd, req.KeyPath())
			if err != nil {
				return err
			}
			gw := newGateway(a.config, passphrase)
			return runTUI(cmd.Context(), gw, req)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default is the user config dir, then /etc/conntest, then ./conntest.yaml)")
	flags.String("host", def.Host, "host to connect to")
	flags.StringP("user", "u", def.Username, "remote user name")
	flags.IntP("port", "p", *def.Port, "SSH port")
	flags.StringP("identity", "i", *def.PrivateKeyPath, "private key file")
	flags.Bool("accept-new", *def.AcceptNewHostKey, "record unknown host keys in known_hosts instead of failing")
	flags.Int("timeout", *def.TimeoutSeconds, "connect and handshake timeout in seconds")
	flags.String("known-hosts", "~/.ssh/known_hosts", "known_hosts file")
	flags.Bool("sftp-fallback", false, "accept accounts restricted to the sftp subsystem")
	flags.String("lang", "en", fmt.Sprintf("language %v", i18n.LocaleCodes()))
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.String("log-file", "", "write logs to this file")

	cmd.AddCommand(
		newTestCmd(a),
		newConfigCmd(a),
		newVersionCmd(),
	)
	return cmd
}

// Execute runs the CLI entrypoint. The main package should call this
// function and handle process exit.
func Execute() error {
	return NewRootCmd().Execute()
}
