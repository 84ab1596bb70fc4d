// Copyright (c) 2026 Keymaster Team
// Conntest - SSH connection tester
// This source code is licensed under the MIT license found in the LICENSE file.

// Package config provides configuration loading, merging, and persistence
// helpers for conntest. It uses Viper for file/env/flag parsing and exposes
// utility functions to read/write configuration files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/toeirei/conntest/internal/model"
)

const (
	appName    = "conntest"
	envPrefix  = "conntest"
	configName = "conntest"
)

// Config is the full application configuration.
type Config struct {
	Request      model.ConnectionTestRequest `mapstructure:"request" yaml:"request"`
	KnownHosts   string                      `mapstructure:"known_hosts" yaml:"known_hosts"`
	SFTPFallback bool                        `mapstructure:"sftp_fallback" yaml:"sftp_fallback"`
	Language     string                      `mapstructure:"language" yaml:"language"`
	Log          LogConfig                   `mapstructure:"log" yaml:"log"`
}

// LogConfig controls the logging package.
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
	File  string `mapstructure:"file" yaml:"file,omitempty"`
}

// Defaults returns the default values keyed by their viper key.
func Defaults() map[string]any {
	req := model.DefaultRequest()
	return map[string]any{
		"request.host":                req.Host,
		"request.username":            req.Username,
		"request.port":                *req.Port,
		"request.private_key_path":    *req.PrivateKeyPath,
		"request.accept_new_host_key": *req.AcceptNewHostKey,
		"request.timeout_secs":        *req.TimeoutSeconds,
		"known_hosts":                 "~/.ssh/known_hosts",
		"sftp_fallback":               false,
		"language":                    "en",
		"log.level":                   "info",
		"log.file":                    "",
	}
}

// GetConfigPath returns the full path for the configuration file.
func GetConfigPath(system bool) (string, error) {
	var configDir string
	var err error

	if system {
		switch runtime.GOOS {
		case "windows":
			configDir = filepath.Join(os.Getenv("ProgramData"), "Conntest")
		default: // Linux, macOS, etc.
			configDir = "/etc/" + appName
		}
	} else {
		configDir, err = os.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("could not get user config directory: %w", err)
		}
		configDir = filepath.Join(configDir, appName)
	}

	return filepath.Join(configDir, configName+".yaml"), nil
}

// LoadConfig reads defaults, the config file, CONNTEST_* environment variables
// and the flags of cmd into a T. flagKeys maps a flag name to the config key
// it sets; flags not listed bind under their own name.
func LoadConfig[T any](cmd *cobra.Command, defaults map[string]any, configPath *string, flagKeys map[string]string) (T, error) {
	var c T
	v := viper.New()

	// 1. Set defaults
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	// 2. Set up file search paths
	v.SetConfigName(configName)
	v.SetConfigType("yaml")

	// 3. An explicit --config file takes precedence over the search paths.
	if configPath != nil {
		v.SetConfigFile(*configPath)
	}

	if userConfigPath, err := GetConfigPath(false); err == nil {
		v.AddConfigPath(filepath.Dir(userConfigPath))
	}
	if systemConfigPath, err := GetConfigPath(true); err == nil {
		v.AddConfigPath(filepath.Dir(systemConfigPath))
	}
	v.AddConfigPath(".")

	// 4. Read in the config file. A missing file is fine.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return c, err
		}
	}

	// 5. Environment
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 6. Flags
	if cmd != nil {
		var bindErr error
		cmd.Flags().VisitAll(func(f *pflag.Flag) {
			if bindErr != nil {
				return
			}
			key := f.Name
			if mapped, ok := flagKeys[f.Name]; ok {
				key = mapped
			}
			bindErr = v.BindPFlag(key, f)
		})
		if bindErr != nil {
			return c, bindErr
		}
	}

	if err := v.Unmarshal(&c); err != nil {
		return c, err
	}

	return c, nil
}

// WriteConfigFile writes c as YAML to the user (or system) config path and
// returns the path written.
func WriteConfigFile[T any](c *T, system bool) (string, error) {
	path, err := GetConfigPath(system)
	if err != nil {
		return "", err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return "", err
	}

	configDir := filepath.Dir(path)
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return "", fmt.Errorf("could not create config directory %s: %w", configDir, err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", err
	}

	return path, nil
}
