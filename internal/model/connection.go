// Copyright (c) 2026 Keymaster Team
// Conntest - SSH connection tester
// This source code is licensed under the MIT license found in the LICENSE file.

// package model defines the request and result values exchanged between the
// connection test screen and the backend.
package model // import "github.com/toeirei/conntest/internal/model"

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

// Defaults applied by the backend when the matching request field is omitted.
const (
	DefaultPort           = 22
	DefaultTimeoutSeconds = 10
)

// ConnectionTestRequest is the payload of the test_connection operation.
// Optional fields are pointers so that an absent value is omitted from the
// JSON encoding instead of being sent as null or zero.
type ConnectionTestRequest struct {
	Host     string `json:"host" mapstructure:"host" yaml:"host"`
	Username string `json:"username" mapstructure:"username" yaml:"username"`
	Port     *int   `json:"port,omitempty" mapstructure:"port" yaml:"port,omitempty"`
	// PrivateKeyPath selects an explicit identity. When nil the backend falls
	// back to the agent, ~/.ssh/config and the default key files.
	PrivateKeyPath *string `json:"private_key_path,omitempty" mapstructure:"private_key_path" yaml:"private_key_path,omitempty"`
	// AcceptNewHostKey records unknown host keys on first contact
	// (StrictHostKeyChecking=accept-new). Changed keys are always rejected.
	AcceptNewHostKey *bool `json:"accept_new_host_key,omitempty" mapstructure:"accept_new_host_key" yaml:"accept_new_host_key,omitempty"`
	TimeoutSeconds   *int  `json:"timeout_secs,omitempty" mapstructure:"timeout_secs" yaml:"timeout_secs,omitempty"`
}

// ConnectionTestResult is the outcome of a successful test_connection call.
type ConnectionTestResult struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

// DefaultRequest returns the fixed request the connection test screen sends
// when nothing else has been configured.
func DefaultRequest() ConnectionTestRequest {
	return ConnectionTestRequest{
		Host:             "192.168.1.21",
		Username:         "user-admin",
		Port:             Ptr(22),
		PrivateKeyPath:   Ptr("~/.ssh/id_ed25519_server"),
		AcceptNewHostKey: Ptr(true),
		TimeoutSeconds:   Ptr(10),
	}
}

// Ptr returns a pointer to a copy of v.
func Ptr[T any](v T) *T { return &v }

// PortOrDefault returns the requested port or DefaultPort.
func (r ConnectionTestRequest) PortOrDefault() int {
	if r.Port == nil || *r.Port == 0 {
		return DefaultPort
	}
	return *r.Port
}

// Timeout returns the requested timeout or DefaultTimeoutSeconds.
func (r ConnectionTestRequest) Timeout() time.Duration {
	if r.TimeoutSeconds == nil || *r.TimeoutSeconds <= 0 {
		return DefaultTimeoutSeconds * time.Second
	}
	return time.Duration(*r.TimeoutSeconds) * time.Second
}

// AcceptNew reports whether unknown host keys may be recorded.
func (r ConnectionTestRequest) AcceptNew() bool {
	return r.AcceptNewHostKey != nil && *r.AcceptNewHostKey
}

// KeyPath returns the explicit private key path, or "" when none was given.
func (r ConnectionTestRequest) KeyPath() string {
	if r.PrivateKeyPath == nil {
		return ""
	}
	return *r.PrivateKeyPath
}

// Address returns host:port suitable for dialing.
func (r ConnectionTestRequest) Address() string {
	return net.JoinHostPort(r.Host, strconv.Itoa(r.PortOrDefault()))
}

// Target renders the request as user@host:port for logs and titles.
func (r ConnectionTestRequest) Target() string {
	return fmt.Sprintf("%s@%s", r.Username, r.Address())
}
