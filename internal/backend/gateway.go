// Copyright (c) 2026 Keymaster Team
// Conntest - SSH connection tester
// This source code is licensed under the MIT license found in the LICENSE file.

// Package backend is the boundary between the UIs and the connection test
// implementation. UIs depend on Gateway only; the Dispatcher offers the same
// operation by name with a JSON payload.
package backend // import "github.com/toeirei/conntest/internal/backend"

import (
	"context"
	"errors"

	"github.com/toeirei/conntest/internal/model"
)

// OpTestConnection is the operation name the dispatcher registers the
// connection test under.
const OpTestConnection = "test_connection"

type Gateway interface {
	// TestConnection runs a single connection test. Retries, timeouts and
	// idempotence are up to the implementation.
	TestConnection(ctx context.Context, req model.ConnectionTestRequest) (model.ConnectionTestResult, error)
}

// GatewayFunc adapts a plain function to Gateway.
type GatewayFunc func(ctx context.Context, req model.ConnectionTestRequest) (model.ConnectionTestResult, error)

func (f GatewayFunc) TestConnection(ctx context.Context, req model.ConnectionTestRequest) (model.ConnectionTestResult, error) {
	return f(ctx, req)
}

// GatewayFunc implements Gateway
var _ Gateway = (GatewayFunc)(nil)

// MockGateway delegates to Overwrites when set and to BaseGateway otherwise.
type MockGateway struct {
	BaseGateway Gateway
	Overwrites  MockGatewayOverwrites
}

type MockGatewayOverwrites struct {
	TestConnection func(ctx context.Context, req model.ConnectionTestRequest) (model.ConnectionTestResult, error)
}

var errNotMocked = errors.New("backend: method not mocked")

func (m *MockGateway) TestConnection(ctx context.Context, req model.ConnectionTestRequest) (model.ConnectionTestResult, error) {
	if m.Overwrites.TestConnection != nil {
		return m.Overwrites.TestConnection(ctx, req)
	}
	if m.BaseGateway != nil {
		return m.BaseGateway.TestConnection(ctx, req)
	}
	return model.ConnectionTestResult{}, errNotMocked
}

// *MockGateway implements Gateway
var _ Gateway = (*MockGateway)(nil)
