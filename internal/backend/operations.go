// Copyright (c) 2026 Keymaster Team
// Conntest - SSH connection tester
// This source code is licensed under the MIT license found in the LICENSE file.

package backend

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/toeirei/conntest/internal/model"
)

// RegisterTestConnection serves OpTestConnection with gw.
func RegisterTestConnection(d *Dispatcher, gw Gateway) {
	d.Register(OpTestConnection, func(ctx context.Context, payload json.RawMessage) (any, error) {
		var req model.ConnectionTestRequest
		if err := json.Unmarshal(payload, &req); err != nil {
			return nil, fmt.Errorf("%s: decode payload: %w", OpTestConnection, err)
		}
		return gw.TestConnection(ctx, req)
	})
}

// InvokeGateway presents a Dispatcher as a Gateway by invoking
// OpTestConnection with the request as payload.
type InvokeGateway struct {
	Dispatcher *Dispatcher
}

func (g InvokeGateway) TestConnection(ctx context.Context, req model.ConnectionTestRequest) (model.ConnectionTestResult, error) {
	raw, err := g.Dispatcher.Invoke(ctx, OpTestConnection, Args(req))
	if err != nil {
		return model.ConnectionTestResult{}, err
	}
	var res model.ConnectionTestResult
	if err := json.Unmarshal(raw, &res); err != nil {
		return model.ConnectionTestResult{}, fmt.Errorf("%s: decode result: %w", OpTestConnection, err)
	}
	return res, nil
}

// InvokeGateway implements Gateway
var _ Gateway = InvokeGateway{}

// New wires a dispatcher whose test_connection operation is served by gw.
func New(gw Gateway) *Dispatcher {
	d := NewDispatcher()
	RegisterTestConnection(d, gw)
	return d
}
