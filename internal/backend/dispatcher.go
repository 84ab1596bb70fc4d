// Copyright (c) 2026 Keymaster Team
// Conntest - SSH connection tester
// This source code is licensed under the MIT license found in the LICENSE file.

package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/toeirei/conntest/internal/logging"
)

// Handler serves one named operation. payload is the raw JSON found under the
// "payload" key of the invocation arguments.
type Handler func(ctx context.Context, payload json.RawMessage) (any, error)

// Dispatcher routes named operations to handlers.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{handlers: make(map[string]Handler)}
}

// Register adds or replaces the handler for op.
func (d *Dispatcher) Register(op string, h Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[op] = h
}

// Operations returns the registered operation names, sorted.
func (d *Dispatcher) Operations() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	ops := make([]string, 0, len(d.handlers))
	for op := range d.handlers {
		ops = append(ops, op)
	}
	sort.Strings(ops)
	return ops
}

// invocation is the envelope every operation receives.
type invocation struct {
	Payload json.RawMessage `json:"payload"`
}

// Invoke marshals args, extracts its "payload" member and runs the handler
// registered for op. The handler's value is returned as JSON.
func (d *Dispatcher) Invoke(ctx context.Context, op string, args any) (json.RawMessage, error) {
	d.mu.RLock()
	h, ok := d.handlers[op]
	d.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown operation %q", op)
	}

	raw, err := json.Marshal(args)
	if err != nil {
		return nil, fmt.Errorf("%s: encode arguments: %w", op, err)
	}
	var inv invocation
	if err := json.Unmarshal(raw, &inv); err != nil {
		return nil, fmt.Errorf("%s: decode arguments: %w", op, err)
	}
	if len(inv.Payload) == 0 || string(inv.Payload) == "null" {
		return nil, fmt.Errorf("%s: missing payload argument", op)
	}

	callID := uuid.New()
	start := time.Now()
	logging.Debugf("invoke %s [%s]", op, callID)

	out, err := h(ctx, inv.Payload)
	if err != nil {
		logging.Debugf("invoke %s [%s] failed after %s: %v", op, callID, time.Since(start), err)
		return nil, err
	}

	res, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("%s: encode result: %w", op, err)
	}
	logging.Debugf("invoke %s [%s] done in %s", op, callID, time.Since(start))
	return res, nil
}

// Args builds the argument envelope for a payload.
func Args(payload any) map[string]any {
	return map[string]any{"payload": payload}
}
