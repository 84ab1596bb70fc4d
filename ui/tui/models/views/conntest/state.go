// Copyright (c) 2026 Keymaster Team
// Conntest - SSH connection tester
// This source code is licensed under the MIT license found in the LICENSE file.
package conntest

import (
	"sync/atomic"

	"github.com/toeirei/conntest/internal/model"
)

type State int

const (
	StatePending State = iota
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

var mountSeq atomic.Uint64

// mount identifies one mount of the screen. The in-flight call holds the same
// pointer, so cancelling it is visible to the call's outcome message.
type mount struct {
	id        uint64
	cancelled atomic.Bool
}

func newMount() *mount {
	return &mount{id: mountSeq.Add(1)}
}

func (m *mount) active() bool {
	return m != nil && !m.cancelled.Load()
}

// resultMsg carries the outcome of the call started by mount.
type resultMsg struct {
	mount  *mount
	result model.ConnectionTestResult
	err    error
}

type copiedMsg struct {
	err error
}
