// Copyright (c) 2026 Keymaster Team
// Conntest - SSH connection tester
// This source code is licensed under the MIT license found in the LICENSE file.
package conntest

import (
	"bytes"
	"encoding/json"

	"github.com/toeirei/conntest/internal/i18n"
	"github.com/toeirei/conntest/internal/model"
)

// RenderResult pretty-prints a result as 2-space indented JSON. Characters
// such as <, > and & are written as is.
func RenderResult(res model.ConnectionTestResult) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		// ConnectionTestResult only holds a bool and a string.
		return res.Message
	}
	return string(bytes.TrimSuffix(buf.Bytes(), []byte("\n")))
}

// RenderError is the error block for a failed call.
func RenderError(errText string) string {
	return i18n.T("screen.error_prefix") + errText
}

// RenderBody returns the unstyled body for a state: the placeholder while
// pending, the result JSON on success or the error block on failure.
func RenderBody(state State, res model.ConnectionTestResult, errText string) string {
	switch state {
	case StateSucceeded:
		return RenderResult(res)
	case StateFailed:
		return RenderError(errText)
	default:
		return i18n.T("screen.testing")
	}
}

// Heading is the screen title.
func Heading() string {
	return i18n.T("screen.title")
}
