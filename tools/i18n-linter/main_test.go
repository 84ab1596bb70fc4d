// Copyright (c) 2026 Keymaster Team
// Conntest - SSH connection tester
// This source code is licensed under the MIT license found in the LICENSE file.

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestLoadKeysFromLocale_FlatAndNested(t *testing.T) {
	p := filepath.Join(t.TempDir(), "en.yaml")
	writeFile(t, p, "\"screen.title\": \"Connection Test\"\nkeys:\n  quit: quit\n")
	keys, err := loadKeysFromLocale(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	for _, want := range []string{"screen.title", "keys.quit"} {
		if _, ok := keys[want]; !ok {
			t.Fatalf("expected key %s in %v", want, keys)
		}
	}
}

func TestLint(t *testing.T) {
	root := t.TempDir()
	locales := filepath.Join(root, "locales")
	writeFile(t, filepath.Join(root, "ui", "screen.go"), "package ui\nfunc f() {\n\t_ = i18n.T(\"screen.title\")\n\t_ = i18n.T(\"screen.gone\", 1)\n}\n")
	writeFile(t, filepath.Join(root, "ui", "screen_test.go"), "package ui\nvar _ = i18n.T(\"test.only\")\n")
	writeFile(t, filepath.Join(locales, "en.yaml"), "\"screen.title\": \"Connection Test\"\n\"screen.unused\": \"x\"\n")
	writeFile(t, filepath.Join(locales, "de.yaml"), "\"screen.title\": \"Verbindungstest\"\n")

	report, err := lint(root, locales)
	if err != nil {
		t.Fatalf("lint: %v", err)
	}
	if loc, ok := report.Undefined["screen.gone"]; !ok || loc.Line != 4 {
		t.Fatalf("expected screen.gone undefined at line 4, got %+v", report.Undefined)
	}
	if _, ok := report.Undefined["test.only"]; ok {
		t.Fatalf("test files must be ignored")
	}
	if got := report.Missing["de.yaml"]; len(got) != 1 || got[0] != "screen.unused" {
		t.Fatalf("unexpected missing keys %v", got)
	}
	if len(report.Orphaned) != 1 || report.Orphaned[0] != "screen.unused" {
		t.Fatalf("unexpected orphans %v", report.Orphaned)
	}
	if !report.Failed() {
		t.Fatalf("report with undefined keys must fail")
	}

	var buf bytes.Buffer
	printReport(&buf, report)
	if !strings.Contains(buf.String(), "Undefined: screen.gone") || !strings.Contains(buf.String(), "de.yaml: missing screen.unused") {
		t.Fatalf("unexpected report:\n%s", buf.String())
	}
}

func TestReport_OrphansOnlyWarn(t *testing.T) {
	r := Report{Orphaned: []string{"a.b"}, Missing: map[string][]string{"de.yaml": nil}}
	if r.Failed() {
		t.Fatalf("orphans alone must not fail")
	}
}
