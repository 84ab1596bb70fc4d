// Copyright (c) 2026 Keymaster Team
// Conntest - SSH connection tester
// This source code is licensed under the MIT license found in the LICENSE file.

// i18n-linter checks the translation files against the source: keys used
// through i18n.T must exist in the primary locale, every other locale must
// carry all primary keys, and primary keys nobody uses are reported.
package main

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	localesDir    = "internal/i18n/locales"
	primaryLocale = "en.yaml"
	projectRoot   = "."
)

// Location stores the file and line number of a found key.
type Location struct {
	Filepath string
	Line     int
}

// Report is the outcome of a lint run.
type Report struct {
	// Undefined keys are used in code but absent from the primary locale.
	Undefined map[string]Location
	// Missing maps a secondary locale file to the primary keys it lacks.
	Missing map[string][]string
	// Orphaned keys exist in the primary locale but are never used.
	Orphaned []string
}

// Failed reports whether the run found errors. Orphans are only warnings.
func (r Report) Failed() bool {
	if len(r.Undefined) > 0 {
		return true
	}
	for _, keys := range r.Missing {
		if len(keys) > 0 {
			return true
		}
	}
	return false
}

func main() {
	report, err := lint(projectRoot, localesDir)
	if err != nil {
		fmt.Printf("❌ %v\n", err)
		os.Exit(1)
	}
	printReport(os.Stdout, report)
	if report.Failed() {
		os.Exit(1)
	}
}

func lint(root, locales string) (Report, error) {
	used, err := findUsedKeys(root)
	if err != nil {
		return Report{}, fmt.Errorf("scan sources: %w", err)
	}
	primary, err := loadKeysFromLocale(filepath.Join(locales, primaryLocale))
	if err != nil {
		return Report{}, fmt.Errorf("load primary locale: %w", err)
	}

	report := Report{Undefined: map[string]Location{}, Missing: map[string][]string{}}
	for key, loc := range used {
		if _, ok := primary[key]; !ok {
			report.Undefined[key] = loc
		}
	}
	for key := range primary {
		if _, ok := used[key]; !ok {
			report.Orphaned = append(report.Orphaned, key)
		}
	}
	sort.Strings(report.Orphaned)

	files, err := filepath.Glob(filepath.Join(locales, "*.yaml"))
	if err != nil {
		return Report{}, err
	}
	for _, file := range files {
		if filepath.Base(file) == primaryLocale {
			continue
		}
		keys, err := loadKeysFromLocale(file)
		if err != nil {
			return Report{}, fmt.Errorf("load %s: %w", file, err)
		}
		var missing []string
		for key := range primary {
			if _, ok := keys[key]; !ok {
				missing = append(missing, key)
			}
		}
		sort.Strings(missing)
		report.Missing[filepath.Base(file)] = missing
	}
	return report, nil
}

func printReport(w io.Writer, r Report) {
	fmt.Fprintln(w, "--- Keys used in code but not defined ---")
	if len(r.Undefined) == 0 {
		fmt.Fprintln(w, "  ✨ None found.")
	}
	undefined := make([]string, 0, len(r.Undefined))
	for key := range r.Undefined {
		undefined = append(undefined, key)
	}
	sort.Strings(undefined)
	for _, key := range undefined {
		loc := r.Undefined[key]
		fmt.Fprintf(w, "  - Undefined: %s (%s:%d)\n", key, loc.Filepath, loc.Line)
	}

	fmt.Fprintln(w, "\n--- Missing translations ---")
	locales := make([]string, 0, len(r.Missing))
	for file := range r.Missing {
		locales = append(locales, file)
	}
	sort.Strings(locales)
	for _, file := range locales {
		if len(r.Missing[file]) == 0 {
			fmt.Fprintf(w, "  %s: ✨ all keys present\n", file)
			continue
		}
		for _, key := range r.Missing[file] {
			fmt.Fprintf(w, "  %s: missing %s\n", file, key)
		}
	}

	fmt.Fprintln(w, "\n--- Orphaned keys ---")
	if len(r.Orphaned) == 0 {
		fmt.Fprintln(w, "  ✨ None found.")
	}
	for _, key := range r.Orphaned {
		fmt.Fprintf(w, "  - Orphaned: %s\n", key)
	}
}

var usedKeyRe = regexp.MustCompile(`i18n\.T\("([^"]+)"`)

// findUsedKeys scans non-test .go files for i18n.T("key") calls and
// remembers the first place each key shows up.
func findUsedKeys(root string) (map[string]Location, error) {
	keys := map[string]Location{}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			switch d.Name() {
			case "tools", "_examples", ".git":
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
			return nil
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		for i, line := range strings.Split(string(content), "\n") {
			for _, m := range usedKeyRe.FindAllStringSubmatch(line, -1) {
				if _, seen := keys[m[1]]; !seen {
					keys[m[1]] = Location{Filepath: path, Line: i + 1}
				}
			}
		}
		return nil
	})
	return keys, err
}

// loadKeysFromLocale returns the message ids of a locale file. Nested maps
// are joined with dots the way go-i18n does.
func loadKeysFromLocale(path string) (map[string]struct{}, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m map[string]interface{}
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	keys := make(map[string]struct{})
	flattenYAML("", m, keys)
	return keys, nil
}

func flattenYAML(prefix string, m map[string]interface{}, keys map[string]struct{}) {
	for k, v := range m {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if nested, ok := v.(map[string]interface{}); ok {
			flattenYAML(key, nested, keys)
			continue
		}
		keys[key] = struct{}{}
	}
}
