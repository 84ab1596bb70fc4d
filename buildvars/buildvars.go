// Copyright (c) 2026 Keymaster Team
// Conntest - SSH connection tester
// This source code is licensed under the MIT license found in the LICENSE file.

// Package buildvars holds values injected with -ldflags -X at link time.
package buildvars

import (
	"runtime/debug"
)

const modulePath = "github.com/toeirei/conntest"

// Version is set via `-ldflags -X github.com/toeirei/conntest/buildvars.Version=...`.
// It will be empty for local or development builds.
var Version string

// Commit and Date are set the same way: short commit SHA and RFC3339 build time.
var (
	Commit string
	Date   string
)

// VersionOrDefault returns `Version` if set, otherwise returns the provided default.
func VersionOrDefault(def string) string {
	if len(Version) > 0 {
		return Version
	}
	return def
}

// Resolve computes the best-available version, commit and build date. If
// info is nil, build info is read from the runtime.
func Resolve(info *debug.BuildInfo) (version, commit, date string) {
	version, commit, date = VersionOrDefault("dev"), Commit, Date

	if info == nil {
		if local, ok := debug.ReadBuildInfo(); ok {
			info = local
		}
	}
	if info == nil {
		return version, commit, date
	}

	if version == "dev" {
		if info.Main.Version != "" && info.Main.Version != "(devel)" {
			version = info.Main.Version
		} else {
			// built as a dependency of another module
			for _, dep := range info.Deps {
				if dep.Path == modulePath && dep.Version != "" {
					version = dep.Version
					break
				}
			}
		}
	}

	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			if commit == "" && s.Value != "" {
				commit = s.Value
			}
		case "vcs.time":
			if date == "" && s.Value != "" {
				date = s.Value
			}
		}
	}
	return version, commit, date
}

// Summary joins the resolved values into a single line.
func Summary(info *debug.BuildInfo) string {
	v, c, d := Resolve(info)
	out := v
	if c != "" {
		if len(c) > 7 {
			c = c[:7]
		}
		out += " (" + c + ")"
	}
	if d != "" {
		out += " built: " + d
	}
	return out
}
