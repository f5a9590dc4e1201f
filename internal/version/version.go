// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package version provides build-time version information.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Set at build time using ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Build describes the running binary. It is served by the HTTP API and printed
// by the version command.
type Build struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
	Go      string `json:"go"`
}

func init() {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	fillFromBuildInfo(info)
}

// fillFromBuildInfo replaces the ldflags defaults with module and VCS data.
// Values set through ldflags are left alone.
func fillFromBuildInfo(info *debug.BuildInfo) {
	if Version == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		Version = info.Main.Version
	}
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			if Commit == "none" && len(setting.Value) >= 7 {
				Commit = setting.Value[:7]
			}
		case "vcs.time":
			if Date == "unknown" {
				Date = setting.Value
			}
		}
	}
}

// Current returns the build information of the running binary.
func Current() Build {
	return Build{Version: Version, Commit: Commit, Date: Date, Go: runtime.Version()}
}

// String formats b for the version command.
func (b Build) String() string {
	return fmt.Sprintf("formgen version %s (commit: %s, built: %s, go: %s)", b.Version, b.Commit, b.Date, b.Go)
}

// Info returns formatted version information.
func Info() string {
	return Current().String()
}

// Short returns just the version string.
func Short() string {
	return Version
}
