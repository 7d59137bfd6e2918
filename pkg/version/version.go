// SPDX-FileCopyrightText: 2025 Deutsche Telekom AG
//
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"fmt"
	"runtime"
	"time"
)

// Name is the product name reported in the X-Mailer header and by the version command.
const Name = "alarmctl"

var (
	// Version is the semantic version, injected at build time via -ldflags
	Version = "dev"
	// GitCommit is the git commit hash, injected at build time
	GitCommit = "unknown"
	// BuildDate is the build timestamp, injected at build time
	BuildDate = "unknown"
	// GoVersion is the Go compiler version
	GoVersion = runtime.Version()
	// Platform is the OS/Arch
	Platform = runtime.GOOS + "/" + runtime.GOARCH
)

// BuildInfo contains metadata about the build
type BuildInfo struct {
	Version   string    `json:"version" yaml:"version"`
	GitCommit string    `json:"gitCommit" yaml:"gitCommit"`
	BuildDate string    `json:"buildDate" yaml:"buildDate"`
	GoVersion string    `json:"goVersion" yaml:"goVersion"`
	Platform  string    `json:"platform" yaml:"platform"`
	BuildTime time.Time `json:"buildTime,omitempty" yaml:"buildTime,omitempty"`
}

// GetBuildInfo returns build metadata
func GetBuildInfo() BuildInfo {
	info := BuildInfo{
		Version:   Version,
		GitCommit: GitCommit,
		BuildDate: BuildDate,
		GoVersion: GoVersion,
		Platform:  Platform,
	}

	if t, err := time.Parse(time.RFC3339, BuildDate); err == nil {
		info.BuildTime = t
	}

	return info
}

// String renders the one-line form printed by `alarmctl version`.
func (b BuildInfo) String() string {
	return fmt.Sprintf("%s %s (commit: %s, built: %s)", Name, b.Version, b.GitCommit, b.BuildDate)
}

// Mailer returns the X-Mailer header value, e.g. "alarmctl/1.2.0".
func Mailer() string {
	return Name + "/" + Version
}
