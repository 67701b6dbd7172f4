// Package build holds build metadata and the daemon's logging setup.
package build

import (
	"fmt"
	"runtime/debug"
	"strings"
)

const (
	appMajor uint = 0
	appMinor uint = 3
	appPatch uint = 0

	// appPreRelease is appended to the semantic version when non-empty.
	appPreRelease = "beta"
)

var (
	// Commit is set at link time with -ldflags "-X ...build.Commit=...".
	Commit string

	// RawTags is a comma separated list of build tags, set at link time.
	RawTags string

	// CommitHash and GoVersion are filled from the embedded module build
	// info when available.
	CommitHash string
	GoVersion  string
)

func init() {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}

	GoVersion = info.GoVersion
	for _, setting := range info.Settings {
		if setting.Key == "vcs.revision" {
			CommitHash = setting.Value
		}
	}
}

// Version returns the semantic version of the application.
func Version() string {
	version := fmt.Sprintf("%d.%d.%d", appMajor, appMinor, appPatch)
	if appPreRelease != "" {
		version += "-" + appPreRelease
	}

	return version
}

// Tags returns the build tags the binary was built with.
func Tags() []string {
	if RawTags == "" {
		return nil
	}

	return strings.Split(RawTags, ",")
}

// UserAgent returns the User-Agent sent to upstream services.
func UserAgent(component string) string {
	return fmt.Sprintf("pushclash-%s/%s", component, Version())
}
