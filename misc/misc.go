// Package misc holds build information.
package misc

import (
	"runtime/debug"
)

// Set by the linker.
var (
	version = "dev"
	gitHash = ""
)

const appName = "ucc"

// GetAppName returns the program name used for logs, reports and temporary
// files.
func GetAppName() string {
	return appName
}

// GetVersion returns the program version.
func GetVersion() string {
	return version
}

// GetGitHash returns the commit the program was built from, or the VCS
// revision recorded by the toolchain when it was not set at link time.
func GetGitHash() string {
	if gitHash != "" {
		return gitHash
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, s := range bi.Settings {
			if s.Key == "vcs.revision" {
				if len(s.Value) > 12 {
					return s.Value[:12]
				}
				return s.Value
			}
		}
	}
	return "unknown"
}
