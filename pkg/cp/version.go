package cp

import (
	"fmt"
	"runtime"

	"github.com/blang/semver/v4"
)

// Version is the release of this package.
const Version = "0.1.0"

var version = semver.MustParse(Version)

// VersionInfo provides detailed version information.
type VersionInfo struct {
	Version   string `json:"version" yaml:"version"`
	GoVersion string `json:"go_version" yaml:"go_version"`
	GitCommit string `json:"git_commit,omitempty" yaml:"git_commit,omitempty"`
	BuildDate string `json:"build_date,omitempty" yaml:"build_date,omitempty"`
}

// GetVersion returns the current version string.
func GetVersion() string {
	return Version
}

// GetVersionInfo returns detailed version information.
func GetVersionInfo() VersionInfo {
	return VersionInfo{
		Version:   version.String(),
		GoVersion: runtime.Version(),
	}
}

// CompatibleWith reports whether a model written against release want can
// run on this package: same major version and want not newer than Version.
func CompatibleWith(want string) (bool, error) {
	w, err := semver.ParseTolerant(want)
	if err != nil {
		return false, fmt.Errorf("version %q: %w", want, ErrInvalidArgument)
	}
	return w.Major == version.Major && w.LTE(version), nil
}
