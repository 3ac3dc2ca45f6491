package platform

import (
	"fmt"
	"runtime"
	"strconv"

	"github.com/hashicorp/go-version"
)

// Platform is the operating system launchers and scripts are written for.
type Platform struct {
	OS string `yaml:"os" json:"os"`
}

// CurrentPlatform returns the platform the process runs on.
func CurrentPlatform() Platform {
	return Platform{OS: runtime.GOOS}
}

// IsWindows reports whether launchers need the Windows layout.
func (p Platform) IsWindows() bool {
	return p.OS == OSWindows
}

// LineSeparator returns the line ending used when rewriting script headers.
func (p Platform) LineSeparator() string {
	if p.IsWindows() {
		return "\r\n"
	}
	return "\n"
}

// Interpreter is the Python executable installed scripts run under.
type Interpreter struct {
	Path    string `yaml:"path" json:"path"`
	Version string `yaml:"version" json:"version"`
}

// segments returns the major and minor version numbers.
func (i Interpreter) segments() (int, int, error) {
	v, err := version.NewVersion(i.Version)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid interpreter version %q: %w", i.Version, err)
	}
	seg := v.Segments()
	return seg[0], seg[1], nil
}

// Major returns the major version, e.g. "3".
func (i Interpreter) Major() (string, error) {
	major, _, err := i.segments()
	if err != nil {
		return "", err
	}
	return strconv.Itoa(major), nil
}

// MajorMinor returns the "major.minor" version, e.g. "3.11".
func (i Interpreter) MajorMinor() (string, error) {
	major, minor, err := i.segments()
	if err != nil {
		return "", err
	}
	return strconv.Itoa(major) + "." + strconv.Itoa(minor), nil
}
