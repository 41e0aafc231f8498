// Package platform provides one-shot detection of the host environment
// for rezip's binary resolution and archive packing.
//
// Detection runs once per conversion and the resulting Environment value
// is passed explicitly to the components that need it. It uses gopsutil
// for Linux distribution details and logical CPU counting, with graceful
// fallback behavior when detection fails.
package platform

import "context"

// Environment contains immutable host information detected at startup.
type Environment struct {
	OS      string // "linux", "darwin", "windows"
	Arch    string // "amd64", "arm64" (normalized)
	ArchRaw string // original GOARCH
	NumCPU  int    // logical CPU count, always >= 1
	Variant string // distro detail (Linux only, e.g. "ubuntu 22.04"), may be empty
}

// ExeSuffix returns the executable file suffix for the platform.
func (e *Environment) ExeSuffix() string {
	if e.OS == "windows" {
		return ".exe"
	}
	return ""
}

// Tag returns the platform qualifier used in platform-specific binary
// names, e.g. "linux-x64" or "mac-arm64".
func (e *Environment) Tag() string {
	return osTag(e.OS) + "-" + archTag(e.Arch)
}

// IsWindows returns true if the platform is Windows.
func (e *Environment) IsWindows() bool {
	return e.OS == "windows"
}

// IsLinux returns true if the platform is Linux.
func (e *Environment) IsLinux() bool {
	return e.OS == "linux"
}

// Detector is the interface for environment detection.
type Detector interface {
	Detect(ctx context.Context) (*Environment, error)
}
