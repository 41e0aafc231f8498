package platform

import "fmt"

// normalizeArch converts GOARCH values to normalized architecture names.
// Only amd64 and arm64 hosts are supported.
func normalizeArch(arch string) (string, error) {
	switch arch {
	case "amd64", "x86_64":
		return "amd64", nil
	case "arm64", "aarch64":
		return "arm64", nil
	default:
		return "", fmt.Errorf("unsupported architecture: %s (amd64 and arm64 only)", arch)
	}
}

// osTag maps GOOS values to the qualifier used in distributed 7-Zip
// binary names.
func osTag(goos string) string {
	switch goos {
	case "darwin":
		return "mac"
	case "windows":
		return "win"
	default:
		return goos
	}
}

// archTag maps normalized architectures to the qualifier used in
// distributed 7-Zip binary names.
func archTag(arch string) string {
	switch arch {
	case "amd64":
		return "x64"
	default:
		return arch
	}
}
