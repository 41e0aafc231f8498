package platform

import (
	"context"
	"fmt"
	"runtime"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/host"
)

// RealDetector implements Detector using actual host inspection.
type RealDetector struct{}

// NewDetector creates a new environment detector.
func NewDetector() Detector {
	return &RealDetector{}
}

// Detect inspects the host and returns an Environment value.
// It uses runtime.GOOS and runtime.GOARCH for OS and architecture,
// gopsutil for the logical CPU count and Linux distribution details.
//
// CPU and distro detection failures fall back gracefully: the CPU count
// falls back to runtime.NumCPU and the Variant field stays empty. Only
// an unsupported architecture is a hard failure.
func (d *RealDetector) Detect(ctx context.Context) (*Environment, error) {
	env := &Environment{
		OS:      runtime.GOOS,
		ArchRaw: runtime.GOARCH,
	}

	arch, err := normalizeArch(runtime.GOARCH)
	if err != nil {
		return nil, fmt.Errorf("environment detection failed: %w", err)
	}
	env.Arch = arch

	// Logical CPU count drives the packer's -mmt switch.
	count, err := cpu.CountsWithContext(ctx, true)
	if err != nil || count < 1 {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("environment detection cancelled: %w", ctx.Err())
		}
		count = runtime.NumCPU()
	}
	if count < 1 {
		count = 1
	}
	env.NumCPU = count

	// Distro detail is only used in debug logs; failures are ignored.
	if runtime.GOOS == "linux" {
		name, _, version, err := host.PlatformInformationWithContext(ctx)
		if err == nil && name != "" {
			env.Variant = name
			if version != "" {
				env.Variant = name + " " + version
			}
		}
	}

	return env, nil
}
