package platform

import (
	"context"
	"runtime"
	"testing"
)

func TestDetect(t *testing.T) {
	detector := NewDetector()

	env, err := detector.Detect(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if env.OS != runtime.GOOS {
		t.Errorf("OS mismatch: got %s, want %s", env.OS, runtime.GOOS)
	}

	if env.ArchRaw != runtime.GOARCH {
		t.Errorf("ArchRaw mismatch: got %s, want %s", env.ArchRaw, runtime.GOARCH)
	}

	if env.Arch != "amd64" && env.Arch != "arm64" {
		t.Errorf("unexpected normalized arch: %s", env.Arch)
	}

	if env.NumCPU < 1 {
		t.Errorf("NumCPU must be at least 1, got %d", env.NumCPU)
	}
}

func TestDetectDeterministic(t *testing.T) {
	detector := NewDetector()

	first, err := detector.Detect(context.Background())
	if err != nil {
		t.Fatalf("first detect: %v", err)
	}

	second, err := detector.Detect(context.Background())
	if err != nil {
		t.Fatalf("second detect: %v", err)
	}

	if *first != *second {
		t.Errorf("detection not deterministic: %+v vs %+v", first, second)
	}
}

func TestNormalizeArch(t *testing.T) {
	tests := []struct {
		name    string
		arch    string
		want    string
		wantErr bool
	}{
		{name: "amd64", arch: "amd64", want: "amd64"},
		{name: "x86_64_alias", arch: "x86_64", want: "amd64"},
		{name: "arm64", arch: "arm64", want: "arm64"},
		{name: "aarch64_alias", arch: "aarch64", want: "arm64"},
		{name: "unsupported_386", arch: "386", wantErr: true},
		{name: "empty", arch: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := normalizeArch(tt.arch)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestTag(t *testing.T) {
	tests := []struct {
		name string
		env  Environment
		want string
	}{
		{name: "linux_amd64", env: Environment{OS: "linux", Arch: "amd64"}, want: "linux-x64"},
		{name: "darwin_arm64", env: Environment{OS: "darwin", Arch: "arm64"}, want: "mac-arm64"},
		{name: "windows_amd64", env: Environment{OS: "windows", Arch: "amd64"}, want: "win-x64"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.env.Tag(); got != tt.want {
				t.Errorf("Tag() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestExeSuffix(t *testing.T) {
	win := Environment{OS: "windows"}
	if win.ExeSuffix() != ".exe" {
		t.Errorf("windows suffix: got %q", win.ExeSuffix())
	}

	lin := Environment{OS: "linux"}
	if lin.ExeSuffix() != "" {
		t.Errorf("linux suffix: got %q", lin.ExeSuffix())
	}
}
