package sevenzip

import (
	"context"
	"fmt"
	"regexp"

	"github.com/pale-iron/rezip/internal/executil"
)

var (
	// reFatalExtract matches the hard COM-style failure p7zip reports
	// when it cannot decode an archive at all.
	reFatalExtract = regexp.MustCompile(`(?i)\bE_FAIL\b`)

	// reBrokenLegacyBuild matches the banner of the long-unmaintained
	// p7zip 16.x line, which cannot decode archives produced with newer
	// 7z compression methods.
	reBrokenLegacyBuild = regexp.MustCompile(`(?i)p7zip version 16`)
)

const legacyBuildHint = "the resolved binary is a p7zip 16.x build that cannot decode " +
	"archives using newer 7z methods; install the official 7zz binary (7-Zip 21.07 " +
	"or later) or point " + EnvBinary + " at one"

// Extract unpacks the archive into outDir, overwriting existing files.
// When the failure signature and the resolved binary's version output
// both match the known-broken legacy combination, the returned error
// names the incompatibility and a remediation.
func Extract(ctx context.Context, r executil.Runner, sel *Selection, file, outDir string) error {
	res, err := r.Run(ctx, sel.Binary, []string{"x", file, "-o" + outDir, "-y"}, executil.Options{})
	if err != nil {
		return fmt.Errorf("run extract: %w", err)
	}
	if res.ExitCode == 0 {
		return nil
	}

	if reFatalExtract.MatchString(res.Output) && reBrokenLegacyBuild.MatchString(sel.VersionOutput) {
		return &ExtractError{Output: res.Output, Hint: legacyBuildHint}
	}
	return &ExtractError{Output: res.Output}
}
