package sevenzip

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"

	"github.com/pale-iron/rezip/internal/executil"
	"github.com/pale-iron/rezip/internal/platform"
)

// CandidateSource identifies the resolution tier a binary came from.
type CandidateSource string

const (
	SourceExplicitOverride CandidateSource = "explicit-override"
	SourceKnownDirectory   CandidateSource = "known-directory"
	SourceSearchPath       CandidateSource = "search-path"
	SourceEmbeddedFallback CandidateSource = "embedded-fallback"
)

// Selection is the outcome of binary resolution.
type Selection struct {
	Binary        string
	Source        CandidateSource
	VersionOutput string
	Version       string // parsed semantic-ish version, may be empty
}

var (
	// reProductSignature accepts a candidate whose version output names
	// the product. Matches "7-Zip", "7-Zip (z)", "p7zip" banners.
	reProductSignature = regexp.MustCompile(`(?i)7-zip|p7zip`)
	reToolVersion      = regexp.MustCompile(`\d+\.\d+(?:\.\d+)?`)
)

// Resolver locates a usable 7-Zip binary. Resolution caches nothing
// between conversions: each call repeats the tiers, trading a small
// repeated cost for tolerance of environment changes.
type Resolver struct {
	opts   Options
	env    *platform.Environment
	runner executil.Runner
	log    Logger
}

// NewResolver creates a resolver for the given environment.
func NewResolver(opts Options, env *platform.Environment, runner executil.Runner, log Logger) *Resolver {
	if log == nil {
		log = defaultLogger()
	}
	return &Resolver{opts: opts, env: env, runner: runner, log: log}
}

// resolveTier is one resolution strategy. Tiers are attempted in order;
// the first candidate that validates wins. A tier with unconditional set
// accepts its candidate even without a recognizable version signature.
type resolveTier struct {
	source        CandidateSource
	candidates    func(ctx context.Context) []string
	unconditional bool
}

// Resolve walks the resolution tiers and returns the first candidate
// that answers a version query recognizably. Launch failures (binary
// missing, wrong CPU architecture, not executable) never abort
// resolution early; the candidate is skipped and the walk continues.
func (r *Resolver) Resolve(ctx context.Context) (*Selection, error) {
	tiers := []resolveTier{
		{source: SourceExplicitOverride, candidates: r.overrideCandidates},
		{source: SourceKnownDirectory, candidates: r.directoryCandidates},
		{source: SourceSearchPath, candidates: r.pathCandidates},
		{source: SourceEmbeddedFallback, candidates: r.fallbackCandidates, unconditional: true},
	}

	var attempts []string
	var lastOutput string

	for _, tier := range tiers {
		for _, candidate := range tier.candidates(ctx) {
			attempts = append(attempts, candidate)

			out, ok := r.validate(ctx, candidate)
			if out != "" {
				lastOutput = out
			}
			if !ok && !tier.unconditional {
				r.log.Debug("candidate rejected", "binary", candidate, "tier", tier.source)
				continue
			}

			sel := &Selection{
				Binary:        candidate,
				Source:        tier.source,
				VersionOutput: out,
				Version:       reToolVersion.FindString(out),
			}
			r.log.Debug("binary resolved",
				"binary", sel.Binary, "tier", sel.Source, "version", sel.Version)
			return sel, nil
		}
	}

	return nil, &ResolutionError{Attempts: attempts, LastOutput: lastOutput}
}

// validate invokes the candidate with a bare version query and matches
// the combined output against the product signature. A launch failure
// is a failed candidate, not an error.
func (r *Resolver) validate(ctx context.Context, bin string) (string, bool) {
	res, err := r.runner.Run(ctx, bin, nil, executil.Options{})
	if err != nil {
		return "", false
	}
	return res.Output, reProductSignature.MatchString(res.Output)
}

// overrideCandidates yields the explicit single-path override, if any.
func (r *Resolver) overrideCandidates(ctx context.Context) []string {
	if r.opts.BinaryPath == "" {
		return nil
	}
	return []string{r.opts.BinaryPath}
}

// directoryCandidates searches the ordered candidate names across the
// override directory and conventional install directories. Each match is
// made executable before being probed.
func (r *Resolver) directoryCandidates(ctx context.Context) []string {
	var found []string
	for _, dir := range r.knownDirectories() {
		for _, name := range candidateNames(r.env) {
			path := filepath.Join(dir, name)
			info, err := os.Stat(path)
			if err != nil || !info.Mode().IsRegular() {
				continue
			}
			if err := setExecutable(path); err != nil {
				r.log.Debug("cannot mark candidate executable", "binary", path, "error", err)
				continue
			}
			found = append(found, path)
		}
	}
	return found
}

// pathCandidates resolves the candidate names against the process's
// command search path, no directory prefix.
func (r *Resolver) pathCandidates(ctx context.Context) []string {
	var found []string
	for _, name := range candidateNames(r.env) {
		if path, err := exec.LookPath(name); err == nil {
			found = append(found, path)
		}
	}
	return found
}

// fallbackCandidates installs the embedded binary, when one is bundled
// for this platform, and offers it as the last resort.
func (r *Resolver) fallbackCandidates(ctx context.Context) []string {
	path, err := installFallback(r.env, r.log)
	if err != nil {
		r.log.Debug("embedded fallback unavailable", "error", err)
		return nil
	}
	return []string{path}
}

// knownDirectories returns the ordered directory list for the directory
// tier: the explicit override directory first, then the directory of the
// running executable, then conventional install locations.
func (r *Resolver) knownDirectories() []string {
	var dirs []string
	if r.opts.BinaryDir != "" {
		dirs = append(dirs, r.opts.BinaryDir)
	}
	if exe, err := os.Executable(); err == nil {
		dirs = append(dirs, filepath.Dir(exe))
	}

	switch r.env.OS {
	case "windows":
		dirs = append(dirs,
			filepath.Join(os.Getenv("ProgramFiles"), "7-Zip"),
			filepath.Join(os.Getenv("ProgramFiles(x86)"), "7-Zip"),
		)
	case "darwin":
		dirs = append(dirs, "/opt/homebrew/bin", "/usr/local/bin")
	default:
		if home, err := os.UserHomeDir(); err == nil {
			dirs = append(dirs, filepath.Join(home, ".local", "bin"))
		}
		dirs = append(dirs, "/usr/local/bin", "/usr/bin")
	}
	return dirs
}

// candidateNames returns the ordered binary names to try:
// platform-and-architecture-qualified names first, generic names second.
func candidateNames(env *platform.Environment) []string {
	suffix := env.ExeSuffix()

	names := []string{
		"7zz-" + env.Tag() + suffix,
		"7za-" + env.Tag() + suffix,
	}

	generic := []string{"7zz", "7za", "7z"}
	if env.IsLinux() {
		// 7zzs is the statically linked build shipped for Linux.
		generic = append([]string{"7zzs"}, generic...)
	}
	for _, g := range generic {
		names = append(names, g+suffix)
	}
	return names
}

// setExecutable sets executable permissions on a file.
func setExecutable(path string) error {
	return os.Chmod(path, 0755)
}
