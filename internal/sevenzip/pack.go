package sevenzip

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/pale-iron/rezip/internal/executil"
	"github.com/pale-iron/rezip/internal/platform"
)

// emptyPlaceholder is the file packed into an otherwise empty archive so
// the tool agrees to create a container at all; it is deleted from the
// archive immediately afterwards.
const emptyPlaceholder = ".rezip-empty"

// reArgRejected matches the ways different binary vintages complain
// about switches they do not know.
var reArgRejected = regexp.MustCompile(`(?i)unsupported switch|incorrect command line|invalid argument`)

// packTier is one argument-compatibility tier: a candidate switch set
// plus the predicate deciding whether a failure at this tier should fall
// through to the next, more conservative one. Any failure the predicate
// does not claim is fatal.
type packTier struct {
	name     string
	switches func(env *platform.Environment) []string
	advance  func(output string) bool
}

// packTiers is ordered from most-featured to most-conservative.
var packTiers = []packTier{
	{
		name: "full",
		switches: func(env *platform.Environment) []string {
			return []string{
				"-mx=9",
				"-mmt=" + strconv.Itoa(env.NumCPU),
				"-mtm=on", "-mtc=on", "-mta=on",
			}
		},
		advance: func(output string) bool {
			return reArgRejected.MatchString(output)
		},
	},
	{
		name: "no-timestamps",
		switches: func(env *platform.Environment) []string {
			return []string{"-mx=9", "-mmt=" + strconv.Itoa(env.NumCPU)}
		},
		advance: func(output string) bool {
			return reArgRejected.MatchString(output) &&
				strings.Contains(strings.ToLower(output), "mmt")
		},
	},
	{
		name: "single-thread",
		switches: func(env *platform.Environment) []string {
			return []string{"-mx=9"}
		},
	},
}

// Pack builds outZip from the explicit entry list, running the tool in
// workDir so the relative entry paths resolve. outZip must be absolute.
//
// The tiers accommodate binaries of different capability: timestamp
// preservation is dropped first, multi-threading second. Tier fallback
// is compatibility negotiation, not retry; each tier runs at most once.
func Pack(ctx context.Context, r executil.Runner, env *platform.Environment,
	bin, outZip string, entries []string, workDir string, log Logger) error {

	placeholder := false
	if len(entries) == 0 {
		if err := os.WriteFile(filepath.Join(workDir, emptyPlaceholder), nil, 0644); err != nil {
			return fmt.Errorf("write placeholder: %w", err)
		}
		entries = []string{emptyPlaceholder}
		placeholder = true
	}

	packed := false
	for i, tier := range packTiers {
		args := append([]string{"a", "-tzip"}, tier.switches(env)...)
		args = append(args, outZip)
		args = append(args, entries...)

		res, err := r.Run(ctx, bin, args, executil.Options{Dir: workDir})
		if err != nil {
			return fmt.Errorf("run pack: %w", err)
		}
		if res.ExitCode == 0 {
			log.Debug("packed", "tier", tier.name, "entries", len(entries))
			packed = true
			break
		}

		if i < len(packTiers)-1 && tier.advance != nil && tier.advance(res.Output) {
			log.Debug("pack tier rejected by binary, falling back",
				"tier", tier.name, "next", packTiers[i+1].name)
			continue
		}
		return &PackError{Tier: tier.name, Output: res.Output}
	}
	if !packed {
		// Unreachable while the last tier has no advance predicate;
		// kept so a tier-table edit cannot silently skip the error.
		return &PackError{Tier: packTiers[len(packTiers)-1].name}
	}

	if placeholder {
		// Remove the placeholder inside the freshly created archive.
		// Deletion failures are ignored: some vintages return non-zero
		// when the archive ends up empty, which is exactly what we want.
		if _, err := r.Run(ctx, bin, []string{"d", outZip, emptyPlaceholder}, executil.Options{Dir: workDir}); err != nil {
			return fmt.Errorf("run placeholder delete: %w", err)
		}
	}

	return nil
}
