package sevenzip

import (
	"context"

	"github.com/pale-iron/rezip/internal/executil"
)

// Counts reports the file and folder totals of a produced archive.
type Counts struct {
	Files   int
	Folders int
}

// Verify re-lists the produced zip and reports its summary counts as a
// sanity check, defaulting to zero when the tool omits them. It confirms
// the output is a well-formed archive; it deliberately does not
// cross-check the counts against the original archive.
func Verify(ctx context.Context, r executil.Runner, bin, zipPath string) (Counts, error) {
	res, err := r.Run(ctx, bin, []string{"l", "-slt", zipPath}, executil.Options{})
	if err != nil {
		return Counts{}, err
	}

	listing := ParseListing(res.ExitCode, res.Output)
	return Counts{Files: listing.FileCount, Folders: listing.FolderCount}, nil
}
