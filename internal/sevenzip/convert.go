package sevenzip

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/pale-iron/rezip/internal/executil"
	"github.com/pale-iron/rezip/internal/platform"
)

// sevenZipSignature is the 7z container magic (file header bytes).
var sevenZipSignature = []byte{0x37, 0x7A, 0xBC, 0xAF, 0x27, 0x1C}

// Converter orchestrates one 7z to zip conversion: binary resolution,
// probing, extraction, entry listing, packing and verification, with the
// temporary workspace removed on every exit path.
//
// A Converter holds no mutable state across calls; multiple conversions
// may run concurrently, each in its own isolated workspace.
type Converter struct {
	opts   Options
	env    *platform.Environment
	runner executil.Runner
	log    Logger
}

// NewConverter creates a converter, detecting the host environment once.
func NewConverter(ctx context.Context, opts Options) (*Converter, error) {
	env, err := platform.NewDetector().Detect(ctx)
	if err != nil {
		return nil, fmt.Errorf("detect environment: %w", err)
	}

	log := opts.Logger
	if log == nil {
		log = defaultLogger()
	}

	return &Converter{
		opts:   opts,
		env:    env,
		runner: executil.NewRunner(),
		log:    log,
	}, nil
}

// Convert turns the .7z archive at inputPath into a .zip archive and
// returns the output path. When outputPath is empty it defaults to the
// input path with its extension replaced; a supplied path without a
// .zip extension gets one appended.
//
// Any failure aborts the whole conversion; no partial results are
// returned and the temporary workspace is removed regardless.
func Convert(ctx context.Context, inputPath, outputPath string) (string, error) {
	c, err := NewConverter(ctx, OptionsFromEnv())
	if err != nil {
		return "", err
	}
	return c.Convert(ctx, inputPath, outputPath)
}

// Convert implements the conversion pipeline. See the package-level
// Convert for the contract.
func (c *Converter) Convert(ctx context.Context, inputPath, outputPath string) (string, error) {
	// Input validation happens before any subprocess is spawned.
	if err := validateInput(inputPath); err != nil {
		return "", err
	}

	sel, err := NewResolver(c.opts, c.env, c.runner, c.log).Resolve(ctx)
	if err != nil {
		return "", err
	}

	listing, err := Probe(ctx, c.runner, sel.Binary, inputPath)
	if err != nil {
		return "", fmt.Errorf("probe archive: %w", err)
	}
	c.log.Debug("probed input",
		"recognized", listing.RecognizedFormat, "encrypted", listing.Encrypted,
		"invalid", listing.LooksInvalid, "exit", listing.ExitCode,
		"files", listing.FileCount, "folders", listing.FolderCount)

	switch {
	case listing.Encrypted:
		return "", ErrEncryptedArchive
	case listing.LooksInvalid, !listing.RecognizedFormat, listing.ExitCode != 0:
		return "", fmt.Errorf("%w: %s", ErrInvalidArchive, firstLines(listing.Raw, 2))
	}

	outPath := computeOutputPath(inputPath, outputPath)
	absOut, err := filepath.Abs(outPath)
	if err != nil {
		return "", fmt.Errorf("resolve output path: %w", err)
	}

	// Fresh uniquely named temporary root, owned exclusively by this
	// conversion and removed on every exit path.
	workRoot := filepath.Join(os.TempDir(), "rezip-"+uuid.NewString())
	workDir := filepath.Join(workRoot, "extracted")
	if err := os.MkdirAll(workDir, 0700); err != nil {
		return "", fmt.Errorf("create workspace: %w", err)
	}
	defer os.RemoveAll(workRoot)

	if err := Extract(ctx, c.runner, sel, inputPath, workDir); err != nil {
		return "", err
	}

	entries, err := ListEntries(workDir)
	if err != nil {
		return "", err
	}
	c.log.Debug("listed entries", "count", len(entries))

	if err := Pack(ctx, c.runner, c.env, sel.Binary, absOut, entries, workDir, c.log); err != nil {
		return "", err
	}

	if _, err := os.Stat(absOut); err != nil {
		if os.IsNotExist(err) {
			return "", ErrOutputMissing
		}
		return "", fmt.Errorf("stat output: %w", err)
	}

	counts, err := Verify(ctx, c.runner, sel.Binary, absOut)
	if err != nil {
		return "", fmt.Errorf("verify output: %w", err)
	}
	c.log.Info("converted archive",
		"output", outPath, "files", counts.Files, "folders", counts.Folders)

	return outPath, nil
}

// validateInput rejects missing files, wrong extensions and obvious
// non-archives before any subprocess runs.
func validateInput(path string) error {
	if path == "" {
		return ErrEmptyInputPath
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrInputNotFound, path)
		}
		return fmt.Errorf("stat input: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", ErrNotSevenZip, path)
	}

	if !strings.EqualFold(filepath.Ext(path), ".7z") {
		return fmt.Errorf("%w: %s", ErrNotSevenZip, path)
	}

	ok, err := hasSevenZipSignature(path)
	if err != nil {
		return fmt.Errorf("read input header: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: missing 7z signature", ErrInvalidArchive)
	}

	return nil
}

// hasSevenZipSignature checks the file's leading magic bytes.
func hasSevenZipSignature(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	header := make([]byte, len(sevenZipSignature))
	if _, err := io.ReadFull(f, header); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			// Shorter than the magic: cannot be a 7z archive.
			return false, nil
		}
		return false, err
	}

	return bytes.Equal(header, sevenZipSignature), nil
}

// computeOutputPath derives the output path from the input when not
// supplied, or normalizes a supplied one to carry a .zip extension.
func computeOutputPath(inputPath, outputPath string) string {
	if outputPath == "" {
		return strings.TrimSuffix(inputPath, filepath.Ext(inputPath)) + ".zip"
	}
	if !strings.EqualFold(filepath.Ext(outputPath), ".zip") {
		return outputPath + ".zip"
	}
	return outputPath
}
