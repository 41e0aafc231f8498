package sevenzip

import (
	"errors"
	"fmt"
	"strings"
)

// Input validation and classification errors. Each aborts the whole
// conversion; no partial results are ever returned.
var (
	ErrEmptyInputPath   = errors.New("input path is empty")
	ErrInputNotFound    = errors.New("input archive not found")
	ErrNotSevenZip      = errors.New("input is not a .7z archive")
	ErrEncryptedArchive = errors.New("archive is password protected, which is not supported")
	ErrInvalidArchive   = errors.New("file cannot be opened as a 7z archive")
	ErrOutputMissing    = errors.New("packed archive not found on disk")
)

// ResolutionError means no candidate binary answered a version probe
// recognizably across all resolution tiers.
type ResolutionError struct {
	// Attempts records every candidate tried, in order.
	Attempts []string
	// LastOutput is the raw output of the last attempted candidate,
	// kept for diagnosis.
	LastOutput string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("no usable 7-Zip binary found (tried %s)",
		strings.Join(e.Attempts, ", "))
}

// ExtractError carries the raw tool output of a failed extraction.
// Hint is set when the failure matches a known broken binary/format
// combination and names a remediation.
type ExtractError struct {
	Output string
	Hint   string
}

func (e *ExtractError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("extraction failed: %s", e.Hint)
	}
	return fmt.Sprintf("extraction failed: %s", firstLines(e.Output, 4))
}

// PackError means all argument-compatibility tiers were exhausted
// without producing the zip.
type PackError struct {
	Tier   string
	Output string
}

func (e *PackError) Error() string {
	return fmt.Sprintf("packing failed at tier %q: %s", e.Tier, firstLines(e.Output, 4))
}

// firstLines trims tool output to its leading lines for error messages;
// the full output stays available on the error value.
func firstLines(s string, n int) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) <= n {
		return strings.TrimSpace(s)
	}
	return strings.Join(lines[:n], "\n") + " ..."
}
