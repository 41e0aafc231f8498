package sevenzip

import (
	"bufio"
	"bytes"
	"crypto/sha256"
	"embed"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ProtonMail/go-crypto/openpgp" //nolint:staticcheck // Using ProtonMail's maintained fork
	"github.com/google/uuid"

	"github.com/pale-iron/rezip/internal/platform"
)

// Bundled fallback binaries and their verification material, embedded at
// compile time. The build places a platform-qualified binary (for example
// assets/7zz-linux-x64) plus an optional armored detached signature
// (<name>.asc with assets/signing-key.asc) or a checksums.txt file.
//
//go:embed assets
var embeddedAssets embed.FS

// ErrNoEmbeddedBinary means no fallback was bundled for this platform.
var ErrNoEmbeddedBinary = errors.New("no embedded fallback binary for this platform")

// installFallback writes the embedded fallback binary for the current
// platform into the user cache and returns its path. The payload is
// verified against its bundled signature or checksum before installation.
func installFallback(env *platform.Environment, log Logger) (string, error) {
	name := "7zz-" + env.Tag() + env.ExeSuffix()

	payload, err := embeddedAssets.ReadFile("assets/" + name)
	if err != nil {
		return "", ErrNoEmbeddedBinary
	}

	if err := verifyEmbedded(name, payload, log); err != nil {
		return "", fmt.Errorf("verify embedded binary: %w", err)
	}

	dir, err := fallbackInstallDir()
	if err != nil {
		return "", fmt.Errorf("fallback install dir: %w", err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create fallback dir: %w", err)
	}

	// Write-then-rename so a concurrent conversion never observes a
	// half-written binary.
	dest := filepath.Join(dir, name)
	tmp := dest + "." + uuid.NewString() + ".tmp"
	if err := os.WriteFile(tmp, payload, 0755); err != nil {
		return "", fmt.Errorf("write fallback binary: %w", err)
	}
	if err := os.Rename(tmp, dest); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("install fallback binary: %w", err)
	}

	return dest, nil
}

func fallbackInstallDir() (string, error) {
	cache, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "rezip-bin"), nil
	}
	return filepath.Join(cache, "rezip", "bin"), nil
}

// verifyEmbedded checks the payload against whatever verification
// material was bundled: a detached GPG signature when present, a SHA256
// checksum file otherwise. A bundle without either installs unverified.
func verifyEmbedded(name string, payload []byte, log Logger) error {
	sig, sigErr := embeddedAssets.ReadFile("assets/" + name + ".asc")
	keyring, keyErr := embeddedAssets.ReadFile("assets/signing-key.asc")
	if sigErr == nil && keyErr == nil {
		return verifyDetachedSignature(payload, sig, keyring)
	}

	sums, err := embeddedAssets.ReadFile("assets/checksums.txt")
	if err == nil {
		return verifyChecksum(name, payload, sums)
	}

	log.Debug("embedded fallback ships without verification material", "binary", name)
	return nil
}

// verifyDetachedSignature verifies payload against an armored detached
// signature using the bundled keyring.
func verifyDetachedSignature(payload, sig, keyring []byte) error {
	ring, err := openpgp.ReadArmoredKeyRing(bytes.NewReader(keyring))
	if err != nil {
		ring, err = openpgp.ReadKeyRing(bytes.NewReader(keyring))
		if err != nil {
			return fmt.Errorf("read keyring: %w", err)
		}
	}
	if len(ring) == 0 {
		return errors.New("keyring is empty")
	}

	_, err = openpgp.CheckArmoredDetachedSignature(ring, bytes.NewReader(payload), bytes.NewReader(sig), nil)
	if err != nil {
		_, err = openpgp.CheckDetachedSignature(ring, bytes.NewReader(payload), bytes.NewReader(sig), nil)
	}
	if err != nil {
		return fmt.Errorf("verify signature: %w", err)
	}
	return nil
}

// verifyChecksum compares the payload's SHA256 against the entry for
// name in a "checksum  filename" formatted file.
func verifyChecksum(name string, payload, sums []byte) error {
	digest := sha256.Sum256(payload)
	actual := hex.EncodeToString(digest[:])

	expected, err := findChecksum(sums, name)
	if err != nil {
		return err
	}

	if !strings.EqualFold(actual, expected) {
		return fmt.Errorf("checksum mismatch for %s:\nactual:   %s\nexpected: %s",
			name, actual, expected)
	}
	return nil
}

// findChecksum finds the checksum for a specific filename in checksum
// file contents. Format: "abc123def456  filename".
func findChecksum(sums []byte, filename string) (string, error) {
	scanner := bufio.NewScanner(bytes.NewReader(sums))
	for scanner.Scan() {
		parts := strings.Fields(scanner.Text())
		if len(parts) < 2 {
			continue
		}
		if parts[1] == filename || filepath.Base(parts[1]) == filename {
			return parts[0], nil
		}
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("scan checksum file: %w", err)
	}
	return "", fmt.Errorf("checksum not found for %s", filename)
}
