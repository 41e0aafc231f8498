package sevenzip

import (
	"context"
	"regexp"
	"strconv"

	"github.com/pale-iron/rezip/internal/executil"
)

// Listing is the classified result of running a verbose listing command
// against an archive. It is derived purely from the captured output and
// never mutated after creation.
type Listing struct {
	ExitCode int
	Raw      string

	RecognizedFormat bool // explicit "Type = 7z" marker present
	LooksInvalid     bool
	Encrypted        bool

	FileCount      int
	HasFileCount   bool
	FolderCount    int
	HasFolderCount bool
}

// Classification patterns for free-text 7-Zip output. The tool's wording
// shifted across vintages ("Can not" vs "Cannot"), so the patterns are
// deliberately loose.
var (
	reWrongPassword   = regexp.MustCompile(`(?i)wrong password`)
	reEnterPassword   = regexp.MustCompile(`(?i)enter password`)
	reEncryptedProp   = regexp.MustCompile(`(?m)^Encrypted = \+`)
	reHeaderDataError = regexp.MustCompile(`(?i)headers? error|data error`)
	rePasswordWord    = regexp.MustCompile(`(?i)password|encrypt`)
	reCannotOpenEnc   = regexp.MustCompile(`(?i)can ?not open encrypted archive`)
	reCannotOpenArc   = regexp.MustCompile(`(?i)can ?not open (?:the )?file as (?:\[7z\] )?archive`)
	reTypeSevenZip    = regexp.MustCompile(`(?m)^Type = 7z\s*$`)
	reErrorCount      = regexp.MustCompile(`(?mi)^(?:sub items )?errors: *([0-9]+)`)
	reWarningCount    = regexp.MustCompile(`(?mi)^warnings: *([0-9]+)`)
	reFileCount       = regexp.MustCompile(`(?m)^Files = ([0-9]+)`)
	reFolderCount     = regexp.MustCompile(`(?m)^Folders = ([0-9]+)`)
)

// ParseListing classifies raw listing output. It is a pure function so
// the classification rules are testable without any subprocess.
//
// Encryption is checked independently of, and takes precedence over,
// generic invalidity: an encrypted archive often also fails to open and
// would otherwise be misreported as corrupt.
func ParseListing(exitCode int, raw string) Listing {
	l := Listing{ExitCode: exitCode, Raw: raw}

	l.Encrypted = detectEncryption(raw)
	l.RecognizedFormat = reTypeSevenZip.MatchString(raw)

	if reCannotOpenArc.MatchString(raw) {
		l.LooksInvalid = true
	} else if exitCode != 0 && (matchCount(reErrorCount, raw) > 0 || matchCount(reWarningCount, raw) > 0) {
		l.LooksInvalid = true
	}

	l.FileCount, l.HasFileCount = matchInt(reFileCount, raw)
	l.FolderCount, l.HasFolderCount = matchInt(reFolderCount, raw)

	return l
}

// detectEncryption applies the password-protection rules from the most
// explicit signal to the weakest co-occurrence heuristic.
func detectEncryption(raw string) bool {
	switch {
	case reWrongPassword.MatchString(raw):
		return true
	case reEnterPassword.MatchString(raw):
		return true
	case reEncryptedProp.MatchString(raw):
		return true
	case reCannotOpenEnc.MatchString(raw):
		return true
	case reHeaderDataError.MatchString(raw) && rePasswordWord.MatchString(raw):
		return true
	}
	return false
}

func matchInt(re *regexp.Regexp, raw string) (int, bool) {
	m := re.FindStringSubmatch(raw)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

func matchCount(re *regexp.Regexp, raw string) int {
	n, _ := matchInt(re, raw)
	return n
}

// Probe runs a verbose listing command against the input archive and
// classifies it. The empty -p switch forces a "wrong password" failure
// instead of an interactive prompt on archives with encrypted headers.
func Probe(ctx context.Context, r executil.Runner, bin, file string) (Listing, error) {
	res, err := r.Run(ctx, bin, []string{"l", "-slt", "-p", "-y", file}, executil.Options{})
	if err != nil {
		return Listing{}, err
	}
	return ParseListing(res.ExitCode, res.Output), nil
}
