// Package cli implements the cobra-based command line interface.
//
// The binary has a single job, so the root command carries it directly
// instead of fanning out into subcommands. Error-to-exit-code mapping
// lives in Execute so main stays a one-liner and tests can run commands
// in-process.
package cli

import (
	"errors"
	"fmt"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/pale-iron/rezip/internal/sevenzip"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Process exit codes. Usage errors (bad arguments, unknown flags) are
// distinguished from conversion failures so callers can script around
// them.
const (
	exitOK         = 0
	exitUsage      = 1
	exitConversion = 2
)

// conversionError marks a failure of the conversion itself, as opposed
// to a usage error, so Execute can map it to a distinct exit code.
type conversionError struct {
	err error
}

func (e *conversionError) Error() string { return e.err.Error() }
func (e *conversionError) Unwrap() error { return e.err }

// charmLogger adapts a charmbracelet logger to the converter's Logger
// interface.
type charmLogger struct {
	l *charmlog.Logger
}

func (c charmLogger) Debug(msg string, keysAndValues ...any) { c.l.Debug(msg, keysAndValues...) }
func (c charmLogger) Info(msg string, keysAndValues ...any)  { c.l.Info(msg, keysAndValues...) }
func (c charmLogger) Warn(msg string, keysAndValues ...any)  { c.l.Warn(msg, keysAndValues...) }
func (c charmLogger) Error(msg string, keysAndValues ...any) { c.l.Error(msg, keysAndValues...) }

// NewRootCommand creates and configures the root cobra command.
func NewRootCommand() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "rezip <input.7z> [output.zip]",
		Short: "Convert a 7z archive to a zip archive",
		Long: `rezip converts a .7z archive into a .zip archive by driving a
7-Zip-compatible command line tool. The tool is located automatically:
an explicit REZIP_7Z_BINARY override is honored first, then known
install directories, then PATH, then a bundled fallback binary.

When no output path is given, the input path with a .zip extension is
used. Password-protected archives are rejected.`,
		Args: cobra.RangeArgs(1, 2),

		// Errors are formatted by Execute; cobra must not print its own.
		SilenceUsage:  true,
		SilenceErrors: true,

		Version: Version,

		RunE: func(cmd *cobra.Command, args []string) error {
			opts := sevenzip.OptionsFromEnv()
			if verbose {
				opts.Debug = true
			}

			logger := charmlog.NewWithOptions(cmd.ErrOrStderr(), charmlog.Options{
				Prefix: "rezip",
			})
			if opts.Debug {
				logger.SetLevel(charmlog.DebugLevel)
			}
			opts.Logger = charmLogger{l: logger}

			conv, err := sevenzip.NewConverter(cmd.Context(), opts)
			if err != nil {
				return &conversionError{err: err}
			}

			var outputPath string
			if len(args) == 2 {
				outputPath = args[1]
			}

			out, err := conv.Convert(cmd.Context(), args[0], outputPath)
			if err != nil {
				return &conversionError{err: err}
			}

			// Stdout carries only the produced path; everything else
			// goes to stderr so the output is scriptable.
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	return cmd
}

// Execute runs the command and returns the process exit code: 0 on
// success, 2 when the conversion failed, 1 for usage errors.
func Execute(cmd *cobra.Command) int {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)

		var convErr *conversionError
		if errors.As(err, &convErr) {
			return exitConversion
		}
		return exitUsage
	}
	return exitOK
}
