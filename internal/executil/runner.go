// Package executil provides a thin synchronous wrapper around external
// process invocation.
//
// All subprocesses launched by the conversion pipeline go through the
// Runner interface so that higher components can be tested against a
// recorded fake. A non-zero exit code is not an error here: callers
// inspect ExitCode and Output themselves. Only the inability to launch
// the process at all (file absent, exec-format mismatch, permissions)
// is surfaced as an error.
package executil

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
)

// Result is the uniform outcome of running a subprocess.
type Result struct {
	ExitCode int
	Output   string // stdout and stderr interleaved
}

// Options configures a single subprocess invocation.
type Options struct {
	// Dir is the working directory for the process. Empty means the
	// calling process's working directory.
	Dir string
}

// Runner is the interface for launching external programs.
// Following Go best practices: accept interfaces, return structs.
type Runner interface {
	Run(ctx context.Context, bin string, args []string, opts Options) (Result, error)
}

// ExecRunner implements Runner using os/exec.
type ExecRunner struct{}

// NewRunner creates a Runner backed by os/exec.
func NewRunner() Runner {
	return &ExecRunner{}
}

// Run invokes bin with args and waits for it to exit, capturing stdout
// and stderr into one combined string for downstream pattern matching.
func (r *ExecRunner) Run(ctx context.Context, bin string, args []string, opts Options) (Result, error) {
	cmd := exec.CommandContext(ctx, bin, args...)
	if opts.Dir != "" {
		cmd.Dir = opts.Dir
	}

	out, err := cmd.CombinedOutput()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			// The process ran and exited non-zero. Callers classify
			// this from the exit code and output.
			return Result{ExitCode: exitErr.ExitCode(), Output: string(out)}, nil
		}
		return Result{}, fmt.Errorf("launch %s: %w", bin, err)
	}

	return Result{ExitCode: 0, Output: string(out)}, nil
}
