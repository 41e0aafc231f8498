package sevenzip

import (
	"context"

	"github.com/pale-iron/rezip/internal/executil"
)

// runnerCall records one subprocess invocation seen by the fake runner.
type runnerCall struct {
	Bin  string
	Args []string
	Dir  string
}

// fakeRunner is a scripted executil.Runner that records every call.
type fakeRunner struct {
	calls   []runnerCall
	handler func(call runnerCall) (executil.Result, error)
}

func (f *fakeRunner) Run(ctx context.Context, bin string, args []string, opts executil.Options) (executil.Result, error) {
	call := runnerCall{Bin: bin, Args: append([]string(nil), args...), Dir: opts.Dir}
	f.calls = append(f.calls, call)
	if f.handler == nil {
		return executil.Result{}, nil
	}
	return f.handler(call)
}

// hasArg reports whether the call carries the exact argument.
func (c runnerCall) hasArg(arg string) bool {
	for _, a := range c.Args {
		if a == arg {
			return true
		}
	}
	return false
}
