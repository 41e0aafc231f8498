package sevenzip

import (
	"context"
	"testing"

	"github.com/pale-iron/rezip/internal/executil"
)

func TestVerifyParsesCounts(t *testing.T) {
	runner := &fakeRunner{
		handler: func(call runnerCall) (executil.Result, error) {
			return executil.Result{
				ExitCode: 0,
				Output:   "Type = zip\nPhysical Size = 220\n\nFiles = 2\nFolders = 1\n",
			}, nil
		},
	}

	counts, err := Verify(context.Background(), runner, "/usr/bin/7zz", "/out/x.zip")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if counts.Files != 2 || counts.Folders != 1 {
		t.Errorf("counts: got %+v, want {2 1}", counts)
	}

	call := runner.calls[0]
	for _, want := range []string{"l", "-slt", "/out/x.zip"} {
		if !call.hasArg(want) {
			t.Errorf("listing command missing %q: %v", want, call.Args)
		}
	}
}

func TestVerifyDefaultsToZeroCounts(t *testing.T) {
	runner := &fakeRunner{
		handler: func(call runnerCall) (executil.Result, error) {
			return executil.Result{ExitCode: 0, Output: "Type = zip\n"}, nil
		},
	}

	counts, err := Verify(context.Background(), runner, "/usr/bin/7zz", "/out/empty.zip")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if counts.Files != 0 || counts.Folders != 0 {
		t.Errorf("counts: got %+v, want {0 0}", counts)
	}
}
