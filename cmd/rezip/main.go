// Package main is the entry point for the rezip CLI.
//
// All functionality lives in internal/cli; main only injects build-time
// version information and translates the result into a process exit
// code.
package main

import (
	"os"

	"github.com/pale-iron/rezip/internal/cli"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	cli.Version = version
	os.Exit(cli.Execute(cli.NewRootCommand()))
}
