package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/bbqsrc/cargo-pbuild/internal/cli"
	"github.com/bbqsrc/cargo-pbuild/pkg/profile"
)

var (
	rootCommand = cli.NewRootCommand
	osExit      = os.Exit
	lookupEnv   = os.LookupEnv
)

// Exit codes aligned with the CLI contract.
const (
	exitFailure    = 1
	exitValidation = 3
)

func main() {
	if _, ok := lookupEnv("CARGO"); !ok {
		fmt.Fprintln(os.Stderr, "This binary may only be called via `cargo pbuild`.")
		osExit(exitFailure)
	}

	cmd := rootCommand()
	cmd.SetArgs(normalizeArgs(os.Args[1:]))
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		var depErr *profile.DependencyError
		if errors.As(err, &depErr) {
			osExit(exitValidation)
		}
		osExit(exitFailure)
	}
}

// normalizeArgs drops the subcommand name cargo passes when the binary runs
// as `cargo pbuild`.
func normalizeArgs(args []string) []string {
	if len(args) > 0 && args[0] == "pbuild" {
		return args[1:]
	}
	return args
}
