package profiles

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bbqsrc/cargo-pbuild/pkg/telemetry"
)

// FlagsOptions captures CLI flag values for the flags command.
type FlagsOptions struct {
	CommonOptions
}

// NewFlagsCommand constructs the `cargo-pbuild flags` command.
func NewFlagsCommand() *cobra.Command {
	opts := FlagsOptions{}

	cmd := &cobra.Command{
		Use:   "flags <profile>",
		Short: "Print the rustc --cfg flags for a profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return runFlags(cmd, opts, defaultDeps, args[0])
		},
	}

	bindCommonFlags(cmd.Flags(), &opts.CommonOptions)

	return cmd
}

// RunFlagsForTest executes the flags flow with explicit dependencies (used in tests).
func RunFlagsForTest(cmd *cobra.Command, opts FlagsOptions, deps Deps, name string) error {
	return runFlags(cmd, opts, deps, name)
}

func runFlags(cmd *cobra.Command, opts FlagsOptions, deps Deps, name string) error {
	logger := newRunLogger(cmd, opts.CommonOptions)
	emitter := newRunEmitter(cmd, opts.CommonOptions)

	p, err := loadProfile(opts.CommonOptions, deps, logger, emitter, name)
	if err != nil {
		return err
	}

	var flags []string
	if err := emitPhase(emitter, telemetry.PhaseProject, map[string]string{"profile": name}, func() error {
		flags = p.RustcCfgFlags()
		logProjection(logger, name, len(flags)/2)
		return nil
	}); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), strings.Join(flags, " "))
	return nil
}
