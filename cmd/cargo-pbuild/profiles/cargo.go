package profiles

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bbqsrc/cargo-pbuild/pkg/telemetry"
)

// CargoOptions captures CLI flag values for the cargo command.
type CargoOptions struct {
	CommonOptions
}

// NewCargoCommand constructs the `cargo-pbuild cargo` command.
func NewCargoCommand() *cobra.Command {
	opts := CargoOptions{}

	cmd := &cobra.Command{
		Use:   "cargo <profile>",
		Short: "Print the cargo argument groups for a profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return runCargo(cmd, opts, defaultDeps, args[0])
		},
	}

	bindCommonFlags(cmd.Flags(), &opts.CommonOptions)

	return cmd
}

// RunCargoForTest executes the cargo flow with explicit dependencies (used in tests).
func RunCargoForTest(cmd *cobra.Command, opts CargoOptions, deps Deps, name string) error {
	return runCargo(cmd, opts, deps, name)
}

func runCargo(cmd *cobra.Command, opts CargoOptions, deps Deps, name string) error {
	logger := newRunLogger(cmd, opts.CommonOptions)
	emitter := newRunEmitter(cmd, opts.CommonOptions)

	p, err := loadProfile(opts.CommonOptions, deps, logger, emitter, name)
	if err != nil {
		return err
	}

	var groups [][]string
	if err := emitPhase(emitter, telemetry.PhaseProject, map[string]string{"profile": name}, func() error {
		groups = p.CargoFlags()
		logProjection(logger, name, len(groups))
		return nil
	}); err != nil {
		return err
	}

	for _, group := range groups {
		fmt.Fprintln(cmd.OutOrStdout(), strings.Join(group, " "))
	}
	return nil
}
