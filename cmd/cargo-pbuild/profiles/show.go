package profiles

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/bbqsrc/cargo-pbuild/pkg/profile"
	"github.com/bbqsrc/cargo-pbuild/pkg/telemetry"
)

// ShowOptions captures CLI flag values for the show command.
type ShowOptions struct {
	CommonOptions
	Output string
}

// NewShowCommand constructs the `cargo-pbuild show` command.
func NewShowCommand() *cobra.Command {
	opts := ShowOptions{}

	cmd := &cobra.Command{
		Use:   "show <profile>",
		Short: "Show a validated profile and its projected flags",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return runShow(cmd, opts, defaultDeps, args[0])
		},
	}

	bindCommonFlags(cmd.Flags(), &opts.CommonOptions)
	cmd.Flags().StringVar(&opts.Output, "output", "", "Output format: text or json (default by terminal)")

	return cmd
}

// RunShowForTest executes the show flow with explicit dependencies (used in tests).
func RunShowForTest(cmd *cobra.Command, opts ShowOptions, deps Deps, name string) error {
	return runShow(cmd, opts, deps, name)
}

func runShow(cmd *cobra.Command, opts ShowOptions, deps Deps, name string) error {
	logger := newRunLogger(cmd, opts.CommonOptions)
	emitter := newRunEmitter(cmd, opts.CommonOptions)

	p, err := loadProfile(opts.CommonOptions, deps, logger, emitter, name)
	if err != nil {
		return err
	}

	format := opts.Output
	if format == "" {
		format = profile.SummaryFormatJSON
		if term.IsTerminal(int(os.Stdout.Fd())) {
			format = profile.SummaryFormatText
		}
	}

	var summary string
	err = emitPhase(emitter, telemetry.PhaseProject, map[string]string{"profile": name}, func() error {
		rendered, err := profile.FormatSummary(p, format)
		if err != nil {
			return err
		}
		summary = rendered
		logProjection(logger, name, p.CfgFlagsMap().Len())
		return nil
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), summary)
	return nil
}
