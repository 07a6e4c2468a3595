package profiles

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bbqsrc/cargo-pbuild/internal/validation"
	"github.com/bbqsrc/cargo-pbuild/pkg/schema"
	"github.com/bbqsrc/cargo-pbuild/pkg/telemetry"
)

var errPreflightFailed = errors.New("workspace preflight failed")

// ErrPreflightFailed exposes the sentinel.
func ErrPreflightFailed() error { return errPreflightFailed }

// ValidateOptions captures CLI flag values for the validate command.
type ValidateOptions struct {
	CommonOptions
}

// NewValidateCommand constructs the `cargo-pbuild validate` command.
func NewValidateCommand() *cobra.Command {
	opts := ValidateOptions{}

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the workspace layout, schema, and every profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return runValidate(cmd, opts, defaultDeps)
		},
	}

	bindCommonFlags(cmd.Flags(), &opts.CommonOptions)

	return cmd
}

// RunValidateForTest executes the validate flow with explicit dependencies (used in tests).
func RunValidateForTest(cmd *cobra.Command, opts ValidateOptions, deps Deps) error {
	return runValidate(cmd, opts, deps)
}

func runValidate(cmd *cobra.Command, opts ValidateOptions, deps Deps) error {
	logger := newRunLogger(cmd, opts.CommonOptions)
	emitter := newRunEmitter(cmd, opts.CommonOptions)

	ws, err := openWorkspace(opts.CommonOptions, deps, logger, emitter)
	if err != nil {
		return err
	}

	result := validation.ValidateWorkspace(ws)
	if !result.Passed {
		return fmt.Errorf("%w: %s", errPreflightFailed, strings.Join(result.Issues, "; "))
	}

	var spec *schema.Spec
	if err := emitPhase(emitter, telemetry.PhaseSchema, nil, func() error {
		loaded, err := loadSpec(ws, logger)
		spec = loaded
		return err
	}); err != nil {
		return err
	}

	names, err := ws.Profiles()
	if err != nil {
		return err
	}

	for _, name := range names {
		if err := emitPhase(emitter, telemetry.PhaseProfile, map[string]string{"profile": name}, func() error {
			if _, err := ws.LoadProfile(spec, name); err != nil {
				logParseFailure(logger, name, err)
				return err
			}
			return nil
		}); err != nil {
			return err
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "schema %q ok, %d profile(s) validated\n", spec.Name, len(names))
	return nil
}
