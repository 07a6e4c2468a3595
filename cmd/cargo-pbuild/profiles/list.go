package profiles

import (
	"fmt"

	"github.com/spf13/cobra"
)

// ListOptions captures CLI flag values for the list command.
type ListOptions struct {
	CommonOptions
}

// NewListCommand constructs the `cargo-pbuild list` command.
func NewListCommand() *cobra.Command {
	opts := ListOptions{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the profiles available in the workspace",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return runList(cmd, opts, defaultDeps)
		},
	}

	bindCommonFlags(cmd.Flags(), &opts.CommonOptions)

	return cmd
}

// RunListForTest executes the list flow with explicit dependencies (used in tests).
func RunListForTest(cmd *cobra.Command, opts ListOptions, deps Deps) error {
	return runList(cmd, opts, deps)
}

func runList(cmd *cobra.Command, opts ListOptions, deps Deps) error {
	logger := newRunLogger(cmd, opts.CommonOptions)
	emitter := newRunEmitter(cmd, opts.CommonOptions)

	ws, err := openWorkspace(opts.CommonOptions, deps, logger, emitter)
	if err != nil {
		return err
	}

	names, err := ws.Profiles()
	if err != nil {
		return err
	}

	for _, name := range names {
		fmt.Fprintln(cmd.OutOrStdout(), name)
	}
	return nil
}
