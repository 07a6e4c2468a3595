package cli

import (
	"github.com/spf13/cobra"

	profilescmd "github.com/bbqsrc/cargo-pbuild/cmd/cargo-pbuild/profiles"
)

// NewRootCommand constructs the root cargo-pbuild command.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cargo-pbuild",
		Short: "cargo-pbuild projects configuration profiles into Cargo and rustc flags",
	}

	cmd.AddCommand(profilescmd.NewShowCommand())
	cmd.AddCommand(profilescmd.NewFlagsCommand())
	cmd.AddCommand(profilescmd.NewCargoCommand())
	cmd.AddCommand(profilescmd.NewValidateCommand())
	cmd.AddCommand(profilescmd.NewListCommand())

	return cmd
}
