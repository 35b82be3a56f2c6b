package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ifxgo/adapter/cli/internal/ui"
	"github.com/ifxgo/adapter/cli/internal/version"
)

// NewVersionCommand creates the version command.
func NewVersionCommand() *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := version.Get()
			if short {
				fmt.Fprintln(cmd.OutOrStdout(), info.String())
				return nil
			}
			return ui.PrintTable([]string{"", ""}, info.Rows())
		},
	}

	cmd.Flags().BoolVar(&short, "short", false, "print a single line")

	return cmd
}
