package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"batcli/pkg/contracts"
)

// NewVersionCommand creates and returns the version subcommand
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), contracts.GetFullVersionString())
		},
	}
}
