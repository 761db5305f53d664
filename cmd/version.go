package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"jonnyzzz.com/configs/versioninfo"
)

// NewVersionCommand prints the version stamped into the managed files
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show the version of the tool",
		Long:  `Show the version of the configs tool. The same version is written into the marker of every managed file.`,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "Version:", versioninfo.Current())
		},
	}
}
