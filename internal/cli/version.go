package cmd

import (
	"fmt"

	"github.com/rohmanhakim/talk-parser/internal/build"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if verbose {
			fmt.Fprintln(cmd.OutOrStdout(), build.Summary())
			return
		}
		fmt.Fprintln(cmd.OutOrStdout(), build.FullVersion())
	},
}
