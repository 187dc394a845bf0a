package cmd

import (
	"fmt"
	"text/tabwriter"

	"embydebug/internal/runner"

	"github.com/spf13/cobra"
)

var testsCmd = &cobra.Command{
	Use:   "tests",
	Short: "List the available test cases",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		for _, c := range runner.Cases() {
			fmt.Fprintf(w, "%s\t%s\n", c.Name, c.Title)
		}
		w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(testsCmd)
}
