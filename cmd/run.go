package cmd

import (
	"embydebug/internal/runner"

	"github.com/spf13/cobra"
)

var (
	runTests []string
	runAll   bool
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start an interactive test session",
	Long: `Log in, choose a library and run test cases against the media server.

Pick cases with --test (repeatable or comma separated) or --all; with neither,
a menu is shown after the library is chosen. Enter '.' at any prompt to leave
the current case. Exit status is 0 on a clean logout, 1 for configuration or
login failures and 2 for retrieval or logout failures.`,
	Example: `  embydebug run
  embydebug run --test playlists,playlist-items
  embydebug run --all > results.json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadConfig()
		if err != nil {
			return err
		}

		opts := runnerOptions()
		opts.Tests = runTests
		opts.All = runAll

		r := runner.New(cfg, opts, consoleIO(), runner.EmbyDialer(log), log)
		return r.Run(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringSliceVarP(&runTests, "test", "t", nil, "test case to run, see 'embydebug tests'")
	runCmd.Flags().BoolVar(&runAll, "all", false, "run every test case in order")
	runCmd.MarkFlagsMutuallyExclusive("test", "all")
}
