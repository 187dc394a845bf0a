package cmd

import (
	"embydebug/internal/runner"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Log in, list libraries and log out",
	Long: `Verify the configured credentials without prompting: log in, list the
libraries visible to the user and log out again. Exit codes match 'run'.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadConfig()
		if err != nil {
			return err
		}

		r := runner.New(cfg, runnerOptions(), consoleIO(), runner.EmbyDialer(log), log)
		return r.Check(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
