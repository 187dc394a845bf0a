package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"

	"embydebug/internal/config"
	"embydebug/internal/logger"
	"embydebug/internal/runner"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Set at build time with -ldflags "-X embydebug/cmd.version=...".
var version = "dev"

const appName = "embydebug"

var (
	cfgFile    string
	dotEnvFile string
	dotEnvErr  error
)

// rootCmd is the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   appName,
	Short: "Interactive manual test harness for an Emby media server",
	Long: `embydebug logs in to an Emby server, lets you pick a library and then
walks through manual test cases for libraries, playlists and player sessions.
Prompts and status lines go to stderr; results are printed to stdout as JSON,
so stdout can be redirected to a file to capture full payloads.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits with the code the run reports.
// This is called by main.main().
func Execute() {
	err := rootCmd.ExecuteContext(context.Background())
	if err == nil {
		return
	}

	var exit *runner.ExitError
	if !errors.As(err, &exit) {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	os.Exit(exitCode(err))
}

// exitCode maps a command error to the process exit status.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var exit *runner.ExitError
	if errors.As(err, &exit) {
		return exit.Code
	}
	return 1
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml or $HOME/config.yaml)")
}

// initConfig loads the nearest .env and points viper at the config file.
func initConfig() {
	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}
	dotEnvFile, dotEnvErr = config.LoadDotEnv(wd)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}
}

// loadConfig builds the config and logger shared by every subcommand.
func loadConfig() (*config.Config, *logger.Logger, error) {
	if dotEnvErr != nil {
		fmt.Fprintf(os.Stderr, "Fatal error, %v\n", dotEnvErr)
		return nil, nil, &runner.ExitError{Code: runner.ExitConfig, Err: dotEnvErr}
	}

	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error, %v\n", err)
		return nil, nil, &runner.ExitError{Code: runner.ExitConfig, Err: err}
	}

	log := logger.New(cfg.Log)
	log.WithFields(map[string]interface{}{
		"config_file": viper.ConfigFileUsed(),
		"env_file":    dotEnvFile,
	}).Debug("configuration loaded")

	return cfg, log, nil
}

// runnerOptions fills in the client identity reported to the server.
func runnerOptions() runner.Options {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}
	return runner.Options{
		Name:     appName,
		Version:  version,
		Platform: runtime.GOOS,
		Hostname: hostname,
		EnvFile:  dotEnvFile,
	}
}

func consoleIO() runner.IO {
	return runner.IO{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}
}
