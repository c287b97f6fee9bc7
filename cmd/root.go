package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// Exit codes for CLI commands.
const (
	// ExitCodeSuccess indicates successful execution.
	ExitCodeSuccess = 0
	// ExitCodeError indicates a general error (command failed, invalid arguments).
	ExitCodeError = 1
)

// rootCmd represents the base command for the continuum application.
// It is the entry point when the application is called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "continuum",
	Short: "Run the continuum daemon orchestration and command routing core",
	Long: `continuum boots a collection of background daemons in dependency order
and routes commands to them through a uniform pipeline: heterogeneous
inputs (CLI argv, JSON strings, MCP JSON-RPC envelopes, persona intents)
are normalized into canonical parameters, dispatched to the owning
daemon, and answered with a correlated response.

Configuration is read from config.yaml in the user config directory
(~/.config/continuum) or a directory given with --config-path.`,
	// SilenceUsage prevents Cobra from printing the usage message on errors
	// that are handled by the application.
	SilenceUsage: true,
}

// SetVersion sets the version for the root command.
// This is called from the main package to inject the build version.
func SetVersion(v string) {
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application.
// It is called by main.main().
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "continuum version %s\n" .Version}}`)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(ExitCodeError)
	}
}
