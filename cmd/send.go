package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"continuum/internal/app"
)

var sendConfigPath string

// sendCmd dispatches a single command through the platform and prints the
// canonical result as JSON.
//
// The argument vector is handed to the normalization registry untouched, so
// both argv style and a single JSON string work:
//
//	continuum send echo --message=hello
//	continuum send '{"command": "echo", "message": "hello"}'
var sendCmd = &cobra.Command{
	Use:   "send [input...]",
	Short: "Dispatch one command through the platform and print the result",
	Long: `Dispatches a single command through the platform and prints the
canonical result as JSON.

Flag parsing is disabled for this command so the argument vector reaches
the normalization pipeline untouched. Because of that, the --config-path
option is only recognized before the dispatched input:

	continuum send --config-path ./conf echo --message=hello

Anything after the first non-option token belongs to the dispatched
command.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSend,
	// Flags after the subcommand belong to the dispatched command, not to
	// cobra.
	DisableFlagParsing: true,
}

func runSend(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("nothing to send")
	}
	if args[0] == "--help" || args[0] == "-h" {
		return cmd.Help()
	}

	// Options are only recognized before the dispatched input; see Long.
options:
	for len(args) > 0 {
		switch {
		case args[0] == "--config-path" && len(args) > 1:
			sendConfigPath = args[1]
			args = args[2:]
		case strings.HasPrefix(args[0], "--config-path="):
			sendConfigPath = strings.TrimPrefix(args[0], "--config-path=")
			args = args[1:]
		default:
			break options
		}
	}
	if len(args) == 0 {
		return fmt.Errorf("nothing to send")
	}

	platform, err := app.NewPlatform(app.Options{
		Silent:     true,
		ConfigPath: sendConfigPath,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize platform: %w", err)
	}

	ctx := cmd.Context()
	if err := platform.Start(ctx); err != nil {
		return fmt.Errorf("failed to start platform: %w", err)
	}
	defer platform.Stop(context.WithoutCancel(ctx))

	// A single argument that looks like JSON is dispatched as a JSON
	// string; everything else goes through as an argument vector.
	var raw any = args
	if len(args) == 1 && strings.HasPrefix(strings.TrimSpace(args[0]), "{") {
		raw = args[0]
	}

	result := platform.Dispatch(ctx, raw)

	encoded, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(encoded))

	if !result.Success {
		return fmt.Errorf("command failed: %s", result.Error)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(sendCmd)
}
