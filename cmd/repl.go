package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"continuum/internal/app"
)

var replConfigPath string

// replCmd starts an interactive shell against a running in-process
// platform. Each line is tokenized and dispatched through the same
// normalization pipeline the other entry points use.
var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Interactively dispatch commands to the platform",
	Args:  cobra.NoArgs,
	RunE:  runRepl,
}

func runRepl(cmd *cobra.Command, args []string) error {
	platform, err := app.NewPlatform(app.Options{
		Silent:     true,
		ConfigPath: replConfigPath,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize platform: %w", err)
	}

	ctx := cmd.Context()
	if err := platform.Start(ctx); err != nil {
		return fmt.Errorf("failed to start platform: %w", err)
	}
	defer platform.Stop(context.WithoutCancel(ctx))

	historyFile := filepath.Join(os.TempDir(), ".continuum_history")
	rl, err := readline.NewEx(&readline.Config{
		Prompt:            "continuum> ",
		HistoryFile:       historyFile,
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		return fmt.Errorf("failed to create readline instance: %w", err)
	}
	defer rl.Close()

	fmt.Fprintln(cmd.OutOrStdout(), "Type a command (e.g. 'echo --message=hi'), 'help', or 'exit'.")

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				continue
			}
		} else if err == io.EOF {
			return nil
		} else if err != nil {
			return fmt.Errorf("readline error: %w", err)
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		switch input {
		case "exit", "quit":
			return nil
		case "help":
			printReplHelp(cmd.OutOrStdout(), platform)
			continue
		}

		// A line starting with '{' is dispatched as a JSON string,
		// anything else as an argument vector.
		var raw any = strings.Fields(input)
		if strings.HasPrefix(input, "{") {
			raw = input
		}

		result := platform.Dispatch(ctx, raw)
		if result.Success {
			encoded, _ := json.MarshalIndent(result.Data, "", "  ")
			fmt.Fprintln(cmd.OutOrStdout(), string(encoded))
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), text.FgRed.Sprintf("error: %s", result.Error))
		}
	}
}

// printReplHelp lists the commands each daemon answers.
func printReplHelp(out io.Writer, platform *app.Platform) {
	result := platform.Dispatch(context.Background(), []string{"list-commands"})
	if !result.Success {
		fmt.Fprintf(out, "could not list commands: %s\n", result.Error)
		return
	}
	encoded, _ := json.MarshalIndent(result.Data, "", "  ")
	fmt.Fprintln(out, string(encoded))
	fmt.Fprintln(out, "Built-ins: help, exit")
}

func init() {
	rootCmd.AddCommand(replCmd)

	replCmd.Flags().StringVar(&replConfigPath, "config-path", "", "Custom configuration directory path")
}
