package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"continuum/internal/api"
	"continuum/internal/app"
	"continuum/internal/orchestrator"
)

var statusConfigPath string

// statusCmd boots the platform, probes every daemon, and prints a health
// table.
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Start the configured daemons and report their health",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	platform, err := app.NewPlatform(app.Options{
		Silent:     true,
		ConfigPath: statusConfigPath,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize platform: %w", err)
	}

	ctx := cmd.Context()
	if err := platform.Start(ctx); err != nil {
		return fmt.Errorf("failed to start platform: %w", err)
	}
	defer platform.Stop(context.WithoutCancel(ctx))

	status := platform.Status(ctx)
	renderStatus(cmd.OutOrStdout(), status)

	if status.Health != api.HealthHealthy {
		return fmt.Errorf("integration status is %s", status.Health)
	}
	return nil
}

// renderStatus prints the per-daemon health table plus the aggregate line.
func renderStatus(out io.Writer, status orchestrator.IntegrationStatus) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Daemon", "Required", "State", "Healthy", "Detail"})
	for _, d := range status.Daemons {
		healthy := text.FgGreen.Sprint("yes")
		if !d.Healthy {
			healthy = text.FgRed.Sprint("no")
		}
		t.AppendRow(table.Row{d.Name, d.Required, string(d.State), healthy, d.Detail})
	}
	t.Render()

	switch status.Health {
	case api.HealthHealthy:
		fmt.Fprintf(out, "Integration status: %s\n", text.FgGreen.Sprint(status.Health))
	case api.HealthDegraded:
		fmt.Fprintf(out, "Integration status: %s\n", text.FgYellow.Sprint(status.Health))
	default:
		fmt.Fprintf(out, "Integration status: %s\n", text.FgRed.Sprint(status.Health))
	}
}

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().StringVar(&statusConfigPath, "config-path", "", "Custom configuration directory path")
}
