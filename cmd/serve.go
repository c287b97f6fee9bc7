package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"

	"continuum/internal/app"
	"continuum/internal/config"
	"continuum/pkg/logging"
)

// serveDebug enables verbose logging across the application.
var serveDebug bool

// serveConfigPath specifies a custom configuration directory path.
// When empty, configuration is loaded from the user config directory.
var serveConfigPath string

// serveCmd starts the platform and keeps it running until interrupted.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the continuum platform and run until interrupted",
	Long: `Starts every configured daemon in dependency order, verifies
integration health, and then serves until the process receives SIGINT or
SIGTERM. On shutdown, daemons are stopped in reverse startup order.

While serving, the configuration file is watched; changes are logged but
require a restart to take effect.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	platform, err := app.NewPlatform(app.Options{
		Debug:      serveDebug,
		ConfigPath: serveConfigPath,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize platform: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Daemon state transitions are logged as they happen.
	go func() {
		for change := range platform.SubscribeStateChanges() {
			if change.Error != nil {
				logging.Warn("Serve", "Daemon %s: %s -> %s (%v)", change.Name, change.OldState, change.NewState, change.Error)
			} else {
				logging.Info("Serve", "Daemon %s: %s -> %s", change.Name, change.OldState, change.NewState)
			}
		}
	}()

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " Starting daemons..."
	s.Start()
	err = platform.Start(ctx)
	s.Stop()
	if err != nil {
		return fmt.Errorf("failed to start platform: %w", err)
	}

	renderStatus(cmd.OutOrStdout(), platform.Status(ctx))

	if path := platform.ConfigPath(); path != "" {
		watcher, werr := config.NewWatcher(path)
		if werr != nil {
			logging.Warn("Serve", "Config watcher unavailable: %v", werr)
		} else {
			defer watcher.Close()
			go func() {
				for changed := range watcher.Events() {
					logging.Info("Serve", "Configuration %s changed, restart to apply", changed)
				}
			}()
		}
	}

	logging.Info("Serve", "Platform running, press Ctrl+C to stop")
	<-ctx.Done()

	// The signal context is already cancelled; shutdown gets its own
	// deadline so daemons have a bounded window to stop cleanly.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return platform.Stop(shutdownCtx)
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().BoolVar(&serveDebug, "debug", false, "Enable general debug logging")
	serveCmd.Flags().StringVar(&serveConfigPath, "config-path", "", "Custom configuration directory path")
}
