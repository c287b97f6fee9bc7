// Package logging provides a structured logging system for continuum with
// unified log handling and level filtering.
//
// The package wraps Go's standard slog package with a small printf-style API
// that tags every entry with a subsystem identifier:
//
//	logging.Init(logging.LevelInfo, os.Stdout)
//
//	logging.Info("Bootstrap", "Platform starting up")
//	logging.Debug("Config", "Loaded configuration from %s", configPath)
//	logging.Warn("Orchestrator", "Daemon %s reported degraded health", name)
//	logging.Error("Router", err, "Failed to deliver message to %s", target)
//
// Subsystems used throughout continuum:
//
//   - **Bootstrap**: platform initialization and startup
//   - **Config**: configuration loading and change watching
//   - **Orchestrator**: daemon lifecycle management
//   - **Router**: message routing and delivery
//   - **Correlator**: request/response correlation
//   - **Daemon**: individual daemon operation
//
// The package is safe for concurrent use; level filtering happens before
// message formatting so filtered-out entries allocate nothing.
package logging
