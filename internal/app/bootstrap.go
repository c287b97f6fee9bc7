package app

import (
	"fmt"
	"io"
	"os"

	"continuum/internal/api"
	"continuum/internal/config"
	"continuum/internal/correlation"
	"continuum/internal/daemon"
	"continuum/internal/dependency"
	"continuum/internal/normalize"
	"continuum/internal/orchestrator"
	"continuum/internal/router"
	"continuum/internal/transport"
	"continuum/pkg/logging"
)

// Options selects how the platform is bootstrapped.
type Options struct {
	// Debug enables verbose logging across the platform.
	Debug bool

	// Silent suppresses all log output; useful for one-shot commands
	// whose stdout is the result payload.
	Silent bool

	// ConfigPath is an explicit configuration directory. Empty means the
	// user config directory.
	ConfigPath string
}

// NewPlatform performs the two-phase bootstrap: configure logging, load
// configuration, then construct and wire every component. All wiring is
// explicit dependency injection; no component reaches for global state.
func NewPlatform(opts Options) (*Platform, error) {
	logLevel := logging.LevelInfo
	if opts.Debug {
		logLevel = logging.LevelDebug
	}
	var logOutput io.Writer = os.Stdout
	if opts.Silent {
		logOutput = io.Discard
	}
	logging.Init(logLevel, logOutput)

	configPath := opts.ConfigPath
	if configPath == "" {
		configPath = config.GetDefaultConfigPathOrPanic()
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logging.Error("Bootstrap", err, "Failed to load configuration from %s", configPath)
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	return assemble(cfg, configPath)
}

// NewPlatformFromConfig builds a platform from an already-loaded
// configuration. Tests and embedders use this to skip the filesystem.
func NewPlatformFromConfig(cfg config.Config) (*Platform, error) {
	return assemble(cfg, "")
}

func assemble(cfg config.Config, configPath string) (*Platform, error) {
	// A platform without daemons has nothing to route to; surfacing the
	// misconfiguration here beats failing on the first dispatch.
	if len(cfg.Daemons) == 0 {
		return nil, api.NewConfigurationError("configuration declares no daemons")
	}

	registry := daemon.NewRegistry()
	for _, decl := range cfg.Daemons {
		if err := registry.Register(buildDaemon(decl)); err != nil {
			return nil, fmt.Errorf("failed to register daemon %s: %w", decl.Name, err)
		}
	}

	orch, err := orchestrator.New(registry, cfg.Daemons)
	if err != nil {
		return nil, err
	}

	directed := router.NewDirected(daemon.NewDirectoryAdapter(registry))

	// The loopback transport closes the duplex channel: outbound
	// envelopes reach the directed router, replies feed the correlator.
	p := &Platform{
		cfg:          cfg,
		configPath:   configPath,
		registry:     registry,
		orchestrator: orch,
		normalizer:   normalize.NewDefaultRegistry(),
	}
	loop := transport.NewLoopback(directed, func(msg api.Message) {
		p.correlator.HandleResponse(msg)
	})
	p.correlator = correlation.New(loop,
		correlation.WithTimeout(cfg.Platform.RequestTimeout()),
		correlation.WithSourceID(cfg.Platform.SourceID),
	)

	p.registerCoreHandlers()

	logging.Info("Bootstrap", "Platform assembled with %d daemons", len(cfg.Daemons))
	return p, nil
}

// buildDaemon constructs the parameterized daemon for one declaration.
// Variants differ in declared config and registered handlers only.
func buildDaemon(decl dependency.Declaration) *daemon.Generic {
	return daemon.NewGeneric(decl.Name, decl.HealthCheck, decl.Config, daemon.Hooks{})
}
