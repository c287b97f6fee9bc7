package config

import (
	"time"

	"continuum/internal/dependency"
)

// Config is the top-level configuration structure for continuum.
type Config struct {
	Platform PlatformConfig           `yaml:"platform"`
	Daemons  []dependency.Declaration `yaml:"daemons"`
}

// PlatformConfig holds settings for the routing core itself.
type PlatformConfig struct {
	// SourceID is stamped as the From field on outbound envelopes
	// (default: "core").
	SourceID string `yaml:"sourceId,omitempty"`

	// RequestTimeoutSeconds bounds how long a correlated request waits
	// for its response (default: 10).
	RequestTimeoutSeconds int `yaml:"requestTimeoutSeconds,omitempty"`
}

// RequestTimeout returns the configured correlation deadline.
func (p PlatformConfig) RequestTimeout() time.Duration {
	return time.Duration(p.RequestTimeoutSeconds) * time.Second
}

// GetDefaultConfig returns the default configuration: the core daemon only,
// probed with ping.
func GetDefaultConfig() Config {
	return Config{
		Platform: PlatformConfig{
			SourceID:              "core",
			RequestTimeoutSeconds: 10,
		},
		Daemons: []dependency.Declaration{
			{Name: "core", Required: true, HealthCheck: "ping"},
		},
	}
}

// applyDefaults fills zero-valued platform settings after unmarshalling.
func (c *Config) applyDefaults() {
	if c.Platform.SourceID == "" {
		c.Platform.SourceID = "core"
	}
	if c.Platform.RequestTimeoutSeconds <= 0 {
		c.Platform.RequestTimeoutSeconds = 10
	}
	for i := range c.Daemons {
		if c.Daemons[i].HealthCheck == "" {
			c.Daemons[i].HealthCheck = "ping"
		}
	}
}
