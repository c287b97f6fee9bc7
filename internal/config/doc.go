// Package config loads the continuum platform configuration: routing-core
// settings plus the daemon declarations the orchestrator manages.
//
// Configuration lives in config.yaml inside an explicit directory or the
// user config directory (~/.config/continuum). A missing file yields safe
// defaults; a malformed one is an error. Watcher reports file changes while
// the platform is serving.
package config
