// Package app assembles the continuum platform. Bootstrap happens in two
// phases: logging and configuration first, then construction and explicit
// wiring of the daemon registry, orchestrator, routers, loopback transport,
// correlator and parameter normalization registry.
//
// The resulting Platform is the single entry point the CLI surface uses:
// Start/Stop drive the lifecycle, Dispatch runs one raw input through the
// normalize, route and correlate pipeline.
package app
