// Package daemon defines the service-component substrate of continuum.
//
// A Daemon is a named, independently startable and stoppable unit that
// accepts canonical requests and returns canonical results. BaseDaemon
// carries the shared state machine (Stopped, Starting, Running, Stopping,
// Failed) with change notification; Generic is the single parameterized
// daemon entity whose variants differ only in registered message handlers
// and lifecycle hooks.
//
// Registry owns the daemon collection by name and adapts itself, through
// DirectoryAdapter, to the directed router's lookup interface.
package daemon
