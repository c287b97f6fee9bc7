// Package orchestrator manages the lifecycle of the daemon collection.
//
// Initialize starts daemons strictly sequentially in dependency order,
// verifies aggregate health with a concurrent fan-out of each daemon's
// declared health-check operation, and rolls back in reverse on any
// failure. Shutdown derives its order from the startup sequence that was
// actually recorded, so partially-started systems only stop what started.
//
// State transitions are published to subscribed channels instead of a
// mutable global emitter; slow subscribers miss events rather than block
// lifecycle progress.
package orchestrator
