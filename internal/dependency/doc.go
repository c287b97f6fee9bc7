// Package dependency resolves daemon startup and shutdown ordering.
//
// Daemons declare the set of other daemons that must be running before
// them. This package validates those declarations (unique names, no
// references to undeclared daemons, no cycles) and computes a deterministic
// topological startup order; shutdown order is its exact reverse.
//
// Cycle detection fails fast at configuration time with a
// ConfigurationError naming the cycle members, so a miswired configuration
// never reaches the orchestrator.
package dependency
