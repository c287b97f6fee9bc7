// Package correlation pairs outbound requests with their asynchronous
// responses across a duplex transport.
//
// Every outbound envelope carries a generated correlation id; inbound
// envelopes are matched against the pending table and resolve the waiting
// caller. A per-request timer bounds the wait: on timeout the entry is
// removed first and the caller observes a TimeoutError naming the original
// command, so late responses find nothing and are dropped silently.
//
// Delivery is at-most-once from the correlator's perspective; retry and
// durability belong to external collaborators.
package correlation
