// Package router implements the two message-routing strategies of the
// platform.
//
// Table is the passive strategy: a handler registry keyed by message type,
// populated by self-registration. Routing an unknown type returns an error
// result listing all registered types.
//
// Directed is the addressed strategy: messages carrying an explicit target
// daemon name are forwarded through a Directory lookup and answered with a
// synthesized reply envelope (From/To swapped, type "response" or "error").
//
// Neither strategy ever raises past its boundary; every failure travels as
// a canonical error result so callers can always unblock on a response.
package router
