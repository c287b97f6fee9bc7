// Package command enforces the uniform execution contract every operation
// in continuum implements.
//
// A Command couples a typed executor with declarative required-parameter
// checking and optional shape validation. Run is the boundary: raw caller
// input is normalized, validated and executed, and any failure, an error
// return, a validation miss, or a panic, is converted into a canonical
// error result. Callers never observe a raw stack trace.
package command
