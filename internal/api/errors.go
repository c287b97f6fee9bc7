package api

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ConfigurationError indicates an invalid daemon configuration, most notably
// a cyclic dependency graph. It is fatal and aborts startup before any
// daemon runs.
type ConfigurationError struct {
	// Cycle lists the daemon names participating in a dependency cycle,
	// in the order they were encountered. Empty for non-cycle
	// configuration problems.
	Cycle []string

	// Message provides a custom error message for non-cycle problems.
	Message string
}

// Error implements the error interface for ConfigurationError.
func (e *ConfigurationError) Error() string {
	if len(e.Cycle) > 0 {
		return fmt.Sprintf("dependency cycle detected: %s", strings.Join(e.Cycle, " -> "))
	}
	return e.Message
}

// NewCycleError creates a ConfigurationError naming the cycle members.
func NewCycleError(cycle []string) *ConfigurationError {
	return &ConfigurationError{Cycle: cycle}
}

// NewConfigurationError creates a ConfigurationError with a custom message.
func NewConfigurationError(format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Message: fmt.Sprintf(format, args...)}
}

// IsConfigurationError checks if an error is or wraps a ConfigurationError.
func IsConfigurationError(err error) bool {
	var cfgErr *ConfigurationError
	return errors.As(err, &cfgErr)
}

// StartupError indicates that a daemon's Start failed during orchestrated
// startup. It triggers cleanup of the daemons already started and is then
// rethrown to the caller.
type StartupError struct {
	// Daemon is the name of the daemon whose Start failed.
	Daemon string

	// Err is the underlying start failure.
	Err error
}

// Error implements the error interface for StartupError.
func (e *StartupError) Error() string {
	return fmt.Sprintf("daemon %s failed to start: %v", e.Daemon, e.Err)
}

// Unwrap exposes the underlying start failure for errors.Is/As chains.
func (e *StartupError) Unwrap() error {
	return e.Err
}

// NewStartupError creates a StartupError for the named daemon.
func NewStartupError(daemon string, err error) *StartupError {
	return &StartupError{Daemon: daemon, Err: err}
}

// TimeoutError indicates that no response arrived for a correlated request
// within the deadline. It is surfaced only to the original caller; the
// in-flight work inside the target daemon is not cancelled.
type TimeoutError struct {
	// Command is the canonical command of the request that timed out.
	Command string

	// CorrelationID identifies the abandoned pending entry.
	CorrelationID string

	// Timeout is the deadline that elapsed.
	Timeout time.Duration
}

// Error implements the error interface for TimeoutError.
func (e *TimeoutError) Error() string {
	return fmt.Sprintf("request %q timed out after %s", e.Command, e.Timeout)
}

// IsTimeout checks if an error is or wraps a TimeoutError.
func IsTimeout(err error) bool {
	var timeoutErr *TimeoutError
	return errors.As(err, &timeoutErr)
}

// NotFoundError represents a resource not found condition with contextual
// information: an unknown daemon target, an unregistered message type, or a
// missing parser.
type NotFoundError struct {
	// ResourceType categorizes the resource (e.g., "daemon", "handler").
	ResourceType string

	// ResourceName is the identifier that was not found.
	ResourceName string

	// Message provides a custom error message if the default format is
	// insufficient.
	Message string
}

// Error implements the error interface for NotFoundError.
func (e *NotFoundError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s %s not found", e.ResourceType, e.ResourceName)
}

// IsNotFound checks if an error is or wraps a NotFoundError.
func IsNotFound(err error) bool {
	var notFoundErr *NotFoundError
	return errors.As(err, &notFoundErr)
}

// NewNotFoundError creates a NotFoundError for the given resource.
func NewNotFoundError(resourceType, resourceName string) *NotFoundError {
	return &NotFoundError{
		ResourceType: resourceType,
		ResourceName: resourceName,
	}
}

// Specific NotFoundError constructors for each resource type.
var (
	// NewDaemonNotFoundError creates a daemon not found error.
	NewDaemonNotFoundError = func(name string) *NotFoundError {
		return NewNotFoundError("daemon", name)
	}

	// NewHandlerNotFoundError creates a message handler not found error.
	NewHandlerNotFoundError = func(messageType string) *NotFoundError {
		return NewNotFoundError("handler", messageType)
	}
)

// ValidationError indicates missing or invalid command parameters. It is
// recovered locally and surfaced as a {success:false} result, never thrown
// across the command boundary.
type ValidationError struct {
	// Missing lists the required parameter keys that were absent.
	Missing []string

	// Message provides a custom error message for non-missing-key
	// validation failures.
	Message string
}

// Error implements the error interface for ValidationError.
func (e *ValidationError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("missing required parameters: %s", strings.Join(e.Missing, ", "))
	}
	return e.Message
}

// NewValidationError creates a ValidationError with a custom message.
func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// NewMissingParamsError creates a ValidationError listing missing keys.
func NewMissingParamsError(missing []string) *ValidationError {
	return &ValidationError{Missing: missing}
}

// IsValidation checks if an error is or wraps a ValidationError.
func IsValidation(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}
