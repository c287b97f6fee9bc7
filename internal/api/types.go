package api

import (
	"time"
)

// DaemonState represents the lifecycle state of a daemon.
type DaemonState string

const (
	StateStopped  DaemonState = "stopped"
	StateStarting DaemonState = "starting"
	StateRunning  DaemonState = "running"
	StateStopping DaemonState = "stopping"
	StateFailed   DaemonState = "failed"
)

// IntegrationHealth is the aggregate health of the daemon set.
type IntegrationHealth string

const (
	// HealthHealthy means every required daemon answered its health check
	// with a success result.
	HealthHealthy IntegrationHealth = "healthy"
	// HealthDegraded means at least one, but not all, required daemons are
	// healthy.
	HealthDegraded IntegrationHealth = "degraded"
	// HealthFailed means no required daemon is healthy.
	HealthFailed IntegrationHealth = "failed"
)

// Request is the canonical envelope every command and router consumes,
// regardless of the caller's original protocol (argv, raw JSON, JSON-RPC,
// structured intent). A Request is never mutated after creation; transforms
// copy.
type Request struct {
	Command       string         `json:"command"`
	Params        map[string]any `json:"params,omitempty"`
	CorrelationID string         `json:"correlationId"`
	SourceID      string         `json:"sourceId,omitempty"`
	TargetID      string         `json:"targetId,omitempty"`
	Timestamp     time.Time      `json:"timestamp"`
}

// WithParams returns a copy of the request carrying the given params map.
// The receiver is left untouched.
func (r Request) WithParams(params map[string]any) Request {
	r.Params = params
	return r
}

// Result is the canonical outcome envelope. Error is set iff Success is
// false; Data and Error are never both populated.
type Result struct {
	Success   bool      `json:"success"`
	Data      any       `json:"data,omitempty"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Ok builds a success result carrying data.
func Ok(data any) Result {
	return Result{
		Success:   true,
		Data:      data,
		Timestamp: time.Now(),
	}
}

// Fail builds an error result from a message.
func Fail(message string) Result {
	return Result{
		Success:   false,
		Error:     message,
		Timestamp: time.Now(),
	}
}

// FailErr builds an error result from an error value.
func FailErr(err error) Result {
	return Fail(err.Error())
}

// Message envelope types used on the wire between daemons.
const (
	TypeResponse = "response"
	TypeError    = "error"
)

// Message is the router-level wire envelope. Requests travel with Type set
// to the command name; replies mirror the envelope with From/To swapped and
// Type set to "response" or "error".
type Message struct {
	ID        string         `json:"id"`
	From      string         `json:"from,omitempty"`
	To        string         `json:"to,omitempty"`
	Type      string         `json:"type"`
	Data      map[string]any `json:"data,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// Reply synthesizes the response envelope for this message: From/To are
// swapped, the correlation id is preserved, and Type reflects the inner
// result's success.
func (m Message) Reply(result Result) Message {
	replyType := TypeResponse
	if !result.Success {
		replyType = TypeError
	}

	data := map[string]any{
		"success": result.Success,
	}
	if result.Data != nil {
		data["data"] = result.Data
	}
	if result.Error != "" {
		data["error"] = result.Error
	}

	return Message{
		ID:        m.ID,
		From:      m.To,
		To:        m.From,
		Type:      replyType,
		Data:      data,
		Timestamp: time.Now(),
	}
}

// ResultFromMessage reconstructs a canonical result from a reply envelope.
func ResultFromMessage(msg Message) Result {
	result := Result{
		Success:   msg.Type == TypeResponse,
		Timestamp: msg.Timestamp,
	}
	if msg.Data == nil {
		if !result.Success {
			result.Error = "unspecified error"
		}
		return result
	}
	if success, ok := msg.Data["success"].(bool); ok {
		result.Success = success
	}
	if data, ok := msg.Data["data"]; ok {
		result.Data = data
	}
	if errMsg, ok := msg.Data["error"].(string); ok {
		result.Error = errMsg
	}
	if !result.Success && result.Error == "" {
		result.Error = "unspecified error"
	}
	return result
}
