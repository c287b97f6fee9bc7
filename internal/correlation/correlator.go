package correlation

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"continuum/internal/api"
	"continuum/pkg/logging"
)

// DefaultTimeout is how long a pending correlation waits for its response
// before the caller observes a TimeoutError.
const DefaultTimeout = 10 * time.Second

// Transport is the outbound half of the duplex channel the correlator
// writes to. Inbound envelopes are fed back through HandleResponse.
type Transport interface {
	Send(ctx context.Context, msg api.Message) error
}

type outcome struct {
	result api.Result
	err    error
}

// pendingCorrelation is the ephemeral record pairing an outbound request
// with its eventual response. It lives only between send and
// response-or-timeout; an entry that is never removed is a defect.
type pendingCorrelation struct {
	command   string
	createdAt time.Time
	timer     *time.Timer
	done      chan outcome
}

// Correlator pairs outbound requests with their asynchronous responses.
// Each request is tagged with a generated correlation id; inbound envelopes
// resolve the matching pending entry, and a per-request timer bounds the
// wait.
type Correlator struct {
	transport Transport
	timeout   time.Duration
	sourceID  string

	mu      sync.Mutex
	pending map[string]*pendingCorrelation
}

// Option configures a Correlator.
type Option func(*Correlator)

// WithTimeout overrides the default response deadline.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Correlator) {
		c.timeout = timeout
	}
}

// WithSourceID sets the From field stamped on outbound envelopes.
func WithSourceID(sourceID string) Option {
	return func(c *Correlator) {
		c.sourceID = sourceID
	}
}

// New creates a correlator writing to the given transport.
func New(transport Transport, opts ...Option) *Correlator {
	c := &Correlator{
		transport: transport,
		timeout:   DefaultTimeout,
		pending:   make(map[string]*pendingCorrelation),
	}
	for _, opt := range opts {
		opt(c)
	}
	// A non-positive timeout would expire every request before its
	// response can arrive.
	if c.timeout <= 0 {
		c.timeout = DefaultTimeout
	}
	return c
}

// Call sends the request and blocks until its correlated response arrives,
// the deadline elapses, or the context is cancelled.
//
// On timeout the pending entry is removed before the error is returned, so
// the table never leaks; a response arriving after that is dropped
// silently. Cancellation is caller-local only: in-flight work inside the
// target daemon is not stopped.
func (c *Correlator) Call(ctx context.Context, req api.Request) (api.Result, error) {
	correlationID := req.CorrelationID
	if correlationID == "" {
		correlationID = uuid.NewString()
	}

	entry := &pendingCorrelation{
		command:   req.Command,
		createdAt: time.Now(),
		done:      make(chan outcome, 1),
	}
	entry.timer = time.AfterFunc(c.timeout, func() {
		c.expire(correlationID)
	})

	c.mu.Lock()
	c.pending[correlationID] = entry
	c.mu.Unlock()

	msg := api.Message{
		ID:        correlationID,
		From:      c.sourceID,
		To:        req.TargetID,
		Type:      req.Command,
		Data:      req.Params,
		Timestamp: time.Now(),
	}

	if err := c.transport.Send(ctx, msg); err != nil {
		c.remove(correlationID)
		return api.Result{}, err
	}

	select {
	case out := <-entry.done:
		return out.result, out.err
	case <-ctx.Done():
		c.remove(correlationID)
		return api.Result{}, ctx.Err()
	}
}

// HandleResponse resolves the pending entry matching the envelope's id.
// Envelopes with no matching entry are ignored: they may be stray or late,
// and neither is an error.
func (c *Correlator) HandleResponse(msg api.Message) {
	entry, ok := c.take(msg.ID)
	if !ok {
		logging.Debug("Correlator", "Dropping response with unknown correlation id %s", msg.ID)
		return
	}

	entry.timer.Stop()
	entry.done <- outcome{result: api.ResultFromMessage(msg)}
}

// Pending returns the number of in-flight correlations. Exposed for health
// reporting and leak assertions in tests.
func (c *Correlator) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

// expire fires on the per-request timer: the entry is removed from the
// table first, then its caller is rejected with a TimeoutError naming the
// original command.
func (c *Correlator) expire(correlationID string) {
	entry, ok := c.take(correlationID)
	if !ok {
		return
	}

	err := &api.TimeoutError{
		Command:       entry.command,
		CorrelationID: correlationID,
		Timeout:       c.timeout,
	}
	logging.Warn("Correlator", "Request %q (%s) timed out after %s", entry.command, correlationID, c.timeout)
	entry.done <- outcome{err: err}
}

// take removes and returns the pending entry for the id. Check and mutate
// happen under the same critical section so an entry resolves exactly once.
func (c *Correlator) take(correlationID string) (*pendingCorrelation, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.pending[correlationID]
	if ok {
		delete(c.pending, correlationID)
	}
	return entry, ok
}

// remove drops a pending entry without resolving it, used when the send
// itself failed or the caller's context was cancelled.
func (c *Correlator) remove(correlationID string) {
	entry, ok := c.take(correlationID)
	if ok {
		entry.timer.Stop()
	}
}
