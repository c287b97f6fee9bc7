package router

import (
	"context"
	"time"

	"continuum/internal/api"
	"continuum/pkg/logging"
)

// Target is the slice of the daemon surface the directed router needs: a
// name and the ability to handle a canonical request.
type Target interface {
	Name() string
	HandleMessage(ctx context.Context, req api.Request) api.Result
}

// Directory resolves a daemon name to a live target. The daemon registry
// adapts itself to this interface; the router never holds daemon
// construction or lifecycle knowledge.
type Directory interface {
	Lookup(name string) (Target, bool)
}

// Directed implements the second routing strategy: messages carrying an
// explicit target daemon name are forwarded to that daemon and the inner
// result is folded back into a reply envelope with From/To swapped.
type Directed struct {
	directory Directory
}

// NewDirected creates a directed router over the given daemon directory.
func NewDirected(directory Directory) *Directed {
	return &Directed{directory: directory}
}

// Deliver forwards the message to the daemon named in its To field and
// returns the synthesized reply envelope.
//
// An unknown target produces an error reply, not a raised error: callers
// depend on receiving a response to unblock their pending correlation.
func (d *Directed) Deliver(ctx context.Context, msg api.Message) api.Message {
	if msg.To == "" {
		return msg.Reply(api.Fail("message has no target daemon"))
	}

	target, ok := d.directory.Lookup(msg.To)
	if !ok {
		err := api.NewDaemonNotFoundError(msg.To)
		logging.Warn("Router", "Cannot deliver %q message: %v", msg.Type, err)
		return msg.Reply(api.FailErr(err))
	}

	req := RequestFromMessage(msg)
	result := target.HandleMessage(ctx, req)
	return msg.Reply(result)
}

// RequestFromMessage converts a wire envelope into the canonical request
// consumed by daemons. The envelope id doubles as the correlation id.
func RequestFromMessage(msg api.Message) api.Request {
	timestamp := msg.Timestamp
	if timestamp.IsZero() {
		timestamp = time.Now()
	}
	return api.Request{
		Command:       msg.Type,
		Params:        msg.Data,
		CorrelationID: msg.ID,
		SourceID:      msg.From,
		TargetID:      msg.To,
		Timestamp:     timestamp,
	}
}
