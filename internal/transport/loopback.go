package transport

import (
	"context"

	"continuum/internal/api"
	"continuum/internal/router"
)

// ResponseSink receives reply envelopes coming back over a transport,
// typically the correlator's HandleResponse.
type ResponseSink func(msg api.Message)

// Loopback is the in-process duplex channel: outbound envelopes are
// delivered to the directed router and the synthesized reply is fed back
// into the response sink. All daemons run in one process and trust domain,
// so this is the transport the platform actually runs on; byte-level
// framing belongs to external collaborators.
type Loopback struct {
	directed *router.Directed
	sink     ResponseSink
}

// NewLoopback creates a loopback transport delivering through the given
// directed router.
func NewLoopback(directed *router.Directed, sink ResponseSink) *Loopback {
	return &Loopback{
		directed: directed,
		sink:     sink,
	}
}

// Send delivers the envelope asynchronously. Delivery continues even if the
// caller's context is cancelled afterwards: a caller-side timeout abandons
// the correlation but cannot stop in-flight work inside the target daemon.
func (l *Loopback) Send(ctx context.Context, msg api.Message) error {
	detached := context.WithoutCancel(ctx)
	go func() {
		reply := l.directed.Deliver(detached, msg)
		if l.sink != nil {
			l.sink(reply)
		}
	}()
	return nil
}
