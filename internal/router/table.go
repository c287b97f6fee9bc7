package router

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"continuum/internal/api"
	"continuum/pkg/logging"
)

// Handler processes one canonical request and returns its payload. A
// returned error is converted into a canonical error result by the table;
// it never propagates past Route.
type Handler func(ctx context.Context, req api.Request) (any, error)

// Table is the passive message-routing strategy: a handler registry keyed
// by message type. Components self-register the types they understand;
// registration is the only coupling between sender and receiver.
//
// A Table is an explicit instance passed by reference to whoever needs to
// register or route. There is deliberately no package-level default table.
type Table struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

// NewTable creates an empty routing table.
func NewTable() *Table {
	return &Table{
		handlers: make(map[string]Handler),
	}
}

// RegisterHandler binds a message type to a handler. Registering an already
// bound type replaces the previous handler.
func (t *Table) RegisterHandler(messageType string, handler Handler) error {
	if messageType == "" {
		return fmt.Errorf("cannot register handler for empty message type")
	}
	if handler == nil {
		return fmt.Errorf("cannot register nil handler for %s", messageType)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.handlers[messageType] = handler
	return nil
}

// UnregisterHandler removes the handler for a message type.
func (t *Table) UnregisterHandler(messageType string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.handlers, messageType)
}

// HandledTypes returns the currently registered message types, sorted for
// stable output.
func (t *Table) HandledTypes() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	types := make([]string, 0, len(t.handlers))
	for messageType := range t.handlers {
		types = append(types, messageType)
	}
	sort.Strings(types)
	return types
}

// Route dispatches the request to the handler registered for its command.
//
// An unknown command yields an error result listing every registered type;
// the self-documenting failure keeps misrouted messages debuggable without
// a stack trace. Handler errors and panics are likewise wrapped into the
// canonical envelope, so Route never raises.
func (t *Table) Route(ctx context.Context, req api.Request) api.Result {
	t.mu.RLock()
	handler, ok := t.handlers[req.Command]
	t.mu.RUnlock()

	if !ok {
		known := t.HandledTypes()
		logging.Debug("Router", "No handler for message type %q (registered: %s)", req.Command, strings.Join(known, ", "))
		return api.Fail(fmt.Sprintf("no handler registered for message type %q; registered types: [%s]",
			req.Command, strings.Join(known, ", ")))
	}

	return invoke(ctx, handler, req)
}

// invoke runs a handler and converts every failure mode, error return or
// panic, into a canonical result.
func invoke(ctx context.Context, handler Handler, req api.Request) (result api.Result) {
	defer func() {
		if r := recover(); r != nil {
			logging.Error("Router", fmt.Errorf("%v", r), "Handler for %q panicked", req.Command)
			result = api.Fail(fmt.Sprintf("handler for %q panicked: %v", req.Command, r))
		}
	}()

	data, err := handler(ctx, req)
	if err != nil {
		return api.FailErr(err)
	}
	return api.Ok(data)
}
