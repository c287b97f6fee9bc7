package daemon

import (
	"sync"
)

// BaseDaemon provides a base implementation of the state-keeping part of
// the Daemon interface that concrete daemons embed to avoid reimplementing
// common functionality.
type BaseDaemon struct {
	mu            sync.RWMutex
	name          string
	state         State
	lastError     error
	stateChangeCb StateChangeCallback
}

// NewBaseDaemon creates a base daemon in the Stopped state.
func NewBaseDaemon(name string) *BaseDaemon {
	return &BaseDaemon{
		name:  name,
		state: StateStopped,
	}
}

// Name returns the daemon name.
func (b *BaseDaemon) Name() string {
	return b.name
}

// State returns the current lifecycle state.
func (b *BaseDaemon) State() State {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.state
}

// LastError returns the last error.
func (b *BaseDaemon) LastError() error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lastError
}

// SetStateChangeCallback sets the state change callback.
func (b *BaseDaemon) SetStateChangeCallback(callback StateChangeCallback) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.stateChangeCb = callback
}

// UpdateState updates the daemon state and notifies the callback.
func (b *BaseDaemon) UpdateState(newState State, err error) {
	b.mu.Lock()
	oldState := b.state
	b.state = newState
	b.lastError = err
	callback := b.stateChangeCb
	b.mu.Unlock()

	// Call the callback outside of the lock to avoid deadlocks
	if callback != nil && oldState != newState {
		callback(b.name, oldState, newState, err)
	}
}
