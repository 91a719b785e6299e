// Package store owns the console's in-memory representation of the proxy
// entities and keeps it synchronized with the backend API.
//
// Each store guards one entity collection plus a busy flag and the last
// recorded failure. Operations are transactional with respect to that
// state: a failure leaves the prior collection untouched
// (stale-but-consistent over empty-but-wrong) and is recorded for the
// consumer to render and dismiss.
//
// The busy flag is informational for consumers, not an enforced mutex: two
// rapid-fire operations against the same store both run, and the
// later-resolving response wins.
package store

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/musram/middleware-manager-sub002/client"
)

// stateTracker carries the busy flag and last failure shared by all stores.
// Its mutex also guards the embedding store's collection.
type stateTracker struct {
	mu      sync.RWMutex
	busy    bool
	lastErr error
}

// begin marks an operation as started: busy is raised and the prior error
// is cleared so a retry of a failed operation starts clean.
func (t *stateTracker) begin() {
	t.mu.Lock()
	t.busy = true
	t.lastErr = nil
	t.mu.Unlock()
}

// fail records a failure and drops the busy flag.
func (t *stateTracker) fail(err error) {
	t.mu.Lock()
	t.busy = false
	t.lastErr = err
	t.mu.Unlock()
}

// Busy reports whether an operation is currently in flight.
func (t *stateTracker) Busy() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.busy
}

// LastError returns the failure recorded by the most recent operation, or
// nil. Errors stay visible until dismissed via ClearError or until another
// operation starts.
func (t *stateTracker) LastError() error {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.lastErr
}

// ClearError dismisses the recorded failure without running any operation.
func (t *stateTracker) ClearError() {
	t.mu.Lock()
	t.lastErr = nil
	t.mu.Unlock()
}

// ParseConfig parses configuration JSON typed by the operator. A syntax
// error is reported as a ValidationError before any request is attempted.
func ParseConfig(text string) (map[string]interface{}, error) {
	var config map[string]interface{}
	if err := json.Unmarshal([]byte(text), &config); err != nil {
		return nil, &client.ValidationError{
			Message: fmt.Sprintf("configuration is not valid JSON: %v", err),
		}
	}
	return config, nil
}

// decode unmarshals a transport payload, reporting malformed backend
// responses as network-level failures.
func decode(payload json.RawMessage, out interface{}) error {
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("failed to parse backend response: %w", err)
	}
	return nil
}
