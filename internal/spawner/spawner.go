// Package spawner defines the contract every single-user server spawner
// implements, plus the session context and factory registry used to
// construct one.
//
// The host framework drives a spawner through its lifecycle: Start returns
// the server's reachable location, Poll reports nil while the server runs
// and an exit status once it stops, and Get/Load/ClearState round-trip the
// spawner's persisted fields across host restarts. A spawner must tolerate
// LoadState describing a server that is still running from a previous host
// process and re-attach to it.
package spawner

import "context"

// ExitStatus reports how a stopped server exited.
type ExitStatus struct {
	Code int
}

// Spawner is the lifecycle contract the host framework expects from any
// single-user server implementation.
type Spawner interface {
	// Start launches the server and returns its reachable location.
	Start(ctx context.Context) (string, error)

	// Stop shuts the server down. force skips graceful shutdown.
	Stop(ctx context.Context, force bool) error

	// Poll returns nil while the server is running, or its exit status
	// once it has stopped. A spawner that never started reports a
	// stopped status immediately.
	Poll(ctx context.Context) (*ExitStatus, error)

	// GetState returns the spawner's persisted fields.
	GetState() State

	// LoadState restores persisted fields, re-attaching to a still-running
	// server when the state describes one.
	LoadState(state State) error

	// ClearState resets all persisted fields and drops any tracked server.
	ClearState()
}

// ProgressEvent is a single progress update emitted while a server starts.
type ProgressEvent struct {
	Progress int
	Message  string
}

// ProgressReporter is an optional capability: spawners that can report
// startup progress implement it.
type ProgressReporter interface {
	Progress(ctx context.Context) ([]ProgressEvent, error)
}

// AttrSink is an optional capability: spawners that accept attribute
// pushes implement it. SetAttr reports whether the spawner recognizes the
// named attribute; unknown names are ignored and reported false.
type AttrSink interface {
	SetAttr(name string, value any) bool
}

// Config is the configuration bundle applied to a spawner at construction.
// It is opaque to everything except the factory that consumes it.
type Config map[string]any

// Clone returns a shallow copy of the bundle.
func (c Config) Clone() Config {
	if c == nil {
		return nil
	}
	out := make(Config, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// Factory constructs a spawner for a session with a configuration bundle.
type Factory func(sess Session, cfg Config) (Spawner, error)
