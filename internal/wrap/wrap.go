// Package wrap implements a delegating spawner proxy: it satisfies the
// same lifecycle contract as any spawner while deferring construction of
// the concrete child spawner until first use.
//
// The proxy persists which child identifier and configuration bundle it
// chose so a host restart reconstructs the same child, and it caches the
// child's own persisted state so a child that was running before the
// restart is re-attached rather than restarted.
package wrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/conn-castle/spawn-layer/internal/messages"
	"github.com/conn-castle/spawn-layer/internal/spawner"
)

// State keys owned by the proxy itself. The child's own snapshot nests
// under stateKeyChildState untouched.
const (
	stateKeyChildConf  = "child_conf"
	stateKeyChildState = "child_state"
)

// ErrNoChild reports an optional capability queried before any child
// spawner exists.
var ErrNoChild = errors.New(messages.WrapNoChildProgress)

// Spawner forwards every lifecycle operation to a lazily-constructed
// child spawner. The zero value is not usable; construct with New.
//
// The host framework guarantees at most one lifecycle operation in
// flight per proxy, so the proxy holds no locks of its own.
type Spawner struct {
	registry *spawner.Registry
	session  spawner.Session

	childID     string
	childConfig spawner.Config
	childState  spawner.State
	child       spawner.Spawner

	// attrs holds proxy-side values pushed one-way to the child. Writes
	// never flow back: the child's internal updates must not be clobbered
	// by stale proxy values.
	attrs map[string]any
}

// New returns a proxy that will construct childID with cfg on first use.
func New(registry *spawner.Registry, sess spawner.Session, childID string, cfg spawner.Config) *Spawner {
	return &Spawner{
		registry:    registry,
		session:     sess,
		childID:     childID,
		childConfig: cfg.Clone(),
		attrs:       make(map[string]any),
	}
}

// Child returns the live child spawner, or nil before construction.
func (w *Spawner) Child() spawner.Spawner { return w.child }

// ChildID returns the identifier the proxy will construct (or has
// constructed).
func (w *Spawner) ChildID() string { return w.childID }

// ChildConfig returns the configuration bundle for the current descriptor.
func (w *Spawner) ChildConfig() spawner.Config { return w.childConfig }

// SetDescriptor changes which child the proxy constructs. A live child
// pins the descriptor: callers must ClearState first, otherwise the
// change is refused so the descriptor never shifts under a running child.
func (w *Spawner) SetDescriptor(childID string, cfg spawner.Config) error {
	if w.child != nil && childID != w.childID {
		return fmt.Errorf(messages.WrapDescriptorLockedFmt, childID)
	}
	w.childID = childID
	w.childConfig = cfg.Clone()
	return nil
}

// ConstructChild instantiates the child named by the current descriptor.
// Repeated calls with a live child are no-ops returning the existing
// child. Construction failures propagate to the caller unwrapped beyond
// the registry's own identification; the proxy neither swallows nor
// retries them.
func (w *Spawner) ConstructChild() (spawner.Spawner, error) {
	if w.child != nil {
		return w.child, nil
	}
	child, err := w.registry.New(w.childID, w.session, w.childConfig)
	if err != nil {
		return nil, err
	}
	// A fresh child starts from its own zero state; whatever it believes
	// on construction reflects proxy-level fields, not its own.
	child.ClearState()
	if len(w.childState) > 0 {
		if err := child.LoadState(w.childState); err != nil {
			return nil, err
		}
	}
	w.child = child
	w.pushAttrs()
	return child, nil
}

// SetAttr records a proxy-side attribute and pushes it to the live child
// unless the configuration bundle owns the name. It reports whether a
// live child accepted the push (false before construction or when the
// bundle owns the name; the value is still recorded for later pushes).
func (w *Spawner) SetAttr(name string, value any) bool {
	w.attrs[name] = value
	if w.child == nil {
		return false
	}
	return w.pushAttr(name, value)
}

// pushAttrs replays every recorded attribute into a newly built child.
func (w *Spawner) pushAttrs() {
	for name, value := range w.attrs {
		w.pushAttr(name, value)
	}
}

// pushAttr forwards a single attribute, skipping names the bundle owns so
// bundle-provided options are never overwritten by proxy-side values.
func (w *Spawner) pushAttr(name string, value any) bool {
	if _, owned := w.childConfig[name]; owned {
		return false
	}
	sink, ok := w.child.(spawner.AttrSink)
	if !ok {
		return false
	}
	return sink.SetAttr(name, value)
}

// Start ensures a child exists and forwards to its Start.
func (w *Spawner) Start(ctx context.Context) (string, error) {
	child, err := w.ConstructChild()
	if err != nil {
		return "", err
	}
	return child.Start(ctx)
}

// Stop forwards to the live child, or completes immediately when no
// child was ever constructed.
func (w *Spawner) Stop(ctx context.Context, force bool) error {
	if w.child == nil {
		return nil
	}
	return w.child.Stop(ctx, force)
}

// Poll forwards to the live child. With no child, nothing was ever
// started, so Poll reports a stopped status immediately.
func (w *Spawner) Poll(ctx context.Context) (*spawner.ExitStatus, error) {
	if w.child == nil {
		return &spawner.ExitStatus{Code: 1}, nil
	}
	return w.child.Poll(ctx)
}

// Progress forwards to the live child when it reports progress.
// Before a child exists the capability is not yet available: ErrNoChild.
func (w *Spawner) Progress(ctx context.Context) ([]spawner.ProgressEvent, error) {
	if w.child == nil {
		return nil, ErrNoChild
	}
	reporter, ok := w.child.(spawner.ProgressReporter)
	if !ok {
		return nil, nil
	}
	return reporter.Progress(ctx)
}

// GetState returns the proxy's own persisted fields plus a snapshot of
// the live child's state, keyed so LoadState can reconstruct both.
func (w *Spawner) GetState() spawner.State {
	state := spawner.State{
		stateKeyChildConf: map[string]any(w.childConfig.Clone()),
	}
	if w.child != nil {
		w.childState = w.child.GetState()
		state[stateKeyChildState] = map[string]any(w.childState)
	}
	return state
}

// LoadState restores the proxy's fields from a persisted blob, caches the
// child's sub-blob, and eagerly reconstructs the child so a server that
// was running before the restart is re-attached immediately.
func (w *Spawner) LoadState(state spawner.State) error {
	if conf := state.Map(stateKeyChildConf); conf != nil {
		if w.childConfig == nil {
			w.childConfig = make(spawner.Config, len(conf))
		}
		for k, v := range conf {
			w.childConfig[k] = v
		}
	}
	w.childState = spawner.State(state.Map(stateKeyChildState))
	_, err := w.ConstructChild()
	return err
}

// ClearState clears the live child's state, then drops the child
// reference and resets the cached state and bundle. This is the only
// sanctioned way to discard a live child.
func (w *Spawner) ClearState() {
	if w.child != nil {
		w.child.ClearState()
	}
	w.childState = nil
	w.childConfig = spawner.Config{}
	w.child = nil
}
