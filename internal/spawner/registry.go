package spawner

import (
	"errors"
	"fmt"

	"github.com/conn-castle/spawn-layer/internal/messages"
)

// ErrUnknownSpawner reports a lookup of a spawner identifier that was
// never registered. Callers can use errors.Is to distinguish it from
// factory construction failures.
var ErrUnknownSpawner = errors.New(messages.SpawnerUnknown)

// Registry maps spawner identifiers to factories. Identifiers are
// registered explicitly at startup; there is no reflective discovery.
type Registry struct {
	factories map[string]Factory
	order     []string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register installs a factory under id. Registering the same id twice is
// an error.
func (r *Registry) Register(id string, factory Factory) error {
	if id == "" {
		return errors.New(messages.SpawnerRegisterEmptyID)
	}
	if factory == nil {
		return fmt.Errorf(messages.SpawnerRegisterNilFactoryFmt, id)
	}
	if _, exists := r.factories[id]; exists {
		return fmt.Errorf(messages.SpawnerRegisterDuplicateFmt, id)
	}
	r.factories[id] = factory
	r.order = append(r.order, id)
	return nil
}

// MustRegister panics if registration fails. Intended for startup wiring
// where a duplicate identifier is a programming error.
func (r *Registry) MustRegister(id string, factory Factory) {
	if err := r.Register(id, factory); err != nil {
		panic(err)
	}
}

// IDs returns the registered identifiers in registration order.
func (r *Registry) IDs() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Has reports whether id is registered.
func (r *Registry) Has(id string) bool {
	_, ok := r.factories[id]
	return ok
}

// New constructs a spawner for id. Unknown identifiers return
// ErrUnknownSpawner; factory failures propagate unchanged.
func (r *Registry) New(id string, sess Session, cfg Config) (Spawner, error) {
	factory, ok := r.factories[id]
	if !ok {
		return nil, fmt.Errorf(messages.SpawnerUnknownIDFmt, id, ErrUnknownSpawner)
	}
	return factory(sess, cfg)
}
