// Package profiles layers profile selection on top of the delegating
// proxy: it maps a user-submitted catalog key to the (spawner identifier,
// configuration bundle) pair the proxy constructs, and it persists the
// chosen key so a restart recomputes the same descriptor without
// re-presenting the selection form.
package profiles

import (
	"context"

	"github.com/conn-castle/spawn-layer/internal/catalog"
	"github.com/conn-castle/spawn-layer/internal/form"
	"github.com/conn-castle/spawn-layer/internal/spawner"
	"github.com/conn-castle/spawn-layer/internal/wrap"
)

// Persisted state key holding the selected profile.
const stateKeyProfile = "profile"

// Bundle key under which a profile's free-text payload reaches the child
// spawner.
const payloadConfigKey = "payload"

// Spawner selects a profile and delegates the full lifecycle to the
// wrapped proxy.
type Spawner struct {
	*wrap.Spawner

	sources []catalog.Source

	profileKey string
	formData   map[string][]string
}

// New returns a selector whose proxy falls back to defaultID/defaultCfg
// when no profile has been (successfully) selected.
func New(registry *spawner.Registry, sess spawner.Session, defaultID string, defaultCfg spawner.Config, sources ...catalog.Source) *Spawner {
	return &Spawner{
		Spawner: wrap.New(registry, sess, defaultID, defaultCfg),
		sources: sources,
	}
}

// Catalog assembles the offered entries, recomputed on every call so
// dynamic sources stay live. Warnings cover failed sources and duplicate
// keys.
func (p *Spawner) Catalog(ctx context.Context) ([]catalog.Entry, []string) {
	return catalog.Collect(ctx, p.sources...)
}

// ProfileKey returns the currently selected catalog key ("" when no
// selection was made).
func (p *Spawner) ProfileKey() string { return p.profileKey }

// SetFormData records the latest submitted selection form; it is parsed
// and applied when the child is next constructed.
func (p *Spawner) SetFormData(formData map[string][]string) {
	p.formData = formData
}

// RenderForm produces the selection form fragment for the current
// catalog.
func (p *Spawner) RenderForm(ctx context.Context) (string, error) {
	entries, _ := p.Catalog(ctx)
	return form.Render(entries)
}

// ParseSelection extracts the chosen key from submitted fields, falling
// back to the first catalog entry when no choice was submitted.
func (p *Spawner) ParseSelection(ctx context.Context, formData map[string][]string) form.Selection {
	entries, _ := p.Catalog(ctx)
	return form.ParseSelection(formData, entries)
}

// SelectProfile records key as the chosen profile and, when a catalog
// entry matches, points the proxy's descriptor at that entry. An unknown
// key leaves the current descriptor in place: form submissions are user
// input and must never crash the session. editedPayload, when non-empty,
// overrides the entry's own payload.
func (p *Spawner) SelectProfile(ctx context.Context, key string, editedPayload string) error {
	p.profileKey = key
	entries, _ := p.Catalog(ctx)
	entry, ok := catalog.Lookup(entries, key)
	if !ok {
		return nil
	}
	cfg := entry.Config.Clone()
	if cfg == nil {
		cfg = spawner.Config{}
	}
	payload := entry.Payload
	if editedPayload != "" {
		payload = editedPayload
	}
	if payload != "" {
		cfg[payloadConfigKey] = payload
	}
	return p.SetDescriptor(entry.SpawnerID, cfg)
}

// ConstructChild applies the latest submitted selection, then delegates
// construction to the proxy. With a live child this is a no-op returning
// it, preserving construction idempotence.
func (p *Spawner) ConstructChild(ctx context.Context) (spawner.Spawner, error) {
	if child := p.Child(); child != nil {
		return child, nil
	}
	sel := p.ParseSelection(ctx, p.formData)
	if err := p.SelectProfile(ctx, sel.Key, sel.Payload); err != nil {
		return nil, err
	}
	return p.Spawner.ConstructChild()
}

// Start ensures the selection has been applied before the proxy starts
// the child.
func (p *Spawner) Start(ctx context.Context) (string, error) {
	if _, err := p.ConstructChild(ctx); err != nil {
		return "", err
	}
	return p.Spawner.Start(ctx)
}

// GetState adds the selected profile key to the proxy's blob.
func (p *Spawner) GetState() spawner.State {
	state := p.Spawner.GetState()
	state[stateKeyProfile] = p.profileKey
	return state
}

// LoadState recovers the previously chosen key (defaulting to unset),
// re-applies it so the descriptor is reconstructed deterministically,
// then restores the proxy's own state, which eagerly rebuilds the child.
func (p *Spawner) LoadState(ctx context.Context, state spawner.State) error {
	if err := p.SelectProfile(ctx, state.String(stateKeyProfile), ""); err != nil {
		return err
	}
	return p.Spawner.LoadState(state)
}

// ClearState resets the selection along with the proxy's state.
func (p *Spawner) ClearState() {
	p.Spawner.ClearState()
	p.profileKey = ""
}
