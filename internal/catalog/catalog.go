// Package catalog defines the named spawner configurations offered for
// selection and the sources that produce them.
package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/conn-castle/spawn-layer/internal/messages"
	"github.com/conn-castle/spawn-layer/internal/spawner"
)

// Entry is a single selectable profile: a display label, a unique key,
// the spawner implementation it resolves to, the configuration bundle
// applied at construction, and an optional free-text payload (e.g. a
// batch script body) passed through verbatim.
type Entry struct {
	Display   string
	Key       string
	SpawnerID string
	Config    spawner.Config
	Payload   string
}

// Source produces catalog entries. Dynamic sources recompute their
// entries on every call so operators see live catalogs without a
// restart; nothing in this package caches.
type Source interface {
	// Name identifies the source in diagnostics.
	Name() string

	// Entries returns the source's current entries in offer order.
	Entries(ctx context.Context) ([]Entry, error)
}

// ErrEmptyCatalog reports a static catalog configured with no entries.
var ErrEmptyCatalog = errors.New(messages.CatalogEmpty)

// DuplicateKeys returns each key that appears more than once, in first
// appearance order. Duplicates are a configuration mistake surfaced as a
// diagnostic; lookups resolve to the first match.
func DuplicateKeys(entries []Entry) []string {
	seen := make(map[string]int, len(entries))
	var dups []string
	for _, e := range entries {
		seen[e.Key]++
		if seen[e.Key] == 2 {
			dups = append(dups, e.Key)
		}
	}
	return dups
}

// Lookup returns the first entry whose key matches.
func Lookup(entries []Entry, key string) (Entry, bool) {
	for _, e := range entries {
		if e.Key == key {
			return e, true
		}
	}
	return Entry{}, false
}

// Collect assembles the merged catalog from sources in order. Source
// failures are degraded to warnings rather than aborting the listing:
// a dynamic source being unreachable must not take down the catalogs
// that are reachable. Duplicate keys across the merged result are also
// reported as warnings.
func Collect(ctx context.Context, sources ...Source) ([]Entry, []string) {
	var entries []Entry
	var warnings []string
	for _, src := range sources {
		got, err := src.Entries(ctx)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf(messages.CatalogSourceFailedFmt, src.Name(), err))
			continue
		}
		entries = append(entries, got...)
	}
	for _, key := range DuplicateKeys(entries) {
		warnings = append(warnings, fmt.Sprintf(messages.CatalogDuplicateKeyFmt, key))
	}
	return entries, warnings
}
