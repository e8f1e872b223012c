package catalog

import "context"

// Static is a fixed catalog source configured by the operator.
type Static struct {
	entries []Entry
}

// NewStatic returns a source over a fixed entry list. An empty list is a
// configuration error: a static catalog exists to offer something.
func NewStatic(entries []Entry) (*Static, error) {
	if len(entries) == 0 {
		return nil, ErrEmptyCatalog
	}
	out := make([]Entry, len(entries))
	copy(out, entries)
	return &Static{entries: out}, nil
}

// Name identifies the source in diagnostics.
func (s *Static) Name() string { return "static" }

// Entries returns the configured entries in offer order.
func (s *Static) Entries(context.Context) ([]Entry, error) {
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out, nil
}
