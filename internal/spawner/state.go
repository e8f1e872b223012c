package spawner

// State is a spawner's persisted field snapshot. It must survive a JSON
// round-trip, so readers use the typed accessors below rather than direct
// assertions: JSON decoding turns every number into float64.
type State map[string]any

// Clone returns a shallow copy of the state.
func (s State) Clone() State {
	if s == nil {
		return nil
	}
	out := make(State, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// String returns the named field as a string, or "" when absent or not a
// string.
func (s State) String(name string) string {
	v, ok := s[name].(string)
	if !ok {
		return ""
	}
	return v
}

// Int returns the named field as an int, tolerating the float64 values a
// JSON round-trip produces. Absent or non-numeric fields return 0.
func (s State) Int(name string) int {
	switch v := s[name].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}

// Map returns the named field as a nested map, or nil when absent or not
// a map.
func (s State) Map(name string) map[string]any {
	v, ok := s[name].(map[string]any)
	if !ok {
		return nil
	}
	return v
}
