package spawner

import (
	"encoding/json"
	"testing"
)

func TestStateAccessorsAfterJSONRoundTrip(t *testing.T) {
	state := State{
		"pid": 4242,
		"url": "http://127.0.0.1:8888",
		"child_state": map[string]any{
			"job_id": "12345",
		},
	}

	encoded, err := json.Marshal(state)
	if err != nil {
		t.Fatalf("marshal state: %v", err)
	}
	var decoded State
	if err := json.Unmarshal(encoded, &decoded); err != nil {
		t.Fatalf("unmarshal state: %v", err)
	}

	if decoded.Int("pid") != 4242 {
		t.Fatalf("expected pid to survive round trip, got %d", decoded.Int("pid"))
	}
	if decoded.String("url") != "http://127.0.0.1:8888" {
		t.Fatalf("expected url to survive round trip, got %q", decoded.String("url"))
	}
	nested := decoded.Map("child_state")
	if nested == nil || nested["job_id"] != "12345" {
		t.Fatalf("expected nested child state to survive round trip, got %v", nested)
	}
}

func TestStateAccessorsMissingFields(t *testing.T) {
	state := State{}
	if state.Int("pid") != 0 {
		t.Fatalf("expected missing int to be 0")
	}
	if state.String("url") != "" {
		t.Fatalf("expected missing string to be empty")
	}
	if state.Map("child_state") != nil {
		t.Fatalf("expected missing map to be nil")
	}
}

func TestConfigCloneIsShallowCopy(t *testing.T) {
	cfg := Config{"port": 8888}
	clone := cfg.Clone()
	clone["port"] = 9999
	if cfg["port"] != 8888 {
		t.Fatalf("expected clone writes to leave the original untouched")
	}
	if Config(nil).Clone() != nil {
		t.Fatalf("expected nil clone to stay nil")
	}
}
