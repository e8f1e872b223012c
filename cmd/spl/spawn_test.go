package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/conn-castle/spawn-layer/internal/wizard"
)

// fakeUI scripts the interactive prompts without a terminal.
type fakeUI struct {
	selectValue string
	selectErr   error
	confirm     bool
	confirmErr  error
	text        string
}

func (f *fakeUI) Select(title string, options []string, current *string) error {
	if f.selectErr != nil {
		return f.selectErr
	}
	if f.selectValue != "" {
		*current = f.selectValue
	}
	return nil
}

func (f *fakeUI) Confirm(title string, value *bool) error {
	if f.confirmErr != nil {
		return f.confirmErr
	}
	*value = f.confirm
	return nil
}

func (f *fakeUI) Text(title string, value *string) error {
	if f.text != "" {
		*value = f.text
	}
	return nil
}

func installFakeUI(t *testing.T, ui *fakeUI) {
	t.Helper()
	orig := newWizardUI
	newWizardUI = func() wizard.UI { return ui }
	t.Cleanup(func() { newWizardUI = orig })
}

func stateFile(root, session string) string {
	return filepath.Join(root, ".spawn-layer", "state", session+".json")
}

func TestSpawnWithProfileFlag(t *testing.T) {
	root := newTestProject(t)

	out, err := runCommand(t, "spawn", "--profile", "true", "--session", "alice")
	if err != nil {
		t.Fatalf("spawn error: %v", err)
	}
	if !strings.Contains(out, `Started "true" for session "alice"`) {
		t.Fatalf("expected started message, got %q", out)
	}
	if _, err := os.Stat(stateFile(root, "alice")); err != nil {
		t.Fatalf("expected state file: %v", err)
	}
}

func TestSpawnWithFieldFlags(t *testing.T) {
	root := newTestProject(t)

	out, err := runCommand(t, "spawn", "--field", "profile=true", "--session", "bob")
	if err != nil {
		t.Fatalf("spawn error: %v", err)
	}
	if !strings.Contains(out, `Started "true"`) {
		t.Fatalf("expected started message, got %q", out)
	}
	if _, err := os.Stat(stateFile(root, "bob")); err != nil {
		t.Fatalf("expected state file: %v", err)
	}
}

func TestSpawnUnknownProfile(t *testing.T) {
	newTestProject(t)

	_, err := runCommand(t, "spawn", "--profile", "nope", "--session", "alice")
	if err == nil || !strings.Contains(err.Error(), `unknown profile "nope"`) {
		t.Fatalf("expected unknown profile error, got %v", err)
	}
}

func TestSpawnInvalidField(t *testing.T) {
	newTestProject(t)

	_, err := runCommand(t, "spawn", "--field", "noequals", "--session", "alice")
	if err == nil || !strings.Contains(err.Error(), "invalid field") {
		t.Fatalf("expected invalid field error, got %v", err)
	}
}

func TestSpawnRefusesExistingState(t *testing.T) {
	newTestProject(t)

	if _, err := runCommand(t, "spawn", "--profile", "true", "--session", "alice"); err != nil {
		t.Fatalf("first spawn error: %v", err)
	}
	_, err := runCommand(t, "spawn", "--profile", "true", "--session", "alice")
	if err == nil || !strings.Contains(err.Error(), "already has recorded state") {
		t.Fatalf("expected existing state error, got %v", err)
	}
}

func TestSpawnNonInteractiveWithoutProfile(t *testing.T) {
	newTestProject(t)
	setTerminal(t, false)

	_, err := runCommand(t, "spawn", "--session", "alice")
	if err == nil || !strings.Contains(err.Error(), "interactive terminal") {
		t.Fatalf("expected terminal error, got %v", err)
	}
}

func TestSpawnInteractive(t *testing.T) {
	root := newTestProject(t)
	setTerminal(t, true)
	installFakeUI(t, &fakeUI{selectValue: "Short lived (true)", confirm: true})

	out, err := runCommand(t, "spawn", "--session", "alice")
	if err != nil {
		t.Fatalf("spawn error: %v", err)
	}
	if !strings.Contains(out, `Started "true"`) {
		t.Fatalf("expected started message, got %q", out)
	}
	if _, err := os.Stat(stateFile(root, "alice")); err != nil {
		t.Fatalf("expected state file: %v", err)
	}
}

func TestSpawnInteractiveDeclined(t *testing.T) {
	root := newTestProject(t)
	setTerminal(t, true)
	installFakeUI(t, &fakeUI{confirm: false})

	out, err := runCommand(t, "spawn", "--session", "alice")
	if err != nil {
		t.Fatalf("spawn error: %v", err)
	}
	if !strings.Contains(out, "Exiting without spawning.") {
		t.Fatalf("expected exit message, got %q", out)
	}
	if _, err := os.Stat(stateFile(root, "alice")); !os.IsNotExist(err) {
		t.Fatalf("expected no state file, got %v", err)
	}
}

func TestSpawnInteractiveCancelled(t *testing.T) {
	newTestProject(t)
	setTerminal(t, true)
	installFakeUI(t, &fakeUI{selectErr: wizard.ErrCancelled})

	out, err := runCommand(t, "spawn", "--session", "alice")
	if err != nil {
		t.Fatalf("spawn error: %v", err)
	}
	if !strings.Contains(out, "Exiting without spawning.") {
		t.Fatalf("expected exit message, got %q", out)
	}
}
