package main

// NOTE: Tests in this file mutate package-level globals (getwd, isTerminal,
// newWizardUI, runInit, runCatalogServer, executeFunc). Do not use
// t.Parallel() at the top level. Each test must restore globals via t.Cleanup().

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testConfig = `[defaults]
spawner = "local"

[[profiles]]
display = "Sleeping server"
key = "sleep"
spawner = "local"

[profiles.options]
command = ["/bin/sleep", "30"]

[[profiles]]
display = "Short lived"
key = "true"
spawner = "local"

[profiles.options]
command = ["/bin/true"]
`

// newTestProject creates an initialized project root and points getwd at it.
func newTestProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeTestConfig(t, root, testConfig)
	setWorkingDir(t, root)
	return root
}

func writeTestConfig(t *testing.T, root string, content string) {
	t.Helper()
	dir := filepath.Join(root, ".spawn-layer")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func setWorkingDir(t *testing.T, dir string) {
	t.Helper()
	orig := getwd
	getwd = func() (string, error) { return dir, nil }
	t.Cleanup(func() { getwd = orig })
}

func setTerminal(t *testing.T, interactive bool) {
	t.Helper()
	orig := isTerminal
	isTerminal = func() bool { return interactive }
	t.Cleanup(func() { isTerminal = orig })
}

// runCommand executes the root command with args and returns combined output.
func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestResolveSpawnRootMissing(t *testing.T) {
	setWorkingDir(t, t.TempDir())
	_, err := runCommand(t, "profiles")
	if err == nil || !strings.Contains(err.Error(), ".spawn-layer") {
		t.Fatalf("expected missing root error, got %v", err)
	}
}

func TestResolveSessionName(t *testing.T) {
	name, err := resolveSessionName("  alice ")
	if err != nil {
		t.Fatalf("resolveSessionName error: %v", err)
	}
	if name != "alice" {
		t.Fatalf("expected alice, got %q", name)
	}

	t.Setenv("USER", "bob")
	name, err = resolveSessionName("")
	if err != nil {
		t.Fatalf("resolveSessionName error: %v", err)
	}
	if name != "bob" {
		t.Fatalf("expected bob, got %q", name)
	}

	t.Setenv("USER", "")
	if _, err := resolveSessionName(""); err == nil {
		t.Fatalf("expected error for empty session name")
	}
}

func TestNewRegistryHasBuiltins(t *testing.T) {
	registry := newRegistry()
	for _, id := range []string{"local", "batch"} {
		if !registry.Has(id) {
			t.Fatalf("expected registry to have %q", id)
		}
	}
}

func TestLoadAppEnvInvalidConfig(t *testing.T) {
	root := t.TempDir()
	writeTestConfig(t, root, "[[profiles]]\nkey = \"missing-display\"\n")
	setWorkingDir(t, root)

	_, err := loadAppEnv()
	if err == nil || !strings.Contains(err.Error(), "display") {
		t.Fatalf("expected display validation error, got %v", err)
	}
}

func TestNewSessionCreatesRunDir(t *testing.T) {
	newTestProject(t)
	env, err := loadAppEnv()
	if err != nil {
		t.Fatalf("loadAppEnv error: %v", err)
	}
	sess, err := env.newSession("carol")
	if err != nil {
		t.Fatalf("newSession error: %v", err)
	}
	if sess.User != "carol" {
		t.Fatalf("expected user carol, got %q", sess.User)
	}
	info, err := os.Stat(sess.RunDir)
	if err != nil || !info.IsDir() {
		t.Fatalf("expected run dir, got %v / %v", info, err)
	}
}
