package root

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFindSpawnLayerRootFound(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, ".spawn-layer"), 0o755); err != nil {
		t.Fatalf("mkdir .spawn-layer: %v", err)
	}
	sub := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatalf("mkdir sub: %v", err)
	}

	got, found, err := FindSpawnLayerRoot(sub)
	if err != nil {
		t.Fatalf("FindSpawnLayerRoot error: %v", err)
	}
	if !found {
		t.Fatalf("expected root to be found")
	}
	if got != root {
		t.Fatalf("expected root %s, got %s", root, got)
	}
}

func TestFindSpawnLayerRootMissing(t *testing.T) {
	root := t.TempDir()
	got, found, err := FindSpawnLayerRoot(root)
	if err != nil {
		t.Fatalf("FindSpawnLayerRoot error: %v", err)
	}
	if found {
		t.Fatalf("expected not found, got %s", got)
	}
}

func TestFindSpawnLayerRootFileError(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, ".spawn-layer"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	_, _, err := FindSpawnLayerRoot(root)
	if err == nil {
		t.Fatalf("expected error for file .spawn-layer")
	}
}

func TestFindRepoRootPrefersSpawnLayer(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, ".spawn-layer"), 0o755); err != nil {
		t.Fatalf("mkdir .spawn-layer: %v", err)
	}
	if err := os.MkdirAll(filepath.Join(root, ".git"), 0o755); err != nil {
		t.Fatalf("mkdir .git: %v", err)
	}
	got, found, err := FindRepoRoot(root)
	if err != nil {
		t.Fatalf("FindRepoRoot error: %v", err)
	}
	if !found || got != root {
		t.Fatalf("FindRepoRoot = %q, %v", got, found)
	}
}

func TestFindRepoRootFallsBackToGit(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, ".git"), 0o755); err != nil {
		t.Fatalf("mkdir .git: %v", err)
	}
	sub := filepath.Join(root, "pkg")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatalf("mkdir sub: %v", err)
	}
	got, found, err := FindRepoRoot(sub)
	if err != nil {
		t.Fatalf("FindRepoRoot error: %v", err)
	}
	if !found || got != root {
		t.Fatalf("FindRepoRoot = %q, %v", got, found)
	}
}
