package filesrc

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func writeProfile(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
		t.Fatalf("write profile: %v", err)
	}
}

func TestNewRequiresDir(t *testing.T) {
	if _, err := New("", "", "", ""); err == nil {
		t.Fatal("expected error for empty directory")
	}
}

func TestMissingDirectoryYieldsNoEntries(t *testing.T) {
	src, err := New(filepath.Join(t.TempDir(), "absent"), "", "", "")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	entries, err := src.Entries(context.Background())
	if err != nil {
		t.Fatalf("Entries returned error: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("entries = %v", entries)
	}
}

func TestRawProfile(t *testing.T) {
	dir := t.TempDir()
	body := "#!/bin/sh\n# Two GPU nodes #SPAWN\nsrun server\n"
	writeProfile(t, dir, "gpu.sh", body)

	src, err := New(dir, "system/", "System: ", "")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	entries, err := src.Entries(context.Background())
	if err != nil {
		t.Fatalf("Entries returned error: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("entries = %v", entries)
	}
	e := entries[0]
	if e.Display != "System: Two GPU nodes" {
		t.Fatalf("display = %q", e.Display)
	}
	if e.Key != "system/gpu" {
		t.Fatalf("key = %q", e.Key)
	}
	if e.SpawnerID != "batch" {
		t.Fatalf("spawner = %q", e.SpawnerID)
	}
	if e.Payload != body {
		t.Fatalf("payload = %q", e.Payload)
	}
}

func TestRawProfileMarkerCaseInsensitive(t *testing.T) {
	dir := t.TempDir()
	writeProfile(t, dir, "a.sh", "#!/bin/sh\n# Big memory #spawn\nexit 0\n")

	src, err := New(dir, "", "", "")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	entries, err := src.Entries(context.Background())
	if err != nil {
		t.Fatalf("Entries returned error: %v", err)
	}
	if len(entries) != 1 || entries[0].Display != "Big memory" {
		t.Fatalf("entries = %v", entries)
	}
}

func TestMalformedFilesSkipped(t *testing.T) {
	dir := t.TempDir()
	writeProfile(t, dir, "oneline.sh", "#!/bin/sh")
	writeProfile(t, dir, "blanklabel.sh", "#!/bin/sh\n#\nexit 0\n")
	writeProfile(t, dir, "bad.yaml", "display: [unclosed")
	writeProfile(t, dir, "nodisplay.yaml", "key: x\n")
	writeProfile(t, dir, "good.sh", "#!/bin/sh\n# Default\nexit 0\n")

	src, err := New(dir, "", "", "")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	entries, err := src.Entries(context.Background())
	if err != nil {
		t.Fatalf("Entries returned error: %v", err)
	}
	if len(entries) != 1 || entries[0].Key != "good" {
		t.Fatalf("entries = %v", entries)
	}
}

func TestYAMLDescriptor(t *testing.T) {
	dir := t.TempDir()
	writeProfile(t, dir, "local.yaml", `display: Local server
key: local-dev
spawner: local
config:
  port: 8888
  command: ["/usr/bin/server"]
payload: ""
`)

	src, err := New(dir, "", "", "")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	entries, err := src.Entries(context.Background())
	if err != nil {
		t.Fatalf("Entries returned error: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("entries = %v", entries)
	}
	e := entries[0]
	if e.Display != "Local server" || e.Key != "local-dev" || e.SpawnerID != "local" {
		t.Fatalf("entry = %+v", e)
	}
	if e.Config["port"] != 8888 {
		t.Fatalf("config = %v", e.Config)
	}
}

func TestYAMLDescriptorDefaults(t *testing.T) {
	dir := t.TempDir()
	writeProfile(t, dir, "queue.yml", "display: Queue\n")

	src, err := New(dir, "user/", "", "")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	entries, err := src.Entries(context.Background())
	if err != nil {
		t.Fatalf("Entries returned error: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("entries = %v", entries)
	}
	e := entries[0]
	if e.Key != "user/queue" {
		t.Fatalf("key = %q", e.Key)
	}
	if e.SpawnerID != "batch" {
		t.Fatalf("spawner = %q", e.SpawnerID)
	}
}

func TestEntriesSortedByFileName(t *testing.T) {
	dir := t.TempDir()
	writeProfile(t, dir, "b.sh", "#\n# Beta\n")
	writeProfile(t, dir, "a.sh", "#\n# Alpha\n")
	writeProfile(t, dir, "c.sh", "#\n# Gamma\n")

	src, err := New(dir, "", "", "")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	entries, err := src.Entries(context.Background())
	if err != nil {
		t.Fatalf("Entries returned error: %v", err)
	}
	var keys []string
	for _, e := range entries {
		keys = append(keys, e.Key)
	}
	want := []string{"a", "b", "c"}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("keys = %v, want %v", keys, want)
		}
	}
}

func TestSubdirectoriesIgnored(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "nested"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeProfile(t, dir, "a.sh", "#\n# Alpha\n")

	src, err := New(dir, "", "", "")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	entries, err := src.Entries(context.Background())
	if err != nil {
		t.Fatalf("Entries returned error: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("entries = %v", entries)
	}
}
