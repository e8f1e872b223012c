// Package filesrc discovers catalog entries by scanning a directory of
// profile files. Two file shapes are understood:
//
//   - YAML descriptors (*.yaml, *.yml) carrying display, key, spawner,
//     config, and payload fields.
//   - Raw profile scripts, where the second line is the display label
//     (a "#SPAWN" marker in it is stripped) and the whole file is the
//     payload passed through verbatim.
//
// The directory is rescanned on every Entries call, and files are walked
// in sorted name order so the catalog order is stable across platforms.
// Malformed files are skipped rather than aborting the scan.
package filesrc

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/conn-castle/spawn-layer/internal/catalog"
	"github.com/conn-castle/spawn-layer/internal/messages"
	"github.com/conn-castle/spawn-layer/internal/spawner"
)

// labelMarker is stripped from raw profile labels.
var labelMarker = regexp.MustCompile(`(?i)#SPAWN`)

// Source scans one directory. KeyPrefix and DisplayPrefix distinguish
// parallel directories (system-wide vs per-user profiles) feeding the
// same catalog.
type Source struct {
	dir           string
	keyPrefix     string
	displayPrefix string
	spawnerID     string
}

// descriptor is the YAML profile file shape.
type descriptor struct {
	Display string         `yaml:"display"`
	Key     string         `yaml:"key"`
	Spawner string         `yaml:"spawner"`
	Config  map[string]any `yaml:"config"`
	Payload string         `yaml:"payload"`
}

// New returns a source scanning dir. spawnerID is the implementation
// raw profiles resolve to; empty selects the batch spawner.
func New(dir, keyPrefix, displayPrefix, spawnerID string) (*Source, error) {
	if dir == "" {
		return nil, errors.New(messages.FilesrcDirRequired)
	}
	if spawnerID == "" {
		spawnerID = messages.FilesrcSpawnerDefault
	}
	return &Source{
		dir:           dir,
		keyPrefix:     keyPrefix,
		displayPrefix: displayPrefix,
		spawnerID:     spawnerID,
	}, nil
}

func (s *Source) Name() string {
	return "files:" + s.dir
}

// Entries scans the directory. A missing directory yields an empty
// catalog, not an error: per-user profile directories are optional.
func (s *Source) Entries(ctx context.Context) ([]catalog.Entry, error) {
	files, err := os.ReadDir(s.dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var entries []catalog.Entry
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if file.IsDir() {
			continue
		}
		entry, ok := s.readProfile(filepath.Join(s.dir, file.Name()), file.Name())
		if !ok {
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// readProfile parses one file into an entry. The boolean is false for
// files that do not form a valid profile.
func (s *Source) readProfile(path, name string) (catalog.Entry, bool) {
	body, err := os.ReadFile(path)
	if err != nil {
		return catalog.Entry{}, false
	}
	ext := strings.ToLower(filepath.Ext(name))
	if ext == ".yaml" || ext == ".yml" {
		return s.readDescriptor(body, name)
	}
	return s.readRaw(body, name)
}

// readDescriptor parses a YAML profile descriptor.
func (s *Source) readDescriptor(body []byte, name string) (catalog.Entry, bool) {
	var d descriptor
	if err := yaml.Unmarshal(body, &d); err != nil {
		return catalog.Entry{}, false
	}
	if d.Display == "" {
		return catalog.Entry{}, false
	}
	key := d.Key
	if key == "" {
		key = baseName(name)
	}
	spawnerID := d.Spawner
	if spawnerID == "" {
		spawnerID = s.spawnerID
	}
	cfg := spawner.Config{}
	for k, v := range d.Config {
		cfg[k] = v
	}
	return catalog.Entry{
		Display:   s.displayPrefix + d.Display,
		Key:       s.keyPrefix + key,
		SpawnerID: spawnerID,
		Config:    cfg,
		Payload:   d.Payload,
	}, true
}

// readRaw parses a raw profile script: line 2 is the label, the whole
// file is the payload.
func (s *Source) readRaw(body []byte, name string) (catalog.Entry, bool) {
	lines := strings.Split(string(body), "\n")
	if len(lines) < 2 {
		return catalog.Entry{}, false
	}
	label := labelMarker.ReplaceAllString(lines[1], "")
	label = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(label), "#"))
	if label == "" {
		return catalog.Entry{}, false
	}
	return catalog.Entry{
		Display:   s.displayPrefix + label,
		Key:       s.keyPrefix + baseName(name),
		SpawnerID: s.spawnerID,
		Config:    spawner.Config{},
		Payload:   string(body),
	}, true
}

// baseName strips the extension from a file name.
func baseName(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}
