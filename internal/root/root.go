// Package root locates the spawn-layer project root.
package root

import (
	"fmt"
	"os"
	"path/filepath"
)

const layerDir = ".spawn-layer"

// FindSpawnLayerRoot searches upwards from start for a .spawn-layer
// directory. It returns the directory containing it and whether one was
// found. A .spawn-layer that exists but is not a directory is an error.
func FindSpawnLayerRoot(start string) (string, bool, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", false, err
	}
	for {
		candidate := filepath.Join(dir, layerDir)
		info, err := os.Stat(candidate)
		if err == nil {
			if !info.IsDir() {
				return "", false, fmt.Errorf("%s exists but is not a directory", candidate)
			}
			return dir, true, nil
		}
		if !os.IsNotExist(err) {
			return "", false, err
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false, nil
		}
		dir = parent
	}
}

// FindRepoRoot returns the nearest enclosing project root, preferring a
// .spawn-layer directory and falling back to a .git directory.
func FindRepoRoot(start string) (string, bool, error) {
	if dir, found, err := FindSpawnLayerRoot(start); err != nil || found {
		return dir, found, err
	}
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", false, err
	}
	for {
		info, err := os.Stat(filepath.Join(dir, ".git"))
		if err == nil && info.IsDir() {
			return dir, true, nil
		}
		if err != nil && !os.IsNotExist(err) {
			return "", false, err
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false, nil
		}
		dir = parent
	}
}
