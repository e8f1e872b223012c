package config

import "path/filepath"

// Paths holds resolved paths for config files and directories.
type Paths struct {
	Root       string
	Dir        string
	ConfigPath string
	StateDir   string
}

// DefaultPaths returns the default layout for a project root.
func DefaultPaths(root string) Paths {
	dir := filepath.Join(root, ".spawn-layer")
	return Paths{
		Root:       root,
		Dir:        dir,
		ConfigPath: filepath.Join(dir, "config.toml"),
		StateDir:   filepath.Join(dir, "state"),
	}
}

// StatePath resolves the session state directory: an explicit
// defaults.state_dir wins over the layout default.
func (p Paths) StatePath(cfg *Config) string {
	if cfg != nil && cfg.Defaults.StateDir != "" {
		if filepath.IsAbs(cfg.Defaults.StateDir) {
			return cfg.Defaults.StateDir
		}
		return filepath.Join(p.Root, cfg.Defaults.StateDir)
	}
	return p.StateDir
}
