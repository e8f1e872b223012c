// Package config loads the spawn-layer project configuration.
package config

import (
	"regexp"

	"github.com/conn-castle/spawn-layer/internal/spawner"
)

// Config is the full .spawn-layer/config.toml shape.
type Config struct {
	Defaults DefaultsConfig  `toml:"defaults"`
	Profiles []ProfileConfig `toml:"profiles"`
	Catalog  CatalogConfig   `toml:"catalog"`
}

// DefaultsConfig holds settings applied when a profile leaves them unset.
type DefaultsConfig struct {
	Spawner  string `toml:"spawner"`
	StateDir string `toml:"state_dir"`
}

// ProfileConfig is one statically configured catalog entry.
type ProfileConfig struct {
	Display string         `toml:"display"`
	Key     string         `toml:"key"`
	Spawner string         `toml:"spawner"`
	Options map[string]any `toml:"options"`
	Payload string         `toml:"payload"`
}

// CatalogConfig enables the dynamic catalog sources.
type CatalogConfig struct {
	Files  FilesCatalogConfig  `toml:"files"`
	Docker DockerCatalogConfig `toml:"docker"`
}

// FilesCatalogConfig configures filesystem profile discovery.
type FilesCatalogConfig struct {
	Enabled   bool   `toml:"enabled"`
	SystemDir string `toml:"system_dir"`
	UserDir   string `toml:"user_dir"`
	Spawner   string `toml:"spawner"`
}

// DockerCatalogConfig configures container image discovery.
type DockerCatalogConfig struct {
	Enabled    bool   `toml:"enabled"`
	Host       string `toml:"host"`
	TagPattern string `toml:"tag_pattern"`
	EnrichURL  string `toml:"enrich_url"`
	Spawner    string `toml:"spawner"`
}

// DefaultSpawner returns the configured default implementation id,
// falling back to the local spawner.
func (c *Config) DefaultSpawner() string {
	if c.Defaults.Spawner != "" {
		return c.Defaults.Spawner
	}
	return "local"
}

// Bundle converts a profile's options into a spawner configuration
// bundle, folding the payload in under its conventional key.
func (p *ProfileConfig) Bundle() spawner.Config {
	cfg := spawner.Config{}
	for k, v := range p.Options {
		cfg[k] = v
	}
	if p.Payload != "" {
		cfg["payload"] = p.Payload
	}
	return cfg
}

// tagPatternValid reports whether pattern compiles. Empty patterns use
// the source default and are always valid.
func tagPatternValid(pattern string) error {
	if pattern == "" {
		return nil
	}
	_, err := regexp.Compile(pattern)
	return err
}
