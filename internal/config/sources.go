package config

import (
	"fmt"

	"github.com/mitchellh/go-homedir"

	"github.com/conn-castle/spawn-layer/internal/catalog"
	"github.com/conn-castle/spawn-layer/internal/catalog/dockersrc"
	"github.com/conn-castle/spawn-layer/internal/catalog/filesrc"
	"github.com/conn-castle/spawn-layer/internal/messages"
)

// Key and display prefixes for the two profile file directories.
const (
	systemKeyPrefix     = "system/"
	systemDisplayPrefix = "System: "
	userKeyPrefix       = "user/"
	userDisplayPrefix   = "User: "
)

// BuildSources assembles the catalog sources the config enables, in
// offer order: static profiles first, then file scans, then container
// images.
func BuildSources(cfg *Config) ([]catalog.Source, error) {
	var sources []catalog.Source

	if len(cfg.Profiles) > 0 {
		entries := make([]catalog.Entry, 0, len(cfg.Profiles))
		for _, p := range cfg.Profiles {
			spawnerID := p.Spawner
			if spawnerID == "" {
				spawnerID = cfg.DefaultSpawner()
			}
			entries = append(entries, catalog.Entry{
				Display:   p.Display,
				Key:       p.Key,
				SpawnerID: spawnerID,
				Config:    p.Bundle(),
				Payload:   p.Payload,
			})
		}
		static, err := catalog.NewStatic(entries)
		if err != nil {
			return nil, err
		}
		sources = append(sources, static)
	}

	if cfg.Catalog.Files.Enabled {
		fileSources, err := buildFileSources(cfg.Catalog.Files)
		if err != nil {
			return nil, err
		}
		sources = append(sources, fileSources...)
	}

	if cfg.Catalog.Docker.Enabled {
		docker, err := dockersrc.New(dockersrc.Config{
			Host:       cfg.Catalog.Docker.Host,
			TagPattern: cfg.Catalog.Docker.TagPattern,
			EnrichURL:  cfg.Catalog.Docker.EnrichURL,
			SpawnerID:  cfg.Catalog.Docker.Spawner,
		})
		if err != nil {
			return nil, err
		}
		sources = append(sources, docker)
	}

	return sources, nil
}

// buildFileSources resolves the configured profile directories. Both
// directories are optional individually; ~ expands to the home directory.
func buildFileSources(cfg FilesCatalogConfig) ([]catalog.Source, error) {
	var sources []catalog.Source
	if cfg.SystemDir != "" {
		dir, err := expandPath(cfg.SystemDir)
		if err != nil {
			return nil, err
		}
		src, err := filesrc.New(dir, systemKeyPrefix, systemDisplayPrefix, cfg.Spawner)
		if err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}
	if cfg.UserDir != "" {
		dir, err := expandPath(cfg.UserDir)
		if err != nil {
			return nil, err
		}
		src, err := filesrc.New(dir, userKeyPrefix, userDisplayPrefix, cfg.Spawner)
		if err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}
	return sources, nil
}

// expandPath resolves a leading ~ to the user's home directory.
func expandPath(path string) (string, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return "", fmt.Errorf(messages.ConfigExpandPathFmt, path, err)
	}
	return expanded, nil
}
