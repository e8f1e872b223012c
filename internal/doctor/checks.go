package doctor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/conn-castle/spawn-layer/internal/catalog"
	"github.com/conn-castle/spawn-layer/internal/catalog/dockersrc"
	"github.com/conn-castle/spawn-layer/internal/config"
	"github.com/conn-castle/spawn-layer/internal/messages"
	"github.com/conn-castle/spawn-layer/internal/spawner"
	"github.com/conn-castle/spawn-layer/internal/state"
)

var loadConfigFunc = config.LoadConfig

// CheckStructure verifies that the project layout exists.
func CheckStructure(root string) []Result {
	var results []Result
	for _, p := range []string{".spawn-layer"} {
		fullPath := filepath.Join(root, p)
		info, err := os.Stat(fullPath)
		if err != nil {
			results = append(results, Result{
				Status:         StatusFail,
				CheckName:      messages.DoctorCheckNameStructure,
				Message:        fmt.Sprintf(messages.DoctorMissingRequiredDirFmt, p),
				Recommendation: messages.DoctorMissingRequiredDirRecommend,
			})
			continue
		}
		if !info.IsDir() {
			results = append(results, Result{
				Status:         StatusFail,
				CheckName:      messages.DoctorCheckNameStructure,
				Message:        fmt.Sprintf(messages.DoctorPathNotDirFmt, p),
				Recommendation: messages.DoctorPathNotDirRecommend,
			})
			continue
		}
		results = append(results, Result{
			Status:    StatusOK,
			CheckName: messages.DoctorCheckNameStructure,
			Message:   fmt.Sprintf(messages.DoctorDirExistsFmt, p),
		})
	}
	return results
}

// CheckConfig loads and validates the configuration. On failure the
// returned config is nil and downstream checks that need it are skipped.
func CheckConfig(root string) ([]Result, *config.Config) {
	paths := config.DefaultPaths(root)
	cfg, err := loadConfigFunc(paths.ConfigPath)
	if err != nil {
		return []Result{{
			Status:         StatusFail,
			CheckName:      messages.DoctorCheckNameConfig,
			Message:        fmt.Sprintf(messages.DoctorConfigLoadFailedFmt, err),
			Recommendation: messages.DoctorConfigLoadRecommend,
		}}, nil
	}
	return []Result{{
		Status:    StatusOK,
		CheckName: messages.DoctorCheckNameConfig,
		Message:   fmt.Sprintf(messages.DoctorConfigValidFmt, len(cfg.Profiles)),
	}}, cfg
}

// CheckCatalog assembles the configured catalog and reports its health:
// source failures and duplicate keys surface as warnings, an empty
// catalog is a failure, and profiles naming unregistered spawners warn.
func CheckCatalog(ctx context.Context, cfg *config.Config, registry *spawner.Registry) []Result {
	sources, err := config.BuildSources(cfg)
	if err != nil {
		return []Result{{
			Status:         StatusFail,
			CheckName:      messages.DoctorCheckNameCatalog,
			Message:        fmt.Sprintf(messages.DoctorCatalogWarningFmt, err),
			Recommendation: messages.DoctorConfigLoadRecommend,
		}}
	}

	entries, warnings := catalog.Collect(ctx, sources...)
	duplicates := map[string]bool{}
	for _, key := range catalog.DuplicateKeys(entries) {
		duplicates[fmt.Sprintf(messages.CatalogDuplicateKeyFmt, key)] = true
	}
	var results []Result
	for _, w := range warnings {
		result := Result{
			Status:    StatusWarn,
			CheckName: messages.DoctorCheckNameCatalog,
			Message:   fmt.Sprintf(messages.DoctorCatalogWarningFmt, w),
		}
		if duplicates[w] {
			result.Recommendation = messages.DoctorCatalogDuplicateRecomm
		}
		results = append(results, result)
	}
	if len(entries) == 0 {
		results = append(results, Result{
			Status:         StatusFail,
			CheckName:      messages.DoctorCheckNameCatalog,
			Message:        messages.DoctorCatalogEmpty,
			Recommendation: messages.DoctorCatalogEmptyRecommend,
		})
		return results
	}

	if registry != nil {
		for _, e := range entries {
			if !registry.Has(e.SpawnerID) {
				results = append(results, Result{
					Status:         StatusWarn,
					CheckName:      messages.DoctorCheckNameCatalog,
					Message:        fmt.Sprintf(messages.DoctorCatalogUnknownSpawnerFmt, e.Key, e.SpawnerID),
					Recommendation: messages.DoctorCatalogUnknownSpawnerRec,
				})
			}
		}
	}

	results = append(results, Result{
		Status:    StatusOK,
		CheckName: messages.DoctorCheckNameCatalog,
		Message:   fmt.Sprintf(messages.DoctorCatalogEntriesFmt, len(entries)),
	})
	return results
}

// CheckState verifies the session store is writable and counts the
// sessions with saved state.
func CheckState(store *state.Store) []Result {
	var results []Result
	if err := probeWritable(store.Dir()); err != nil {
		results = append(results, Result{
			Status:         StatusFail,
			CheckName:      messages.DoctorCheckNameState,
			Message:        fmt.Sprintf(messages.DoctorStateNotWritableFmt, err),
			Recommendation: messages.DoctorStateNotWritableRec,
		})
		return results
	}
	results = append(results, Result{
		Status:    StatusOK,
		CheckName: messages.DoctorCheckNameState,
		Message:   fmt.Sprintf(messages.DoctorStateWritableFmt, store.Dir()),
	})

	sessions, err := store.Sessions()
	if err != nil {
		results = append(results, Result{
			Status:    StatusWarn,
			CheckName: messages.DoctorCheckNameState,
			Message:   fmt.Sprintf(messages.DoctorStateListFailedFmt, err),
		})
		return results
	}
	results = append(results, Result{
		Status:    StatusOK,
		CheckName: messages.DoctorCheckNameState,
		Message:   fmt.Sprintf(messages.DoctorStateSessionsFmt, len(sessions)),
	})
	return results
}

// CheckDocker pings the engine when the docker catalog is enabled.
func CheckDocker(ctx context.Context, cfg *config.Config) []Result {
	if !cfg.Catalog.Docker.Enabled {
		return []Result{{
			Status:    StatusOK,
			CheckName: messages.DoctorCheckNameDocker,
			Message:   messages.DoctorDockerDisabled,
		}}
	}
	src, err := dockersrc.New(dockersrc.Config{
		Host:       cfg.Catalog.Docker.Host,
		TagPattern: cfg.Catalog.Docker.TagPattern,
		SpawnerID:  cfg.Catalog.Docker.Spawner,
	})
	if err == nil {
		var entries []catalog.Entry
		entries, err = src.Entries(ctx)
		if err == nil {
			return []Result{{
				Status:    StatusOK,
				CheckName: messages.DoctorCheckNameDocker,
				Message:   fmt.Sprintf(messages.DoctorDockerReachableFmt, len(entries)),
			}}
		}
	}
	return []Result{{
		Status:         StatusFail,
		CheckName:      messages.DoctorCheckNameDocker,
		Message:        fmt.Sprintf(messages.DoctorDockerFailedFmt, err),
		Recommendation: messages.DoctorDockerFailedRecomm,
	}}
}

// probeWritable creates and removes a marker file in dir, creating the
// directory first if needed.
func probeWritable(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	probe, err := os.CreateTemp(dir, ".doctor.*")
	if err != nil {
		return err
	}
	name := probe.Name()
	if err := probe.Close(); err != nil {
		return err
	}
	return os.Remove(name)
}
