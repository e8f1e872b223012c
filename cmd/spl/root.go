package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/conn-castle/spawn-layer/internal/catalog"
	"github.com/conn-castle/spawn-layer/internal/config"
	"github.com/conn-castle/spawn-layer/internal/messages"
	"github.com/conn-castle/spawn-layer/internal/root"
	"github.com/conn-castle/spawn-layer/internal/spawner"
	"github.com/conn-castle/spawn-layer/internal/spawner/batch"
	"github.com/conn-castle/spawn-layer/internal/spawner/localproc"
	"github.com/conn-castle/spawn-layer/internal/state"
	"github.com/conn-castle/spawn-layer/internal/terminal"
)

var getwd = os.Getwd
var isTerminal = terminal.IsInteractive

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           messages.RootUse,
		Short:         messages.RootShort,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(newInitCmd())
	cmd.AddCommand(newDoctorCmd())
	cmd.AddCommand(newProfilesCmd())
	cmd.AddCommand(newFormCmd())
	cmd.AddCommand(newSpawnCmd())
	cmd.AddCommand(newStatusCmd())
	cmd.AddCommand(newStopCmd())
	cmd.AddCommand(newMcpCmd())
	return cmd
}

// newRegistry returns the registry of spawner implementations this binary
// ships with.
func newRegistry() *spawner.Registry {
	registry := spawner.NewRegistry()
	registry.MustRegister("local", localproc.Factory)
	registry.MustRegister("batch", batch.Factory)
	return registry
}

// resolveSpawnRoot returns the project root that contains .spawn-layer or
// fails if missing.
func resolveSpawnRoot() (string, error) {
	cwd, err := getwd()
	if err != nil {
		return "", err
	}
	projectRoot, found, err := root.FindSpawnLayerRoot(cwd)
	if err != nil {
		return "", err
	}
	if !found {
		return "", fmt.Errorf(messages.RootMissingSpawnLayer)
	}
	return projectRoot, nil
}

// resolveInitRoot finds the best candidate root for initialization
// (prefers .spawn-layer, then .git, then the working directory itself).
func resolveInitRoot() (string, error) {
	cwd, err := getwd()
	if err != nil {
		return "", err
	}
	dir, found, err := root.FindRepoRoot(cwd)
	if err != nil {
		return "", err
	}
	if !found {
		return cwd, nil
	}
	return dir, nil
}

// appEnv bundles everything a per-session command needs: the validated
// config, its catalog sources, the state store, and the spawner registry.
type appEnv struct {
	root     string
	cfg      *config.Config
	paths    config.Paths
	sources  []catalog.Source
	store    *state.Store
	registry *spawner.Registry
}

// loadAppEnv resolves the project root and loads the validated runtime
// environment from it.
func loadAppEnv() (*appEnv, error) {
	projectRoot, err := resolveSpawnRoot()
	if err != nil {
		return nil, err
	}
	paths := config.DefaultPaths(projectRoot)
	cfg, err := config.LoadConfig(paths.ConfigPath)
	if err != nil {
		return nil, err
	}
	sources, err := config.BuildSources(cfg)
	if err != nil {
		return nil, err
	}
	return &appEnv{
		root:     projectRoot,
		cfg:      cfg,
		paths:    paths,
		sources:  sources,
		store:    state.NewStore(paths.StatePath(cfg)),
		registry: newRegistry(),
	}, nil
}

// resolveSessionName falls back to $USER when no --session flag was given.
func resolveSessionName(flagValue string) (string, error) {
	name := strings.TrimSpace(flagValue)
	if name == "" {
		name = strings.TrimSpace(os.Getenv("USER"))
	}
	if name == "" {
		return "", fmt.Errorf(messages.SessionRequired)
	}
	return name, nil
}

// newSession builds the per-session context handed to spawners. The run
// directory lives next to the session's state file.
func (env *appEnv) newSession(name string) (spawner.Session, error) {
	runDir := filepath.Join(env.store.Dir(), name, "run")
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return spawner.Session{}, err
	}
	return spawner.Session{
		User:      name,
		RunDir:    runDir,
		HubURL:    os.Getenv("SPAWN_HUB_URL"),
		AuthToken: os.Getenv("SPAWN_AUTH_TOKEN"),
	}, nil
}
