// Package state persists per-session state blobs as JSON files so a
// spawned server outlives the process that started it.
package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/conn-castle/spawn-layer/internal/messages"
	"github.com/conn-castle/spawn-layer/internal/spawner"
)

// ErrNotFound reports a Load for a session with no saved state.
var ErrNotFound = errors.New("state not found")

const stateExt = ".json"

// Store reads and writes session state files under one directory. Writes
// go through a temp file and rename so a crash never leaves a truncated
// blob, and each session is serialized with an advisory file lock.
type Store struct {
	dir string
}

// NewStore returns a store rooted at dir. The directory is created on
// first write, not here.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the store's root directory.
func (s *Store) Dir() string {
	return s.dir
}

// Save persists blob for session, replacing any previous state.
func (s *Store) Save(session string, blob spawner.State) error {
	if err := validSession(session); err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf(messages.StateMkdirFmt, s.dir, err)
	}
	data, err := json.MarshalIndent(blob, "", "  ")
	if err != nil {
		return fmt.Errorf(messages.StateEncodeFmt, session, err)
	}
	data = append(data, '\n')

	return s.withSessionLock(session, func() error {
		path := s.statePath(session)
		tmp, err := os.CreateTemp(s.dir, session+".*.tmp")
		if err != nil {
			return fmt.Errorf(messages.StateWriteFmt, session, err)
		}
		defer func() { _ = os.Remove(tmp.Name()) }()
		if _, err := tmp.Write(data); err != nil {
			_ = tmp.Close()
			return fmt.Errorf(messages.StateWriteFmt, session, err)
		}
		if err := tmp.Close(); err != nil {
			return fmt.Errorf(messages.StateWriteFmt, session, err)
		}
		if err := os.Rename(tmp.Name(), path); err != nil {
			return fmt.Errorf(messages.StateWriteFmt, session, err)
		}
		return nil
	})
}

// Load returns the saved blob for session, or an error wrapping
// ErrNotFound when none exists.
func (s *Store) Load(session string) (spawner.State, error) {
	if err := validSession(session); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.statePath(session))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf(messages.StateNotFoundFmt+": %w", session, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf(messages.StateReadFmt, session, err)
	}
	var blob spawner.State
	if err := json.Unmarshal(data, &blob); err != nil {
		return nil, fmt.Errorf(messages.StateDecodeFmt, session, err)
	}
	return blob, nil
}

// Clear removes the saved state for session. Clearing a session with no
// state is a no-op.
func (s *Store) Clear(session string) error {
	if err := validSession(session); err != nil {
		return err
	}
	return s.withSessionLock(session, func() error {
		err := os.Remove(s.statePath(session))
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf(messages.StateClearFmt, session, err)
		}
		return nil
	})
}

// Sessions lists the sessions with saved state, in sorted name order.
func (s *Store) Sessions() ([]string, error) {
	files, err := os.ReadDir(s.dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf(messages.StateListFmt, s.dir, err)
	}
	var sessions []string
	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), stateExt) {
			continue
		}
		sessions = append(sessions, strings.TrimSuffix(file.Name(), stateExt))
	}
	return sessions, nil
}

func (s *Store) statePath(session string) string {
	return filepath.Join(s.dir, session+stateExt)
}

// validSession rejects names that would escape the state directory.
func validSession(session string) error {
	if session == "" {
		return errors.New(messages.StateSessionRequired)
	}
	if strings.ContainsAny(session, "/\\") || session == "." || session == ".." {
		return fmt.Errorf(messages.StateSessionInvalidFmt, session)
	}
	return nil
}
