// Package localproc spawns single-user servers as local child processes.
//
// The spawner persists the child's pid and URL, so a host restart can
// re-attach to a server that is still running: LoadState records the pid
// and Poll probes it instead of assuming the server died with the old
// host process.
package localproc

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/creack/pty"

	"github.com/conn-castle/spawn-layer/internal/messages"
	"github.com/conn-castle/spawn-layer/internal/spawner"
)

// Persisted state keys.
const (
	stateKeyPID = "pid"
	stateKeyURL = "url"
)

// Configuration bundle keys the factory understands.
const (
	configKeyCommand = "command"
	configKeyEnv     = "env"
	configKeyPort    = "port"
	configKeyPTY     = "pty"
	configKeyPayload = "payload"
)

// How long Stop waits for the process to exit before reporting failure.
const stopWait = 10 * time.Second

const stopPollEvery = 100 * time.Millisecond

// Spawner runs a single-user server as a local child process.
type Spawner struct {
	sess spawner.Session

	command []string
	env     map[string]string
	port    int
	usePTY  bool
	payload string

	mu   sync.Mutex
	pid  int
	url  string
	proc *os.Process
	ptmx *os.File
	exit *spawner.ExitStatus
}

// Factory constructs a local process spawner from a configuration bundle.
// Recognized keys: command (list of strings), env (string map), port
// (integer), pty (bool), payload (script body executed when no command is
// configured).
func Factory(sess spawner.Session, cfg spawner.Config) (spawner.Spawner, error) {
	s := &Spawner{sess: sess, env: map[string]string{}}
	for name, value := range cfg {
		if err := s.applyOption(name, value); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// applyOption applies one bundle key, rejecting values of the wrong shape.
func (s *Spawner) applyOption(name string, value any) error {
	switch name {
	case configKeyCommand:
		command, err := stringList(value)
		if err != nil {
			return fmt.Errorf(messages.LocalCommandNotListFmt, value)
		}
		s.command = command
	case configKeyEnv:
		env, err := stringMap(value)
		if err != nil {
			return fmt.Errorf(messages.LocalEnvNotMapFmt, value)
		}
		for k, v := range env {
			s.env[k] = v
		}
	case configKeyPort:
		port, err := intValue(value)
		if err != nil {
			return fmt.Errorf(messages.LocalPortNotIntFmt, value)
		}
		if port < 0 || port > 65535 {
			return fmt.Errorf(messages.LocalPortOutOfRangeFmt, port)
		}
		s.port = port
	case configKeyPTY:
		usePTY, _ := value.(bool)
		s.usePTY = usePTY
	case configKeyPayload:
		payload, _ := value.(string)
		s.payload = payload
	default:
		// Bundles may carry keys for other layers; ignore them.
	}
	return nil
}

// SetAttr accepts one-way pushes for the attributes shared with the
// proxy. Environment pushes merge into the spawn environment.
func (s *Spawner) SetAttr(name string, value any) bool {
	switch name {
	case configKeyEnv:
		env, err := stringMap(value)
		if err != nil {
			return false
		}
		for k, v := range env {
			s.env[k] = v
		}
		return true
	case configKeyPort:
		port, err := intValue(value)
		if err != nil || port < 0 || port > 65535 {
			return false
		}
		s.port = port
		return true
	default:
		return false
	}
}

// Start launches the configured command (or payload script) detached
// from the calling process and returns the server's URL.
func (s *Spawner) Start(ctx context.Context) (string, error) {
	command := s.command
	if len(command) == 0 {
		if s.payload == "" {
			return "", errors.New(messages.LocalCommandRequired)
		}
		script, err := s.writePayloadScript()
		if err != nil {
			return "", err
		}
		command = []string{script}
	}

	s.mu.Lock()
	if s.proc != nil {
		pid, url := s.pid, s.url
		s.mu.Unlock()
		return url, fmt.Errorf(messages.LocalAlreadyRunningFmt, pid)
	}
	s.mu.Unlock()

	cmd := exec.CommandContext(ctx, command[0], command[1:]...)
	cmd.Env = s.buildEnv()

	var ptmx *os.File
	var err error
	if s.usePTY {
		// pty.Start puts the child in its own session with the pty as
		// its controlling terminal.
		ptmx, err = pty.Start(cmd)
		if err != nil {
			return "", fmt.Errorf(messages.LocalPtyStartFailedFmt, command[0], err)
		}
	} else {
		cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
		if err := cmd.Start(); err != nil {
			return "", fmt.Errorf(messages.LocalStartFailedFmt, command[0], err)
		}
	}

	s.mu.Lock()
	s.proc = cmd.Process
	s.ptmx = ptmx
	s.pid = cmd.Process.Pid
	s.url = s.serverURL(cmd.Process.Pid)
	s.exit = nil
	url := s.url
	s.mu.Unlock()

	go s.reap(cmd)

	return url, nil
}

// reap waits for the child and records its exit status.
func (s *Spawner) reap(cmd *exec.Cmd) {
	err := cmd.Wait()
	code := 0
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code = exitErr.ExitCode()
	} else if err != nil {
		code = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.exit = &spawner.ExitStatus{Code: code}
	s.proc = nil
	if s.ptmx != nil {
		_ = s.ptmx.Close()
		s.ptmx = nil
	}
}

// Stop signals the process and waits for it to exit. force sends SIGKILL
// immediately; otherwise SIGTERM is sent and the wait deadline applies.
func (s *Spawner) Stop(ctx context.Context, force bool) error {
	s.mu.Lock()
	pid := s.pid
	s.mu.Unlock()
	if pid == 0 {
		return nil
	}

	sig := syscall.SIGTERM
	if force {
		sig = syscall.SIGKILL
	}
	if err := s.signal(pid, sig); err != nil {
		// Already gone.
		if errors.Is(err, os.ErrProcessDone) || errors.Is(err, syscall.ESRCH) {
			return nil
		}
		return fmt.Errorf(messages.LocalSignalFailedFmt, pid, err)
	}

	deadline := time.Now().Add(stopWait)
	for {
		status, err := s.Poll(ctx)
		if err != nil {
			return err
		}
		if status != nil {
			return nil
		}
		if time.Now().After(deadline) {
			return errors.New(messages.LocalStopWaitExceeded)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(stopPollEvery):
		}
	}
}

// Poll reports nil while the server runs and its exit status once it has
// stopped. A spawner that never started reports a stopped status.
func (s *Spawner) Poll(context.Context) (*spawner.ExitStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.exit != nil {
		return s.exit, nil
	}
	if s.proc != nil {
		// The reap goroutine owns this process; it is still running.
		return nil, nil
	}
	if s.pid == 0 {
		return &spawner.ExitStatus{Code: 1}, nil
	}

	// Re-attached pid from a previous host process: probe it.
	if err := s.signal(s.pid, syscall.Signal(0)); err != nil {
		// The exit code of a process reaped by someone else is
		// unknowable; report a plain stopped status.
		s.exit = &spawner.ExitStatus{Code: 0}
		return s.exit, nil
	}
	return nil, nil
}

// GetState returns the persisted fields: pid and URL.
func (s *Spawner) GetState() spawner.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	state := spawner.State{}
	if s.pid != 0 {
		state[stateKeyPID] = s.pid
		state[stateKeyURL] = s.url
	}
	return state
}

// LoadState restores pid and URL from a persisted blob. The pid is
// probed lazily by Poll rather than validated here.
func (s *Spawner) LoadState(state spawner.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pid = state.Int(stateKeyPID)
	s.url = state.String(stateKeyURL)
	s.exit = nil
	return nil
}

// ClearState forgets the tracked process without signalling it.
func (s *Spawner) ClearState() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pid = 0
	s.url = ""
	s.proc = nil
	s.exit = nil
	if s.ptmx != nil {
		_ = s.ptmx.Close()
		s.ptmx = nil
	}
}

// signal delivers sig to pid.
func (s *Spawner) signal(pid int, sig syscall.Signal) error {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return err
	}
	return proc.Signal(sig)
}

// buildEnv assembles the child environment: the host environment, the
// session's environment, the bundle's env table, and the session wiring
// variables the spawned server uses to reach the hub.
func (s *Spawner) buildEnv() []string {
	env := os.Environ()
	for k, v := range s.sess.Env {
		env = append(env, k+"="+v)
	}
	for k, v := range s.env {
		env = append(env, k+"="+v)
	}
	if s.sess.User != "" {
		env = append(env, "SPAWN_USER="+s.sess.User)
	}
	if s.sess.HubURL != "" {
		env = append(env, "SPAWN_HUB_URL="+s.sess.HubURL)
	}
	if s.sess.AuthToken != "" {
		env = append(env, "SPAWN_AUTH_TOKEN="+s.sess.AuthToken)
	}
	if s.port != 0 {
		env = append(env, fmt.Sprintf("SPAWN_PORT=%d", s.port))
	}
	return env
}

// serverURL derives the URL reported from Start.
func (s *Spawner) serverURL(pid int) string {
	if s.port != 0 {
		return fmt.Sprintf("http://127.0.0.1:%d", s.port)
	}
	return fmt.Sprintf("process://%d", pid)
}

// writePayloadScript materializes the profile payload as an executable
// script in the session run directory.
func (s *Spawner) writePayloadScript() (string, error) {
	if s.sess.RunDir == "" {
		return "", errors.New(messages.LocalRunDirRequired)
	}
	path := filepath.Join(s.sess.RunDir, "launch.sh")
	if err := os.WriteFile(path, []byte(s.payload), 0o700); err != nil {
		return "", fmt.Errorf(messages.LocalWriteScriptFailFmt, err)
	}
	return path, nil
}

// stringList coerces a bundle value into a string slice. TOML and JSON
// decoding produce []any, so both shapes are accepted.
func stringList(value any) ([]string, error) {
	switch v := value.(type) {
	case []string:
		out := make([]string, len(v))
		copy(out, v)
		return out, nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			str, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("element %v is not a string", item)
			}
			out = append(out, str)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%T is not a list", value)
	}
}

// stringMap coerces a bundle value into a string map.
func stringMap(value any) (map[string]string, error) {
	switch v := value.(type) {
	case map[string]string:
		out := make(map[string]string, len(v))
		for k, val := range v {
			out[k] = val
		}
		return out, nil
	case map[string]any:
		out := make(map[string]string, len(v))
		for k, item := range v {
			str, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("value for %s is not a string", k)
			}
			out[k] = str
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%T is not a map", value)
	}
}

// intValue coerces a bundle value into an int, tolerating the int64 TOML
// produces and the float64 JSON produces.
func intValue(value any) (int, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		return int(v), nil
	default:
		return 0, fmt.Errorf("%T is not an integer", value)
	}
}
