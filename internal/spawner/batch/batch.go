// Package batch spawns single-user servers through a batch scheduler.
//
// The spawner writes the profile payload as a job script, submits it with
// a configurable command, and afterwards only holds the scheduler's job
// id. Poll and Stop shell out to the scheduler, so a restarted host can
// keep managing a job submitted by an earlier one.
package batch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"github.com/conn-castle/spawn-layer/internal/messages"
	"github.com/conn-castle/spawn-layer/internal/spawner"
)

// Persisted state keys.
const (
	stateKeyJobID = "job_id"
	stateKeyURL   = "url"
)

// Configuration bundle keys the factory understands. Keys with the req_
// prefix are exported to the job script as SPAWN_REQ_* environment
// variables so payloads can reference resource requests.
const (
	configKeySubmit  = "submit_command"
	configKeyPoll    = "poll_command"
	configKeyCancel  = "cancel_command"
	configKeyPayload = "payload"
	reqPrefix        = "req_"
)

const scriptName = "batch.sh"

// runCommandFunc runs a scheduler command and returns its stdout.
// Swappable for tests.
var runCommandFunc = runCommand

// Spawner submits and tracks one scheduler job.
type Spawner struct {
	sess spawner.Session

	submitCommand []string
	pollCommand   []string
	cancelCommand []string
	payload       string
	requests      map[string]string

	mu    sync.Mutex
	jobID string
	url   string
}

// Factory constructs a batch spawner from a configuration bundle.
func Factory(sess spawner.Session, cfg spawner.Config) (spawner.Spawner, error) {
	s := &Spawner{sess: sess, requests: map[string]string{}}
	for name, value := range cfg {
		if err := s.applyOption(name, value); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Spawner) applyOption(name string, value any) error {
	switch {
	case name == configKeySubmit || name == configKeyPoll || name == configKeyCancel:
		command, err := stringList(value)
		if err != nil {
			return fmt.Errorf(messages.BatchCommandNotListFmt, name, value)
		}
		switch name {
		case configKeySubmit:
			s.submitCommand = command
		case configKeyPoll:
			s.pollCommand = command
		case configKeyCancel:
			s.cancelCommand = command
		}
	case name == configKeyPayload:
		payload, _ := value.(string)
		s.payload = payload
	case strings.HasPrefix(name, reqPrefix):
		s.requests[name] = fmt.Sprintf("%v", value)
	default:
		// Bundles may carry keys for other layers; ignore them.
	}
	return nil
}

// SetAttr accepts one-way pushes of resource requests.
func (s *Spawner) SetAttr(name string, value any) bool {
	if !strings.HasPrefix(name, reqPrefix) {
		return false
	}
	s.requests[name] = fmt.Sprintf("%v", value)
	return true
}

// Start writes the job script and submits it. The trimmed stdout of the
// submit command is the job id.
func (s *Spawner) Start(ctx context.Context) (string, error) {
	if len(s.submitCommand) == 0 {
		return "", errors.New(messages.BatchSubmitRequired)
	}
	if s.payload == "" {
		return "", errors.New(messages.BatchPayloadRequired)
	}

	script := filepath.Join(s.sess.RunDir, scriptName)
	if err := os.WriteFile(script, []byte(s.payload), 0o700); err != nil {
		return "", fmt.Errorf(messages.BatchWriteScriptFmt, err)
	}

	args := append(append([]string{}, s.submitCommand...), script)
	out, err := runCommandFunc(ctx, args, s.buildEnv())
	if err != nil {
		return "", fmt.Errorf(messages.BatchSubmitFailedFmt, err)
	}
	jobID := strings.TrimSpace(out)
	if jobID == "" {
		return "", errors.New(messages.BatchSubmitNoJobID)
	}

	s.mu.Lock()
	s.jobID = jobID
	s.url = "job://" + jobID
	url := s.url
	s.mu.Unlock()
	return url, nil
}

// Stop cancels the tracked job. Without a cancel command or a job id it
// is a no-op.
func (s *Spawner) Stop(ctx context.Context, force bool) error {
	s.mu.Lock()
	jobID := s.jobID
	s.mu.Unlock()
	if jobID == "" || len(s.cancelCommand) == 0 {
		return nil
	}
	args := append(append([]string{}, s.cancelCommand...), jobID)
	if force {
		args = append(args, "--force")
	}
	if _, err := runCommandFunc(ctx, args, s.buildEnv()); err != nil {
		return fmt.Errorf(messages.BatchCancelFailedFmt, jobID, err)
	}
	return nil
}

// Poll asks the scheduler whether the job still runs. A poll command that
// exits nonzero, or a spawner with no job id, reports a stopped status.
// Without a poll command the job is assumed to run until cancelled.
func (s *Spawner) Poll(ctx context.Context) (*spawner.ExitStatus, error) {
	s.mu.Lock()
	jobID := s.jobID
	s.mu.Unlock()
	if jobID == "" {
		return &spawner.ExitStatus{Code: 1}, nil
	}
	if len(s.pollCommand) == 0 {
		return nil, nil
	}
	args := append(append([]string{}, s.pollCommand...), jobID)
	if _, err := runCommandFunc(ctx, args, s.buildEnv()); err != nil {
		// The scheduler no longer knows the job.
		return &spawner.ExitStatus{Code: 0}, nil
	}
	return nil, nil
}

// GetState returns the persisted fields: job id and URL.
func (s *Spawner) GetState() spawner.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	state := spawner.State{}
	if s.jobID != "" {
		state[stateKeyJobID] = s.jobID
		state[stateKeyURL] = s.url
	}
	return state
}

// LoadState restores the job id and URL from a persisted blob.
func (s *Spawner) LoadState(state spawner.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobID = state.String(stateKeyJobID)
	s.url = state.String(stateKeyURL)
	return nil
}

// ClearState forgets the tracked job without cancelling it.
func (s *Spawner) ClearState() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobID = ""
	s.url = ""
}

// buildEnv assembles the environment for scheduler commands and the job
// script: host environment, session variables, and SPAWN_REQ_* exports
// derived from req_* bundle keys.
func (s *Spawner) buildEnv() []string {
	env := os.Environ()
	for k, v := range s.sess.Env {
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
	for name, value := range s.requests {
		key := "SPAWN_" + strings.ToUpper(name)
		env = append(env, key+"="+value)
	}
	return env
}

// runCommand executes args with env and returns trimmed combined stdout.
func runCommand(ctx context.Context, args []string, env []string) (string, error) {
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Env = env
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return "", fmt.Errorf("%w: %s", err, msg)
		}
		return "", err
	}
	return stdout.String(), nil
}

// stringList coerces a bundle value into a string slice.
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
