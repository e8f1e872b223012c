package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/conn-castle/spawn-layer/internal/messages"
	"github.com/conn-castle/spawn-layer/internal/profiles"
	"github.com/conn-castle/spawn-layer/internal/state"
)

func newStatusCmd() *cobra.Command {
	var session string

	cmd := &cobra.Command{
		Use:   messages.StatusUse,
		Short: messages.StatusShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadAppEnv()
			if err != nil {
				return err
			}
			sessionName, err := resolveSessionName(session)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			blob, err := env.store.Load(sessionName)
			if errors.Is(err, state.ErrNotFound) {
				_, _ = fmt.Fprintf(out, messages.StatusNoneFmt, sessionName)
				return &SilentExitError{Code: 1}
			}
			if err != nil {
				return err
			}
			sess, err := env.newSession(sessionName)
			if err != nil {
				return err
			}
			selector := profiles.New(env.registry, sess, env.cfg.DefaultSpawner(), nil, env.sources...)
			ctx := cmd.Context()
			if err := selector.LoadState(ctx, blob); err != nil {
				return err
			}
			status, err := selector.Poll(ctx)
			if err != nil {
				return err
			}
			if status != nil {
				_, _ = fmt.Fprintf(out, messages.StatusExitedFmt, sessionName, status.Code)
				return &SilentExitError{Code: 1}
			}
			url, _ := blob.Map("child_state")["url"].(string)
			_, _ = fmt.Fprintf(out, messages.StatusRunningFmt, sessionName, url, selector.ProfileKey())
			return nil
		},
	}

	cmd.Flags().StringVar(&session, "session", "", messages.SpawnFlagSession)

	return cmd
}
