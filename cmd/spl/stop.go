package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/conn-castle/spawn-layer/internal/messages"
	"github.com/conn-castle/spawn-layer/internal/profiles"
	"github.com/conn-castle/spawn-layer/internal/state"
)

func newStopCmd() *cobra.Command {
	var session string
	var force bool

	cmd := &cobra.Command{
		Use:   messages.StopUse,
		Short: messages.StopShort,
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
				_, _ = fmt.Fprintf(out, messages.StopNothingFmt, sessionName)
				return nil
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
			if err := selector.Stop(ctx, force); err != nil {
				return err
			}
			selector.ClearState()
			if err := env.store.Clear(sessionName); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(out, messages.StopStoppedFmt, sessionName)
			return nil
		},
	}

	cmd.Flags().StringVar(&session, "session", "", messages.SpawnFlagSession)
	cmd.Flags().BoolVar(&force, "force", false, messages.StopFlagForce)

	return cmd
}
