package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/conn-castle/spawn-layer/internal/catalog"
	"github.com/conn-castle/spawn-layer/internal/form"
	"github.com/conn-castle/spawn-layer/internal/messages"
	"github.com/conn-castle/spawn-layer/internal/profiles"
	"github.com/conn-castle/spawn-layer/internal/state"
	"github.com/conn-castle/spawn-layer/internal/wizard"
)

var newWizardUI = func() wizard.UI { return wizard.NewHuhUI() }

func newSpawnCmd() *cobra.Command {
	var profileKey string
	var fields []string
	var session string

	cmd := &cobra.Command{
		Use:   messages.SpawnUse,
		Short: messages.SpawnShort,
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
			if _, err := env.store.Load(sessionName); err == nil {
				return fmt.Errorf(messages.SpawnAlreadyRunningFmt, sessionName)
			} else if !errors.Is(err, state.ErrNotFound) {
				return err
			}
			sess, err := env.newSession(sessionName)
			if err != nil {
				return err
			}
			selector := profiles.New(env.registry, sess, env.cfg.DefaultSpawner(), nil, env.sources...)

			ctx := cmd.Context()
			if profileKey == "" && len(fields) == 0 {
				done, err := selectInteractively(ctx, cmd, selector)
				if err != nil {
					return err
				}
				if !done {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), messages.WizardExitWithoutSpawn)
					return nil
				}
			} else if err := applyFlagSelection(ctx, selector, profileKey, fields); err != nil {
				return err
			}

			url, err := selector.Start(ctx)
			if err != nil {
				return err
			}
			if err := env.store.Save(sessionName, selector.GetState()); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), messages.SpawnStartedFmt, selector.ProfileKey(), sessionName, url)
			return nil
		},
	}

	cmd.Flags().StringVar(&profileKey, "profile", "", messages.SpawnFlagProfile)
	cmd.Flags().StringArrayVar(&fields, "field", nil, messages.SpawnFlagField)
	cmd.Flags().StringVar(&session, "session", "", messages.SpawnFlagSession)

	return cmd
}

// applyFlagSelection maps --profile and --field flags onto a profile
// selection. An explicit --profile must name a known catalog key;
// --field values are treated like a raw form submission.
func applyFlagSelection(ctx context.Context, selector *profiles.Spawner, profileKey string, fields []string) error {
	formData := map[string][]string{}
	for _, field := range fields {
		name, value, found := strings.Cut(field, "=")
		if !found || strings.TrimSpace(name) == "" {
			return fmt.Errorf(messages.SpawnFieldInvalidFmt, field)
		}
		formData[name] = append(formData[name], value)
	}
	if profileKey != "" {
		entries, _ := selector.Catalog(ctx)
		if _, ok := catalog.Lookup(entries, profileKey); !ok {
			return fmt.Errorf(messages.SpawnUnknownProfileFmt, profileKey)
		}
		formData[form.FieldProfile] = []string{profileKey}
	}
	selector.SetFormData(formData)
	return nil
}

// selectInteractively walks the pick/edit/confirm prompts and applies the
// result. It returns false when the user backed out without spawning.
func selectInteractively(ctx context.Context, cmd *cobra.Command, selector *profiles.Spawner) (bool, error) {
	if !isTerminal() {
		return false, fmt.Errorf(messages.WizardRequiresTerminal)
	}
	entries, warnings := selector.Catalog(ctx)
	printCatalogWarnings(cmd, warnings)

	ui := newWizardUI()
	key, err := wizard.PickProfile(ui, entries)
	if err != nil {
		return false, wizardExit(err)
	}
	entry, ok := catalog.Lookup(entries, key)
	if !ok {
		return false, fmt.Errorf(messages.SpawnUnknownProfileFmt, key)
	}
	payload, err := wizard.EditPayload(ui, entry)
	if err != nil {
		return false, wizardExit(err)
	}
	confirmed, err := wizard.ConfirmSpawn(ui, entry.Display)
	if err != nil {
		return false, wizardExit(err)
	}
	if !confirmed {
		return false, nil
	}
	formData := map[string][]string{form.FieldProfile: {key}}
	if payload != "" {
		formData[form.FieldPayload] = []string{payload}
	}
	selector.SetFormData(formData)
	return true, nil
}

// wizardExit swallows back/cancel navigation so the caller can report a
// clean exit; every other error passes through.
func wizardExit(err error) error {
	if errors.Is(err, wizard.ErrBack) || errors.Is(err, wizard.ErrCancelled) {
		return nil
	}
	return err
}
