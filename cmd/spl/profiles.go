package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/conn-castle/spawn-layer/internal/catalog"
	"github.com/conn-castle/spawn-layer/internal/messages"
)

func newProfilesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   messages.ProfilesUse,
		Short: messages.ProfilesShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadAppEnv()
			if err != nil {
				return err
			}
			entries, warnings := catalog.Collect(cmd.Context(), env.sources...)
			printCatalogWarnings(cmd, warnings)
			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				_, _ = fmt.Fprintln(out, messages.ProfilesEmpty)
				return nil
			}
			_, _ = fmt.Fprintf(out, messages.ProfilesHeaderFmt, len(entries))
			for _, entry := range entries {
				_, _ = fmt.Fprintf(out, messages.ProfilesLineFmt, entry.Key, entry.Display, entry.SpawnerID)
			}
			return nil
		},
	}
}

// printCatalogWarnings emits catalog source warnings to stderr so they
// never corrupt machine-readable stdout.
func printCatalogWarnings(cmd *cobra.Command, warnings []string) {
	warnColor := color.New(color.FgYellow)
	for _, warning := range warnings {
		_, _ = warnColor.Fprintf(cmd.ErrOrStderr(), messages.CatalogWarningFmt, warning)
	}
}
