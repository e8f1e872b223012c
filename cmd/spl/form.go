package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/conn-castle/spawn-layer/internal/catalog"
	"github.com/conn-castle/spawn-layer/internal/form"
	"github.com/conn-castle/spawn-layer/internal/messages"
)

func newFormCmd() *cobra.Command {
	return &cobra.Command{
		Use:   messages.FormUse,
		Short: messages.FormShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadAppEnv()
			if err != nil {
				return err
			}
			entries, warnings := catalog.Collect(cmd.Context(), env.sources...)
			printCatalogWarnings(cmd, warnings)
			html, err := form.Render(entries)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), html)
			return nil
		},
	}
}
