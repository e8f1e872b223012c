package main

import (
	"github.com/spf13/cobra"

	"github.com/conn-castle/spawn-layer/internal/messages"
	"github.com/conn-castle/spawn-layer/internal/wizard"
)

var runInit = wizard.RunInit

func newInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   messages.InitUse,
		Short: messages.InitShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := resolveInitRoot()
			if err != nil {
				return err
			}
			return runInit(root, force, cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, messages.InitFlagForce)

	return cmd
}
