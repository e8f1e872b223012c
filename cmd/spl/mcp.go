package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/conn-castle/spawn-layer/internal/catalog"
	"github.com/conn-castle/spawn-layer/internal/mcp"
	"github.com/conn-castle/spawn-layer/internal/messages"
)

var runCatalogServer = mcp.RunCatalogServer

func newMcpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   messages.McpUse,
		Short: messages.McpShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadAppEnv()
			if err != nil {
				return err
			}
			entries, warnings := catalog.Collect(cmd.Context(), env.sources...)
			printCatalogWarnings(cmd, warnings)
			if err := runCatalogServer(cmd.Context(), Version, entries); err != nil {
				return fmt.Errorf(messages.McpRunCatalogServerFailedFmt, err)
			}
			return nil
		},
	}
}
