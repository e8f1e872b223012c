// Package mcp serves the profile catalog to MCP clients.
package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/conn-castle/spawn-layer/internal/catalog"
	"github.com/conn-castle/spawn-layer/internal/messages"
)

type catalogServerRunner func(ctx context.Context, server *mcp.Server) error

// RunCatalogServer starts an MCP server over stdio exposing one prompt
// per catalog entry, so agent frontends can offer the same profiles the
// selection form does.
func RunCatalogServer(ctx context.Context, version string, entries []catalog.Entry) error {
	return runCatalogServer(ctx, version, entries, defaultCatalogServerRunner)
}

// runCatalogServer builds the MCP server and runs it using the provided runner.
func runCatalogServer(ctx context.Context, version string, entries []catalog.Entry, runner catalogServerRunner) error {
	if runner == nil {
		return fmt.Errorf(messages.McpRunCatalogServerFailedFmt, errors.New("catalog server runner is nil"))
	}
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "spawn-layer",
		Version: version,
	}, nil)

	for _, entry := range entries {
		entry := entry
		prompt := &mcp.Prompt{
			Name:        entry.Key,
			Description: entry.Display,
		}
		server.AddPrompt(prompt, promptHandler(entry))
	}

	if err := runner(ctx, server); err != nil {
		return fmt.Errorf(messages.McpRunCatalogServerFailedFmt, err)
	}

	return nil
}

// defaultCatalogServerRunner runs the MCP server over stdio.
func defaultCatalogServerRunner(ctx context.Context, server *mcp.Server) error {
	return server.Run(ctx, &mcp.StdioTransport{})
}

func promptHandler(entry catalog.Entry) func(context.Context, *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	body := entry.Payload
	if body == "" {
		body = fmt.Sprintf(messages.McpPromptBodyFmt, entry.Key, entry.SpawnerID)
	}
	return func(context.Context, *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		return &mcp.GetPromptResult{
			Description: entry.Display,
			Messages: []*mcp.PromptMessage{
				{
					Role:    "user",
					Content: &mcp.TextContent{Text: body},
				},
			},
		}, nil
	}
}
