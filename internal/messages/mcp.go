package messages

// MCP server messages.
const (
	McpUse   = "mcp"
	McpShort = "Serve the profile catalog as MCP prompts over stdio"

	McpRunCatalogServerFailedFmt = "failed to run MCP catalog server: %w"
	McpPromptBodyFmt             = "Launch profile %q with spawner %s."
)
