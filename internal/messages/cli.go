package messages

// CLI messages for user-facing commands and prompts.
const (
	// RootUse is the CLI command name.
	RootUse = "spl"
	// RootShort is the short description for the root command.
	RootShort             = "Spawn Layer CLI"
	RootMissingSpawnLayer = "spawn layer isn't initialized here (missing .spawn-layer); run 'spl init' to initialize"

	// VersionCommitFmt formats the commit hash for version display.
	VersionCommitFmt = "commit %s"
	VersionBuildFmt  = "built %s"
	VersionFullFmt   = "%s (%s)"
	VersionTemplate  = "{{.Version}}\n"

	// InitUse is the init command name.
	InitUse       = "init"
	InitShort     = "Write the default spawn-layer config for this project"
	InitFlagForce = "Overwrite an existing config.toml (a .bak backup is written first)"

	// ProfilesUse is the profiles command name.
	ProfilesUse       = "profiles"
	ProfilesShort     = "List the profiles offered by the configured catalog sources"
	ProfilesHeaderFmt = "Profiles (%d):\n"
	ProfilesLineFmt   = "  %-24s %-36s [%s]\n"
	ProfilesEmpty     = "No profiles available. Enable catalog sources in .spawn-layer/config.toml."

	// CatalogWarningFmt prefixes a catalog source warning.
	CatalogWarningFmt = "Warning: %s\n"

	// FormUse is the form command name.
	FormUse   = "form"
	FormShort = "Render the profile selection form as an HTML fragment"

	// SpawnUse is the spawn command name.
	SpawnUse               = "spawn"
	SpawnShort             = "Start a server for the selected profile"
	SpawnFlagProfile       = "Profile key to spawn (skips the interactive picker)"
	SpawnFlagField         = "Form field as name=value (repeatable); simulates a form submission"
	SpawnFlagSession       = "Session name (defaults to $USER)"
	SpawnFieldInvalidFmt   = "invalid field %q (expected name=value)"
	SpawnUnknownProfileFmt = "unknown profile %q; run 'spl profiles' to list available keys"
	SpawnAlreadyRunningFmt = "session %q already has recorded state; run 'spl stop' first"
	SpawnStartedFmt        = "Started %q for session %q at %s\n"

	// StatusUse is the status command name.
	StatusUse        = "status"
	StatusShort      = "Show whether the session's server is still running"
	StatusRunningFmt = "Session %q is running at %s (profile %q)\n"
	StatusExitedFmt  = "Session %q has exited with code %d\n"
	StatusNoneFmt    = "No state recorded for session %q\n"

	// StopUse is the stop command name.
	StopUse        = "stop"
	StopShort      = "Stop the session's server and clear its state"
	StopFlagForce  = "Kill immediately instead of a graceful shutdown"
	StopStoppedFmt = "Stopped session %q\n"
	StopNothingFmt = "No state recorded for session %q; nothing to stop\n"

	// SessionRequired rejects empty or unusable session names.
	SessionRequired = "session name is required (pass --session or set $USER)"
)
