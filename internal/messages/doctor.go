package messages

// Doctor command messages.
const (
	// DoctorUse is the doctor command name.
	DoctorUse   = "doctor"
	DoctorShort = "Check project structure, config, catalog sources, and session state"

	DoctorHealthCheckFmt = "🏥 Checking spawn-layer health in %s...\n"

	DoctorCheckNameStructure = "Structure"
	DoctorCheckNameConfig    = "Config"
	DoctorCheckNameCatalog   = "Catalog"
	DoctorCheckNameState     = "State"
	DoctorCheckNameDocker    = "Docker"

	DoctorMissingRequiredDirFmt       = "Missing required directory: %s"
	DoctorMissingRequiredDirRecommend = "Run 'spl init' to create the project layout."
	DoctorPathNotDirFmt               = "Path exists but is not a directory: %s"
	DoctorPathNotDirRecommend         = "Remove or rename the file so spl can create the directory."
	DoctorDirExistsFmt                = "Directory exists: %s"

	DoctorConfigLoadFailedFmt = "Config failed to load: %v"
	DoctorConfigLoadRecommend = "Run 'spl init' to regenerate config.toml, then reapply your edits."
	DoctorConfigValidFmt      = "Config is valid (%d profiles configured)"

	DoctorCatalogEntriesFmt        = "Catalog offers %d entries"
	DoctorCatalogEmpty             = "Catalog is empty: nothing can be spawned"
	DoctorCatalogEmptyRecommend    = "Add [[profiles]] entries to config.toml or enable a catalog source."
	DoctorCatalogWarningFmt        = "Catalog warning: %s"
	DoctorCatalogDuplicateRecomm   = "Rename the colliding profile keys; lookups resolve to the first match."
	DoctorCatalogUnknownSpawnerFmt = "Profile %q names unregistered spawner %q"
	DoctorCatalogUnknownSpawnerRec = "Use one of the registered spawners or correct the profile."

	DoctorStateWritableFmt    = "State directory is writable: %s"
	DoctorStateNotWritableFmt = "State directory is not writable: %v"
	DoctorStateNotWritableRec = "Fix permissions on the state directory or point defaults.state_dir elsewhere."
	DoctorStateSessionsFmt    = "%d session(s) have saved state"
	DoctorStateListFailedFmt  = "Could not list saved sessions: %v"

	DoctorDockerDisabled     = "Docker catalog is disabled; skipping engine check"
	DoctorDockerReachableFmt = "Docker engine reachable (%d matching images)"
	DoctorDockerFailedFmt    = "Docker engine check failed: %v"
	DoctorDockerFailedRecomm = "Verify catalog.docker.host or disable the docker catalog."

	DoctorFailureSummary = "❌ Some checks failed. Please address the items above."
	DoctorFailureError   = "doctor checks failed"
	DoctorSuccessSummary = "✅ All systems go. spawn-layer is ready."

	DoctorStatusOKLabel        = "[OK]  "
	DoctorStatusWarnLabel      = "[WARN]"
	DoctorStatusFailLabel      = "[FAIL]"
	DoctorResultLineFmt        = "%s %-10s %s\n"
	DoctorRecommendationPrefix = "       💡 "
	DoctorRecommendationIndent = "         "
)
