package messages

// Spawner contract, registry, and proxy messages.
const (
	SpawnerUnknown               = "unknown spawner"
	SpawnerUnknownIDFmt          = "spawner %q: %w"
	SpawnerRegisterEmptyID       = "spawner id is required"
	SpawnerRegisterNilFactoryFmt = "spawner %q: factory is nil"
	SpawnerRegisterDuplicateFmt  = "spawner %q is already registered"

	// WrapNoChildProgress is returned when progress is queried before a
	// child spawner exists.
	WrapNoChildProgress     = "no child spawner exists yet - progress is not yet available"
	WrapDescriptorLockedFmt = "cannot change child spawner to %q while one is live; clear state first"

	LocalCommandRequired    = "local spawner requires a non-empty command"
	LocalAlreadyRunningFmt  = "local spawner already tracks pid %d"
	LocalStartFailedFmt     = "start %s: %w"
	LocalPtyStartFailedFmt  = "start %s in pty: %w"
	LocalSignalFailedFmt    = "signal pid %d: %w"
	LocalRunDirRequired     = "local spawner requires a session run directory"
	LocalCommandNotListFmt  = "local spawner config: command must be a list of strings, got %T"
	LocalEnvNotMapFmt       = "local spawner config: env must be a string map, got %T"
	LocalPortOutOfRangeFmt  = "local spawner config: port %d out of range"
	LocalPortNotIntFmt      = "local spawner config: port must be an integer, got %T"
	LocalStopWaitExceeded   = "process did not exit before the stop deadline"
	LocalWriteScriptFailFmt = "write launch script: %w"

	BatchSubmitRequired    = "batch spawner requires a submit_command"
	BatchPayloadRequired   = "batch spawner requires a payload script"
	BatchSubmitFailedFmt   = "submit batch job: %w"
	BatchSubmitNoJobID     = "batch submit produced no job id"
	BatchCancelFailedFmt   = "cancel batch job %s: %w"
	BatchWriteScriptFmt    = "write batch script: %w"
	BatchCommandNotListFmt = "batch spawner config: %s must be a list of strings, got %T"
)
