package messages

// Session state persistence messages.
const (
	StateSessionRequired   = "session name is required"
	StateSessionInvalidFmt = "session name %q must not contain path separators"
	StateNotFoundFmt       = "no saved state for session %q"
	StateMkdirFmt          = "create state directory %s: %w"
	StateReadFmt           = "read state for session %q: %w"
	StateDecodeFmt         = "decode state for session %q: %w"
	StateEncodeFmt         = "encode state for session %q: %w"
	StateWriteFmt          = "write state for session %q: %w"
	StateClearFmt          = "clear state for session %q: %w"
	StateListFmt           = "list sessions in %s: %w"
	StateOpenLockFmt       = "open lock file %s: %w"
	StateLockFmt           = "lock %s: %w"
	StateLockTimeoutFmt    = "timed out waiting for state lock after %s"
)
