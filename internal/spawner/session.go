package spawner

// Session carries the per-user context the host framework supplies to
// every spawner it constructs: who the server is for, where the spawner
// may write scratch files, and how the server reaches back to the hub.
type Session struct {
	// User is the name of the user the server belongs to.
	User string

	// RunDir is a per-session scratch directory the spawner may write to.
	RunDir string

	// HubURL is the hub endpoint the spawned server registers with.
	HubURL string

	// AuthToken authenticates the spawned server to the hub.
	AuthToken string

	// Env is extra environment applied to every spawned server.
	Env map[string]string
}
