package messages

// Catalog assembly and discovery messages.
const (
	CatalogEmpty           = "static catalog has no entries"
	CatalogSourceFailedFmt = "catalog source %s failed: %v"
	CatalogDuplicateKeyFmt = "duplicate profile key %q; lookups resolve to the first entry"

	FilesrcDirRequired    = "profile directory is required"
	FilesrcSpawnerDefault = "batch"

	DockersrcListImagesFmt   = "list images from %s: %w"
	DockersrcDecodeImagesFmt = "decode image list from %s: %w"
	DockersrcBadStatusFmt    = "list images from %s: unexpected status %s"
	DockersrcDisplayGPU      = "Container (w/GPU): %s"
	DockersrcDisplayNoGPU    = "Container (no GPU): %s"
	DockersrcKeyPrefix       = "docker-"
)
