package messages

// Configuration loading and validation messages.
const (
	// ConfigMissingFileFmt formats missing config file errors.
	ConfigMissingFileFmt        = "missing config file %s: %w"
	ConfigInvalidConfigFmt      = "invalid config %s: %w"
	ConfigUnrecognizedKeysFmt   = "%s: unrecognized config keys: %w"
	ConfigFailedReadTemplateFmt = "failed to read config template: %w"

	ConfigProfileDisplayRequiredFmt = "%s: profiles[%d]: display is required"
	ConfigProfileKeyRequiredFmt     = "%s: profiles[%d] (%s): key is required"
	ConfigFilesSystemDirRequiredFmt = "%s: catalog.files is enabled but has no system_dir or user_dir"
	ConfigTagPatternInvalidFmt      = "%s: catalog.docker.tag_pattern: %v"
	ConfigExpandPathFmt             = "expand path %s: %w"

	// ConfigValidationGuidance is appended to validation errors to direct users to repair tools.
	ConfigValidationGuidance = "(run 'spl init' to regenerate or 'spl doctor' to diagnose)"
)
