package messages

// Interactive prompt and init messages.
const (
	WizardRequiresTerminal = "this command requires an interactive terminal; pass --profile instead"

	WizardPickProfileTitle  = "Choose a server profile"
	WizardConfirmSpawnFmt   = "Spawn %q now?"
	WizardEditPayloadTitle  = "Edit the launch script before submitting"
	WizardExitWithoutSpawn  = "Exiting without spawning."
	WizardNoProfilesToOffer = "no profiles available to choose from"

	InitCreatedFmt        = "Created %s"
	InitCurrentInvalidFmt = "Warning: existing config is not valid TOML (%v); the template would replace it."
	InitUpToDateFmt       = "%s already matches the default template"
	InitPreviewHeader     = "The following changes would be applied to config.toml:"
	InitPreviewOnly       = "Preview only. Re-run with --force to apply (a .bak backup is written first)."
	InitAppliedFmt        = "Updated %s (backup at %s)"
	InitBackupFmt         = "backup config: %w"
	InitWriteFmt          = "write config: %w"
)
