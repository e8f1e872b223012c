package wizard

import (
	"errors"
	"fmt"

	"github.com/conn-castle/spawn-layer/internal/catalog"
	"github.com/conn-castle/spawn-layer/internal/messages"
)

var (
	// ErrBack reports that the user backed out of a prompt with Esc.
	ErrBack = errors.New("prompt back requested")
	// ErrCancelled reports a hard exit with Ctrl+C.
	ErrCancelled = errors.New("prompt cancelled")
)

// PickProfile offers the catalog entries and returns the chosen entry's
// key. The first entry is preselected, matching the rendered form's
// default.
func PickProfile(ui UI, entries []catalog.Entry) (string, error) {
	if len(entries) == 0 {
		return "", errors.New(messages.WizardNoProfilesToOffer)
	}
	options := make([]string, len(entries))
	keyByOption := make(map[string]string, len(entries))
	for i, e := range entries {
		label := fmt.Sprintf("%s (%s)", e.Display, e.Key)
		options[i] = label
		keyByOption[label] = e.Key
	}

	current := options[0]
	if err := ui.Select(messages.WizardPickProfileTitle, options, &current); err != nil {
		return "", err
	}
	return keyByOption[current], nil
}

// EditPayload lets the user adjust a profile's launch payload before it
// is handed to the spawner. Profiles without a payload skip the prompt.
func EditPayload(ui UI, entry catalog.Entry) (string, error) {
	if entry.Payload == "" {
		return "", nil
	}
	payload := entry.Payload
	if err := ui.Text(messages.WizardEditPayloadTitle, &payload); err != nil {
		return "", err
	}
	return payload, nil
}

// ConfirmSpawn asks before launching the chosen profile.
func ConfirmSpawn(ui UI, display string) (bool, error) {
	confirm := true
	if err := ui.Confirm(fmt.Sprintf(messages.WizardConfirmSpawnFmt, display), &confirm); err != nil {
		return false, err
	}
	return confirm, nil
}
