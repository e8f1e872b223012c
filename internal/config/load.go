package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/conn-castle/spawn-layer/internal/messages"
	"github.com/conn-castle/spawn-layer/internal/templates"
)

// ErrConfigValidation is a sentinel that wraps config validation failures
// (as opposed to TOML syntax, filesystem, or other loading errors).
// Callers can use errors.Is(err, ErrConfigValidation) to distinguish
// validation problems from other loading failure modes.
var ErrConfigValidation = errors.New("config validation failed")

// LoadConfig reads .spawn-layer/config.toml and validates it.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf(messages.ConfigMissingFileFmt, path, err)
	}
	return ParseConfig(data, path)
}

// LoadTemplateConfig returns the embedded default config template as a validated Config.
func LoadTemplateConfig() (*Config, error) {
	data, err := templates.Read("config.toml")
	if err != nil {
		return nil, fmt.Errorf(messages.ConfigFailedReadTemplateFmt, err)
	}
	return ParseConfig(data, "template config.toml")
}

// ParseConfig parses and validates config TOML data from a source identifier.
// data is the TOML content; source is used in error messages.
func ParseConfig(data []byte, source string) (*Config, error) {
	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf(messages.ConfigInvalidConfigFmt, source, err)
	}
	if err := decodeStrict(data); err != nil {
		return nil, fmt.Errorf("%w: "+messages.ConfigUnrecognizedKeysFmt+" "+messages.ConfigValidationGuidance, ErrConfigValidation, source, err)
	}
	if err := cfg.Validate(source); err != nil {
		return nil, fmt.Errorf("%w: %w "+messages.ConfigValidationGuidance, ErrConfigValidation, err)
	}
	return &cfg, nil
}

// decodeStrict re-decodes the TOML data with strict unknown-field
// rejection, catching keys toml.Unmarshal silently ignores.
func decodeStrict(data []byte) error {
	var cfg Config
	decoder := toml.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	return decoder.Decode(&cfg)
}

// Validate ensures the config is complete and consistent. Duplicate
// profile keys are deliberately not rejected here; the catalog layer
// surfaces them as warnings and resolves lookups to the first match.
func (c *Config) Validate(path string) error {
	for i, p := range c.Profiles {
		if p.Display == "" {
			return fmt.Errorf(messages.ConfigProfileDisplayRequiredFmt, path, i)
		}
		if p.Key == "" {
			return fmt.Errorf(messages.ConfigProfileKeyRequiredFmt, path, i, p.Display)
		}
	}
	if c.Catalog.Files.Enabled && c.Catalog.Files.SystemDir == "" && c.Catalog.Files.UserDir == "" {
		return fmt.Errorf(messages.ConfigFilesSystemDirRequiredFmt, path)
	}
	if err := tagPatternValid(c.Catalog.Docker.TagPattern); err != nil {
		return fmt.Errorf(messages.ConfigTagPatternInvalidFmt, path, err)
	}
	return nil
}
