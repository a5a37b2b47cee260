package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/koscakluka/innervoice/core/locale"
	"github.com/koscakluka/innervoice/core/notes"
	"github.com/koscakluka/innervoice/internal/logging"
)

const (
	envPrefix = "INNERVOICE_"
	// EnvConfigPath names the YAML file to load when no path is passed.
	EnvConfigPath = envPrefix + "CONFIG"
)

var providerKeyEnv = map[string]string{
	ProviderAnthropic: "ANTHROPIC_API_KEY",
	ProviderGroq:      "GROQ_API_KEY",
}

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) at path, or at INNERVOICE_CONFIG when path is empty
//  3. env (prefix INNERVOICE_, "__" separates nested keys, e.g.
//     INNERVOICE_MODEL__NAME)
func Load(_ context.Context, path string) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, strings.ToLower(envPrefix))
		return strings.ReplaceAll(s, "__", ".")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: environment: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports the first setting that cannot be used, wrapped in
// ErrInvalidConfig.
func (c *Config) Validate() error {
	invalid := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
	}

	if !slices.Contains(locale.Languages(), c.Language) {
		return invalid("language %q is not one of %v", c.Language, locale.Languages())
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return invalid("%v", err)
	}
	if _, ok := providerKeyEnv[c.Model.Provider]; !ok {
		return invalid("model provider %q is not one of anthropic, groq", c.Model.Provider)
	}
	if c.Model.Name == "" {
		return invalid("model name must not be empty")
	}
	if c.Model.Temperature < 0 || c.Model.Temperature > 2 {
		return invalid("model temperature %v is outside [0, 2]", c.Model.Temperature)
	}
	if c.Model.MaxTokens <= 0 {
		return invalid("model max_tokens must be positive")
	}
	switch notes.Backend(c.Notes.Backend) {
	case notes.BackendFile, notes.BackendSQLite:
	default:
		return invalid("notes backend %q is not one of file, sqlite", c.Notes.Backend)
	}
	if c.Notes.Path == "" {
		return invalid("notes path must not be empty")
	}
	return nil
}

// APIKey returns the key for the configured provider: the contents of
// APIKeyFile when it exists and is not blank, otherwise the provider's
// environment variable.
func (c *Config) APIKey() (string, error) {
	if c.APIKeyFile != "" {
		data, err := os.ReadFile(c.APIKeyFile)
		switch {
		case err == nil:
			if key := strings.TrimSpace(string(data)); key != "" {
				return key, nil
			}
		case !errors.Is(err, fs.ErrNotExist):
			return "", fmt.Errorf("read API key file: %w", err)
		}
	}

	variable := providerKeyEnv[c.Model.Provider]
	if key := strings.TrimSpace(os.Getenv(variable)); key != "" {
		return key, nil
	}
	return "", fmt.Errorf("%w: set %s or write it to %s", ErrMissingAPIKey, variable, c.APIKeyFile)
}
