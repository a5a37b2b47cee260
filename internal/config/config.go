// Package config defines the application configuration and how it is loaded.
package config

// Config contains process configuration.
type Config struct {
	// Language of the interface and of the model's answers: en or ru.
	Language string `koanf:"language"`

	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFile receives the logs; the terminal belongs to the interface.
	LogFile string `koanf:"log_file"`

	// APIKeyFile is read before falling back to the provider's environment
	// variable.
	APIKeyFile string `koanf:"api_key_file"`

	Model       ModelConfig       `koanf:"model"`
	UserContext UserContextConfig `koanf:"user_context"`
	Notes       NotesConfig       `koanf:"notes"`
	Audio       AudioConfig       `koanf:"audio"`
}

type ModelConfig struct {
	// Provider is anthropic or groq.
	Provider    string  `koanf:"provider"`
	Name        string  `koanf:"name"`
	Temperature float64 `koanf:"temperature"`
	MaxTokens   int     `koanf:"max_tokens"`
}

type UserContextConfig struct {
	// Enabled sends the stored notes along with every prompt.
	Enabled bool `koanf:"enabled"`
}

type NotesConfig struct {
	// Backend is file or sqlite.
	Backend string `koanf:"backend"`
	Path    string `koanf:"path"`
}

type AudioConfig struct {
	Enabled   bool   `koanf:"enabled"`
	SoundsDir string `koanf:"sounds_dir"`
}

const (
	ProviderAnthropic = "anthropic"
	ProviderGroq      = "groq"
)

// New creates a Config holding the defaults.
func New() *Config {
	return &Config{
		Language:   "en",
		LogLevel:   "info",
		LogFile:    "innervoice.log",
		APIKeyFile: ".api_key",
		Model: ModelConfig{
			Provider:    ProviderAnthropic,
			Name:        "claude-3-5-sonnet-20241022",
			Temperature: 1,
			MaxTokens:   8192,
		},
		UserContext: UserContextConfig{Enabled: false},
		Notes: NotesConfig{
			Backend: "file",
			Path:    "config/user_context.txt",
		},
		Audio: AudioConfig{
			Enabled:   true,
			SoundsDir: "sounds",
		},
	}
}
