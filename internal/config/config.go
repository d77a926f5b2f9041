// ABOUTME: Configuration loading and parsing for pixelchat.
// ABOUTME: YAML with environment variable expansion, duration parsing, and defaults.

package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete pixelchat configuration.
type Config struct {
	Credentials CredentialsConfig `yaml:"credentials"`
	Models      ModelsConfig      `yaml:"models"`
	Video       VideoConfig       `yaml:"video"`
	Maps        MapsConfig        `yaml:"maps"`
	Personas    PersonasConfig    `yaml:"personas"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// CredentialsConfig holds the provider credential.
type CredentialsConfig struct {
	APIKey string `yaml:"api_key"`
}

// ModelsConfig names the provider models used per concern.
type ModelsConfig struct {
	Director string `yaml:"director"`
	Image    string `yaml:"image"`
	Video    string `yaml:"video"`
	Search   string `yaml:"search"`
}

// VideoConfig bounds the video operation polling loop.
type VideoConfig struct {
	PollInterval time.Duration `yaml:"-"`
	MaxPolls     int           `yaml:"max_polls"`

	// Raw string value for YAML unmarshaling
	PollIntervalRaw string `yaml:"poll_interval"`
}

// MapsConfig holds the fallback coordinates used when geolocation is
// unavailable.
type MapsConfig struct {
	Latitude  float64 `yaml:"latitude"`
	Longitude float64 `yaml:"longitude"`
}

// PersonasConfig points at optional persona pack overrides.
type PersonasConfig struct {
	PackDir string `yaml:"pack_dir"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when no config file exists.
// The credential is taken from the GEMINI_API_KEY environment variable.
func Default() *Config {
	cfg := &Config{
		Credentials: CredentialsConfig{APIKey: os.Getenv("GEMINI_API_KEY")},
		Models: ModelsConfig{
			Director: "gemini-3-pro-preview",
			Image:    "gemini-3-pro-image-preview",
			Video:    "veo-3.1-fast-generate-preview",
			Search:   "gemini-2.5-flash",
		},
		Video: VideoConfig{
			PollInterval: 5 * time.Second,
			MaxPolls:     60,
		},
		Maps: MapsConfig{
			Latitude:  37.7749,
			Longitude: -122.4194,
		},
		Logging: LoggingConfig{Level: "info", Format: "text"},
	}
	return cfg
}

// Load reads a configuration file from the given path and returns a parsed
// Config. Environment variables in the format ${VAR_NAME} are expanded.
// Duration strings are parsed into time.Duration values. Fields left empty
// fall back to the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables in the raw YAML content
	expandedData := expandEnvVars(string(data))

	cfg := Default()
	if err := yaml.Unmarshal([]byte(expandedData), cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := parseDurations(cfg); err != nil {
		return nil, fmt.Errorf("parsing durations: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// expandEnvVars replaces ${VAR_NAME} patterns with the corresponding
// environment variable values. Unset variables become empty strings.
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)

	return re.ReplaceAllStringFunc(s, func(match string) string {
		varName := re.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}

// Validate checks that all required configuration fields are present and
// valid. The credential is deliberately not required here: its absence is a
// runtime gate, not a startup failure.
func (c *Config) Validate() error {
	if c.Models.Director == "" {
		return fmt.Errorf("models.director is required")
	}
	if c.Models.Image == "" {
		return fmt.Errorf("models.image is required")
	}
	if c.Models.Video == "" {
		return fmt.Errorf("models.video is required")
	}
	if c.Models.Search == "" {
		return fmt.Errorf("models.search is required")
	}
	if c.Video.MaxPolls <= 0 {
		return fmt.Errorf("video.max_polls must be positive")
	}
	return nil
}

// parseDurations converts the raw duration strings into time.Duration values.
func parseDurations(cfg *Config) error {
	if cfg.Video.PollIntervalRaw != "" {
		d, err := time.ParseDuration(cfg.Video.PollIntervalRaw)
		if err != nil {
			return fmt.Errorf("parsing poll_interval %q: %w", cfg.Video.PollIntervalRaw, err)
		}
		cfg.Video.PollInterval = d
	}
	return nil
}

// HasValidCredential reports whether a provider credential is configured.
// This is the gate the submit path checks before any room interaction.
func (c *Config) HasValidCredential() bool {
	return c.Credentials.APIKey != ""
}
