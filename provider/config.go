package provider

import (
	"fmt"
	"os"
	"time"
)

// DefaultProvider is the provider used when none is configured.
const DefaultProvider = "chatsonic"

// Config holds configuration for creating a generation client.
// Common fields apply to all providers; use Options for provider-specific settings.
type Config struct {
	// Provider is the registered name of the provider to use.
	Provider string `json:"provider" yaml:"provider" toml:"provider"`

	// APIKey authenticates against the generation service.
	APIKey string `json:"api_key" yaml:"api_key" toml:"api_key"`

	// BaseURL overrides the service endpoint. Empty uses the provider default.
	BaseURL string `json:"base_url" yaml:"base_url" toml:"base_url"`

	// Engine selects the service tier (Chatsonic: "premium", "gpt4", ...).
	// Empty uses the provider default.
	Engine string `json:"engine" yaml:"engine" toml:"engine"`

	// Timeout bounds a single request. 0 means no timeout: a hung call
	// never completes.
	Timeout time.Duration `json:"timeout" yaml:"timeout" toml:"timeout"`

	// Options holds provider-specific configuration.
	//
	// Chatsonic:
	//   - "user_agent": string
	Options map[string]any `json:"options" yaml:"options" toml:"options"`
}

// DefaultConfig returns a Config using DefaultProvider and no timeout.
func DefaultConfig() Config {
	return Config{
		Provider: DefaultProvider,
	}
}

// LoadFromEnv populates config fields from environment variables.
// Set variables take precedence over existing values.
//
// Supported variables:
//   - PROMPTFIELD_PROVIDER: Provider name
//   - PROMPTFIELD_BASE_URL: Endpoint override
//   - PROMPTFIELD_ENGINE: Engine name
//   - PROMPTFIELD_TIMEOUT: Timeout duration (e.g., "30s")
//   - NEXT_PUBLIC_CHATSONIC_API_KEY: API key
func (c *Config) LoadFromEnv() {
	if v := os.Getenv("PROMPTFIELD_PROVIDER"); v != "" {
		c.Provider = v
	}
	if v := os.Getenv("PROMPTFIELD_BASE_URL"); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv("PROMPTFIELD_ENGINE"); v != "" {
		c.Engine = v
	}
	if v := os.Getenv("PROMPTFIELD_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Timeout = d
		}
	}
	if v := os.Getenv("NEXT_PUBLIC_CHATSONIC_API_KEY"); v != "" {
		c.APIKey = v
	}
}

// FromEnv creates a Config from environment variables with defaults.
func FromEnv() Config {
	cfg := DefaultConfig()
	cfg.LoadFromEnv()
	return cfg
}

// Validate checks if the configuration is usable.
func (c *Config) Validate() error {
	if c.Provider == "" {
		return fmt.Errorf("provider is required")
	}
	if c.APIKey == "" {
		return fmt.Errorf("api_key is required: %w", ErrCredentialsNotFound)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must be >= 0, got %v", c.Timeout)
	}
	return nil
}

// WithProvider returns a copy of the config with the specified provider.
func (c Config) WithProvider(provider string) Config {
	c.Provider = provider
	return c
}

// WithAPIKey returns a copy of the config with the specified API key.
func (c Config) WithAPIKey(key string) Config {
	c.APIKey = key
	return c
}

// WithBaseURL returns a copy of the config with the specified endpoint.
func (c Config) WithBaseURL(url string) Config {
	c.BaseURL = url
	return c
}

// WithOption returns a copy of the config with the specified option set.
func (c Config) WithOption(key string, value any) Config {
	newOpts := make(map[string]any, len(c.Options)+1)
	for k, v := range c.Options {
		newOpts[k] = v
	}
	newOpts[key] = value
	c.Options = newOpts
	return c
}

// GetStringOption retrieves a string option, returning defaultVal if not set.
func (c Config) GetStringOption(key, defaultVal string) string {
	if v, ok := c.Options[key].(string); ok {
		return v
	}
	return defaultVal
}

// GetBoolOption retrieves a bool option, returning defaultVal if not set.
func (c Config) GetBoolOption(key string, defaultVal bool) bool {
	if v, ok := c.Options[key].(bool); ok {
		return v
	}
	return defaultVal
}

// GetIntOption retrieves an int option, returning defaultVal if not set.
// Handles the numeric types produced by JSON, YAML and TOML decoding.
func (c Config) GetIntOption(key string, defaultVal int) int {
	switch v := c.Options[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return defaultVal
}
