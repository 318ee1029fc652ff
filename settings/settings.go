// Package settings loads promptfield settings from YAML or TOML files and
// the process environment.
//
// Settings are read once and passed down explicitly; nothing below the
// command line reads the environment on its own.
//
//	s, err := settings.Load("promptfield.yaml")
//	if err != nil {
//	    return err
//	}
//	s.LoadFromEnv()
//	if err := s.Validate(); err != nil {
//	    return err
//	}
package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/randalmurphal/promptfield/management"
	"github.com/randalmurphal/promptfield/provider"
	"github.com/randalmurphal/promptfield/widget"
)

// Settings configures the CLI and the development server.
type Settings struct {
	// ProjectID is the Kontent.ai project (environment) id.
	ProjectID string `json:"project_id" yaml:"project_id" toml:"project_id"`

	// ManagementAPIKey authenticates Management API upserts.
	ManagementAPIKey string `json:"management_api_key" yaml:"management_api_key" toml:"management_api_key"`

	// ChatsonicAPIKey authenticates generation calls.
	ChatsonicAPIKey string `json:"chatsonic_api_key" yaml:"chatsonic_api_key" toml:"chatsonic_api_key"`

	// TargetItem and TargetLanguage address the language variant written
	// by the environment variant.
	TargetItem     string `json:"target_item" yaml:"target_item" toml:"target_item"`
	TargetLanguage string `json:"target_language" yaml:"target_language" toml:"target_language"`

	// Variant is "instance" or "environment".
	Variant string `json:"variant" yaml:"variant" toml:"variant"`

	// ElementConfig is the custom element configuration handed to the
	// widget by the development server, as the CMS would.
	ElementConfig map[string]any `json:"element_config" yaml:"element_config" toml:"element_config"`

	// ManagementBaseURL overrides the Management API endpoint.
	ManagementBaseURL string `json:"management_base_url" yaml:"management_base_url" toml:"management_base_url"`

	// Provider configures the generation client. Its API key is filled
	// from ChatsonicAPIKey when empty.
	Provider provider.Config `json:"provider" yaml:"provider" toml:"provider"`
}

// Default returns settings for the environment variant with its fixed
// target.
func Default() Settings {
	return Settings{
		TargetItem:     widget.DefaultTargetItem,
		TargetLanguage: widget.DefaultTargetLanguage,
		Variant:        widget.VariantEnvironment.String(),
		Provider:       provider.DefaultConfig(),
	}
}

// Load reads a settings file over Default. The format follows the
// extension: .yaml, .yml or .toml.
func Load(path string) (Settings, error) {
	s := Default()

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return s, fmt.Errorf("read settings: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &s)
	case ".toml":
		_, err = toml.Decode(string(data), &s)
	default:
		return s, fmt.Errorf("settings %s: unsupported format %q", path, ext)
	}
	if err != nil {
		return s, fmt.Errorf("parse settings %s: %w", path, err)
	}
	return s, nil
}

// LoadFromEnv overlays values from environment variables. Set variables take
// precedence over file values.
//
// Supported variables:
//   - NEXT_PUBLIC_KONTENT_PROJECT_ID
//   - NEXT_PUBLIC_KONTENT_MANAGEMENT_API_KEY
//   - NEXT_PUBLIC_CHATSONIC_API_KEY
//   - PROMPTFIELD_TARGET_ITEM, PROMPTFIELD_TARGET_LANGUAGE
//   - PROMPTFIELD_VARIANT
//   - the provider variables read by provider.Config.LoadFromEnv
func (s *Settings) LoadFromEnv() {
	env := EnvFromOS()
	if env.ProjectID != "" {
		s.ProjectID = env.ProjectID
	}
	if env.ManagementAPIKey != "" {
		s.ManagementAPIKey = env.ManagementAPIKey
	}
	if env.ChatsonicAPIKey != "" {
		s.ChatsonicAPIKey = env.ChatsonicAPIKey
	}
	if v := os.Getenv("PROMPTFIELD_TARGET_ITEM"); v != "" {
		s.TargetItem = v
	}
	if v := os.Getenv("PROMPTFIELD_TARGET_LANGUAGE"); v != "" {
		s.TargetLanguage = v
	}
	if v := os.Getenv("PROMPTFIELD_VARIANT"); v != "" {
		s.Variant = v
	}
	s.Provider.LoadFromEnv()
}

// Validate checks that the settings can drive a generation run.
func (s Settings) Validate() error {
	var errs []error
	if _, err := widget.ParseVariant(s.Variant); err != nil {
		errs = append(errs, err)
	}
	if s.ProjectID == "" {
		errs = append(errs, errors.New("project_id is required"))
	}
	if s.ManagementAPIKey == "" {
		errs = append(errs, errors.New("management_api_key is required"))
	}
	if s.ChatsonicAPIKey == "" && s.Provider.APIKey == "" {
		errs = append(errs, errors.New("chatsonic_api_key is required"))
	}
	if s.TargetItem == "" || s.TargetLanguage == "" {
		errs = append(errs, errors.New("target_item and target_language are required"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid settings: %w", errors.Join(errs...))
	}
	return nil
}

// WidgetVariant returns the parsed variant, VariantInstance when unset.
func (s Settings) WidgetVariant() widget.Variant {
	v, err := widget.ParseVariant(s.Variant)
	if err != nil {
		return widget.VariantInstance
	}
	return v
}

// Env returns the environment defaults carried by s. The Chatsonic key
// falls back to the provider section.
func (s Settings) Env() Env {
	return Env{
		ProjectID:        s.ProjectID,
		ManagementAPIKey: s.ManagementAPIKey,
		ChatsonicAPIKey:  s.ProviderConfig().APIKey,
	}
}

// ProviderConfig returns the provider configuration with the API key filled
// from ChatsonicAPIKey when the provider section has none.
func (s Settings) ProviderConfig() provider.Config {
	cfg := s.Provider
	if cfg.Provider == "" {
		cfg.Provider = provider.DefaultProvider
	}
	if cfg.APIKey == "" {
		cfg = cfg.WithAPIKey(s.ChatsonicAPIKey)
	}
	return cfg
}

// ElementConfigJSON encodes ElementConfig the way the CMS delivers it.
// A missing section encodes as an empty object.
func (s Settings) ElementConfigJSON() (json.RawMessage, error) {
	if s.ElementConfig == nil {
		return json.RawMessage("{}"), nil
	}
	data, err := json.Marshal(s.ElementConfig)
	if err != nil {
		return nil, fmt.Errorf("encode element_config: %w", err)
	}
	return data, nil
}

// WidgetOptions returns the widget options implied by the settings.
func (s Settings) WidgetOptions() []widget.Option {
	opts := []widget.Option{
		widget.WithVariant(s.WidgetVariant()),
		widget.WithEnvironment(s.Env().Credentials()),
		widget.WithTarget(s.TargetItem, s.TargetLanguage),
		widget.WithProvider(s.ProviderConfig()),
	}
	if base := s.ManagementBaseURL; base != "" {
		opts = append(opts, widget.WithSessionFactory(func(projectID, apiKey string) (widget.Saver, error) {
			client, err := management.New(projectID, apiKey, management.WithBaseURL(base))
			if err != nil {
				return nil, err
			}
			return client, nil
		}))
	}
	return opts
}
