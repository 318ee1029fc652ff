package chatsonic

import "github.com/randalmurphal/promptfield/provider"

func init() {
	provider.Register(providerName, newFromProviderConfig)
}

// newFromProviderConfig creates a Client from a provider.Config.
// This is the factory function registered with the provider registry.
func newFromProviderConfig(cfg provider.Config) (provider.Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, provider.NewError(providerName, "configure", err, false)
	}

	opts := []Option{WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, WithBaseURL(cfg.BaseURL))
	}
	if cfg.Engine != "" {
		opts = append(opts, WithEngine(cfg.Engine))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, WithTimeout(cfg.Timeout))
	}
	if ua := cfg.GetStringOption("user_agent", ""); ua != "" {
		opts = append(opts, WithUserAgent(ua))
	}

	return New(opts...), nil
}
