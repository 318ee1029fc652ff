package settings

import (
	"os"

	"github.com/randalmurphal/promptfield/widget"
)

// Environment variable names of the public defaults shared with the
// browser build.
const (
	EnvProjectID        = "NEXT_PUBLIC_KONTENT_PROJECT_ID"
	EnvManagementAPIKey = "NEXT_PUBLIC_KONTENT_MANAGEMENT_API_KEY"
	EnvChatsonicAPIKey  = "NEXT_PUBLIC_CHATSONIC_API_KEY"
)

// Env holds the process-wide defaults the environment variant uses instead
// of per-element configuration. Build it once and pass it down.
type Env struct {
	ProjectID        string `json:"NEXT_PUBLIC_KONTENT_PROJECT_ID"`
	ManagementAPIKey string `json:"NEXT_PUBLIC_KONTENT_MANAGEMENT_API_KEY"`
	ChatsonicAPIKey  string `json:"NEXT_PUBLIC_CHATSONIC_API_KEY"`
}

// EnvFromOS reads Env from the process environment.
func EnvFromOS() Env {
	return EnvFrom(os.Getenv)
}

// EnvFrom reads Env through lookup, which returns "" for unset names.
func EnvFrom(lookup func(string) string) Env {
	return Env{
		ProjectID:        lookup(EnvProjectID),
		ManagementAPIKey: lookup(EnvManagementAPIKey),
		ChatsonicAPIKey:  lookup(EnvChatsonicAPIKey),
	}
}

// Credentials converts e for widget.WithEnvironment.
func (e Env) Credentials() widget.Credentials {
	return widget.Credentials{
		ProjectID:        e.ProjectID,
		ManagementAPIKey: e.ManagementAPIKey,
		GenerationAPIKey: e.ChatsonicAPIKey,
	}
}
