package provider

import "time"

// Request configures a single generation call.
// This is the provider-agnostic request format used across all providers.
type Request struct {
	// Prompt is the text the editor typed into the widget.
	Prompt string `json:"prompt"`

	// Options holds provider-specific request settings.
	// See each provider's documentation for available options.
	Options map[string]any `json:"options,omitempty"`
}

// Response is the output of a generation call.
type Response struct {
	// Content is the generated text.
	Content string `json:"content"`

	// Provider names the provider that produced the response.
	Provider string `json:"provider"`

	// Duration is the wall time of the remote call.
	Duration time.Duration `json:"duration"`

	// Metadata holds provider-specific response data, such as image URLs or
	// source references returned next to the text.
	Metadata map[string]any `json:"metadata,omitempty"`
}

// IsEmpty reports whether the response carries no generated text.
func (r *Response) IsEmpty() bool {
	return r == nil || r.Content == ""
}
