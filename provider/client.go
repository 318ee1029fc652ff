// Package provider defines the unified interface for text generation services.
//
// The editing widget never talks to a generation API directly. It asks the
// registry for a Client by name and sends the editor's prompt through it, so
// swapping Chatsonic for another hosted service only requires registering a
// new factory.
//
// # Usage
//
// Create a client using the registry:
//
//	client, err := provider.New("chatsonic", provider.Config{
//	    APIKey: os.Getenv("NEXT_PUBLIC_CHATSONIC_API_KEY"),
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	resp, err := client.Generate(ctx, provider.Request{Prompt: "draft a tagline"})
//
// # Available Providers
//
//   - "chatsonic": Writesonic Chatsonic business API
//
// Import github.com/randalmurphal/promptfield/providers to register all of them.
package provider

import "context"

// Client is the unified interface for generation providers.
// Implementations must be safe for concurrent use.
type Client interface {
	// Generate sends a prompt and returns the generated text.
	// The context controls cancellation; providers add no timeout of their own
	// unless Config.Timeout is set.
	Generate(ctx context.Context, req Request) (*Response, error)

	// Provider returns the provider name (e.g., "chatsonic").
	Provider() string

	// Close releases any resources held by the client.
	Close() error
}
