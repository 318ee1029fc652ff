// Package chatsonic provides a client for the Writesonic Chatsonic business API.
//
// Every call is a single POST of the editor's prompt:
//
//	POST https://api.writesonic.com/v2/business/content/chatsonic?engine=premium
//	X-API-KEY: <token>
//
//	{"enable_google_results":"true","enable_memory":false,"input_text":"..."}
//
// and the generated text is the "message" property of the JSON answer.
// Google results are always on and conversation memory is always off; every
// prompt stands alone.
//
// This package implements the provider.Client interface.
//
// # Basic Usage
//
//	client := chatsonic.New(chatsonic.WithAPIKey(token))
//	resp, err := client.Generate(ctx, provider.Request{Prompt: "draft a tagline"})
//
// # Provider Registry Usage
//
//	import (
//	    "github.com/randalmurphal/promptfield/provider"
//	    _ "github.com/randalmurphal/promptfield/chatsonic" // Register provider
//	)
//
//	client, err := provider.New("chatsonic", provider.Config{
//	    Provider: "chatsonic",
//	    APIKey:   token,
//	})
//
// # Errors
//
// HTTP failures map onto provider sentinels: 401/403 to
// ErrCredentialsNotFound, 400/422 to ErrInvalidRequest, 429 to ErrRateLimited,
// 5xx to ErrUnavailable. A body that is not a JSON object with a string
// "message" is ErrMalformedResponse. Nothing is retried.
package chatsonic
