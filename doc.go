// Package promptfield is a CMS custom element that turns a prompt typed into
// a content item field into generated copy.
//
// The editor types a prompt into the element. Triggering generation sends the
// prompt to a text generation service and writes the answer into the
// "content" element of a language variant through the Management API.
//
// Subpackages:
//
//   - widget: the element itself (state, host synchronization, generation)
//   - host: the custom element bridge, with an in-memory implementation
//   - host/jsbridge: the browser bridge (js/wasm only)
//   - provider: generation client interface, registry and configuration
//   - chatsonic: the Writesonic Chatsonic provider
//   - management: Management API client for language variant upserts
//   - settings: YAML/TOML settings and environment defaults
//   - metrics: Prometheus collectors
//
// # Quick Start
//
//	import (
//	    "github.com/randalmurphal/promptfield/host"
//	    _ "github.com/randalmurphal/promptfield/providers"
//	    "github.com/randalmurphal/promptfield/widget"
//	)
//
//	bridge := host.NewMemoryBridge(nil)
//	w := widget.New(bridge)
//	w.Mount()
//	defer w.Unmount()
//
// The browser build lives in cmd/promptfield-wasm; cmd/promptfield is the
// terminal tool and development server.
package promptfield
