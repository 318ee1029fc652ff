// Package host models the CMS custom element bridge.
//
// A custom element runs in an iframe inside the item editing form. The CMS
// exposes a bridge object with lifecycle and field access primitives; Bridge
// is that capability set. Two implementations live in this module:
// MemoryBridge for tests and terminal tools, and jsbridge for the browser.
//
// The browser bridge offers no way to unsubscribe, so every observation made
// through Bridge returns a Disposer backed by a Registry. Disposing stops the
// callback from firing even when the underlying host keeps calling.
package host

import "encoding/json"

// Element describes the hosted element at initialization.
type Element struct {
	// Config is the raw JSON configuration of the element instance.
	Config json.RawMessage `json:"config"`

	// Value is the stored value of the element; nil when never set.
	Value *string `json:"value"`

	// Disabled reports whether the form is read-only for this editor.
	Disabled bool `json:"disabled"`
}

// Item identifies the content item being edited.
type Item struct {
	ID       string `json:"id"`
	Codename string `json:"codename"`
	Name     string `json:"name"`
}

// Variant identifies the language variant being edited.
type Variant struct {
	ID       string `json:"id"`
	Codename string `json:"codename"`
}

// Context is the editing context supplied at initialization.
type Context struct {
	ProjectID string  `json:"projectId"`
	Item      Item    `json:"item"`
	Variant   Variant `json:"variant"`
}

// InitFunc receives the element and context once the host is ready.
// A non-nil error aborts the element; the bridge surfaces it to the
// developer console rather than to the editor.
type InitFunc func(element Element, ctx Context) error

// Bridge is the host capability set consumed by the widget.
type Bridge interface {
	// Init registers the initialization callback.
	Init(fn InitFunc)

	// GetValue reads the current value of another element of the item.
	// The callback receives whatever the host stores (string, list, nil...).
	GetValue(codename string, fn func(value any))

	// SetValue stores the value of the hosted element.
	SetValue(value string)

	// SetHeight asks the host to resize the iframe, in pixels.
	SetHeight(px int)

	// OnDisabledChanged observes the disabled flag.
	OnDisabledChanged(fn func(disabled bool)) Disposer

	// ObserveItemChanges observes item metadata changes such as renames.
	ObserveItemChanges(fn func(item Item)) Disposer

	// ObserveElementChanges observes value changes of the named elements.
	ObserveElementChanges(codenames []string, fn func()) Disposer
}
