//go:build js && wasm

package jsbridge

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"syscall/js"

	"github.com/randalmurphal/promptfield/host"
)

// ErrNoCustomElement is returned by New when the page was not loaded with
// the custom element API script.
var ErrNoCustomElement = errors.New("jsbridge: CustomElement is not defined")

// Bridge maps host.Bridge onto window.CustomElement.
//
// The JS API has no unsubscribe. Each host notification is hooked once and
// fanned out through a host.Registry, so disposed observers stop firing.
type Bridge struct {
	ce       js.Value
	registry host.Registry

	mu       sync.Mutex
	disabled bool
	item     bool
	elements map[string]bool
	funcs    []js.Func
}

var _ host.Bridge = (*Bridge)(nil)

// New binds to the global CustomElement object.
func New() (*Bridge, error) {
	ce := js.Global().Get("CustomElement")
	if ce.IsUndefined() || ce.IsNull() {
		return nil, ErrNoCustomElement
	}
	return &Bridge{ce: ce, elements: make(map[string]bool)}, nil
}

// InsideHost reports whether the page runs framed, as it does inside the
// CMS. A page opened directly has no host to talk to.
func InsideHost() bool {
	w := js.Global().Get("window")
	if w.IsUndefined() {
		return false
	}
	return !w.Get("self").Equal(w.Get("top"))
}

// Release frees the retained JS callbacks. The bridge must not be used
// afterwards.
func (b *Bridge) Release() {
	b.mu.Lock()
	funcs := b.funcs
	b.funcs = nil
	b.mu.Unlock()

	b.registry.Reset()
	for _, f := range funcs {
		f.Release()
	}
}

func (b *Bridge) retain(fn func(args []js.Value)) js.Func {
	f := js.FuncOf(func(_ js.Value, args []js.Value) any {
		fn(args)
		return nil
	})
	b.mu.Lock()
	b.funcs = append(b.funcs, f)
	b.mu.Unlock()
	return f
}

// Init implements host.Bridge. An error from fn is reported to the page
// as an uncaught error.
func (b *Bridge) Init(fn host.InitFunc) {
	b.ce.Call("init", b.retain(func(args []js.Value) {
		element, ctx, err := decodeInit(args)
		if err == nil {
			err = fn(element, ctx)
		}
		if err != nil {
			reportError(err)
		}
	}))
}

// GetValue implements host.Bridge. The value is converted through JSON:
// strings stay strings, rich values become maps and slices.
func (b *Bridge) GetValue(codename string, fn func(value any)) {
	var once js.Func
	once = js.FuncOf(func(_ js.Value, args []js.Value) any {
		defer once.Release()
		var v any
		if len(args) > 0 {
			v = toGo(args[0])
		}
		fn(v)
		return nil
	})
	b.ce.Call("getElementValue", codename, once)
}

// SetValue implements host.Bridge.
func (b *Bridge) SetValue(value string) {
	b.ce.Call("setValue", value)
}

// SetHeight implements host.Bridge.
func (b *Bridge) SetHeight(px int) {
	b.ce.Call("setHeight", px)
}

// OnDisabledChanged implements host.Bridge.
func (b *Bridge) OnDisabledChanged(fn func(disabled bool)) host.Disposer {
	b.mu.Lock()
	hook := !b.disabled
	b.disabled = true
	b.mu.Unlock()

	if hook {
		b.ce.Call("onDisabledChanged", b.retain(func(args []js.Value) {
			if len(args) > 0 {
				b.registry.Emit(host.EventDisabled, args[0].Truthy())
			}
		}))
	}
	return b.registry.Add(host.EventDisabled, func(p any) {
		if disabled, ok := p.(bool); ok {
			fn(disabled)
		}
	})
}

// ObserveItemChanges implements host.Bridge.
func (b *Bridge) ObserveItemChanges(fn func(item host.Item)) host.Disposer {
	b.mu.Lock()
	hook := !b.item
	b.item = true
	b.mu.Unlock()

	if hook {
		b.ce.Call("observeItemChanges", b.retain(func(args []js.Value) {
			if len(args) == 0 {
				return
			}
			var item host.Item
			if err := decodeJSON(args[0], &item); err != nil {
				return
			}
			b.registry.Emit(host.EventItem, item)
		}))
	}
	return b.registry.Add(host.EventItem, func(p any) {
		if item, ok := p.(host.Item); ok {
			fn(item)
		}
	})
}

// ObserveElementChanges implements host.Bridge. One host observer is
// installed per distinct codename.
func (b *Bridge) ObserveElementChanges(codenames []string, fn func()) host.Disposer {
	for _, codename := range codenames {
		b.mu.Lock()
		hook := !b.elements[codename]
		b.elements[codename] = true
		b.mu.Unlock()

		if !hook {
			continue
		}
		codename := codename
		b.ce.Call("observeElementChanges", js.ValueOf([]any{codename}), b.retain(func([]js.Value) {
			b.registry.Emit(host.EventElements, []string{codename})
		}))
	}
	return b.registry.Add(host.EventElements, host.ElementObserver(codenames, fn))
}

func decodeInit(args []js.Value) (host.Element, host.Context, error) {
	var (
		element host.Element
		ctx     host.Context
	)
	if len(args) < 2 {
		return element, ctx, fmt.Errorf("init callback received %d arguments", len(args))
	}

	el := args[0]
	element.Config = json.RawMessage(stringify(el.Get("config")))
	if v := el.Get("value"); v.Type() == js.TypeString {
		s := v.String()
		element.Value = &s
	}
	element.Disabled = el.Get("disabled").Truthy()

	if err := decodeJSON(args[1], &ctx); err != nil {
		return element, ctx, fmt.Errorf("decode context: %w", err)
	}
	return element, ctx, nil
}

// stringify returns JSON.stringify(v), or "null" for values JSON cannot
// represent.
func stringify(v js.Value) string {
	if v.IsUndefined() {
		return "null"
	}
	s := js.Global().Get("JSON").Call("stringify", v)
	if s.Type() != js.TypeString {
		return "null"
	}
	return s.String()
}

func decodeJSON(v js.Value, out any) error {
	return json.Unmarshal([]byte(stringify(v)), out)
}

func toGo(v js.Value) any {
	if v.Type() == js.TypeString {
		return v.String()
	}
	var out any
	if err := decodeJSON(v, &out); err != nil {
		return nil
	}
	return out
}

// reportError surfaces err as an uncaught page error so it reaches the
// developer console without crashing the wasm runtime.
func reportError(err error) {
	jsErr := js.Global().Get("Error").New(pageMessage(err))
	if report := js.Global().Get("reportError"); report.Type() == js.TypeFunction {
		report.Invoke(jsErr)
		return
	}
	js.Global().Get("console").Call("error", jsErr)
}
