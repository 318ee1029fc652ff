//go:build js && wasm

// Command promptfield-wasm is the browser build of the prompt element.
//
// The hosting page loads the CMS custom element script, wasm_exec.js and
// this binary. It may define two globals before starting the binary:
//
//	__PROMPTFIELD_VARIANT__  "instance" (default) or "environment"
//	__PROMPTFIELD_ENV__      {NEXT_PUBLIC_KONTENT_PROJECT_ID: ..., ...}
//
// promptfield serve renders such a page.
package main

import (
	"log/slog"
	"os"
	"syscall/js"

	"github.com/randalmurphal/promptfield/host/jsbridge"
	_ "github.com/randalmurphal/promptfield/providers"
	"github.com/randalmurphal/promptfield/settings"
	"github.com/randalmurphal/promptfield/widget"
)

const notFramedMessage = "This page is a custom element. Open it from a content item in the CMS."

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	doc := js.Global().Get("document")

	root := doc.Call("getElementById", "root")
	if root.IsNull() || root.IsUndefined() {
		logger.Error("cannot find the root element, check the page html")
		return
	}

	if !jsbridge.InsideHost() {
		root.Set("textContent", notFramedMessage)
		return
	}

	bridge, err := jsbridge.New()
	if err != nil {
		logger.Error("custom element api unavailable", slog.Any("error", err))
		return
	}

	variant, err := widget.ParseVariant(globalString("__PROMPTFIELD_VARIANT__"))
	if err != nil {
		logger.Warn("falling back to instance variant", slog.Any("error", err))
	}
	env := settings.EnvFrom(func(name string) string {
		g := js.Global().Get("__PROMPTFIELD_ENV__")
		if g.Type() != js.TypeObject {
			return ""
		}
		return stringOf(g.Get(name))
	})

	ui := newView(doc, root)
	var w *widget.Widget
	w = widget.New(bridge,
		widget.WithVariant(variant),
		widget.WithEnvironment(env.Credentials()),
		widget.WithLogger(logger),
		widget.WithMeasure(func() float64 {
			return doc.Get("documentElement").Get("offsetHeight").Float()
		}),
		widget.WithOnChange(func() { ui.render(w) }),
	)
	ui.bind(w)
	w.Mount()

	// Callbacks keep running after main would return.
	select {}
}

func globalString(name string) string {
	return stringOf(js.Global().Get(name))
}

func stringOf(v js.Value) string {
	if v.Type() != js.TypeString {
		return ""
	}
	return v.String()
}
