//go:build js && wasm

package main

import (
	"syscall/js"

	"github.com/randalmurphal/promptfield/widget"
)

// sendIcon is the paper plane drawn on the trigger button.
const sendIcon = `<svg stroke="currentColor" fill="currentColor" stroke-width="0" viewBox="0 0 20 20" height="1em" width="1em" xmlns="http://www.w3.org/2000/svg"><path d="M10.894 2.553a1 1 0 00-1.788 0l-7 14a1 1 0 001.169 1.409l5-1.429A1 1 0 009 15.571V11a1 1 0 112 0v4.571a1 1 0 00.725.962l5 1.428a1 1 0 001.17-1.408l-7-14z"></path></svg>`

// view owns the DOM nodes of the element: a text area and a trigger button
// inside a section that stays hidden until the widget is ready.
type view struct {
	section  js.Value
	textarea js.Value
	button   js.Value
	funcs    []js.Func
}

func newView(doc, root js.Value) *view {
	v := &view{
		section:  doc.Call("createElement", "section"),
		textarea: doc.Call("createElement", "textarea"),
		button:   doc.Call("createElement", "button"),
	}
	v.textarea.Set("rows", 1)
	v.textarea.Set("tabIndex", 0)
	v.textarea.Set("placeholder", "")
	v.textarea.Call("setAttribute", "data-id", "root")
	v.button.Set("type", "button")
	v.button.Set("innerHTML", sendIcon)

	v.section.Call("appendChild", v.textarea)
	v.section.Call("appendChild", v.button)
	v.section.Get("style").Set("display", "none")
	root.Call("appendChild", v.section)
	return v
}

func (v *view) on(target js.Value, event string, fn func(e js.Value)) {
	f := js.FuncOf(func(_ js.Value, args []js.Value) any {
		if len(args) > 0 {
			fn(args[0])
		}
		return nil
	})
	v.funcs = append(v.funcs, f)
	target.Call("addEventListener", event, f)
}

// bind connects DOM events to w.
func (v *view) bind(w *widget.Widget) {
	v.on(v.textarea, "input", func(e js.Value) {
		w.Edit(e.Get("target").Get("value").String())
	})
	v.on(v.textarea, "keydown", func(e js.Value) {
		key := e.Get("key").String()
		value := e.Get("target").Get("value").String()
		if w.KeyDown(key, value) {
			e.Call("preventDefault")
		}
	})
	v.on(v.button, "click", func(js.Value) {
		w.Generate()
	})
}

// render draws the current view, or hides everything until w is ready.
func (v *view) render(w *widget.Widget) {
	state, ok := w.View()
	if !ok {
		v.section.Get("style").Set("display", "none")
		return
	}
	v.section.Get("style").Set("display", "")

	// Reassigning an unchanged value would move the caret.
	if v.textarea.Get("value").String() != state.Value {
		v.textarea.Set("value", state.Value)
	}
	v.textarea.Set("disabled", state.Disabled)
	v.textarea.Set("title", state.ItemName)
	v.section.Call("setAttribute", "data-watched", state.WatchedValue)
}
