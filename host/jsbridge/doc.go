// Package jsbridge implements host.Bridge on top of the CustomElement
// object the CMS injects into custom element pages. It is only built for
// GOOS=js GOARCH=wasm.
package jsbridge

import "errors"

// pageMessage returns the text reported to the page for err. Errors that
// carry an editor-facing Message use it in place of Error.
func pageMessage(err error) string {
	var m interface{ Message() string }
	if errors.As(err, &m) {
		return m.Message()
	}
	return err.Error()
}
