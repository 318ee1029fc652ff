// Package providers registers all known generation providers.
// Import this package to make them available via provider.New():
//
//	import _ "github.com/randalmurphal/promptfield/providers"
package providers

import (
	_ "github.com/randalmurphal/promptfield/chatsonic"
)
