package provider

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Factory creates a new Client from the given configuration.
type Factory func(cfg Config) (Client, error)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Factory)
)

// Register adds a provider factory under name. Provider packages call it
// from init:
//
//	func init() {
//	    provider.Register("chatsonic", func(cfg provider.Config) (provider.Client, error) {
//	        return chatsonic.NewFromConfig(cfg)
//	    })
//	}
//
// An empty name, a nil factory or a name taken twice panics.
func Register(name string, factory Factory) {
	if name == "" || factory == nil {
		panic("provider: Register needs a name and a factory")
	}

	registryMu.Lock()
	defer registryMu.Unlock()

	if _, exists := registry[name]; exists {
		panic(fmt.Sprintf("provider %q already registered", name))
	}
	registry[name] = factory
}

// New creates a Client using the named provider. The factory sees
// cfg.Provider set to name.
func New(name string, cfg Config) (Client, error) {
	registryMu.RLock()
	factory, ok := registry[name]
	registryMu.RUnlock()

	if !ok {
		if known := Available(); len(known) > 0 {
			return nil, fmt.Errorf("%w: %q (registered: %s)", ErrUnknownProvider, name, strings.Join(known, ", "))
		}
		return nil, fmt.Errorf("%w: %q (none registered)", ErrUnknownProvider, name)
	}
	cfg.Provider = name
	return factory(cfg)
}

// NewFromConfig creates a Client for cfg.Provider, or for DefaultProvider
// when the config names none.
func NewFromConfig(cfg Config) (Client, error) {
	name := cfg.Provider
	if name == "" {
		name = DefaultProvider
	}
	return New(name, cfg)
}

// Available returns the sorted names of all registered providers.
func Available() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsRegistered reports whether name has a factory.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()

	_, ok := registry[name]
	return ok
}

// Unregister removes a provider. Tests use it to undo Register.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()

	delete(registry, name)
}

// ClearRegistry removes all registered providers.
func ClearRegistry() {
	registryMu.Lock()
	defer registryMu.Unlock()

	registry = make(map[string]Factory)
}
