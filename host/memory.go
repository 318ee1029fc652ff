package host

import (
	"errors"
	"sync"
)

// ErrNoInit is returned by MemoryBridge.Start when nothing called Init.
var ErrNoInit = errors.New("host: no init callback registered")

// MemoryBridge is an in-process Bridge. Tests and terminal tools drive it
// the way the CMS drives the browser bridge: Start delivers the init
// payload, SetDisabled/RenameItem/SetElementValue push notifications.
type MemoryBridge struct {
	mu       sync.Mutex
	init     InitFunc
	item     Item
	elements map[string]any
	values   []string
	heights  []int

	registry Registry
}

var _ Bridge = (*MemoryBridge)(nil)

// NewMemoryBridge returns a bridge whose other elements hold elements.
func NewMemoryBridge(elements map[string]any) *MemoryBridge {
	b := &MemoryBridge{elements: make(map[string]any, len(elements))}
	for k, v := range elements {
		b.elements[k] = v
	}
	return b
}

// Init implements Bridge.
func (b *MemoryBridge) Init(fn InitFunc) {
	b.mu.Lock()
	b.init = fn
	b.mu.Unlock()
}

// Start delivers the init payload and returns the callback's error.
func (b *MemoryBridge) Start(element Element, ctx Context) error {
	b.mu.Lock()
	fn := b.init
	b.item = ctx.Item
	b.mu.Unlock()

	if fn == nil {
		return ErrNoInit
	}
	return fn(element, ctx)
}

// GetValue implements Bridge. The callback runs synchronously; missing
// elements read as nil.
func (b *MemoryBridge) GetValue(codename string, fn func(value any)) {
	b.mu.Lock()
	v := b.elements[codename]
	b.mu.Unlock()
	fn(v)
}

// SetValue implements Bridge.
func (b *MemoryBridge) SetValue(value string) {
	b.mu.Lock()
	b.values = append(b.values, value)
	b.mu.Unlock()
}

// SetHeight implements Bridge.
func (b *MemoryBridge) SetHeight(px int) {
	b.mu.Lock()
	b.heights = append(b.heights, px)
	b.mu.Unlock()
}

// OnDisabledChanged implements Bridge.
func (b *MemoryBridge) OnDisabledChanged(fn func(disabled bool)) Disposer {
	return b.registry.Add(EventDisabled, func(p any) {
		if disabled, ok := p.(bool); ok {
			fn(disabled)
		}
	})
}

// ObserveItemChanges implements Bridge.
func (b *MemoryBridge) ObserveItemChanges(fn func(item Item)) Disposer {
	return b.registry.Add(EventItem, func(p any) {
		if item, ok := p.(Item); ok {
			fn(item)
		}
	})
}

// ObserveElementChanges implements Bridge.
func (b *MemoryBridge) ObserveElementChanges(codenames []string, fn func()) Disposer {
	return b.registry.Add(EventElements, ElementObserver(codenames, fn))
}

// SetDisabled pushes a disabled-flag change.
func (b *MemoryBridge) SetDisabled(disabled bool) {
	b.registry.Emit(EventDisabled, disabled)
}

// RenameItem pushes an item change carrying the new name.
func (b *MemoryBridge) RenameItem(name string) {
	b.mu.Lock()
	b.item.Name = name
	item := b.item
	b.mu.Unlock()

	b.registry.Emit(EventItem, item)
}

// SetElementValue stores the value of another element and notifies its
// observers.
func (b *MemoryBridge) SetElementValue(codename string, value any) {
	b.mu.Lock()
	b.elements[codename] = value
	b.mu.Unlock()

	b.registry.Emit(EventElements, []string{codename})
}

// Values returns every value stored through SetValue, oldest first.
func (b *MemoryBridge) Values() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.values...)
}

// Heights returns every height reported through SetHeight, oldest first.
func (b *MemoryBridge) Heights() []int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]int(nil), b.heights...)
}

// Observers returns the number of live observers of kind.
func (b *MemoryBridge) Observers(kind EventKind) int {
	return b.registry.Len(kind)
}
