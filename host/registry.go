package host

import (
	"sort"
	"sync"
)

// EventKind names a class of host notifications.
type EventKind string

// Event kinds pushed by the host.
const (
	EventDisabled EventKind = "disabled"
	EventItem     EventKind = "item"
	EventElements EventKind = "elements"
)

// Disposer cancels a registration. Calling it more than once is a no-op.
type Disposer func()

// Registry is an observer registry keyed by event kind.
// The zero value is ready to use and safe for concurrent use.
type Registry struct {
	mu        sync.Mutex
	next      uint64
	observers map[EventKind]map[uint64]func(any)
}

// Add registers fn for kind and returns its disposer.
func (r *Registry) Add(kind EventKind, fn func(payload any)) Disposer {
	r.mu.Lock()
	if r.observers == nil {
		r.observers = make(map[EventKind]map[uint64]func(any))
	}
	if r.observers[kind] == nil {
		r.observers[kind] = make(map[uint64]func(any))
	}
	r.next++
	id := r.next
	r.observers[kind][id] = fn
	r.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			r.mu.Lock()
			delete(r.observers[kind], id)
			r.mu.Unlock()
		})
	}
}

// Emit calls every observer of kind in registration order.
// Observers run outside the lock and may add or dispose registrations.
func (r *Registry) Emit(kind EventKind, payload any) {
	r.mu.Lock()
	ids := make([]uint64, 0, len(r.observers[kind]))
	for id := range r.observers[kind] {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	fns := make([]func(any), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, r.observers[kind][id])
	}
	r.mu.Unlock()

	for _, fn := range fns {
		fn(payload)
	}
}

// Len returns the number of live observers of kind.
func (r *Registry) Len(kind EventKind) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.observers[kind])
}

// Reset drops every registration.
func (r *Registry) Reset() {
	r.mu.Lock()
	r.observers = nil
	r.mu.Unlock()
}

// watchesAny reports whether any of changed is in watched.
func watchesAny(watched map[string]struct{}, changed []string) bool {
	for _, c := range changed {
		if _, ok := watched[c]; ok {
			return true
		}
	}
	return false
}

// ElementObserver adapts an element-change callback to an EventElements
// observer that fires only when one of codenames changed. The payload of
// EventElements is the []string of changed codenames.
func ElementObserver(codenames []string, fn func()) func(any) {
	watched := make(map[string]struct{}, len(codenames))
	for _, c := range codenames {
		watched[c] = struct{}{}
	}
	return func(payload any) {
		changed, _ := payload.([]string)
		if watchesAny(watched, changed) {
			fn()
		}
	}
}
