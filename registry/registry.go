// Package registry maps runtime types to the handler responsible for them.
//
// Resolution tries the exact type first and then the closest registered
// ancestor by class distance. Among ancestors at the same distance the one
// registered first wins. Resolved handlers are cached per queried type.
package registry

import (
	"maps"
	"reflect"
	"slices"
	"sync"
)

// Hierarchy measures how far an ancestor is from a type. It is usually a
// *descriptor.Table.
type Hierarchy interface {
	Distance(from, to reflect.Type) (int, bool)
}

// learner is implemented by hierarchies that only measure distances to
// interfaces they know about.
type learner interface {
	RegisterInterface(iface reflect.Type) error
}

type entry[H any] struct {
	typ     reflect.Type
	handler H
}

// Registry is a type to handler map with ancestor resolution.
//
// Registrations are kept as an immutable snapshot that resolution reads
// without locking the writers out for the whole computation; the cache of
// resolved lookups is guarded separately. Configure the registry before
// concurrent traffic starts; Register and Unregister may still race with
// in-flight resolutions over which snapshot they observe.
type Registry[H any] struct {
	hierarchy Hierarchy

	mu       sync.RWMutex
	snapshot []entry[H]

	cacheMu sync.RWMutex
	cache   map[reflect.Type]H
}

func New[H any](hierarchy Hierarchy) *Registry[H] {
	return &Registry[H]{
		hierarchy: hierarchy,
		cache:     make(map[reflect.Type]H),
	}
}

// Register binds the handler to the type, replacing an earlier binding of
// the same type in place so it keeps its registration order.
func (r *Registry[H]) Register(t reflect.Type, handler H) {
	if l, ok := r.hierarchy.(learner); ok && t.Kind() == reflect.Interface {
		_ = l.RegisterInterface(t)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	next := slices.Clone(r.snapshot)
	if i := slices.IndexFunc(next, func(e entry[H]) bool { return e.typ == t }); i >= 0 {
		next[i].handler = handler
	} else {
		next = append(next, entry[H]{typ: t, handler: handler})
	}

	r.snapshot = next

	r.cacheMu.Lock()
	delete(r.cache, t)
	r.cacheMu.Unlock()
}

// Unregister removes the binding of the exact type and its cache entry.
// Cache entries of descendants resolved through it are kept.
func (r *Registry[H]) Unregister(t reflect.Type) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.snapshot = slices.DeleteFunc(slices.Clone(r.snapshot), func(e entry[H]) bool {
		return e.typ == t
	})

	r.cacheMu.Lock()
	delete(r.cache, t)
	r.cacheMu.Unlock()
}

// Resolve returns the handler bound to t or to its closest registered ancestor.
func (r *Registry[H]) Resolve(t reflect.Type) (H, bool) {
	r.cacheMu.RLock()
	handler, ok := r.cache[t]
	r.cacheMu.RUnlock()

	if ok {
		return handler, true
	}

	r.mu.RLock()
	snapshot := r.snapshot
	r.mu.RUnlock()

	e, ok := r.closest(snapshot, t)
	if !ok {
		return handler, false
	}

	r.cacheMu.Lock()
	r.cache[t] = e.handler
	r.cacheMu.Unlock()

	return e.handler, true
}

func (r *Registry[H]) closest(snapshot []entry[H], t reflect.Type) (entry[H], bool) {
	for _, e := range snapshot {
		if e.typ == t {
			return e, true
		}
	}

	var (
		best    entry[H]
		bestD   int
		matched bool
	)

	if r.hierarchy == nil {
		return best, false
	}

	for _, e := range snapshot {
		d, ok := r.hierarchy.Distance(t, e.typ)
		if !ok {
			continue
		}

		// strict comparison keeps the earliest registration on ties
		if !matched || d < bestD {
			best, bestD, matched = e, d, true
		}
	}

	return best, matched
}

// Closest returns the registered type Resolve would select for t without
// touching the cache.
func (r *Registry[H]) Closest(t reflect.Type) (reflect.Type, bool) {
	r.mu.RLock()
	snapshot := r.snapshot
	r.mu.RUnlock()

	e, ok := r.closest(snapshot, t)
	return e.typ, ok
}

// Has reports whether the exact type is registered.
func (r *Registry[H]) Has(t reflect.Type) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.ContainsFunc(r.snapshot, func(e entry[H]) bool { return e.typ == t })
}

// Types returns the registered types in registration order.
func (r *Registry[H]) Types() []reflect.Type {
	r.mu.RLock()
	defer r.mu.RUnlock()

	res := make([]reflect.Type, 0, len(r.snapshot))
	for _, e := range r.snapshot {
		res = append(res, e.typ)
	}

	return res
}

func (r *Registry[H]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.snapshot)
}

// Cached returns the number of cached resolutions.
func (r *Registry[H]) Cached() int {
	r.cacheMu.RLock()
	defer r.cacheMu.RUnlock()

	return len(r.cache)
}

// Clone returns an independent registry with the same bindings and cache.
func (r *Registry[H]) Clone() *Registry[H] {
	r.mu.RLock()
	snapshot := slices.Clone(r.snapshot)
	r.mu.RUnlock()

	r.cacheMu.RLock()
	cache := maps.Clone(r.cache)
	r.cacheMu.RUnlock()

	return &Registry[H]{
		hierarchy: r.hierarchy,
		snapshot:  snapshot,
		cache:     cache,
	}
}
