// Package registry keeps ordered, owner-tagged registration lists keyed by
// event name. The hub stores every listener registration here, no matter
// which node issued it; the owner tag is what lets a node remove exactly
// the registrations it created and nothing else.
package registry

import (
	"slices"

	"github.com/alphadose/haxmap"
)

// Entry is one registration under an event name. Key is the identity of the
// registered function, Owner the id of the node that issued the call.
type Entry[F any] struct {
	Owner string
	Key   uintptr
	Fn    F
}

// Registry maps event names to their registrations, preserving insertion
// order per event.
type Registry[F any] struct {
	events *haxmap.Map[string, *[]Entry[F]]
}

func New[F any]() *Registry[F] {
	return &Registry[F]{
		events: haxmap.New[string, *[]Entry[F]](),
	}
}

// Add appends a registration under event.
func (r *Registry[F]) Add(event string, e Entry[F]) {
	list, _ := r.events.GetOrCompute(event, func() *[]Entry[F] {
		return new([]Entry[F])
	})
	*list = append(*list, e)
}

// RemoveFirst drops the first registration under event accepted by match and
// reports whether anything was removed. A missing event is not an error.
func (r *Registry[F]) RemoveFirst(event string, match func(Entry[F]) bool) bool {
	list, ok := r.events.Get(event)
	if !ok {
		return false
	}
	for i, e := range *list {
		if match(e) {
			*list = slices.Delete(*list, i, i+1)
			return true
		}
	}
	return false
}

// Snapshot returns a copy of the registrations for event, in registration
// order. Callers iterate the copy, so a listener may mutate the registry
// while an emission is in flight.
func (r *Registry[F]) Snapshot(event string) []Entry[F] {
	list, ok := r.events.Get(event)
	if !ok || len(*list) == 0 {
		return nil
	}
	return slices.Clone(*list)
}

// Len reports how many registrations are held under event.
func (r *Registry[F]) Len(event string) int {
	list, ok := r.events.Get(event)
	if !ok {
		return 0
	}
	return len(*list)
}
