package keel

import (
	"reflect"
	"sync"
)

// locator is the capability every lifecycle strategy provides. A locator only
// sees the bindings of its own lifecycle; dependencies are resolved through the
// container-wide resolveFunc it was created with.
type locator interface {
	register(b *binding) error
	locate(service reflect.Type) (reflect.Value, error)
	instantiated(service reflect.Type) bool
}

// journalEntry records one singleton instance held by a container.
type journalEntry struct {
	service reflect.Type
	value   reflect.Value
	owned   bool // built by the container rather than handed in
	started bool
}

// journal keeps singleton instances in the order they became available, which is
// also a valid dependency order: a singleton is recorded after its dependencies.
type journal struct {
	mu      sync.Mutex
	entries []*journalEntry
}

func (j *journal) record(service reflect.Type, v reflect.Value, owned bool) {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.entries = append(j.entries, &journalEntry{service: service, value: v, owned: owned})
}

func (j *journal) snapshot() []*journalEntry {
	j.mu.Lock()
	defer j.mu.Unlock()

	out := make([]*journalEntry, len(j.entries))
	copy(out, j.entries)

	return out
}
