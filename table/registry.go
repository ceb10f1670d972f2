package table

import "sync"

// ComponentRegistry assigns each distinct column type a stable index
// the first time it is registered, shared across every Table built
// against it. This is the "which bit is this component" registry the
// dynamic Table facade needs (one per ComponentRegistry instance, not
// shared process-wide); it is distinct from Schema,
// which names one group's canonical column set.
type ComponentRegistry struct {
	mu      sync.Mutex
	indices map[ColumnID]uint32
	next    uint32
}

// NewComponentRegistry returns an empty registry.
func NewComponentRegistry() *ComponentRegistry {
	return &ComponentRegistry{indices: make(map[ColumnID]uint32)}
}

// Register assigns indices to any of ets not already registered.
func (r *ComponentRegistry) Register(ets ...ElementType) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, et := range ets {
		id := et.ID()
		if _, ok := r.indices[id]; !ok {
			r.indices[id] = r.next
			r.next++
		}
	}
}

// RowIndexFor returns et's index, registering it first if needed.
func (r *ComponentRegistry) RowIndexFor(et ElementType) uint32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := et.ID()
	if idx, ok := r.indices[id]; ok {
		return idx
	}
	idx := r.next
	r.indices[id] = idx
	r.next++
	return idx
}

// tableFactory is the package's global constructor namespace, mirroring
// the original table.Factory global.
type tableFactory struct{}

// Factory is the package-level instance of tableFactory.
var Factory tableFactory

// NewSchema returns an empty ComponentRegistry.
func (tableFactory) NewSchema() *ComponentRegistry { return NewComponentRegistry() }

// NewEntryIndex returns a fresh EntryIndex with its own handle space
// and ArchetypeStore.
func (tableFactory) NewEntryIndex() *EntryIndex { return NewEntryIndex() }
