package table

// DeleteObserver is notified synchronously, before a handle's slot is
// recycled, when that handle is deleted. Observers must not call Delete
// on the allocator they are registered with (spec §5 "no re-entrancy").
type DeleteObserver[H comparable] func(H)

// HandleAllocator issues and recycles versioned handles. Index 0 is
// reserved as the null handle: the allocator bootstraps entities[0] with
// the null handle so index 0 is never returned by Allocate.
//
// Grounded on original_source/src/tables/entity_table.rs (EntityTable):
// `entities` holds the live handle at each slot; once a slot is freed its
// stored handle's index field is repurposed to thread the free list, and
// freeListHead names the next slot to hand out.
type HandleAllocator[H Handle[H]] struct {
	entities     []H
	freeListHead H // index() names the next free slot; IsNull() => no free slots
	observers    []observerEntry[H]
	nextObserver int
}

type observerEntry[H comparable] struct {
	id int
	cb DeleteObserver[H]
}

// NewHandleAllocator constructs an empty allocator with slot 0 reserved
// for the null handle.
func NewHandleAllocator[H Handle[H]]() *HandleAllocator[H] {
	var zero H
	a := &HandleAllocator[H]{
		entities:     []H{zero.WithIndex(0)},
		freeListHead: zero.WithIndex(0), // null: free list empty
	}
	return a
}

// Allocate returns a fresh handle, reusing a recycled slot if one is
// available.
func (a *HandleAllocator[H]) Allocate() H {
	if a.freeListHead.IsNull() {
		var zero H
		idx := uint64(len(a.entities))
		h := zero.WithIndex(idx)
		a.entities = append(a.entities, h)
		return h
	}
	head := a.freeListHead.Idx()
	headEntity := a.entities[head]
	// headEntity's index field currently threads to the *next* free slot,
	// carrying the version this slot will have once reissued.
	a.freeListHead = headEntity
	reissued := headEntity.WithIndex(head)
	a.entities[head] = reissued
	return reissued
}

// BulkExtend returns n fresh handles, equivalent to n calls to Allocate.
func (a *HandleAllocator[H]) BulkExtend(n int) []H {
	out := make([]H, n)
	for i := 0; i < n; i++ {
		out[i] = a.Allocate()
	}
	return out
}

// Contains reports whether h is currently live (exact version match).
func (a *HandleAllocator[H]) Contains(h H) bool {
	idx := h.Idx()
	return idx < uint64(len(a.entities)) && a.entities[idx] == h
}

// Delete recycles h, firing every registered observer (in registration
// order) before the slot is actually recycled. Returns false if h was not
// live.
func (a *HandleAllocator[H]) Delete(h H) bool {
	if !a.Contains(h) {
		return false
	}
	for _, obs := range a.observers {
		obs.cb(h)
	}
	idx := h.Idx()
	oldHead := a.freeListHead
	a.entities[idx] = h.Bumped(oldHead.Idx())
	var zero H
	a.freeListHead = zero.WithIndex(idx)
	return true
}

// OnDelete registers an observer and returns an id usable with OffDelete.
func (a *HandleAllocator[H]) OnDelete(cb DeleteObserver[H]) int {
	id := a.nextObserver
	a.nextObserver++
	a.observers = append(a.observers, observerEntry[H]{id: id, cb: cb})
	return id
}

// OffDelete unregisters a previously-registered observer. No-op if id is
// unknown.
func (a *HandleAllocator[H]) OffDelete(id int) {
	for i, obs := range a.observers {
		if obs.id == id {
			a.observers = append(a.observers[:i], a.observers[i+1:]...)
			return
		}
	}
}

// Clear resets the allocator to its initial empty state. Existing
// observers remain registered.
func (a *HandleAllocator[H]) Clear() {
	var zero H
	a.entities = []H{zero.WithIndex(0)}
	a.freeListHead = zero.WithIndex(0)
}

// Len returns the number of slots ever allocated (including recycled
// ones and the reserved null slot at index 0).
func (a *HandleAllocator[H]) Len() int {
	return len(a.entities)
}
