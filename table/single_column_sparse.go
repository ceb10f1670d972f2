package table

// SingleColumnSparse is a direct-address column: two vectors indexed by
// h.Idx(), one holding the handle stored at that slot (null if empty),
// the other the value (zero value when empty). A count is maintained
// separately. Registers a delete-observer on alloc, like
// SingleColumnDense.
//
// Grounded on original_source/src/tables/vec_entity_value_table.rs.
type SingleColumnSparse[H Handle[H], V any] struct {
	handles    []H
	values     []V
	count      int
	observerID int
	alloc      *HandleAllocator[H]
}

// NewSingleColumnSparse constructs a sparse single-column store and
// registers its delete-observer on alloc.
func NewSingleColumnSparse[H Handle[H], V any](alloc *HandleAllocator[H]) *SingleColumnSparse[H, V] {
	s := &SingleColumnSparse[H, V]{alloc: alloc}
	s.observerID = alloc.OnDelete(func(h H) {
		_ = s.Remove(h)
	})
	return s
}

// Close unregisters this store's delete-observer.
func (s *SingleColumnSparse[H, V]) Close() {
	s.alloc.OffDelete(s.observerID)
}

// Len returns the number of rows currently stored.
func (s *SingleColumnSparse[H, V]) Len() int { return s.count }

func (s *SingleColumnSparse[H, V]) grow(idx uint64) {
	for uint64(len(s.handles)) <= idx {
		var zeroH H
		var zeroV V
		s.handles = append(s.handles, zeroH.WithIndex(0)) // null handle
		s.values = append(s.values, zeroV)
	}
}

// Contains reports whether h currently has a value (Invariant 5:
// entities[h.idx] == h iff occupied).
func (s *SingleColumnSparse[H, V]) Contains(h H) bool {
	idx := h.Idx()
	return idx < uint64(len(s.handles)) && s.handles[idx] == h
}

// Insert adds v for h, growing the backing vectors if h.Idx() is beyond
// the current capacity. Fails with AlreadyPresentError if h already has
// a value.
func (s *SingleColumnSparse[H, V]) Insert(h H, v V) error {
	idx := h.Idx()
	s.grow(idx)
	if !s.handles[idx].IsNull() {
		return AlreadyPresentError[H]{Handle: h}
	}
	s.handles[idx] = h
	s.values[idx] = v
	s.count++
	return nil
}

// Get returns h's value.
func (s *SingleColumnSparse[H, V]) Get(h H) (V, error) {
	if !s.Contains(h) {
		var zero V
		return zero, NotPresentError[H]{Handle: h}
	}
	return s.values[h.Idx()], nil
}

// GetMut returns a mutable reference to h's value.
func (s *SingleColumnSparse[H, V]) GetMut(h H) (*V, error) {
	if !s.Contains(h) {
		return nil, NotPresentError[H]{Handle: h}
	}
	return &s.values[h.Idx()], nil
}

// Remove clears h's slot.
func (s *SingleColumnSparse[H, V]) Remove(h H) error {
	if !s.Contains(h) {
		return NotPresentError[H]{Handle: h}
	}
	idx := h.Idx()
	var zeroH H
	var zeroV V
	s.handles[idx] = zeroH.WithIndex(0)
	s.values[idx] = zeroV
	s.count--
	return nil
}

// Clear empties the store.
func (s *SingleColumnSparse[H, V]) Clear() {
	s.handles = nil
	s.values = nil
	s.count = 0
}
