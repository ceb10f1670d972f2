package table

// maxRowSentinel marks a secondary-index slot as unoccupied for the
// single-column stores.
const maxRowSentinel = ^uint64(0)

// SingleColumnDense stores one value type keyed by handle with two
// parallel packed vectors (handles[i], values[i]) and a
// SparseSecondaryIndex mapping handle -> i. Registers a delete-observer
// on alloc that removes the row (ignoring "not present").
//
// Grounded on original_source/src/tables/dense_entity_value_table.rs.
type SingleColumnDense[H Handle[H], V any] struct {
	reverse    *SparseSecondaryIndex[H, uint64]
	handles    []H
	values     []V
	observerID int
	alloc      *HandleAllocator[H]
}

// NewSingleColumnDense constructs a dense single-column store and
// registers its delete-observer on alloc.
func NewSingleColumnDense[H Handle[H], V any](alloc *HandleAllocator[H]) *SingleColumnDense[H, V] {
	s := &SingleColumnDense[H, V]{
		reverse: NewSparseSecondaryIndex[H, uint64](maxRowSentinel),
		alloc:   alloc,
	}
	s.observerID = alloc.OnDelete(func(h H) {
		_ = s.Remove(h)
	})
	return s
}

// Close unregisters this store's delete-observer. Safe to call multiple
// times.
func (s *SingleColumnDense[H, V]) Close() {
	s.alloc.OffDelete(s.observerID)
}

// Len returns the number of rows currently stored.
func (s *SingleColumnDense[H, V]) Len() int { return len(s.handles) }

// Contains reports whether h currently has a value.
func (s *SingleColumnDense[H, V]) Contains(h H) bool {
	row, err := s.reverse.Get(h)
	if err != nil {
		return false
	}
	return s.handles[row] == h
}

// Insert adds v for h. Fails with AlreadyPresentError if h already has a
// value.
func (s *SingleColumnDense[H, V]) Insert(h H, v V) error {
	slot, err := s.reverse.Insert(h)
	if err != nil {
		return err
	}
	*slot = uint64(len(s.handles))
	s.handles = append(s.handles, h)
	s.values = append(s.values, v)
	return nil
}

func (s *SingleColumnDense[H, V]) rowFor(h H) (uint64, error) {
	row, err := s.reverse.Get(h)
	if err != nil {
		return 0, err
	}
	if s.handles[row] != h {
		return 0, VersionMismatchError[H]{Requested: h, Found: s.handles[row]}
	}
	return row, nil
}

// Get returns h's value. Fails with NotPresentError / VersionMismatchError.
func (s *SingleColumnDense[H, V]) Get(h H) (V, error) {
	row, err := s.rowFor(h)
	if err != nil {
		var zero V
		return zero, err
	}
	return s.values[row], nil
}

// GetMut returns a mutable reference to h's value.
func (s *SingleColumnDense[H, V]) GetMut(h H) (*V, error) {
	row, err := s.rowFor(h)
	if err != nil {
		return nil, err
	}
	return &s.values[row], nil
}

// Remove swap-removes h's row, fixing up the secondary index entry for
// whichever row moved into its place.
func (s *SingleColumnDense[H, V]) Remove(h H) error {
	row, err := s.rowFor(h)
	if err != nil {
		return err
	}
	last := uint64(len(s.handles)) - 1
	s.reverse.MarkAbsent(h)
	s.handles[row] = s.handles[last]
	s.values[row] = s.values[last]
	s.handles = s.handles[:last]
	s.values = s.values[:last]
	if row != last {
		moved := s.handles[row]
		slot, err := s.reverse.GetMut(moved)
		if err != nil {
			panic("SingleColumnDense: secondary index in invalid state after swap-remove")
		}
		*slot = row
	}
	return nil
}

// Clear empties the store. Registered delete-observers stay registered.
func (s *SingleColumnDense[H, V]) Clear() {
	s.reverse = NewSparseSecondaryIndex[H, uint64](maxRowSentinel)
	s.handles = nil
	s.values = nil
}
