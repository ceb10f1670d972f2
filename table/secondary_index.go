package table

// pageSize is the number of slots per lazily-allocated page. Must be a
// power of two; 256 matches the original implementation's
// secondary_entity_index.rs (PER_PAGE = u8::MAX + 1).
const pageSize = 256

// SparseSecondaryIndex is a lazily-paged map from handle to a fixed-size
// payload P. It ignores h.Version(); callers are responsible for
// re-checking the version of whatever the payload points back to
// (spec.md Invariant 1).
//
// Grounded on original_source/src/utils/secondary_entity_index.rs.
type SparseSecondaryIndex[H Handle[H], P comparable] struct {
	sentinel P
	pages    [][]P // each inner slice has length pageSize once allocated
}

// NewSparseSecondaryIndex constructs an index whose "absent" sentinel
// value is sentinel.
func NewSparseSecondaryIndex[H Handle[H], P comparable](sentinel P) *SparseSecondaryIndex[H, P] {
	return &SparseSecondaryIndex[H, P]{sentinel: sentinel}
}

func pageOffset[H Handle[H]](h H) (int, int) {
	idx := h.Idx()
	return int(idx / pageSize), int(idx % pageSize)
}

func (s *SparseSecondaryIndex[H, P]) ensurePage(page int) []P {
	for len(s.pages) <= page {
		s.pages = append(s.pages, nil)
	}
	if s.pages[page] == nil {
		p := make([]P, pageSize)
		for i := range p {
			p[i] = s.sentinel
		}
		s.pages[page] = p
	}
	return s.pages[page]
}

// Insert allocates the page for h if absent and returns a mutable
// reference to its payload slot, initialized to the sentinel. Fails with
// AlreadyPresentError if the slot already holds a non-sentinel payload.
func (s *SparseSecondaryIndex[H, P]) Insert(h H) (*P, error) {
	page, offset := pageOffset[H](h)
	slots := s.ensurePage(page)
	if slots[offset] != s.sentinel {
		return nil, AlreadyPresentError[H]{Handle: h}
	}
	return &slots[offset], nil
}

// Get returns the payload for h, or NotPresentError if the page is
// missing or the slot is sentinel.
func (s *SparseSecondaryIndex[H, P]) Get(h H) (P, error) {
	page, offset := pageOffset[H](h)
	if page >= len(s.pages) || s.pages[page] == nil {
		return s.sentinel, NotPresentError[H]{Handle: h}
	}
	v := s.pages[page][offset]
	if v == s.sentinel {
		return s.sentinel, NotPresentError[H]{Handle: h}
	}
	return v, nil
}

// GetMut returns a mutable reference to the payload for h, or
// NotPresentError under the same conditions as Get.
func (s *SparseSecondaryIndex[H, P]) GetMut(h H) (*P, error) {
	page, offset := pageOffset[H](h)
	if page >= len(s.pages) || s.pages[page] == nil {
		return nil, NotPresentError[H]{Handle: h}
	}
	slot := &s.pages[page][offset]
	if *slot == s.sentinel {
		return nil, NotPresentError[H]{Handle: h}
	}
	return slot, nil
}

// MarkAbsent writes the sentinel value into h's slot. Idempotent, and a
// no-op if the page was never allocated.
func (s *SparseSecondaryIndex[H, P]) MarkAbsent(h H) {
	page, offset := pageOffset[H](h)
	if page >= len(s.pages) || s.pages[page] == nil {
		return
	}
	s.pages[page][offset] = s.sentinel
}
