package table

// location is the ArchetypeStore's secondary-index payload: the
// (group, row) a live handle currently occupies. The sentinel
// invalidLocation ("not present") uses MaxUint32 in both fields, per
// spec.md §3.
type location struct {
	group uint32
	row   uint32
}

const invalidU32 = ^uint32(0)

var invalidLocation = location{group: invalidU32, row: invalidU32}

// group is one archetype instance: a schema plus the dense list of
// handles currently belonging to it. Groups are never reordered or
// deleted; row is a handle's position within group.handles.
type group[H any] struct {
	schema  Schema
	handles []H
}

type queryRecord struct {
	ro, rw, exclude Schema
	matchingGroups  []int
}

// ArchetypeStore is the centerpiece of the package: it owns the set of
// columns (one per value type ever referenced), the set of groups (one
// per distinct schema), the secondary index from handle to (group, row),
// and a cache of query records keyed by (RO, RW, exclude). Inserters are
// not cached: every NewInserter call resolves its group through
// schemaToGroup and returns a new Inserter. Grounded on
// original_source/src/tables/dense_entity_dynamic_paged_multi_value_table.rs
// (DenseEntityDynamicPagedMultiValueTable).
type ArchetypeStore[H Handle[H]] struct {
	alloc         *HandleAllocator[H]
	secondary     *SparseSecondaryIndex[H, location]
	groups        []group[H]
	schemaToGroup map[string]int
	columns       map[ColumnID]anyColumn
	columnOrder   []ColumnID
	borrows       *borrowTable
	queryCache    map[string]*queryRecord
	observerID    int
}

// NewArchetypeStore constructs an empty store and registers its
// delete-observer on alloc (spec.md §4.5.6): deleting a handle through
// the allocator evicts its row here, before the slot is recycled.
func NewArchetypeStore[H Handle[H]](alloc *HandleAllocator[H]) *ArchetypeStore[H] {
	s := &ArchetypeStore[H]{
		alloc:         alloc,
		secondary:     NewSparseSecondaryIndex[H, location](invalidLocation),
		schemaToGroup: make(map[string]int),
		columns:       make(map[ColumnID]anyColumn),
		borrows:       newBorrowTable(),
		queryCache:    make(map[string]*queryRecord),
	}
	s.observerID = alloc.OnDelete(func(h H) {
		_ = s.deleteInternal(h) // "not present" is not an error for observers
	})
	return s
}

// Close unregisters this store's delete-observer.
func (s *ArchetypeStore[H]) Close() {
	s.alloc.OffDelete(s.observerID)
}

// Contains reports whether h currently has a row in this store.
func (s *ArchetypeStore[H]) Contains(h H) bool {
	loc, err := s.secondary.Get(h)
	if err != nil {
		return false
	}
	return s.groups[loc.group].handles[loc.row] == h
}

// Len returns the number of live rows across every group.
func (s *ArchetypeStore[H]) Len() int {
	n := 0
	for _, g := range s.groups {
		n += len(g.handles)
	}
	return n
}

// GroupCount returns the number of archetype groups materialized so far.
func (s *ArchetypeStore[H]) GroupCount() int { return len(s.groups) }

// --- columnEnsurer, used by TypeList.ensureColumns ---

func (s *ArchetypeStore[H]) ensureColumnID(id ColumnID, create func() anyColumn) anyColumn {
	col, ok := s.columns[id]
	if !ok {
		col = create()
		s.columns[id] = col
		s.columnOrder = append(s.columnOrder, id)
	}
	col.ensureGroups(len(s.groups))
	return col
}

func (s *ArchetypeStore[H]) groupCount() int { return len(s.groups) }

// createGroup materializes a new group for schema, extends every
// existing column's outer vector by one, and refreshes any cached query
// whose matching-group set now includes it (spec.md §4.5.5 staleness
// requirement: "any insert that materializes a new matching group must
// be reflected the next time the query is locked").
func (s *ArchetypeStore[H]) createGroup(schema Schema) int {
	idx := len(s.groups)
	s.groups = append(s.groups, group[H]{schema: schema})
	s.schemaToGroup[schema.Key()] = idx
	for _, col := range s.columns {
		col.ensureGroups(len(s.groups))
	}
	for _, rec := range s.queryCache {
		combined := NewSchema(append(append([]ColumnID{}, rec.ro.IDs()...), rec.rw.IDs()...)...)
		if schema.SupersetOf(combined) && schema.DisjointFrom(rec.exclude) {
			rec.matchingGroups = append(rec.matchingGroups, idx)
		}
	}
	return idx
}

// --- deletion ---

// Delete removes h's row (if any), swap-removing it from its group and
// shrinking every column in that group's schema by one.
func (s *ArchetypeStore[H]) Delete(h H) error {
	return s.deleteInternal(h)
}

func (s *ArchetypeStore[H]) deleteInternal(h H) error {
	loc, err := s.secondary.Get(h)
	if err != nil {
		return err
	}
	g, r := int(loc.group), int(loc.row)
	if s.groups[g].handles[r] != h {
		return VersionMismatchError[H]{Requested: h, Found: s.groups[g].handles[r]}
	}
	ids := s.groups[g].schema.IDs()
	guard, err := s.borrows.acquire(nil, ids)
	if err != nil {
		return err
	}
	defer guard.Release()

	for _, id := range ids {
		s.columns[id].swapRemove(g, r)
	}
	s.removeHandleRow(g, r)
	s.secondary.MarkAbsent(h)
	return nil
}

// removeHandleRow swap-removes groups[g].handles[r] and, if another
// handle moved into r, fixes up its secondary-index entry.
func (s *ArchetypeStore[H]) removeHandleRow(g, r int) {
	handles := s.groups[g].handles
	last := len(handles) - 1
	handles[r] = handles[last]
	handles = handles[:last]
	s.groups[g].handles = handles
	if r < len(handles) {
		moved := handles[r]
		slot, err := s.secondary.GetMut(moved)
		if err != nil {
			panic("ArchetypeStore: secondary index in invalid state after swap-remove")
		}
		slot.row = uint32(r)
	}
}

// --- transform ---

// transformCore moves h from its current group to the group for
// targetSchema (materializing it if needed), moving values for columns
// present in both schemas and taking new values from addValues for
// columns only in targetSchema. Columns present only in the source
// schema are dropped. Per design note §9 this is a move, never a copy.
func (s *ArchetypeStore[H]) transformCore(h H, targetSchema Schema, addValues map[ColumnID]any) error {
	loc, err := s.secondary.Get(h)
	if err != nil {
		return err
	}
	g, r := int(loc.group), int(loc.row)
	if s.groups[g].handles[r] != h {
		return VersionMismatchError[H]{Requested: h, Found: s.groups[g].handles[r]}
	}
	srcSchema := s.groups[g].schema

	targetGroup, ok := s.schemaToGroup[targetSchema.Key()]
	if !ok {
		targetGroup = s.createGroup(targetSchema)
	}

	lockIDs := NewSchema(append(append([]ColumnID{}, srcSchema.IDs()...), targetSchema.IDs()...)...).IDs()
	guard, err := s.borrows.acquire(nil, lockIDs)
	if err != nil {
		return err
	}
	defer guard.Release()

	moved := make(map[ColumnID]any, srcSchema.Len())
	for _, id := range srcSchema.IDs() {
		if targetSchema.Contains(id) {
			moved[id] = s.columns[id].valueAt(g, r)
		}
	}
	for _, id := range srcSchema.IDs() {
		s.columns[id].swapRemove(g, r)
	}
	s.removeHandleRow(g, r)

	for _, id := range targetSchema.IDs() {
		if v, ok := moved[id]; ok {
			s.columns[id].pushAny(targetGroup, v)
			continue
		}
		v, ok := addValues[id]
		if !ok {
			return SchemaMismatchError{Reason: "transform: missing value for new column " + id.String()}
		}
		s.columns[id].pushAny(targetGroup, v)
	}
	s.groups[targetGroup].handles = append(s.groups[targetGroup].handles, h)
	newRow := len(s.groups[targetGroup].handles) - 1
	slot, err := s.secondary.GetMut(h)
	if err != nil {
		panic("ArchetypeStore: handle vanished mid-transform")
	}
	*slot = location{group: uint32(targetGroup), row: uint32(newRow)}
	return nil
}

// TransformTo moves h into the group named by T (creating it if needed),
// carrying over values for columns shared with h's current group and
// drawing values for any brand-new columns from addValues (keyed by
// ColumnID; use ElementType.ID() to build the key).
func TransformTo[H Handle[H], T TypeList](s *ArchetypeStore[H], h H, addValues map[ColumnID]any) error {
	var t T
	t.ensureColumns(s, nil)
	schema := NewSchema(idsOf[T]()...)
	return s.transformCore(h, schema, addValues)
}
