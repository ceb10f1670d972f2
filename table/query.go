package table

// Query is a compile-time-typed handle for iterating every group whose
// schema is a superset of RO∪RW and disjoint from an optional runtime
// exclude list (spec.md §4.5.5). Matching groups are cached by the
// (RO, RW, exclude) key and refreshed whenever a new group is
// materialized elsewhere in the store.
type Query[H Handle[H], RO TypeList, RW TypeList] struct {
	store      *ArchetypeStore[H]
	roIDs      []ColumnID
	rwIDs      []ColumnID
	excludeIDs []ColumnID
	roCols     []anyColumn
	rwCols     []anyColumn
	rec        *queryRecord
}

// NewQuery builds (or reuses) the cached matching-group record for
// (RO, RW, exclude) and returns a Query bound to it. A column named in
// both RO and RW is a schema error: a column is either read-only or
// read-write within one query, never both.
func NewQuery[H Handle[H], RO TypeList, RW TypeList](s *ArchetypeStore[H], exclude ...ColumnID) (*Query[H, RO, RW], error) {
	roIDs := idsOf[RO]()
	rwIDs := idsOf[RW]()
	roSchema := NewSchema(roIDs...)
	rwSchema := NewSchema(rwIDs...)
	exclSchema := NewSchema(exclude...)

	if !roSchema.DisjointFrom(rwSchema) {
		return nil, SchemaMismatchError{Reason: "column requested both read-only and read-write in one query"}
	}

	key := roSchema.Key() + "\x00" + rwSchema.Key() + "\x00" + exclSchema.Key()
	rec, ok := s.queryCache[key]
	if !ok {
		rec = &queryRecord{ro: roSchema, rw: rwSchema, exclude: exclSchema}
		combined := NewSchema(append(append([]ColumnID{}, roIDs...), rwIDs...)...)
		for gi, g := range s.groups {
			if g.schema.SupersetOf(combined) && g.schema.DisjointFrom(exclSchema) {
				rec.matchingGroups = append(rec.matchingGroups, gi)
			}
		}
		s.queryCache[key] = rec
	}

	var ro RO
	roCols := ro.ensureColumns(s, nil)
	var rw RW
	rwCols := rw.ensureColumns(s, nil)

	return &Query[H, RO, RW]{
		store: s, roIDs: roIDs, rwIDs: rwIDs, excludeIDs: exclude,
		roCols: roCols, rwCols: rwCols, rec: rec,
	}, nil
}

// QueryLock is a Query with its columns locked (shared for RO, exclusive
// for RW) and a cursor positioned before the first row.
type QueryLock[H Handle[H], RO TypeList, RW TypeList] struct {
	q        *Query[H, RO, RW]
	guard    *Guard
	groupPos int
	row      int
}

// Lock acquires this query's columns and returns a cursor over its
// matching groups.
func (q *Query[H, RO, RW]) Lock() (*QueryLock[H, RO, RW], error) {
	guard, err := q.store.borrows.acquire(q.roIDs, q.rwIDs)
	if err != nil {
		return nil, err
	}
	return &QueryLock[H, RO, RW]{q: q, guard: guard, groupPos: 0, row: -1}, nil
}

// Release returns this lock's columns to the borrow table.
func (l *QueryLock[H, RO, RW]) Release() { l.guard.Release() }

// Next advances the cursor to the next row, returning false once every
// matching group has been exhausted. The matching-group list is read
// from the cached record on every call, and createGroup extends that
// record as soon as a matching group is materialized, so such a group
// is visited by this lock too unless the cursor has already returned
// false; otherwise it is visited the next time the query is locked.
func (l *QueryLock[H, RO, RW]) Next() bool {
	for l.groupPos < len(l.q.rec.matchingGroups) {
		g := l.q.rec.matchingGroups[l.groupPos]
		l.row++
		if l.row < len(l.q.store.groups[g].handles) {
			return true
		}
		l.groupPos++
		l.row = -1
	}
	return false
}

func (l *QueryLock[H, RO, RW]) currentGroup() int {
	return l.q.rec.matchingGroups[l.groupPos]
}

// Handle returns the handle at the cursor's current position.
func (l *QueryLock[H, RO, RW]) Handle() H {
	return l.q.store.groups[l.currentGroup()].handles[l.row]
}

// QueryGet returns a pointer to the current row's V column, which must
// be part of this query's read-only or read-write set.
func QueryGet[H Handle[H], RO TypeList, RW TypeList, V any](l *QueryLock[H, RO, RW]) *V {
	id := columnIDFor[V]()
	g := l.currentGroup()
	for i, cid := range l.q.roIDs {
		if cid == id {
			return l.q.roCols[i].elementPtr(g, l.row).(*V)
		}
	}
	for i, cid := range l.q.rwIDs {
		if cid == id {
			return l.q.rwCols[i].elementPtr(g, l.row).(*V)
		}
	}
	panic("QueryGet: type is not part of this query's read-only or read-write set")
}
