package table

// Inserter is a compile-time-typed handle for appending rows into the
// group whose schema equals T's column set. Two Inserters constructed
// for the same canonical schema resolve to the same group (design note
// §9, Open Question: inserters dedupe by canonical schema, not by
// construction site).
type Inserter[H Handle[H], T TypeList] struct {
	store *ArchetypeStore[H]
	group int
	ids   []ColumnID
	cols  []anyColumn
}

// NewInserter builds (or reuses) the group for T and returns an Inserter
// bound to it. Duplicate types within T are rejected at construction
// time, since a schema is a set (spec.md §4.5.7).
func NewInserter[H Handle[H], T TypeList](s *ArchetypeStore[H]) (*Inserter[H, T], error) {
	ids := idsOf[T]()
	seen := make(map[ColumnID]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			return nil, SchemaMismatchError{Reason: "duplicate column type " + id.String() + " in inserter"}
		}
		seen[id] = true
	}

	schema := NewSchema(ids...)
	groupIdx, ok := s.schemaToGroup[schema.Key()]
	if !ok {
		groupIdx = s.createGroup(schema)
	}

	var t T
	cols := t.ensureColumns(s, nil)

	return &Inserter[H, T]{store: s, group: groupIdx, ids: ids, cols: cols}, nil
}

// Schema returns the canonical schema this inserter's group was built
// from.
func (ins *Inserter[H, T]) Schema() Schema { return NewSchema(ins.ids...) }

// InsertLock is an Inserter with its columns exclusively locked, ready
// to accept rows. Release must be called when done; calls after the
// first are no-ops.
type InsertLock[H Handle[H], T TypeList] struct {
	inserter *Inserter[H, T]
	guard    *Guard
}

// Lock acquires exclusive access to every column this inserter touches.
func (ins *Inserter[H, T]) Lock() (*InsertLock[H, T], error) {
	guard, err := ins.store.borrows.acquire(nil, ins.ids)
	if err != nil {
		return nil, err
	}
	return &InsertLock[H, T]{inserter: ins, guard: guard}, nil
}

// Release returns this lock's columns to the borrow table.
func (l *InsertLock[H, T]) Release() { l.guard.Release() }

// Insert appends one row for h, with values given in T's declared
// order (head first). The handle must not already be present in this
// store. Implementations validate the argument count up front so a
// mismatched call never partially mutates state.
func (l *InsertLock[H, T]) Insert(h H, values ...any) error {
	ins := l.inserter
	if len(values) != len(ins.cols) {
		return SchemaMismatchError{Reason: "insert: value count does not match schema"}
	}
	slot, err := ins.store.secondary.Insert(h)
	if err != nil {
		return err
	}
	g := ins.group
	for i, col := range ins.cols {
		col.pushAny(g, values[i])
	}
	ins.store.groups[g].handles = append(ins.store.groups[g].handles, h)
	row := len(ins.store.groups[g].handles) - 1
	*slot = location{group: uint32(g), row: uint32(row)}
	return nil
}
