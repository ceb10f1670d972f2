package table

import (
	"fmt"
	"reflect"
)

// EntryID identifies a live row. It is an alias for the package's
// default handle width (32-bit: 20 bits index, 12 bits version),
// spec.md §2's ambient default for the dynamic facade and the ECS
// convenience layer built on top of it.
type EntryID = EntryHandle

// TableEvents are lifecycle hooks a Table invokes around entry
// creation, deletion, and transfer, mirroring the teacher's
// table.TableEvents.
type TableEvents struct {
	OnEntriesCreated     func(Table, []Entry)
	OnEntriesDeleted     func(Table, []EntryID)
	OnEntriesTransferred func(from, to Table, id EntryID)
}

// Entry is a live row: its identity plus the table it currently lives
// in.
type Entry interface {
	ID() EntryID
	Index() int
	Recycled() int
	Table() Table
}

type entry struct {
	id  EntryID
	tbl *tableImpl
}

func (e entry) ID() EntryID    { return e.id }
func (e entry) Recycled() int  { return int(e.id.Version()) }
func (e entry) Table() Table   { return e.tbl }
func (e entry) Index() int {
	loc, err := e.tbl.store.secondary.Get(e.id)
	if err != nil {
		return -1
	}
	return int(loc.row)
}

// Table is one archetype group, viewed through the teacher's dynamic,
// ElementType-keyed contract: components are looked up by ElementType
// and exposed as reflect.Value slices rather than through the
// compile-time-typed Inserter/Query pair (archetype_store.go,
// inserter.go, query.go), which this Table is itself built on top of.
type Table interface {
	Contains(ElementType) bool
	Length() int
	Rows() []reflect.Value
	Entry(index int) (Entry, error)
	NewEntries(n int) ([]Entry, error)
	DeleteEntries(ids ...EntryID) (int, error)
	TransferEntries(target Table, index int) error
	ID() uint32
}

type tableImpl struct {
	store  *ArchetypeStore[EntryID]
	group  int
	schema Schema
	events TableEvents
}

func (t *tableImpl) Contains(et ElementType) bool { return t.schema.Contains(et.ID()) }

func (t *tableImpl) Length() int { return len(t.store.groups[t.group].handles) }

func (t *tableImpl) ID() uint32 { return uint32(t.group) }

// Rows returns one reflect.Value (a slice) per column in this table's
// schema, in canonical column order, matching the teacher's pattern of
// walking Table.Rows() to find a column by its element type.
func (t *tableImpl) Rows() []reflect.Value {
	ids := t.schema.IDs()
	out := make([]reflect.Value, len(ids))
	for i, id := range ids {
		out[i] = t.store.columns[id].reflectSlice(t.group)
	}
	return out
}

func (t *tableImpl) Entry(index int) (Entry, error) {
	handles := t.store.groups[t.group].handles
	if index < 0 || index >= len(handles) {
		return nil, fmt.Errorf("table: entry index %d out of range (length %d)", index, len(handles))
	}
	return entry{id: handles[index], tbl: t}, nil
}

// NewEntries appends n zero-valued rows, returning their Entry handles.
func (t *tableImpl) NewEntries(n int) ([]Entry, error) {
	ids := t.schema.IDs()
	cols := make([]anyColumn, len(ids))
	for i, id := range ids {
		cols[i] = t.store.columns[id]
	}
	guard, err := t.store.borrows.acquire(nil, ids)
	if err != nil {
		return nil, err
	}
	defer guard.Release()

	entries := make([]Entry, n)
	for k := 0; k < n; k++ {
		h := t.store.alloc.Allocate()
		slot, err := t.store.secondary.Insert(h)
		if err != nil {
			return nil, err
		}
		for i, id := range ids {
			cols[i].pushAny(t.group, reflect.Zero(id).Interface())
		}
		t.store.groups[t.group].handles = append(t.store.groups[t.group].handles, h)
		row := len(t.store.groups[t.group].handles) - 1
		*slot = location{group: uint32(t.group), row: uint32(row)}
		entries[k] = entry{id: h, tbl: t}
	}
	if t.events.OnEntriesCreated != nil {
		t.events.OnEntriesCreated(t, entries)
	}
	return entries, nil
}

// DeleteEntries removes every listed id and recycles its handle through
// the store's allocator, returning the number removed before the first
// error (if any).
func (t *tableImpl) DeleteEntries(ids ...EntryID) (int, error) {
	n := 0
	for _, id := range ids {
		if err := t.store.Delete(id); err != nil {
			return n, err
		}
		t.store.alloc.Delete(id)
		n++
	}
	if t.events.OnEntriesDeleted != nil {
		t.events.OnEntriesDeleted(t, ids)
	}
	return n, nil
}

// TransferEntries moves the row at index into target's group, zeroing
// any columns target has that this table lacks and dropping any this
// table has that target lacks (archetype_store.go's transformCore move
// semantics).
func (t *tableImpl) TransferEntries(target Table, index int) error {
	dest, ok := target.(*tableImpl)
	if !ok {
		return fmt.Errorf("table: TransferEntries target is not backed by this package")
	}
	handles := t.store.groups[t.group].handles
	if index < 0 || index >= len(handles) {
		return fmt.Errorf("table: entry index %d out of range (length %d)", index, len(handles))
	}
	h := handles[index]

	addValues := make(map[ColumnID]any)
	for _, id := range dest.schema.IDs() {
		if !t.schema.Contains(id) {
			addValues[id] = reflect.Zero(id).Interface()
		}
	}
	if err := t.store.transformCore(h, dest.schema, addValues); err != nil {
		return err
	}
	if t.events.OnEntriesTransferred != nil {
		t.events.OnEntriesTransferred(t, dest, h)
	}
	return nil
}

// EntryIndex owns the handle space and ArchetypeStore shared by every
// Table built from one storage: archetypes are just distinct groups
// within one store, so "entries" are comparable and transferable across
// every table that shares an EntryIndex, exactly as in the teacher.
type EntryIndex struct {
	Alloc  *HandleAllocator[EntryID]
	Store  *ArchetypeStore[EntryID]
	events TableEvents
}

// NewEntryIndex allocates a fresh handle space and its backing store.
func NewEntryIndex() *EntryIndex {
	alloc := NewHandleAllocator[EntryID]()
	return &EntryIndex{Alloc: alloc, Store: NewArchetypeStore[EntryID](alloc)}
}

// Entry resolves a live handle to its current Entry, wherever it lives.
func (ei *EntryIndex) Entry(id EntryID) (Entry, error) {
	loc, err := ei.Store.secondary.Get(id)
	if err != nil {
		return nil, err
	}
	g := int(loc.group)
	tbl := &tableImpl{store: ei.Store, group: g, schema: ei.Store.groups[g].schema, events: ei.events}
	return entry{id: id, tbl: tbl}, nil
}

// TableBuilder assembles a Table for one fixed set of element types,
// reusing an existing group if one already matches the schema.
type TableBuilder struct {
	schema       *ComponentRegistry
	entryIndex   *EntryIndex
	elementTypes []ElementType
	events       TableEvents
}

// NewTableBuilder returns an empty builder.
func NewTableBuilder() *TableBuilder { return &TableBuilder{} }

func (b *TableBuilder) WithSchema(s *ComponentRegistry) *TableBuilder {
	b.schema = s
	return b
}

func (b *TableBuilder) WithEntryIndex(ei *EntryIndex) *TableBuilder {
	b.entryIndex = ei
	return b
}

func (b *TableBuilder) WithElementTypes(ets ...ElementType) *TableBuilder {
	b.elementTypes = ets
	return b
}

func (b *TableBuilder) WithEvents(e TableEvents) *TableBuilder {
	b.events = e
	return b
}

// Build materializes (or reuses) the group for this builder's element
// types and returns a Table bound to it.
func (b *TableBuilder) Build() (Table, error) {
	if b.entryIndex == nil {
		return nil, fmt.Errorf("table: TableBuilder requires WithEntryIndex")
	}
	ids := make([]ColumnID, len(b.elementTypes))
	for i, et := range b.elementTypes {
		ids[i] = et.ID()
	}
	if b.schema != nil {
		b.schema.Register(b.elementTypes...)
	}
	schema := NewSchema(ids...)
	store := b.entryIndex.Store

	groupIdx, ok := store.schemaToGroup[schema.Key()]
	if !ok {
		groupIdx = store.createGroup(schema)
	}
	for _, id := range ids {
		store.ensureColumnID(id, func() anyColumn { return newDynamicColumn(id) })
	}
	b.entryIndex.events = b.events

	return &tableImpl{store: store, group: groupIdx, schema: schema, events: b.events}, nil
}
