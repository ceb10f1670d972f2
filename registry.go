package warehouse

import (
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/archtable/warehouse/table"
)

// TableID identifies a table registered through a Registry.
type TableID uint32

// Registry owns the handle allocator shared by every table it creates
// and the name -> table lookup the teacher's own Tables/Database
// collaborator provides. Because every table built through one Registry
// shares a single table.EntryIndex, deleting a handle through any one of
// them cascades into all of them automatically: the EntryIndex's
// ArchetypeStore is already registered as a delete-observer on the
// shared allocator.
type Registry struct {
	mu         sync.Mutex
	schema     *table.ComponentRegistry
	entryIndex *table.EntryIndex
	byName     map[string]registeredTable
	byID       map[TableID]table.Table
	nextID     TableID
}

type registeredTable struct {
	id  TableID
	tbl table.Table
}

// NewRegistry constructs an empty Registry bound to a fresh schema and
// handle space.
func NewRegistry() *Registry {
	return &Registry{
		schema:     table.Factory.NewSchema(),
		entryIndex: table.NewEntryIndex(),
		byName:     make(map[string]registeredTable),
		byID:       make(map[TableID]table.Table),
	}
}

// Create builds a table for the given element types and registers it
// under name. Duplicate names fail with table.NameAlreadyExistsError.
func (r *Registry) Create(name string, elementTypes ...table.ElementType) (TableID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byName[name]; exists {
		return 0, table.NameAlreadyExistsError{Name: name}
	}

	tbl, err := table.NewTableBuilder().
		WithSchema(r.schema).
		WithEntryIndex(r.entryIndex).
		WithElementTypes(elementTypes...).
		WithEvents(Config.tableEvents).
		Build()
	if err != nil {
		return 0, err
	}

	r.nextID++
	id := r.nextID
	r.byName[name] = registeredTable{id: id, tbl: tbl}
	r.byID[id] = tbl

	log.WithFields(log.Fields{"table": name, "id": id, "columns": len(elementTypes)}).
		Debug("warehouse: table registered")

	return id, nil
}

// Get looks up a table by the name it was registered under.
func (r *Registry) Get(name string) (table.Table, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rt, ok := r.byName[name]
	if !ok {
		return nil, table.TableNotFoundError{Name: name}
	}
	return rt.tbl, nil
}

// GetByID looks up a table by the id Create returned for it. An unknown
// id is an internal invariant breach, not a recoverable error: it means
// the caller is holding a TableID this Registry never issued.
func (r *Registry) GetByID(id TableID) table.Table {
	r.mu.Lock()
	defer r.mu.Unlock()

	tbl, ok := r.byID[id]
	if !ok {
		log.WithField("id", id).Error("warehouse: GetByID called with unknown table id")
		panic(table.TableNotFoundError{Name: "<unknown id>"})
	}
	return tbl
}

// Allocator returns the single HandleAllocator shared by every table
// this Registry has created.
func (r *Registry) Allocator() *table.HandleAllocator[table.EntryHandle] {
	return r.entryIndex.Alloc
}

// Schema returns the ComponentRegistry shared by every table this
// Registry has created.
func (r *Registry) Schema() *table.ComponentRegistry {
	return r.schema
}
