package warehouse

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/archtable/warehouse/table"
)

// Ensure storage implements Storage interface
var _ Storage = &storage{}

var (
	globalEntryIndex = table.Factory.NewEntryIndex()
	globalEntities   = make(map[table.EntryID]*entity)
)

// Storage defines the interface for entity storage and manipulation
type Storage interface {
	Entity(id table.EntryID) (Entity, error)
	NewEntities(int, ...Component) ([]Entity, error)
	NewOrExistingArchetype(components ...Component) (Archetype, error)
	EnqueueNewEntities(int, ...Component) error
	DestroyEntities(...Entity) error
	EnqueueDestroyEntities(...Entity) error
	RowIndexFor(Component) uint32
	Locked() bool
	AddLock()
	PopLock()
	Register(...Component)
	tableFor(...Component) (table.Table, error)

	TransferEntities(target Storage, entities ...Entity) error
	Enqueue(EntityOperation)
	Archetypes() []ArchetypeImpl
}

// storage implements the Storage interface
type storage struct {
	locks          int
	schema         *table.ComponentRegistry
	archetypes     *archetypes
	operationQueue EntityOperationsQueue
}

// archetypes manages archetype collections and identification
type archetypes struct {
	nextID           archetypeID
	asSlice          []ArchetypeImpl
	idsGroupedByMask map[string]archetypeID
}

// newStorage creates a new Storage implementation with the given schema
func newStorage(schema *table.ComponentRegistry) Storage {
	archetypes := &archetypes{
		nextID:           1,
		idsGroupedByMask: make(map[string]archetypeID),
	}
	storage := &storage{
		archetypes:     archetypes,
		schema:         schema,
		operationQueue: &entityOperationsQueue{},
	}
	return storage
}

// maskKeyFor registers components against the schema and returns the
// canonical string key for their combined row-index bitmap.
func (sto *storage) maskKeyFor(components ...Component) string {
	for _, component := range components {
		sto.schema.Register(component)
	}
	mask := componentMask(sto.schema, components...)
	return mask.String()
}

// Entity retrieves an entity by handle
func (sto *storage) Entity(id table.EntryID) (Entity, error) {
	en, ok := globalEntities[id]
	if !ok {
		return nil, table.NotPresentError[table.EntryID]{Handle: id}
	}
	return en, nil
}

// NewOrExistingArchetype gets an existing archetype matching the component signature or creates a new one
func (sto *storage) NewOrExistingArchetype(components ...Component) (Archetype, error) {
	key := sto.maskKeyFor(components...)
	id, archetypeFound := sto.archetypes.idsGroupedByMask[key]
	if archetypeFound {
		return sto.archetypes.asSlice[id-1], nil
	}

	created, err := newArchetype(sto.schema, globalEntryIndex, sto.archetypes.nextID, components...)
	if err != nil {
		return nil, err
	}
	sto.archetypes.asSlice = append(sto.archetypes.asSlice, created)
	sto.archetypes.idsGroupedByMask[key] = created.id
	sto.archetypes.nextID++
	log.WithFields(log.Fields{"archetype": created.id, "components": len(components)}).
		Debug("warehouse: archetype created")
	return &created, nil
}

// NewEntities creates n new entities with the specified components
func (sto *storage) NewEntities(n int, components ...Component) ([]Entity, error) {
	if sto.Locked() {
		return nil, LockedStorageError{}
	}
	if len(components) == 0 {
		return nil, fmt.Errorf("cannot create entities with no components")
	}
	entityArchetype, err := sto.NewOrExistingArchetype(components...)
	if err != nil {
		return nil, err
	}
	entries, err := entityArchetype.Table().NewEntries(n)
	if err != nil {
		return nil, err
	}

	entities := make([]Entity, n)
	for i, en := range entries {
		created := &entity{
			Entry:      en,
			sto:        sto,
			id:         en.ID(),
			components: components,
		}
		entities[i] = created
		globalEntities[created.id] = created
	}

	return entities, nil
}

// RowIndexFor returns the bit index for a component in the schema
func (sto *storage) RowIndexFor(c Component) uint32 {
	return sto.schema.RowIndexFor(c)
}

// Locked checks if the storage is currently locked
func (sto *storage) Locked() bool {
	return sto.locks > 0
}

// AddLock increments the lock counter, deferring queued operations
func (sto *storage) AddLock() {
	sto.locks++
}

// PopLock decrements the lock counter and processes queued operations once fully unlocked
func (sto *storage) PopLock() {
	if sto.locks > 0 {
		sto.locks--
	}
	if !sto.Locked() {
		err := sto.operationQueue.ProcessAll(sto)
		if err != nil {
			log.WithError(err).Error("warehouse: failed to process queued operations")
			panic(fmt.Errorf("error processing queued operations: %w", err))
		}
	}
}

// EnqueueNewEntities either creates entities immediately or queues creation if storage is locked
func (s *storage) EnqueueNewEntities(count int, components ...Component) error {
	if !s.Locked() {
		_, err := s.NewEntities(count, components...)
		if err != nil {
			return fmt.Errorf("failed to create entities directly: %w", err)
		}
		return nil
	}
	s.operationQueue.Enqueue(
		NewEntityOperation{
			count:      count,
			components: components,
		},
	)
	return nil
}

// DestroyEntities removes entities from storage
func (s *storage) DestroyEntities(entities ...Entity) error {
	if s.Locked() {
		return LockedStorageError{}
	}
	tableGroups := make(map[table.Table][]table.EntryID)
	for _, en := range entities {
		if en == nil {
			continue
		}
		tableGroups[en.Table()] = append(tableGroups[en.Table()], en.ID())
	}
	for tbl, ids := range tableGroups {
		_, err := tbl.DeleteEntries(ids...)
		if err != nil {
			return fmt.Errorf("failed to delete entries: %w", err)
		}
	}
	for _, en := range entities {
		if en == nil {
			continue
		}
		delete(globalEntities, en.ID())
	}
	return nil
}

// EnqueueDestroyEntities either destroys entities immediately or queues destruction if storage is locked
func (s *storage) EnqueueDestroyEntities(entities ...Entity) error {
	if !s.Locked() {
		return s.DestroyEntities(entities...)
	}
	for _, en := range entities {
		s.operationQueue.Enqueue(
			DestroyEntityOperation{
				entity:   en,
				recycled: en.Recycled(),
			})
	}
	return nil
}

// TransferEntities moves entities from this storage to the target storage
func (s *storage) TransferEntities(target Storage, entities ...Entity) error {
	if s.Locked() {
		return LockedStorageError{}
	}
	for _, en := range entities {
		comps := en.Components()
		target.Register(comps...)
		targetTbl, err := target.tableFor(comps...)
		if err != nil {
			return err
		}

		err = en.Table().TransferEntries(targetTbl, en.Index())
		if err != nil {
			return err
		}
		en.SetStorage(target)
	}
	return nil
}

// Register adds components to the storage schema
func (s *storage) Register(comps ...Component) {
	ets := make([]table.ElementType, len(comps))
	for i, c := range comps {
		ets[i] = c
	}
	s.schema.Register(ets...)
}

// Enqueue adds an operation to the queue
func (s *storage) Enqueue(op EntityOperation) {
	s.operationQueue.Enqueue(op)
}

// Archetypes returns all archetypes in this storage
func (s *storage) Archetypes() []ArchetypeImpl {
	return s.archetypes.asSlice
}

// tableFor gets or creates a table for the given component set
func (s *storage) tableFor(comps ...Component) (table.Table, error) {
	key := s.maskKeyFor(comps...)

	id, ok := s.archetypes.idsGroupedByMask[key]
	if !ok {
		created, err := newArchetype(s.schema, globalEntryIndex, s.archetypes.nextID, comps...)
		if err != nil {
			return nil, err
		}
		s.archetypes.asSlice = append(s.archetypes.asSlice, created)
		s.archetypes.idsGroupedByMask[key] = created.id
		s.archetypes.nextID++
		return created.table, nil
	}
	arche := s.archetypes.asSlice[id-1]
	return arche.table, nil
}
