package warehouse

import (
	"github.com/RoaringBitmap/roaring/v2"

	"github.com/archtable/warehouse/table"
)

// Archetype is a collection of entities sharing the same component set.
type Archetype interface {
	ID() uint32
	Table() table.Table
	Mask() *roaring.Bitmap
}

type archetypeID uint32

// ArchetypeImpl is the concrete Archetype backing one component-set
// group in a Storage.
type ArchetypeImpl struct {
	id    archetypeID
	table table.Table
	mask  *roaring.Bitmap
}

// componentMask registers comps against schema and returns the bitmap of
// their row indices.
func componentMask(schema *table.ComponentRegistry, comps ...Component) *roaring.Bitmap {
	m := roaring.New()
	for _, c := range comps {
		schema.Register(c)
		m.Add(schema.RowIndexFor(c))
	}
	return m
}

func newArchetype(schema *table.ComponentRegistry, entryIndex *table.EntryIndex, id archetypeID, components ...Component) (ArchetypeImpl, error) {
	elementTypes := make([]table.ElementType, len(components))
	for i, comp := range components {
		elementTypes[i] = comp
	}
	archeMask := componentMask(schema, components...)
	tbl, err := table.NewTableBuilder().
		WithSchema(schema).
		WithEntryIndex(entryIndex).
		WithElementTypes(elementTypes...).
		WithEvents(Config.tableEvents).
		Build()
	if err != nil {
		return ArchetypeImpl{}, err
	}
	return ArchetypeImpl{
		table: tbl,
		id:    id,
		mask:  archeMask,
	}, nil
}

// ID returns this archetype's identifier within its Storage.
func (a ArchetypeImpl) ID() uint32 {
	return uint32(a.id)
}

// Table returns the backing table for this archetype.
func (a ArchetypeImpl) Table() table.Table {
	return a.table
}

// Mask returns the bitmap of component row indices this archetype carries.
func (a ArchetypeImpl) Mask() *roaring.Bitmap {
	return a.mask
}
