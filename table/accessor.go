package table

// Accessor is a compile-time-typed getter bound to one ElementType,
// letting a caller that already holds a Table read or write that
// column without repeating the reflect-based lookup Table.Rows()
// requires. Mirrors the teacher's table.Accessor[T].
type Accessor[T any] struct {
	id ColumnID
}

// FactoryNewAccessor binds an Accessor to et's column.
func FactoryNewAccessor[T any](et ElementType) Accessor[T] {
	return Accessor[T]{id: et.ID()}
}

// Check reports whether tbl carries this accessor's column.
func (a Accessor[T]) Check(tbl Table) bool {
	dt, ok := tbl.(*tableImpl)
	if !ok {
		return false
	}
	return dt.schema.Contains(a.id)
}

// Get returns a pointer to the value at row index in tbl.
func (a Accessor[T]) Get(index int, tbl Table) *T {
	dt, ok := tbl.(*tableImpl)
	if !ok {
		panic("table: Accessor.Get requires a Table built by this package's TableBuilder")
	}
	return dt.store.columns[a.id].elementPtr(dt.group, index).(*T)
}
