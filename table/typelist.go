package table

// TypeList is a compile-time list of column types, used to parameterize
// Inserter and Query so the store can produce the deterministic ordered
// sequence of column identifiers they reference (spec.md §4.5, design
// note §9). It is realized as a recursive HList — TNil terminates, TCons
// prepends one type — mirroring the original Rust implementation's
// `impl<HEAD, TAIL: ValueTypes> ValueTypes for (&'static HEAD, TAIL)`
// tuple recursion (original_source/src/tables/dense_entity_dynamic_paged_multi_value_table.rs).
//
// TCons/TNil carry no data; they exist purely to be instantiated at the
// zero value and walked via their ids() method, the same role
// PhantomData plays in the Rust original.
type TypeList interface {
	ids(out []ColumnID) []ColumnID
	ensureColumns(e columnEnsurer, out []anyColumn) []anyColumn
}

// columnEnsurer is the slice of ArchetypeStore that TypeList recursion
// needs in order to create-or-fetch a column for each of its types
// without the recursion itself being generic over H.
type columnEnsurer interface {
	ensureColumnID(id ColumnID, create func() anyColumn) anyColumn
	groupCount() int
}

// TNil is the empty TypeList.
type TNil struct{}

func (TNil) ids(out []ColumnID) []ColumnID { return out }

func (TNil) ensureColumns(e columnEnsurer, out []anyColumn) []anyColumn { return out }

// TCons prepends H onto TypeList T.
type TCons[H any, T TypeList] struct{}

func (TCons[H, T]) ids(out []ColumnID) []ColumnID {
	out = append(out, columnIDFor[H]())
	var tail T
	return tail.ids(out)
}

func (TCons[H, T]) ensureColumns(e columnEnsurer, out []anyColumn) []anyColumn {
	id := columnIDFor[H]()
	col := e.ensureColumnID(id, func() anyColumn { return newColumn[H]() })
	out = append(out, col)
	var tail T
	return tail.ensureColumns(e, out)
}

// idsOf returns the ordered column identifiers named by T, head first.
func idsOf[T TypeList]() []ColumnID {
	var t T
	return t.ids(nil)
}

// TL1..TL4 are ergonomic aliases for short typelists, standing in for
// the Rust crate's `tl![...]` macro (the nearest idiomatic Go
// equivalent, since Go generics have no variadic type parameters).
type (
	TL0             = TNil
	TL1[A any]      = TCons[A, TNil]
	TL2[A, B any]   = TCons[A, TCons[B, TNil]]
	TL3[A, B, C any] = TCons[A, TCons[B, TCons[C, TNil]]]
	TL4[A, B, C, D any] = TCons[A, TCons[B, TCons[C, TCons[D, TNil]]]]
)
