package table

import "reflect"

// anyColumn is the type-erased operations every column[V] must support so
// ArchetypeStore can resize and swap-remove across heterogeneous column
// types without knowing V (design note §9: "dynamic dispatch across
// column types", option (a) — an interface per column).
type anyColumn interface {
	ensureGroups(n int)
	swapRemove(group, row int)
	length(group int) int
	elementPtr(group, row int) any
	valueAt(group, row int) any
	reflectSlice(group int) reflect.Value
	pushAny(group int, v any)
	popAny(group int) any
}

// column is one value-typed store, laid out as a vector of per-group
// vectors (spec.md §3: "a vector indexed by group, each element a vector
// of values for that group").
type column[V any] struct {
	rows [][]V
}

func newColumn[V any]() *column[V] { return &column[V]{} }

func (c *column[V]) ensureGroups(n int) {
	for len(c.rows) < n {
		c.rows = append(c.rows, nil)
	}
}

func (c *column[V]) length(group int) int { return len(c.rows[group]) }

func (c *column[V]) append(group int, v V) {
	c.rows[group] = append(c.rows[group], v)
}

func (c *column[V]) pushAny(group int, v any) {
	c.append(group, v.(V))
}

// popAny removes and returns the last value in group, shrinking it by
// one.
func (c *column[V]) popAny(group int) any {
	s := c.rows[group]
	last := len(s) - 1
	v := s[last]
	c.rows[group] = s[:last]
	return v
}

// swapRemove removes row from group via swap with the last element.
func (c *column[V]) swapRemove(group, row int) {
	s := c.rows[group]
	last := len(s) - 1
	s[row] = s[last]
	var zero V
	s[last] = zero
	c.rows[group] = s[:last]
}

func (c *column[V]) get(group, row int) *V { return &c.rows[group][row] }

func (c *column[V]) elementPtr(group, row int) any { return c.get(group, row) }

// valueAt returns a copy of the value at (group, row), used by transform
// to read a value out before its row is swap-removed.
func (c *column[V]) valueAt(group, row int) any { return c.rows[group][row] }

func (c *column[V]) reflectSlice(group int) reflect.Value {
	return reflect.ValueOf(c.rows[group])
}

// dynamicColumn is an anyColumn whose element type is known only at
// runtime, backing the reflect-based Table facade (facade.go) the same
// way the teacher's table.Table exposes components through
// reflect.Value rather than a Go generic parameter.
type dynamicColumn struct {
	elemType reflect.Type
	rows     []reflect.Value
}

func newDynamicColumn(t reflect.Type) anyColumn { return &dynamicColumn{elemType: t} }

func (d *dynamicColumn) ensureGroups(n int) {
	for len(d.rows) < n {
		d.rows = append(d.rows, reflect.MakeSlice(reflect.SliceOf(d.elemType), 0, 0))
	}
}

func (d *dynamicColumn) length(group int) int { return d.rows[group].Len() }

func (d *dynamicColumn) swapRemove(group, row int) {
	s := d.rows[group]
	last := s.Len() - 1
	s.Index(row).Set(s.Index(last))
	d.rows[group] = s.Slice(0, last)
}

func (d *dynamicColumn) elementPtr(group, row int) any {
	return d.rows[group].Index(row).Addr().Interface()
}

func (d *dynamicColumn) valueAt(group, row int) any {
	return d.rows[group].Index(row).Interface()
}

func (d *dynamicColumn) reflectSlice(group int) reflect.Value { return d.rows[group] }

func (d *dynamicColumn) pushAny(group int, v any) {
	val := reflect.ValueOf(v)
	if !val.IsValid() {
		val = reflect.Zero(d.elemType)
	}
	d.rows[group] = reflect.Append(d.rows[group], val)
}

func (d *dynamicColumn) popAny(group int) any {
	s := d.rows[group]
	last := s.Len() - 1
	v := s.Index(last).Interface()
	d.rows[group] = s.Slice(0, last)
	return v
}
