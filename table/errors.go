package table

import "fmt"

// AlreadyPresentError is returned when inserting a handle into a structure
// that already holds it.
type AlreadyPresentError[H comparable] struct {
	Handle H
}

func (e AlreadyPresentError[H]) Error() string {
	return fmt.Sprintf("handle %v is already present", e.Handle)
}

// NotPresentError is returned when reading or removing a handle that the
// structure does not hold.
type NotPresentError[H comparable] struct {
	Handle H
}

func (e NotPresentError[H]) Error() string {
	return fmt.Sprintf("handle %v is not present", e.Handle)
}

// VersionMismatchError is returned when a slot is occupied but by a handle
// of a different version than requested.
type VersionMismatchError[H comparable] struct {
	Requested H
	Found     H
}

func (e VersionMismatchError[H]) Error() string {
	return fmt.Sprintf("handle version mismatch: requested %v, found %v", e.Requested, e.Found)
}

// SchemaMismatchError is returned when a passed schema/value list does not
// match what an inserter or query expects.
type SchemaMismatchError struct {
	Reason string
}

func (e SchemaMismatchError) Error() string {
	return fmt.Sprintf("schema mismatch: %s", e.Reason)
}

// LockContentionError is returned when borrow discipline is violated: a
// column is requested exclusively while already shared or exclusively
// held, or shared while exclusively held.
type LockContentionError struct {
	Column ColumnID
}

func (e LockContentionError) Error() string {
	return fmt.Sprintf("lock contention on column %v", e.Column)
}

// NameAlreadyExistsError is returned by Registry.Create for a duplicate
// table name.
type NameAlreadyExistsError struct {
	Name string
}

func (e NameAlreadyExistsError) Error() string {
	return fmt.Sprintf("table name already exists: %s", e.Name)
}

// TableNotFoundError is returned by Registry.Get for an unknown name.
type TableNotFoundError struct {
	Name string
}

func (e TableNotFoundError) Error() string {
	return fmt.Sprintf("table not found: %s", e.Name)
}
