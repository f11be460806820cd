package record

import (
	"errors"
	"fmt"
)

var (
	// ErrAmbiguousResult is returned when a lookup that expects at most one
	// row matches more than one.
	ErrAmbiguousResult = errors.New("record: multiple rows matched")
	// ErrNoResult is returned by Query.One when nothing matched.
	ErrNoResult = errors.New("record: no row matched")
	// ErrUnsetColumn marks a statement that references a column whose value
	// has not been set yet, such as the key of an unflushed instance.
	ErrUnsetColumn = errors.New("record: no value has been set for this column")
	ErrUnknownField      = errors.New("record: unknown field")
	ErrPrimaryKeyChanged = errors.New("record: primary key changed")
	ErrNotPersisted      = errors.New("record: instance is not persisted")
)

// UnsetColumnError names the column that had no value.
type UnsetColumnError struct {
	Table  string
	Column string
}

func (e *UnsetColumnError) Error() string {
	return fmt.Sprintf("record: %s.%s: no value has been set for this column", e.Table, e.Column)
}

func (e *UnsetColumnError) Unwrap() error { return ErrUnsetColumn }

// UnknownFieldError is returned when Fields names a column the table does not map.
type UnknownFieldError struct {
	Table string
	Field string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("record: table %q has no column %q", e.Table, e.Field)
}

func (e *UnknownFieldError) Unwrap() error { return ErrUnknownField }
