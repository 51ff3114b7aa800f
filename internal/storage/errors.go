package storage

import (
	"errors"
	"fmt"
)

// ErrNotFound signals that a lookup matched no entity. Callers must treat it
// as "absent", distinct from an engine failure.
var ErrNotFound = errors.New("not found")

// StorageUnavailableError means the underlying engine could not be opened or
// migrated. It is surfaced, never swallowed.
type StorageUnavailableError struct {
	Err error
}

func (e *StorageUnavailableError) Error() string {
	return fmt.Sprintf("storage unavailable: %v", e.Err)
}

func (e *StorageUnavailableError) Unwrap() error { return e.Err }

// WriteError wraps an add/delete/clear failure.
type WriteError struct {
	Collection string
	Op         string
	Err        error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Collection, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// ReadError wraps a getAll/getById/aggregate failure.
type ReadError struct {
	Collection string
	Op         string
	Err        error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Collection, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }
