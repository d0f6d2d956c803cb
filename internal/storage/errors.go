// ABOUTME: Common storage errors
// ABOUTME: Enables consistent error handling across storage implementations

package storage

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a requested document does not exist.
var ErrNotFound = errors.New("not found")

// Store operations named in StoreError.
const (
	OpInsert = "insert"
	OpDelete = "delete"
)

// StoreError wraps a failed store operation with the document it addressed.
type StoreError struct {
	Op         string
	Collection string
	ID         string
	Err        error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s %s/%s: %v", e.Op, e.Collection, e.ID, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func storeErr(op, collection, id string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, Collection: collection, ID: id, Err: err}
}
