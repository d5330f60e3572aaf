package vectorstore

import "errors"

var (
	// ErrCollectionNotFound indicates an operation against a collection
	// that has not been created.
	ErrCollectionNotFound = errors.New("collection not found")
)
