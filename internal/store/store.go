// Package store wraps the external document database behind a small
// get/set/update-by-key and collection-scan contract. The backend provides no
// multi-document transactions and no optimistic concurrency token; callers
// must tolerate last-write-wins races and must not assume atomicity across
// multiple calls.
package store

import (
	"context"
)

// Document is a schemaless record as stored in the backend. Nested documents
// are plain map[string]any and arrays are []any regardless of implementation.
type Document = map[string]any

// KeyedDocument pairs a record with its collection key.
type KeyedDocument struct {
	Key string
	Doc Document
}

// Store is the record-store contract.
//
// Get returns a NOT_FOUND domain error on a miss. Set is a full replace and
// creates the record when absent. UpdatePaths merges dotted-path values into
// nested fields without clobbering siblings. ScanAll materializes the whole
// collection; iteration order is not guaranteed.
type Store interface {
	Get(ctx context.Context, key string) (Document, error)
	Set(ctx context.Context, key string, doc Document) error
	UpdatePaths(ctx context.Context, key string, paths map[string]any) error
	ScanAll(ctx context.Context) ([]KeyedDocument, error)
}
