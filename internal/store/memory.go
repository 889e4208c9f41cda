package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/technoghar/repair-service/pkg/util"
)

// memStore is an in-memory Store with the same dotted-path merge semantics as
// the Mongo implementation. It backs tests and local runs without a MONGO_URI.
// Scans iterate in key order so lookups on it are repeatable; the remote store
// makes no such promise.
type memStore struct {
	mu   sync.RWMutex
	docs map[string]Document
}

// NewMemStore returns an empty in-memory implementation.
func NewMemStore() Store {
	return &memStore{docs: make(map[string]Document)}
}

func (s *memStore) Get(_ context.Context, key string) (Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[key]
	if !ok {
		return nil, util.NewNotFound("record", map[string]any{"key": key})
	}
	return copyDocument(doc), nil
}

func (s *memStore) Set(_ context.Context, key string, doc Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[key] = copyDocument(doc)
	return nil
}

func (s *memStore) UpdatePaths(_ context.Context, key string, paths map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[key]
	if !ok {
		return util.NewNotFound("record", map[string]any{"key": key})
	}
	for path, value := range paths {
		setPath(doc, path, value)
	}
	return nil
}

func (s *memStore) ScanAll(_ context.Context) ([]KeyedDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.docs))
	for key := range s.docs {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	out := make([]KeyedDocument, 0, len(keys))
	for _, key := range keys {
		out = append(out, KeyedDocument{Key: key, Doc: copyDocument(s.docs[key])})
	}
	return out, nil
}

// setPath merges a dotted-path value into nested maps, creating intermediate
// documents as needed and leaving sibling fields untouched.
func setPath(doc Document, path string, value any) {
	parts := strings.Split(path, ".")
	current := doc
	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part].(map[string]any)
		if !ok {
			next = map[string]any{}
			current[part] = next
		}
		current = next
	}
	current[parts[len(parts)-1]] = copyValue(value)
}

func copyDocument(doc Document) Document {
	out := make(Document, len(doc))
	for k, v := range doc {
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return copyDocument(t)
	case []any:
		out := make([]any, len(t))
		for i, elem := range t {
			out[i] = copyValue(elem)
		}
		return out
	default:
		return v
	}
}
