// ABOUTME: In-memory document store
// ABOUTME: Used by tests and for dry runs that should not touch a remote store

package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// MemoryStore keeps documents in a map keyed by collection and id.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string]map[string]Document
}

// Compile-time check that MemoryStore implements DocumentStore.
var _ DocumentStore = (*MemoryStore)(nil)

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string]map[string]Document)}
}

// Insert stores a deep copy of doc and returns another copy.
func (m *MemoryStore) Insert(_ context.Context, collection, id string, doc Document) (Document, error) {
	stored, err := cloneDocument(doc)
	if err != nil {
		return nil, storeErr(OpInsert, collection, id, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.docs[collection] == nil {
		m.docs[collection] = make(map[string]Document)
	}
	m.docs[collection][id] = stored
	return cloneDocument(stored)
}

// Delete removes a document, reporting ErrNotFound if it was absent.
func (m *MemoryStore) Delete(_ context.Context, collection, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.docs[collection][id]; !ok {
		return storeErr(OpDelete, collection, id, ErrNotFound)
	}
	delete(m.docs[collection], id)
	return nil
}

// Get returns a copy of a stored document.
func (m *MemoryStore) Get(collection, id string) (Document, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	doc, ok := m.docs[collection][id]
	if !ok {
		return nil, false
	}
	out, err := cloneDocument(doc)
	if err != nil {
		return nil, false
	}
	return out, true
}

// Len returns the number of documents in a collection.
func (m *MemoryStore) Len(collection string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.docs[collection])
}

// Close is a no-op.
func (m *MemoryStore) Close() error {
	return nil
}

// cloneDocument copies doc through its JSON encoding, the same shape the
// serializing backends persist.
func cloneDocument(doc Document) (Document, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}
	var out Document
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("unmarshal document: %w", err)
	}
	return out, nil
}
