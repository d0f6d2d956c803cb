// ABOUTME: Charm KV document store backed by the charm client wrapper
// ABOUTME: Documents are JSON values under "<collection>:<id>" keys, synced after each write

package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/harper/adot/internal/charm"
)

// DefaultCharmHost is the Charm server used when none is configured.
const DefaultCharmHost = charm.DefaultCharmHost

// CharmOptions configures the charm backend.
type CharmOptions struct {
	Host     string
	AutoSync bool
}

// kvClient is the subset of charm.Client the store needs.
type kvClient interface {
	Set(key, value []byte) error
	Delete(key []byte) error
}

// CharmStore implements DocumentStore on Charm KV.
type CharmStore struct {
	kv kvClient
}

// Compile-time check that CharmStore implements DocumentStore.
var _ DocumentStore = (*CharmStore)(nil)

// NewCharmStore creates a store on the adot Charm KV database.
func NewCharmStore(opts CharmOptions) (*CharmStore, error) {
	client, err := charm.NewClient(&charm.Config{CharmHost: opts.Host, AutoSync: opts.AutoSync})
	if err != nil {
		return nil, fmt.Errorf("charm client: %w", err)
	}
	return &CharmStore{kv: client}, nil
}

func charmKey(collection, id string) []byte {
	return []byte(collection + ":" + id)
}

// Insert stores the document, replacing any existing value.
func (c *CharmStore) Insert(_ context.Context, collection, id string, doc Document) (Document, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, storeErr(OpInsert, collection, id, fmt.Errorf("marshal document: %w", err))
	}
	if err := c.kv.Set(charmKey(collection, id), data); err != nil {
		return nil, storeErr(OpInsert, collection, id, err)
	}
	return doc, nil
}

// Delete removes the document, reporting ErrNotFound if the key was absent.
func (c *CharmStore) Delete(_ context.Context, collection, id string) error {
	if err := c.kv.Delete(charmKey(collection, id)); err != nil {
		if charm.IsMissingKey(err) {
			return storeErr(OpDelete, collection, id, ErrNotFound)
		}
		return storeErr(OpDelete, collection, id, err)
	}
	return nil
}

// Close is a no-op; connections are closed after each operation.
func (c *CharmStore) Close() error {
	return nil
}
