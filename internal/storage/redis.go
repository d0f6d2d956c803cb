// ABOUTME: Redis document store implementation
// ABOUTME: Stores each document as JSON under a collection-scoped key

package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisOptions configures the redis backend.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	// Prefix namespaces keys. Defaults to "adot:".
	Prefix string
}

// RedisStore implements DocumentStore using Redis as the backing store.
// Documents are stored as JSON under key: "<prefix><collection>:<id>" with no TTL.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// Compile-time check that RedisStore implements DocumentStore.
var _ DocumentStore = (*RedisStore)(nil)

// NewRedisStore connects to Redis. No command is sent until the first operation.
func NewRedisStore(_ context.Context, opts RedisOptions) (*RedisStore, error) {
	if opts.Addr == "" {
		return nil, fmt.Errorf("redis address is empty")
	}
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	return NewRedisStoreFromClient(client, opts.Prefix), nil
}

// NewRedisStoreFromClient wraps an existing client. Prefix may be empty.
func NewRedisStoreFromClient(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "adot:"
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (r *RedisStore) key(collection, id string) string {
	return r.prefix + collection + ":" + id
}

// Insert writes the document, replacing any existing value.
func (r *RedisStore) Insert(ctx context.Context, collection, id string, doc Document) (Document, error) {
	b, err := json.Marshal(doc)
	if err != nil {
		return nil, storeErr(OpInsert, collection, id, fmt.Errorf("marshal document: %w", err))
	}
	if err := r.client.Set(ctx, r.key(collection, id), b, 0).Err(); err != nil {
		return nil, storeErr(OpInsert, collection, id, err)
	}
	return doc, nil
}

// Delete removes the key, reporting ErrNotFound if nothing was deleted.
func (r *RedisStore) Delete(ctx context.Context, collection, id string) error {
	n, err := r.client.Del(ctx, r.key(collection, id)).Result()
	if err != nil {
		return storeErr(OpDelete, collection, id, err)
	}
	if n == 0 {
		return storeErr(OpDelete, collection, id, ErrNotFound)
	}
	return nil
}

// Get reads a document back.
func (r *RedisStore) Get(ctx context.Context, collection, id string) (Document, error) {
	b, err := r.client.Get(ctx, r.key(collection, id)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrNotFound
		}
		return nil, err
	}
	var doc Document
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal document: %w", err)
	}
	return doc, nil
}

// Close closes the client.
func (r *RedisStore) Close() error {
	return r.client.Close()
}
