// ABOUTME: Contract tests shared by every DocumentStore backend
// ABOUTME: Runs insert/overwrite/delete semantics against memory, sqlite, and redis

package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	mr "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// getter reads documents back for verification; every testable backend has one.
type getter func(collection, id string) (Document, error)

type backendUnderTest struct {
	name string
	open func(t *testing.T) (DocumentStore, getter)
}

func backends() []backendUnderTest {
	return []backendUnderTest{
		{
			name: "memory",
			open: func(t *testing.T) (DocumentStore, getter) {
				s := NewMemoryStore()
				return s, func(c, id string) (Document, error) {
					doc, ok := s.Get(c, id)
					if !ok {
						return nil, ErrNotFound
					}
					return doc, nil
				}
			},
		},
		{
			name: "sqlite",
			open: func(t *testing.T) (DocumentStore, getter) {
				s := testSQLiteStore(t)
				return s, func(c, id string) (Document, error) {
					return s.Get(context.Background(), c, id)
				}
			},
		},
		{
			name: "redis",
			open: func(t *testing.T) (DocumentStore, getter) {
				m, err := mr.Run()
				require.NoError(t, err)
				t.Cleanup(m.Close)

				s := NewRedisStoreFromClient(redis.NewClient(&redis.Options{Addr: m.Addr()}), "test:")
				t.Cleanup(func() { _ = s.Close() })
				return s, func(c, id string) (Document, error) {
					return s.Get(context.Background(), c, id)
				}
			},
		},
	}
}

func TestStoreContract_InsertReturnsDocument(t *testing.T) {
	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			store, get := b.open(t)
			ctx := context.Background()

			doc := Document{"id": "abc", "content": "hello", "time": "2025-01-01T00:00:00Z"}
			got, err := store.Insert(ctx, "microblog", "abc", doc)
			require.NoError(t, err)
			assert.Equal(t, "hello", got["content"])

			stored, err := get("microblog", "abc")
			require.NoError(t, err)
			assert.Equal(t, "hello", stored["content"])
			assert.Equal(t, "2025-01-01T00:00:00Z", stored["time"])
		})
	}
}

func TestStoreContract_InsertOverwrites(t *testing.T) {
	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			store, get := b.open(t)
			ctx := context.Background()

			_, err := store.Insert(ctx, "location", "latest", Document{"city": "Chicago", "region": "Illinois"})
			require.NoError(t, err)
			_, err = store.Insert(ctx, "location", "latest", Document{"city": "Austin"})
			require.NoError(t, err)

			stored, err := get("location", "latest")
			require.NoError(t, err)
			assert.Equal(t, "Austin", stored["city"])
			_, hasRegion := stored["region"]
			assert.False(t, hasRegion, "overwrite must replace, not merge")
		})
	}
}

func TestStoreContract_NestedDocument(t *testing.T) {
	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			store, get := b.open(t)

			_, err := store.Insert(context.Background(), "location", "latest", Document{
				"city": "Austin",
				"time": map[string]any{"utc": "2025-03-01T12:30:00Z"},
			})
			require.NoError(t, err)

			stored, err := get("location", "latest")
			require.NoError(t, err)
			ts, ok := stored["time"].(map[string]any)
			require.True(t, ok, "expected nested map, got %T", stored["time"])
			assert.Equal(t, "2025-03-01T12:30:00Z", ts["utc"])
		})
	}
}

func TestStoreContract_Delete(t *testing.T) {
	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			store, get := b.open(t)
			ctx := context.Background()

			_, err := store.Insert(ctx, "location", "latest", Document{"city": "Austin"})
			require.NoError(t, err)
			require.NoError(t, store.Delete(ctx, "location", "latest"))

			_, err = get("location", "latest")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestStoreContract_DeleteMissingReportsNotFound(t *testing.T) {
	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			store, _ := b.open(t)

			err := store.Delete(context.Background(), "location", "latest")
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrNotFound)

			var storeErr *StoreError
			require.True(t, errors.As(err, &storeErr))
			assert.Equal(t, OpDelete, storeErr.Op)
			assert.Equal(t, "location", storeErr.Collection)
			assert.Equal(t, "latest", storeErr.ID)
		})
	}
}

func TestStoreContract_CollectionsAreIsolated(t *testing.T) {
	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			store, get := b.open(t)
			ctx := context.Background()

			_, err := store.Insert(ctx, "microblog", "latest", Document{"content": "not a location"})
			require.NoError(t, err)

			_, err = get("location", "latest")
			assert.ErrorIs(t, err, ErrNotFound)

			err = store.Delete(ctx, "location", "latest")
			assert.ErrorIs(t, err, ErrNotFound)

			_, err = get("microblog", "latest")
			assert.NoError(t, err)
		})
	}
}

func TestOpen_UnknownBackend(t *testing.T) {
	_, err := Open(context.Background(), Options{Backend: "dynamo"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown backend")
}

func TestOpen_Memory(t *testing.T) {
	store, err := Open(context.Background(), Options{Backend: BackendMemory})
	require.NoError(t, err)
	defer store.Close()

	_, ok := store.(*MemoryStore)
	assert.True(t, ok, "expected *MemoryStore, got %T", store)
}

func TestOpen_SQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "adot.db")
	store, err := Open(context.Background(), Options{Backend: BackendSQLite, SQLite: SQLiteOptions{Path: path}})
	require.NoError(t, err)
	defer store.Close()

	_, ok := store.(*SQLiteStore)
	assert.True(t, ok, "expected *SQLiteStore, got %T", store)
}

func TestOpen_FirestoreRequiresProject(t *testing.T) {
	_, err := Open(context.Background(), Options{Backend: BackendFirestore})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "project id")
}

func TestOpen_MongoRequiresURI(t *testing.T) {
	_, err := Open(context.Background(), Options{Backend: BackendMongo})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mongo uri")
}

func TestOpen_S3RequiresEndpointAndBucket(t *testing.T) {
	_, err := Open(context.Background(), Options{Backend: BackendS3})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "endpoint")

	_, err = Open(context.Background(), Options{Backend: BackendS3, S3: S3Options{Endpoint: "localhost:9000"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bucket")
}

func TestBackends(t *testing.T) {
	names := Backends()
	assert.Equal(t, []string{"charm", "firestore", "memory", "mongo", "redis", "s3", "sqlite"}, names)
}

func TestStoreError(t *testing.T) {
	err := &StoreError{Op: OpInsert, Collection: "microblog", ID: "abc", Err: errors.New("boom")}
	assert.Equal(t, "insert microblog/abc: boom", err.Error())

	wrapped := &StoreError{Op: OpDelete, Collection: "location", ID: "latest", Err: ErrNotFound}
	assert.ErrorIs(t, wrapped, ErrNotFound)
}

func TestObjectName(t *testing.T) {
	assert.Equal(t, "location/latest.json", objectName("location", "latest"))
	assert.Equal(t, "microblog/0b9f.json", objectName("microblog", "0b9f"))
}

func TestMemoryStore_InsertCopies(t *testing.T) {
	store := NewMemoryStore()
	doc := Document{"city": "Austin"}

	_, err := store.Insert(context.Background(), "location", "latest", doc)
	require.NoError(t, err)
	doc["city"] = "Chicago"

	stored, ok := store.Get("location", "latest")
	require.True(t, ok)
	assert.Equal(t, "Austin", stored["city"])
	assert.Equal(t, 1, store.Len("location"))
}

func TestMemoryStore_ReturnedDocumentsAreCopies(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	inserted, err := store.Insert(ctx, "location", "latest", Document{
		"city": "Austin",
		"time": map[string]any{"utc": "2025-01-01T00:00:00Z"},
	})
	require.NoError(t, err)
	inserted["city"] = "Mutated"
	inserted["time"].(map[string]any)["utc"] = "mutated"

	got, ok := store.Get("location", "latest")
	require.True(t, ok)
	assert.Equal(t, "Austin", got["city"])
	got["city"] = "Mutated again"

	again, ok := store.Get("location", "latest")
	require.True(t, ok)
	assert.Equal(t, "Austin", again["city"])
	assert.Equal(t, "2025-01-01T00:00:00Z", again["time"].(map[string]any)["utc"])
}
