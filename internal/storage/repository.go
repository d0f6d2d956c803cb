// ABOUTME: Document store interface and backend factory
// ABOUTME: Enables testability and storage backend swapping

package storage

import (
	"context"
	"fmt"
	"sort"
)

// Document is a schemaless record addressed by collection and id.
type Document map[string]any

// DocumentStore is the capability every backend provides.
//
// Insert writes doc under id and returns the stored document. Existing ids
// are overwritten. Delete removes the document; a missing document is
// reported as an error wrapping ErrNotFound when the backend can tell.
type DocumentStore interface {
	Insert(ctx context.Context, collection, id string, doc Document) (Document, error)
	Delete(ctx context.Context, collection, id string) error
	Close() error
}

// Backend names accepted by Open.
const (
	BackendFirestore = "firestore"
	BackendMongo     = "mongo"
	BackendRedis     = "redis"
	BackendSQLite    = "sqlite"
	BackendCharm     = "charm"
	BackendS3        = "s3"
	BackendMemory    = "memory"
)

// Options selects and configures a backend. Only the section matching
// Backend is read.
type Options struct {
	Backend   string
	Firestore FirestoreOptions
	Mongo     MongoOptions
	Redis     RedisOptions
	SQLite    SQLiteOptions
	Charm     CharmOptions
	S3        S3Options
}

type opener func(ctx context.Context, opts Options) (DocumentStore, error)

var openers = map[string]opener{
	BackendFirestore: func(ctx context.Context, o Options) (DocumentStore, error) {
		return NewFirestoreStore(ctx, o.Firestore)
	},
	BackendMongo: func(ctx context.Context, o Options) (DocumentStore, error) {
		return NewMongoStore(ctx, o.Mongo)
	},
	BackendRedis: func(ctx context.Context, o Options) (DocumentStore, error) {
		return NewRedisStore(ctx, o.Redis)
	},
	BackendSQLite: func(_ context.Context, o Options) (DocumentStore, error) {
		return NewSQLiteStore(o.SQLite.Path)
	},
	BackendCharm: func(_ context.Context, o Options) (DocumentStore, error) {
		return NewCharmStore(o.Charm)
	},
	BackendS3: func(ctx context.Context, o Options) (DocumentStore, error) {
		return NewS3Store(ctx, o.S3)
	},
	BackendMemory: func(context.Context, Options) (DocumentStore, error) {
		return NewMemoryStore(), nil
	},
}

// Backends returns the supported backend names, sorted.
func Backends() []string {
	names := make([]string, 0, len(openers))
	for name := range openers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Open constructs the backend named by opts.Backend.
func Open(ctx context.Context, opts Options) (DocumentStore, error) {
	open, ok := openers[opts.Backend]
	if !ok {
		return nil, fmt.Errorf("unknown backend: %q", opts.Backend)
	}
	store, err := open(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", opts.Backend, err)
	}
	return store, nil
}
