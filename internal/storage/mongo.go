// ABOUTME: MongoDB document store implementation
// ABOUTME: One Mongo collection per store collection, document id kept in _id

package storage

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoOptions configures the mongo backend.
type MongoOptions struct {
	URI      string
	Database string
	// Timeout bounds the initial connect and ping. Defaults to 10s.
	Timeout time.Duration
}

// MongoStore implements DocumentStore on MongoDB.
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
}

// Compile-time check that MongoStore implements DocumentStore.
var _ DocumentStore = (*MongoStore)(nil)

// NewMongoStore connects and pings the server. Caller should call Close.
func NewMongoStore(ctx context.Context, opts MongoOptions) (*MongoStore, error) {
	if opts.URI == "" {
		return nil, fmt.Errorf("mongo uri is empty")
	}
	if opts.Database == "" {
		return nil, fmt.Errorf("mongo database is empty")
	}
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(opts.URI))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return &MongoStore{client: client, db: client.Database(opts.Database)}, nil
}

// Insert replaces the document with _id == id, creating it if absent.
func (m *MongoStore) Insert(ctx context.Context, collection, id string, doc Document) (Document, error) {
	replacement := bson.M{"_id": id}
	for k, v := range doc {
		replacement[k] = v
	}
	_, err := m.db.Collection(collection).ReplaceOne(ctx, bson.M{"_id": id}, replacement, options.Replace().SetUpsert(true))
	if err != nil {
		return nil, storeErr(OpInsert, collection, id, err)
	}
	return doc, nil
}

// Delete removes the document, reporting ErrNotFound if nothing matched.
func (m *MongoStore) Delete(ctx context.Context, collection, id string) error {
	res, err := m.db.Collection(collection).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return storeErr(OpDelete, collection, id, err)
	}
	if res.DeletedCount == 0 {
		return storeErr(OpDelete, collection, id, ErrNotFound)
	}
	return nil
}

// Close disconnects from the server.
func (m *MongoStore) Close() error {
	return m.client.Disconnect(context.Background())
}
