// ABOUTME: Cloud Firestore document store implementation
// ABOUTME: Credentials are passed to the client constructor, never staged in the environment

package storage

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FirestoreOptions configures the firestore backend.
type FirestoreOptions struct {
	ProjectID string
	// CredentialsFile is the path to a service-account JSON key.
	CredentialsFile string
}

// FirestoreStore implements DocumentStore on Cloud Firestore.
type FirestoreStore struct {
	client *firestore.Client
}

// Compile-time check that FirestoreStore implements DocumentStore.
var _ DocumentStore = (*FirestoreStore)(nil)

// NewFirestoreStore creates a Firestore client for the project.
func NewFirestoreStore(ctx context.Context, opts FirestoreOptions) (*FirestoreStore, error) {
	if opts.ProjectID == "" {
		return nil, fmt.Errorf("firestore project id is empty")
	}

	var clientOpts []option.ClientOption
	if opts.CredentialsFile != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(opts.CredentialsFile))
	}

	client, err := firestore.NewClient(ctx, opts.ProjectID, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("firestore client: %w", err)
	}
	return &FirestoreStore{client: client}, nil
}

// Insert sets the document, overwriting any existing one with the same id.
func (f *FirestoreStore) Insert(ctx context.Context, collection, id string, doc Document) (Document, error) {
	if _, err := f.client.Collection(collection).Doc(id).Set(ctx, map[string]any(doc)); err != nil {
		return nil, storeErr(OpInsert, collection, id, err)
	}
	return doc, nil
}

// Delete removes the document. The Exists precondition makes Firestore
// report a missing document instead of silently succeeding.
func (f *FirestoreStore) Delete(ctx context.Context, collection, id string) error {
	_, err := f.client.Collection(collection).Doc(id).Delete(ctx, firestore.Exists)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return storeErr(OpDelete, collection, id, ErrNotFound)
		}
		return storeErr(OpDelete, collection, id, err)
	}
	return nil
}

// Close releases the client's connections.
func (f *FirestoreStore) Close() error {
	return f.client.Close()
}
