// ABOUTME: S3-compatible object storage document store (MinIO client)
// ABOUTME: Each document is a JSON object at <collection>/<id>.json in one bucket

package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// S3Options configures the s3 backend.
type S3Options struct {
	Endpoint  string
	Bucket    string
	AccessKey string
	SecretKey string
	UseSSL    bool
}

// S3Store implements DocumentStore on an S3-compatible bucket.
type S3Store struct {
	client *minio.Client
	bucket string
}

// Compile-time check that S3Store implements DocumentStore.
var _ DocumentStore = (*S3Store)(nil)

// NewS3Store creates a client for the bucket. The bucket must already exist.
func NewS3Store(_ context.Context, opts S3Options) (*S3Store, error) {
	if opts.Endpoint == "" {
		return nil, fmt.Errorf("s3 endpoint is empty")
	}
	if opts.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket is empty")
	}
	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("s3 client: %w", err)
	}
	return &S3Store{client: client, bucket: opts.Bucket}, nil
}

// objectName returns the object key for a document.
func objectName(collection, id string) string {
	return path.Join(collection, id+".json")
}

// Insert uploads the document, replacing any existing object.
func (s *S3Store) Insert(ctx context.Context, collection, id string, doc Document) (Document, error) {
	b, err := json.Marshal(doc)
	if err != nil {
		return nil, storeErr(OpInsert, collection, id, fmt.Errorf("marshal document: %w", err))
	}
	_, err = s.client.PutObject(ctx, s.bucket, objectName(collection, id), bytes.NewReader(b), int64(len(b)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return nil, storeErr(OpInsert, collection, id, err)
	}
	return doc, nil
}

// Delete removes the object. S3 deletes are idempotent, so a missing object
// is not reported.
func (s *S3Store) Delete(ctx context.Context, collection, id string) error {
	err := s.client.RemoveObject(ctx, s.bucket, objectName(collection, id), minio.RemoveObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return storeErr(OpDelete, collection, id, ErrNotFound)
		}
		return storeErr(OpDelete, collection, id, err)
	}
	return nil
}

// Close is a no-op; the MinIO client holds no persistent connection.
func (s *S3Store) Close() error {
	return nil
}
