package port

import "context"

type BlobStore interface {
	// Get returns the stored document, or nil with no error when the key is absent
	Get(ctx context.Context, key string) ([]byte, error)

	// Set overwrites the document stored under key
	Set(ctx context.Context, key string, blob []byte) error
}
