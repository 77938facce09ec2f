package ports

import "context"

// BlobStore is an opaque durable key-value store. Get returns an error
// wrapping domain.ErrBlobNotFound when key is absent.
type BlobStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
