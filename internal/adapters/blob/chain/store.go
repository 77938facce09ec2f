package chain

import (
	"context"
	"errors"
	"fmt"

	filestore "github.com/bnema/tradedesk/internal/adapters/blob/file"
	passstore "github.com/bnema/tradedesk/internal/adapters/blob/pass"
	"github.com/bnema/tradedesk/internal/domain"
	"github.com/bnema/tradedesk/internal/ports"
)

// Store keeps the session snapshot in primary and only writes fallback while
// primary is failing. At most one backend holds a given key once primary
// recovers: a successful primary write drops the fallback copy, and a read
// that only finds the fallback copy moves it into primary.
type Store struct {
	primary  ports.BlobStore
	fallback ports.BlobStore
}

var _ ports.BlobStore = (*Store)(nil)

var (
	errNilPrimaryStore  = errors.New("primary blob store is nil")
	errNilFallbackStore = errors.New("fallback blob store is nil")
)

func NewStore(primary ports.BlobStore, fallback ports.BlobStore) (*Store, error) {
	if primary == nil {
		return nil, errNilPrimaryStore
	}
	if fallback == nil {
		return nil, errNilFallbackStore
	}

	return &Store{primary: primary, fallback: fallback}, nil
}

// NewPassFirstWithFileFallback keeps snapshots in pass and spills to files
// under fileRoot when pass is unavailable.
func NewPassFirstWithFileFallback(fileRoot string) (*Store, error) {
	return NewStore(passstore.NewStore(), filestore.NewStore(fileRoot))
}

func (s *Store) Put(ctx context.Context, key string, value []byte) error {
	err := s.primary.Put(ctx, key, value)
	if err == nil {
		// Best effort: a stale copy is dropped again on the next write or read.
		_ = s.fallback.Delete(ctx, key)
		return nil
	}
	if isContextErr(err) {
		return err
	}

	fallbackErr := s.fallback.Put(ctx, key, value)
	if fallbackErr == nil {
		return nil
	}

	return fmt.Errorf("primary backend put failed: %w; fallback backend put failed: %w", err, fallbackErr)
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := s.primary.Get(ctx, key)
	if err == nil {
		return value, nil
	}
	if isContextErr(err) {
		return nil, err
	}

	fallbackValue, fallbackErr := s.fallback.Get(ctx, key)
	if fallbackErr != nil {
		return nil, fmt.Errorf("primary backend get failed: %w; fallback backend get failed: %w", err, fallbackErr)
	}

	if errors.Is(err, domain.ErrBlobNotFound) {
		s.promote(ctx, key, fallbackValue)
	}

	return fallbackValue, nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	primaryErr := s.primary.Delete(ctx, key)
	if isContextErr(primaryErr) {
		return primaryErr
	}

	fallbackErr := s.fallback.Delete(ctx, key)
	if primaryErr != nil && fallbackErr != nil {
		return fmt.Errorf("primary backend delete failed: %w; fallback backend delete failed: %w", primaryErr, fallbackErr)
	}

	return nil
}

// promote copies a blob written during a primary outage back into primary.
// The fallback copy is kept when the copy fails.
func (s *Store) promote(ctx context.Context, key string, value []byte) {
	if err := s.primary.Put(ctx, key, value); err != nil {
		return
	}
	_ = s.fallback.Delete(ctx, key)
}

func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
