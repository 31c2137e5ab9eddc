package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/redis/go-redis/v9"
)

// record is any entity persisted by a recordStore.
type record interface {
	recordID() string
}

var errValueTooLarge = errors.New("serialized collection exceeds size limit")

// recordStore persists one named collection of records as a single JSON
// array under a Redis key, newest-first. Reads are fail-open: a missing or
// corrupt value is treated as an empty collection, with corruption logged
// rather than silently swallowed. Writes rewrite the whole collection and
// are serialized per store so concurrent mutations cannot lose updates.
type recordStore[T record] struct {
	rdb      *redis.Client
	key      string
	maxBytes int
	logger   *slog.Logger

	// shrink, when set, returns a reduced copy of a record with any large
	// payload stripped. Add falls back to it when the collection would
	// exceed the size limit.
	shrink func(T) (T, bool)

	mu sync.Mutex
}

func newRecordStore[T record](rdb *redis.Client, key string, maxBytes int, logger *slog.Logger) *recordStore[T] {
	return &recordStore[T]{rdb: rdb, key: key, maxBytes: maxBytes, logger: logger}
}

// List returns the full collection, newest-first. Never fails: absent or
// unreadable state yields an empty slice.
func (s *recordStore[T]) List(ctx context.Context) []T {
	data, err := s.rdb.Get(ctx, s.key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.Warn("record store read failed", slog.String("key", s.key), slog.Any("error", err))
		}
		return []T{}
	}

	var records []T
	if err := json.Unmarshal(data, &records); err != nil {
		s.logger.Warn("record store holds corrupt data, treating as empty",
			slog.String("key", s.key), slog.Any("error", err))
		return []T{}
	}
	return records
}

// Add prepends a record and persists the collection. If the serialized
// collection exceeds the size limit and a shrink hook is configured, the
// add is retried once with the record's large payload stripped; the error
// is only returned when that retry also fails.
func (s *recordStore[T]) Add(ctx context.Context, rec T) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing := s.List(ctx)

	if err := s.persist(ctx, append([]T{rec}, existing...)); err != nil {
		if errors.Is(err, errValueTooLarge) && s.shrink != nil {
			if reduced, ok := s.shrink(rec); ok {
				if retryErr := s.persist(ctx, append([]T{reduced}, existing...)); retryErr == nil {
					return reduced, nil
				}
			}
			var zero T
			return zero, fmt.Errorf("%w: %s", ErrStorageFull, s.key)
		}
		var zero T
		return zero, err
	}
	return rec, nil
}

// Delete removes the record with the given id. Unknown ids are a no-op.
func (s *recordStore[T]) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.List(ctx)
	kept := make([]T, 0, len(records))
	for _, r := range records {
		if r.recordID() != id {
			kept = append(kept, r)
		}
	}
	return s.persist(ctx, kept)
}

// Update applies fn to the record with the given id and persists the
// collection, leaving every other record and the order untouched.
func (s *recordStore[T]) Update(ctx context.Context, id string, fn func(T) (T, error)) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero T
	records := s.List(ctx)
	for i, r := range records {
		if r.recordID() != id {
			continue
		}
		updated, err := fn(r)
		if err != nil {
			return zero, err
		}
		records[i] = updated
		if err := s.persist(ctx, records); err != nil {
			return zero, err
		}
		return updated, nil
	}
	return zero, ErrNotFound
}

func (s *recordStore[T]) persist(ctx context.Context, records []T) error {
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("marshaling %s collection: %w", s.key, err)
	}
	if s.maxBytes > 0 && len(data) > s.maxBytes {
		return fmt.Errorf("%w: %s is %d bytes", errValueTooLarge, s.key, len(data))
	}
	if err := s.rdb.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("persisting %s collection: %w", s.key, err)
	}
	return nil
}
