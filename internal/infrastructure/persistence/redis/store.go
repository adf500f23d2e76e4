package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/alem-hub/petquest/internal/domain/player"
	"github.com/alem-hub/petquest/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// RECORD STORE
// All records live in one hash: field = user id, value = JSON record in the
// same shape as the file store. Save replaces the hash inside MULTI/EXEC so
// readers never see a half-written collection.
// ══════════════════════════════════════════════════════════════════════════════

// Store implements player.Store and player.Locker on Redis.
type Store struct {
	client redis.UniversalClient
	key    string
	lock   *Lock
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithKey overrides the hash key holding the records.
func WithKey(key string) StoreOption {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

// WithLock overrides the lock used by Lock.
func WithLock(l *Lock) StoreOption {
	return func(s *Store) {
		s.lock = l
	}
}

// NewStore creates a Store on client.
func NewStore(client redis.UniversalClient, opts ...StoreOption) *Store {
	s := &Store{
		client: client,
		key:    DefaultRecordsKey,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.lock == nil {
		s.lock = NewLock(client, LockKey(s.key), TTLDistributedLock)
	}
	return s
}

// Load reads the whole collection. A missing hash loads as empty.
func (s *Store) Load(ctx context.Context) (player.Records, error) {
	raw, err := s.client.HGetAll(ctx, s.key).Result()
	if err != nil {
		return nil, shared.StorageError("Load", err)
	}

	records := make(player.Records, len(raw))
	for userID, data := range raw {
		var rec player.Record
		if err := json.Unmarshal([]byte(data), &rec); err != nil {
			return nil, shared.StorageError("Load", fmt.Errorf("%w: user %s: %v", ErrSerialization, userID, err))
		}
		records[userID] = &rec
	}
	return records, nil
}

// Save replaces the stored collection with records.
func (s *Store) Save(ctx context.Context, records player.Records) error {
	values := make([]interface{}, 0, len(records)*2)
	for userID, rec := range records {
		if rec == nil {
			continue
		}
		data, err := json.Marshal(rec)
		if err != nil {
			return shared.StorageError("Save", fmt.Errorf("%w: user %s: %v", ErrSerialization, userID, err))
		}
		values = append(values, userID, data)
	}

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.key)
		if len(values) > 0 {
			pipe.HSet(ctx, s.key, values...)
		}
		return nil
	})
	if err != nil {
		return shared.StorageError("Save", err)
	}
	return nil
}

// Lock acquires the collection's write lock.
func (s *Store) Lock(ctx context.Context) (func(context.Context) error, error) {
	return s.lock.Acquire(ctx)
}

// Ping checks if Redis is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
