// Package redis keeps availability records in Redis.
package redis

import (
	"context"
	"errors"

	"github.com/go-redis/redis/v8"

	"bettercorq/internal/domain"
)

// DefaultPrefix namespaces record keys in a shared Redis database.
const DefaultPrefix = "bettercorq:"

type recordStore struct {
	client *redis.Client
	prefix string
}

// NewClient returns a client for addr. It does not dial until the first command.
func NewClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

// NewRecordStore returns a RecordStore that keeps each record under prefix+key. Records
// never expire.
func NewRecordStore(client *redis.Client, prefix string) domain.RecordStore {
	return &recordStore{client: client, prefix: prefix}
}

func (s *recordStore) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

func (s *recordStore) Put(ctx context.Context, key string, value []byte) error {
	return s.client.Set(ctx, s.prefix+key, value, 0).Err()
}

func (s *recordStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = s.prefix + k
	}
	return s.client.Del(ctx, full...).Err()
}
