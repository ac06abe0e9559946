// Package redisstore implements the store contract over a Redis server
// using go-redis. Each method is one Redis command, so the backend's
// per-command atomicity carries straight through.
package redisstore

import (
	"context"
	"errors"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/sealkv/sealkv/pkg/store"
)

// Store is a Redis-backed store.Store implementation.
type Store struct {
	rdb *redis.Client
}

// New wraps an existing client. The caller keeps ownership of it.
func New(rdb *redis.Client) *Store {
	return &Store{rdb: rdb}
}

// NewFromURL connects using a redis:// URL.
func NewFromURL(url string) (*Store, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return New(redis.NewClient(opts)), nil
}

var _ store.Store = (*Store)(nil)

// Close releases the underlying client's connections.
func (s *Store) Close() error {
	return s.rdb.Close()
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	v, err := s.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	return s.rdb.Set(ctx, key, value, 0).Err()
}

func (s *Store) Del(ctx context.Context, key string) (bool, error) {
	n, err := s.rdb.Del(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *Store) HGet(ctx context.Context, key, field string) ([]byte, bool, error) {
	v, err := s.rdb.HGet(ctx, key, field).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

func (s *Store) HSet(ctx context.Context, key, field string, value []byte) error {
	return s.rdb.HSet(ctx, key, field, value).Err()
}

func (s *Store) HDel(ctx context.Context, key, field string) (int64, error) {
	return s.rdb.HDel(ctx, key, field).Result()
}

func (s *Store) HKeys(ctx context.Context, key string) ([]string, error) {
	return s.rdb.HKeys(ctx, key).Result()
}

func (s *Store) HLen(ctx context.Context, key string) (int64, error) {
	return s.rdb.HLen(ctx, key).Result()
}

func (s *Store) RPush(ctx context.Context, key string, value []byte) (int64, error) {
	return s.rdb.RPush(ctx, key, value).Result()
}

func (s *Store) LPush(ctx context.Context, key string, value []byte) (int64, error) {
	return s.rdb.LPush(ctx, key, value).Result()
}

func (s *Store) RPop(ctx context.Context, key string) ([]byte, bool, error) {
	v, err := s.rdb.RPop(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

func (s *Store) LPop(ctx context.Context, key string) ([]byte, bool, error) {
	v, err := s.rdb.LPop(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

func (s *Store) LLen(ctx context.Context, key string) (int64, error) {
	return s.rdb.LLen(ctx, key).Result()
}

func (s *Store) LIndex(ctx context.Context, key string, index int64) ([]byte, bool, error) {
	v, err := s.rdb.LIndex(ctx, key, index).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

func (s *Store) LSet(ctx context.Context, key string, index int64, value []byte) (bool, error) {
	err := s.rdb.LSet(ctx, key, index, value).Err()
	if err != nil {
		// Redis reports a bad position as an error, not a nil reply.
		msg := err.Error()
		if strings.Contains(msg, "index out of range") || strings.Contains(msg, "no such key") {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *Store) LRem(ctx context.Context, key string, count int64, value []byte) (int64, error) {
	return s.rdb.LRem(ctx, key, count, value).Result()
}
