// Package store defines the primitive command surface the collection
// adapters require from a remote key-value/list service. Every value is an
// opaque byte string and every call is individually atomic; nothing here
// provides transactions across calls.
package store

import (
	"context"
)

// Store is the boundary with the remote service. Reads that may find
// nothing return (value, ok, error) with ok=false for absence; an error is
// reserved for transport or backend failures.
//
// List indices are zero-based from the head; negative indices count from
// the tail. LRem follows the native count convention: count>0 removes
// head-to-tail, count<0 tail-to-head, count==0 removes all matches.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Del(ctx context.Context, key string) (bool, error)

	HGet(ctx context.Context, key, field string) ([]byte, bool, error)
	HSet(ctx context.Context, key, field string, value []byte) error
	HDel(ctx context.Context, key, field string) (int64, error)
	HKeys(ctx context.Context, key string) ([]string, error)
	HLen(ctx context.Context, key string) (int64, error)

	RPush(ctx context.Context, key string, value []byte) (int64, error)
	LPush(ctx context.Context, key string, value []byte) (int64, error)
	RPop(ctx context.Context, key string) ([]byte, bool, error)
	LPop(ctx context.Context, key string) ([]byte, bool, error)
	LLen(ctx context.Context, key string) (int64, error)
	LIndex(ctx context.Context, key string, index int64) ([]byte, bool, error)
	// LSet overwrites the element at index. ok=false when the key or the
	// position does not exist.
	LSet(ctx context.Context, key string, index int64, value []byte) (bool, error)
	LRem(ctx context.Context, key string, count int64, value []byte) (int64, error)
}
