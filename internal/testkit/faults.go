package testkit

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/sealkv/sealkv/pkg/store"
)

var ErrInjectedFault = errors.New("injected fault")

// FaultStore wraps a store.Store and starts failing every call after a
// set number of successful ones, for exercising error propagation in the
// adapters.
type FaultStore struct {
	inner store.Store
	limit int64
	calls atomic.Int64
	err   error
}

// NewFaultStore returns a store that injects err (ErrInjectedFault when
// nil) once limit calls have gone through.
func NewFaultStore(inner store.Store, limit int64, err error) *FaultStore {
	if err == nil {
		err = ErrInjectedFault
	}
	return &FaultStore{
		inner: inner,
		limit: limit,
		err:   err,
	}
}

func (f *FaultStore) tripped() bool {
	return f.calls.Add(1) > f.limit
}

func (f *FaultStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if f.tripped() {
		return nil, false, f.err
	}
	return f.inner.Get(ctx, key)
}

func (f *FaultStore) Set(ctx context.Context, key string, value []byte) error {
	if f.tripped() {
		return f.err
	}
	return f.inner.Set(ctx, key, value)
}

func (f *FaultStore) Del(ctx context.Context, key string) (bool, error) {
	if f.tripped() {
		return false, f.err
	}
	return f.inner.Del(ctx, key)
}

func (f *FaultStore) HGet(ctx context.Context, key, field string) ([]byte, bool, error) {
	if f.tripped() {
		return nil, false, f.err
	}
	return f.inner.HGet(ctx, key, field)
}

func (f *FaultStore) HSet(ctx context.Context, key, field string, value []byte) error {
	if f.tripped() {
		return f.err
	}
	return f.inner.HSet(ctx, key, field, value)
}

func (f *FaultStore) HDel(ctx context.Context, key, field string) (int64, error) {
	if f.tripped() {
		return 0, f.err
	}
	return f.inner.HDel(ctx, key, field)
}

func (f *FaultStore) HKeys(ctx context.Context, key string) ([]string, error) {
	if f.tripped() {
		return nil, f.err
	}
	return f.inner.HKeys(ctx, key)
}

func (f *FaultStore) HLen(ctx context.Context, key string) (int64, error) {
	if f.tripped() {
		return 0, f.err
	}
	return f.inner.HLen(ctx, key)
}

func (f *FaultStore) RPush(ctx context.Context, key string, value []byte) (int64, error) {
	if f.tripped() {
		return 0, f.err
	}
	return f.inner.RPush(ctx, key, value)
}

func (f *FaultStore) LPush(ctx context.Context, key string, value []byte) (int64, error) {
	if f.tripped() {
		return 0, f.err
	}
	return f.inner.LPush(ctx, key, value)
}

func (f *FaultStore) RPop(ctx context.Context, key string) ([]byte, bool, error) {
	if f.tripped() {
		return nil, false, f.err
	}
	return f.inner.RPop(ctx, key)
}

func (f *FaultStore) LPop(ctx context.Context, key string) ([]byte, bool, error) {
	if f.tripped() {
		return nil, false, f.err
	}
	return f.inner.LPop(ctx, key)
}

func (f *FaultStore) LLen(ctx context.Context, key string) (int64, error) {
	if f.tripped() {
		return 0, f.err
	}
	return f.inner.LLen(ctx, key)
}

func (f *FaultStore) LIndex(ctx context.Context, key string, index int64) ([]byte, bool, error) {
	if f.tripped() {
		return nil, false, f.err
	}
	return f.inner.LIndex(ctx, key, index)
}

func (f *FaultStore) LSet(ctx context.Context, key string, index int64, value []byte) (bool, error) {
	if f.tripped() {
		return false, f.err
	}
	return f.inner.LSet(ctx, key, index, value)
}

func (f *FaultStore) LRem(ctx context.Context, key string, count int64, value []byte) (int64, error) {
	if f.tripped() {
		return 0, f.err
	}
	return f.inner.LRem(ctx, key, count, value)
}
