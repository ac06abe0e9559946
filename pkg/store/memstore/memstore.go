// Package memstore implements the store contract with in-process maps and
// slices. Intended for tests and examples; atomicity holds only inside the
// owning process.
package memstore

import (
	"bytes"
	"context"
	"sync"

	"github.com/sealkv/sealkv/pkg/store"
)

// Store is an in-memory store.Store implementation.
type Store struct {
	mu      sync.RWMutex
	scalars map[string][]byte
	hashes  map[string]map[string][]byte
	lists   map[string][][]byte
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		scalars: make(map[string][]byte),
		hashes:  make(map[string]map[string][]byte),
		lists:   make(map[string][][]byte),
	}
}

var _ store.Store = (*Store)(nil)

func clone(b []byte) []byte {
	return append([]byte(nil), b...)
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.scalars[key]
	if !ok {
		return nil, false, nil
	}
	return clone(v), true, nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.scalars[key] = clone(value)
	return nil
}

func (s *Store) Del(ctx context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, sOK := s.scalars[key]
	_, hOK := s.hashes[key]
	_, lOK := s.lists[key]
	delete(s.scalars, key)
	delete(s.hashes, key)
	delete(s.lists, key)
	return sOK || hOK || lOK, nil
}

func (s *Store) HGet(ctx context.Context, key, field string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.hashes[key][field]
	if !ok {
		return nil, false, nil
	}
	return clone(v), true, nil
}

func (s *Store) HSet(ctx context.Context, key, field string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	h, ok := s.hashes[key]
	if !ok {
		h = make(map[string][]byte)
		s.hashes[key] = h
	}
	h[field] = clone(value)
	return nil
}

func (s *Store) HDel(ctx context.Context, key, field string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	h, ok := s.hashes[key]
	if !ok {
		return 0, nil
	}
	if _, ok := h[field]; !ok {
		return 0, nil
	}
	delete(h, field)
	if len(h) == 0 {
		delete(s.hashes, key)
	}
	return 1, nil
}

func (s *Store) HKeys(ctx context.Context, key string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	h := s.hashes[key]
	fields := make([]string, 0, len(h))
	for f := range h {
		fields = append(fields, f)
	}
	return fields, nil
}

func (s *Store) HLen(ctx context.Context, key string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return int64(len(s.hashes[key])), nil
}

func (s *Store) RPush(ctx context.Context, key string, value []byte) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lists[key] = append(s.lists[key], clone(value))
	return int64(len(s.lists[key])), nil
}

func (s *Store) LPush(ctx context.Context, key string, value []byte) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lists[key] = append([][]byte{clone(value)}, s.lists[key]...)
	return int64(len(s.lists[key])), nil
}

func (s *Store) RPop(ctx context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l := s.lists[key]
	if len(l) == 0 {
		return nil, false, nil
	}
	v := l[len(l)-1]
	if len(l) == 1 {
		delete(s.lists, key)
	} else {
		s.lists[key] = l[:len(l)-1]
	}
	return v, true, nil
}

func (s *Store) LPop(ctx context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l := s.lists[key]
	if len(l) == 0 {
		return nil, false, nil
	}
	v := l[0]
	if len(l) == 1 {
		delete(s.lists, key)
	} else {
		s.lists[key] = l[1:]
	}
	return v, true, nil
}

func (s *Store) LLen(ctx context.Context, key string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return int64(len(s.lists[key])), nil
}

func (s *Store) LIndex(ctx context.Context, key string, index int64) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l := s.lists[key]
	i, ok := normalize(index, int64(len(l)))
	if !ok {
		return nil, false, nil
	}
	return clone(l[i]), true, nil
}

func (s *Store) LSet(ctx context.Context, key string, index int64, value []byte) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l := s.lists[key]
	i, ok := normalize(index, int64(len(l)))
	if !ok {
		return false, nil
	}
	l[i] = clone(value)
	return true, nil
}

func (s *Store) LRem(ctx context.Context, key string, count int64, value []byte) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l := s.lists[key]
	if len(l) == 0 {
		return 0, nil
	}

	limit := count
	if limit < 0 {
		limit = -limit
	}

	var removed int64
	keep := make([][]byte, 0, len(l))

	if count >= 0 {
		for _, v := range l {
			if (count == 0 || removed < limit) && bytes.Equal(v, value) {
				removed++
				continue
			}
			keep = append(keep, v)
		}
	} else {
		for i := len(l) - 1; i >= 0; i-- {
			if removed < limit && bytes.Equal(l[i], value) {
				removed++
				continue
			}
			keep = append([][]byte{l[i]}, keep...)
		}
	}

	if len(keep) == 0 {
		delete(s.lists, key)
	} else {
		s.lists[key] = keep
	}
	return removed, nil
}

// normalize maps a possibly negative index onto [0, n), reporting whether
// it lands inside the list.
func normalize(index, n int64) (int64, bool) {
	if index < 0 {
		index += n
	}
	if index < 0 || index >= n {
		return 0, false
	}
	return index, true
}
