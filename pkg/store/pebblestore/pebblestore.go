// Package pebblestore implements the store contract on an embedded Pebble
// database, for development and tests that want persistence without a
// server. Single-process only: atomicity comes from an internal mutex plus
// Pebble batches, so two processes must not open the same directory.
package pebblestore

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/cockroachdb/pebble"

	"github.com/sealkv/sealkv/pkg/core"
	"github.com/sealkv/sealkv/pkg/store"
)

var (
	prefixScalar   = []byte("s:")
	prefixHash     = []byte("h:")
	prefixList     = []byte("l:")
	prefixListMeta = []byte("m:")
)

// Store is a Pebble-backed store.Store implementation.
type Store struct {
	mu sync.Mutex
	db *pebble.DB
}

// Open opens (or creates) a store in the given directory.
func Open(dir string) (*Store, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("failed to open pebble db: %w", err)
	}
	return &Store{db: db}, nil
}

var _ store.Store = (*Store)(nil)

func (s *Store) Close() error {
	return s.db.Close()
}

// scalarKey is prefixScalar + key. Scalars are never iterated, so the key
// needs no length framing.
func scalarKey(key string) []byte {
	return append(append([]byte(nil), prefixScalar...), key...)
}

// hashPrefix length-frames the hash key so a field starting with the same
// bytes as another hash's key cannot collide.
func hashPrefix(key string) []byte {
	p := append([]byte(nil), prefixHash...)
	p = binary.AppendUvarint(p, uint64(len(key)))
	return append(p, key...)
}

func hashKey(key, field string) []byte {
	return append(hashPrefix(key), field...)
}

func listPrefix(key string) []byte {
	p := append([]byte(nil), prefixList...)
	p = binary.AppendUvarint(p, uint64(len(key)))
	return append(p, key...)
}

// listKey places seq after the framed list key. The sign bit is flipped so
// negative sequence numbers (left pushes) sort before positive ones.
func listKey(key string, seq int64) []byte {
	k := listPrefix(key)
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(seq)^(1<<63))
	return append(k, buf[:]...)
}

func listMetaKey(key string) []byte {
	return append(append([]byte(nil), prefixListMeta...), key...)
}

// upperBound returns the smallest key greater than every key with the
// given prefix.
func upperBound(prefix []byte) []byte {
	end := make([]byte, len(prefix))
	copy(end, prefix)
	for i := len(end) - 1; i >= 0; i-- {
		end[i]++
		if end[i] != 0 {
			return end[:i+1]
		}
	}
	return nil
}

func (s *Store) get(key []byte) ([]byte, bool, error) {
	val, closer, err := s.db.Get(key)
	if err != nil {
		if err == pebble.ErrNotFound {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer closer.Close()

	res := make([]byte, len(val))
	copy(res, val)
	return res, true, nil
}

// meta is the sequence window of a list: elements live at seqs
// [head, tail); the list is empty exactly when no meta record exists.
type meta struct {
	head int64
	tail int64
}

func (m meta) len() int64 { return m.tail - m.head }

func (s *Store) getMeta(key string) (meta, bool, error) {
	val, ok, err := s.get(listMetaKey(key))
	if err != nil || !ok {
		return meta{}, false, err
	}
	if len(val) != 16 {
		return meta{}, false, fmt.Errorf("%w: invalid list meta length", core.ErrCorrupt)
	}
	return meta{
		head: int64(binary.BigEndian.Uint64(val[:8])),
		tail: int64(binary.BigEndian.Uint64(val[8:])),
	}, true, nil
}

func putMeta(batch *pebble.Batch, key string, m meta) error {
	val := make([]byte, 16)
	binary.BigEndian.PutUint64(val[:8], uint64(m.head))
	binary.BigEndian.PutUint64(val[8:], uint64(m.tail))
	return batch.Set(listMetaKey(key), val, nil)
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.get(scalarKey(key))
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.db.Set(scalarKey(key), value, pebble.Sync)
}

func (s *Store) Del(ctx context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existed := false

	if _, ok, err := s.get(scalarKey(key)); err != nil {
		return false, err
	} else if ok {
		existed = true
	}
	if n, err := s.countPrefix(hashPrefix(key)); err != nil {
		return false, err
	} else if n > 0 {
		existed = true
	}
	if _, ok, err := s.getMeta(key); err != nil {
		return false, err
	} else if ok {
		existed = true
	}
	if !existed {
		return false, nil
	}

	batch := s.db.NewBatch()
	defer batch.Close()

	if err := batch.Delete(scalarKey(key), nil); err != nil {
		return false, err
	}
	hp := hashPrefix(key)
	if err := batch.DeleteRange(hp, upperBound(hp), nil); err != nil {
		return false, err
	}
	lp := listPrefix(key)
	if err := batch.DeleteRange(lp, upperBound(lp), nil); err != nil {
		return false, err
	}
	if err := batch.Delete(listMetaKey(key), nil); err != nil {
		return false, err
	}
	return true, batch.Commit(pebble.Sync)
}

func (s *Store) countPrefix(prefix []byte) (int64, error) {
	iter, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: prefix,
		UpperBound: upperBound(prefix),
	})
	if err != nil {
		return 0, err
	}
	defer iter.Close()

	var n int64
	for iter.First(); iter.Valid(); iter.Next() {
		n++
	}
	return n, iter.Error()
}

func (s *Store) HGet(ctx context.Context, key, field string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.get(hashKey(key, field))
}

func (s *Store) HSet(ctx context.Context, key, field string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.db.Set(hashKey(key, field), value, pebble.Sync)
}

func (s *Store) HDel(ctx context.Context, key, field string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := hashKey(key, field)
	if _, ok, err := s.get(k); err != nil {
		return 0, err
	} else if !ok {
		return 0, nil
	}
	if err := s.db.Delete(k, pebble.Sync); err != nil {
		return 0, err
	}
	return 1, nil
}

func (s *Store) HKeys(ctx context.Context, key string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prefix := hashPrefix(key)
	iter, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: prefix,
		UpperBound: upperBound(prefix),
	})
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var fields []string
	for iter.First(); iter.Valid(); iter.Next() {
		fields = append(fields, string(iter.Key()[len(prefix):]))
	}
	return fields, iter.Error()
}

func (s *Store) HLen(ctx context.Context, key string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.countPrefix(hashPrefix(key))
}

func (s *Store) RPush(ctx context.Context, key string, value []byte) (int64, error) {
	return s.push(key, value, false)
}

func (s *Store) LPush(ctx context.Context, key string, value []byte) (int64, error) {
	return s.push(key, value, true)
}

func (s *Store) push(key string, value []byte, left bool) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, _, err := s.getMeta(key)
	if err != nil {
		return 0, err
	}

	var seq int64
	if left {
		m.head--
		seq = m.head
	} else {
		seq = m.tail
		m.tail++
	}

	batch := s.db.NewBatch()
	defer batch.Close()

	if err := batch.Set(listKey(key, seq), value, nil); err != nil {
		return 0, err
	}
	if err := putMeta(batch, key, m); err != nil {
		return 0, err
	}
	if err := batch.Commit(pebble.Sync); err != nil {
		return 0, err
	}
	return m.len(), nil
}

func (s *Store) RPop(ctx context.Context, key string) ([]byte, bool, error) {
	return s.pop(key, false)
}

func (s *Store) LPop(ctx context.Context, key string) ([]byte, bool, error) {
	return s.pop(key, true)
}

func (s *Store) pop(key string, left bool) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok, err := s.getMeta(key)
	if err != nil || !ok {
		return nil, false, err
	}
	if m.len() == 0 {
		return nil, false, nil
	}

	var seq int64
	if left {
		seq = m.head
		m.head++
	} else {
		m.tail--
		seq = m.tail
	}

	val, ok, err := s.get(listKey(key, seq))
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, fmt.Errorf("%w: list element missing at seq %d", core.ErrCorrupt, seq)
	}

	batch := s.db.NewBatch()
	defer batch.Close()

	if err := batch.Delete(listKey(key, seq), nil); err != nil {
		return nil, false, err
	}
	if m.len() == 0 {
		if err := batch.Delete(listMetaKey(key), nil); err != nil {
			return nil, false, err
		}
	} else {
		if err := putMeta(batch, key, m); err != nil {
			return nil, false, err
		}
	}
	if err := batch.Commit(pebble.Sync); err != nil {
		return nil, false, err
	}
	return val, true, nil
}

func (s *Store) LLen(ctx context.Context, key string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, _, err := s.getMeta(key)
	if err != nil {
		return 0, err
	}
	return m.len(), nil
}

func (s *Store) LIndex(ctx context.Context, key string, index int64) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok, err := s.getMeta(key)
	if err != nil || !ok {
		return nil, false, err
	}
	i, ok := normalize(index, m.len())
	if !ok {
		return nil, false, nil
	}
	return s.get(listKey(key, m.head+i))
}

func (s *Store) LSet(ctx context.Context, key string, index int64, value []byte) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok, err := s.getMeta(key)
	if err != nil || !ok {
		return false, err
	}
	i, ok := normalize(index, m.len())
	if !ok {
		return false, nil
	}
	if err := s.db.Set(listKey(key, m.head+i), value, pebble.Sync); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) LRem(ctx context.Context, key string, count int64, value []byte) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok, err := s.getMeta(key)
	if err != nil || !ok {
		return 0, err
	}

	elems := make([][]byte, 0, m.len())
	for seq := m.head; seq < m.tail; seq++ {
		v, ok, err := s.get(listKey(key, seq))
		if err != nil {
			return 0, err
		}
		if !ok {
			return 0, fmt.Errorf("%w: list element missing at seq %d", core.ErrCorrupt, seq)
		}
		elems = append(elems, v)
	}

	limit := count
	if limit < 0 {
		limit = -limit
	}

	var removed int64
	keep := make([][]byte, 0, len(elems))
	if count >= 0 {
		for _, v := range elems {
			if (count == 0 || removed < limit) && bytes.Equal(v, value) {
				removed++
				continue
			}
			keep = append(keep, v)
		}
	} else {
		for i := len(elems) - 1; i >= 0; i-- {
			if removed < limit && bytes.Equal(elems[i], value) {
				removed++
				continue
			}
			keep = append([][]byte{elems[i]}, keep...)
		}
	}

	if removed == 0 {
		return 0, nil
	}

	// Rewrite the whole window; holes would break seq arithmetic.
	batch := s.db.NewBatch()
	defer batch.Close()

	lp := listPrefix(key)
	if err := batch.DeleteRange(lp, upperBound(lp), nil); err != nil {
		return 0, err
	}
	if len(keep) == 0 {
		if err := batch.Delete(listMetaKey(key), nil); err != nil {
			return 0, err
		}
	} else {
		for i, v := range keep {
			if err := batch.Set(listKey(key, int64(i)), v, nil); err != nil {
				return 0, err
			}
		}
		if err := putMeta(batch, key, meta{head: 0, tail: int64(len(keep))}); err != nil {
			return 0, err
		}
	}
	if err := batch.Commit(pebble.Sync); err != nil {
		return 0, err
	}
	return removed, nil
}

func normalize(index, n int64) (int64, bool) {
	if index < 0 {
		index += n
	}
	if index < 0 || index >= n {
		return 0, false
	}
	return index, true
}
