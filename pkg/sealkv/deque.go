package sealkv

import (
	"context"
	"fmt"

	"github.com/sealkv/sealkv/pkg/core"
	"github.com/sealkv/sealkv/pkg/envelope"
)

// Deque is a double-ended queue over a remote list. Indices are zero-based
// from the head; negative indices count from the tail. Stateless, like
// Dict.
type Deque struct {
	collection
}

// NewDeque constructs a sequence adapter. Seed values, if any, are
// appended in order through the normal write path.
func NewDeque(ctx context.Context, cfg Config, seed ...any) (*Deque, error) {
	c, err := newCollection(cfg)
	if err != nil {
		return nil, err
	}
	q := &Deque{collection: c}

	for i, v := range seed {
		if err := q.Append(ctx, v); err != nil {
			return nil, fmt.Errorf("seeding element %d: %w", i, err)
		}
	}
	return q, nil
}

// Append pushes a value onto the tail.
func (q *Deque) Append(ctx context.Context, v any) error {
	stored, err := q.seal(v)
	if err != nil {
		return err
	}
	_, err = q.st.RPush(ctx, q.Key(), stored)
	return err
}

// AppendLeft pushes a value onto the head.
func (q *Deque) AppendLeft(ctx context.Context, v any) error {
	stored, err := q.seal(v)
	if err != nil {
		return err
	}
	_, err = q.st.LPush(ctx, q.Key(), stored)
	return err
}

// Extend appends each value in order; the remote tail order matches the
// input order.
func (q *Deque) Extend(ctx context.Context, vs []any) error {
	for i, v := range vs {
		if err := q.Append(ctx, v); err != nil {
			return fmt.Errorf("extending at element %d: %w", i, err)
		}
	}
	return nil
}

// ExtendLeft left-pushes each value in iteration order, so the final head
// order is the REVERSE of the input: each successive push lands closer to
// the head than the previous one. Contractual behavior, not an accident.
func (q *Deque) ExtendLeft(ctx context.Context, vs []any) error {
	for i, v := range vs {
		if err := q.AppendLeft(ctx, v); err != nil {
			return fmt.Errorf("extending at element %d: %w", i, err)
		}
	}
	return nil
}

// Pop removes the tail element and decodes it into dest. core.ErrEmpty
// when the list is empty, decided by the pop primitive itself rather than
// a racy length pre-check.
func (q *Deque) Pop(ctx context.Context, dest any) error {
	stored, ok, err := q.st.RPop(ctx, q.Key())
	if err != nil {
		return err
	}
	if !ok {
		return core.ErrEmpty
	}
	return q.open(stored, dest)
}

// PopLeft removes the head element and decodes it into dest.
func (q *Deque) PopLeft(ctx context.Context, dest any) error {
	stored, ok, err := q.st.LPop(ctx, q.Key())
	if err != nil {
		return err
	}
	if !ok {
		return core.ErrEmpty
	}
	return q.open(stored, dest)
}

// Get decodes the element at index into dest. core.ErrIndexNotFound when
// no element holds that position.
func (q *Deque) Get(ctx context.Context, index int64, dest any) error {
	stored, ok, err := q.st.LIndex(ctx, q.Key(), index)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %d", core.ErrIndexNotFound, index)
	}
	return q.open(stored, dest)
}

// Set overwrites the element at index in place.
func (q *Deque) Set(ctx context.Context, index int64, v any) error {
	stored, err := q.seal(v)
	if err != nil {
		return err
	}
	ok, err := q.st.LSet(ctx, q.Key(), index, stored)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %d", core.ErrIndexNotFound, index)
	}
	return nil
}

// Delete is not supported: remote list stores have no efficient
// delete-by-position primitive, and emulating one silently would hide a
// full-list rewrite behind an innocent-looking call. Use Pop or PopLeft
// for the ends.
func (q *Deque) Delete(ctx context.Context, index int64) error {
	return fmt.Errorf("%w: delete by index", core.ErrUnsupported)
}

// Insert is not supported: arbitrary-position insertion is not
// expressible with push/pop primitives.
func (q *Deque) Insert(ctx context.Context, index int64, v any) error {
	return fmt.Errorf("%w: insert at index", core.ErrUnsupported)
}

// Remove asks the store to drop up to count elements byte-equal to v's
// sealed form. Equality includes the tag, so only envelopes written under
// the same secret (and the same transform setting) can match. count
// follows the store convention: >0 head-to-tail, <0 tail-to-head, 0 all.
// core.ErrValueNotFound when nothing was removed.
func (q *Deque) Remove(ctx context.Context, v any, count int64) error {
	stored, err := q.seal(v)
	if err != nil {
		return err
	}
	n, err := q.st.LRem(ctx, q.Key(), count, stored)
	if err != nil {
		return err
	}
	if n == 0 {
		return core.ErrValueNotFound
	}
	return nil
}

// Clear deletes the entire list in one call.
func (q *Deque) Clear(ctx context.Context) error {
	_, err := q.st.Del(ctx, q.Key())
	return err
}

// Len returns the current list length.
func (q *Deque) Len(ctx context.Context) (int64, error) {
	return q.st.LLen(ctx, q.Key())
}

// Item is one element handed out during iteration, decodable on demand.
type Item struct {
	codec *envelope.Codec
	env   []byte
}

// Decode verifies and deserializes the element into dest.
func (it Item) Decode(dest any) error {
	return it.codec.Decode(it.env, dest)
}

// Each walks positions 0..Len-1, fetching each element as it goes.
// Restartable and finite, but not snapshot-consistent: concurrent writers
// can shift elements between the length check and an index read. A
// position that has vanished ends the walk without error.
func (q *Deque) Each(ctx context.Context, fn func(i int64, item Item) error) error {
	n, err := q.Len(ctx)
	if err != nil {
		return err
	}
	for i := int64(0); i < n; i++ {
		stored, ok, err := q.st.LIndex(ctx, q.Key(), i)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		env, err := q.tr.Decode(stored)
		if err != nil {
			return err
		}
		if err := fn(i, Item{codec: q.codec, env: env}); err != nil {
			return err
		}
	}
	return nil
}

// DequeGet is typed access sugar over Deque.Get.
func DequeGet[T any](ctx context.Context, q *Deque, index int64) (T, error) {
	var v T
	err := q.Get(ctx, index, &v)
	return v, err
}

// Collect decodes every current element, head to tail.
func Collect[T any](ctx context.Context, q *Deque) ([]T, error) {
	var out []T
	err := q.Each(ctx, func(i int64, item Item) error {
		var v T
		if err := item.Decode(&v); err != nil {
			return err
		}
		out = append(out, v)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
