package sealkv

import (
	"context"
	"fmt"

	"github.com/sealkv/sealkv/pkg/core"
)

// Dict is a mapping over a remote hash. Field names are strings; values
// may be anything the serializer supports. Stateless: every call is a live
// round trip.
type Dict struct {
	collection
}

// NewDict constructs a dictionary adapter. A nil seed is fine; a non-nil
// one is applied through Set, one field at a time.
func NewDict(ctx context.Context, cfg Config, seed map[string]any) (*Dict, error) {
	c, err := newCollection(cfg)
	if err != nil {
		return nil, err
	}
	d := &Dict{collection: c}

	for field, v := range seed {
		if err := d.Set(ctx, field, v); err != nil {
			return nil, fmt.Errorf("seeding field %q: %w", field, err)
		}
	}
	return d, nil
}

// Get fetches a field and decodes it into dest. core.ErrKeyNotFound when
// the field is absent; an integrity failure from the codec propagates
// unmodified rather than being masked as absence.
func (d *Dict) Get(ctx context.Context, field string, dest any) error {
	stored, ok, err := d.st.HGet(ctx, d.Key(), field)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %q", core.ErrKeyNotFound, field)
	}
	return d.open(stored, dest)
}

// Set writes a field, overwriting unconditionally. No read-modify-write
// protection exists across instances.
func (d *Dict) Set(ctx context.Context, field string, v any) error {
	stored, err := d.seal(v)
	if err != nil {
		return err
	}
	return d.st.HSet(ctx, d.Key(), field, stored)
}

// Delete removes a field. core.ErrKeyNotFound when it did not exist.
func (d *Dict) Delete(ctx context.Context, field string) error {
	n, err := d.st.HDel(ctx, d.Key(), field)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %q", core.ErrKeyNotFound, field)
	}
	return nil
}

// Keys returns the field names currently present. Point-in-time, not
// transactionally isolated; each call re-queries the store.
func (d *Dict) Keys(ctx context.Context) ([]string, error) {
	return d.st.HKeys(ctx, d.Key())
}

// Len returns the current field count.
func (d *Dict) Len(ctx context.Context) (int64, error) {
	return d.st.HLen(ctx, d.Key())
}

// DictGet is typed access sugar over Dict.Get.
func DictGet[T any](ctx context.Context, d *Dict, field string) (T, error) {
	var v T
	err := d.Get(ctx, field, &v)
	return v, err
}
