package sealkv

import (
	"context"
	"fmt"

	"github.com/sealkv/sealkv/pkg/core"
)

// Cell is a single signed value under one remote scalar key, for callers
// who want the envelope and identity machinery without a collection shape.
type Cell struct {
	collection
}

// NewCell constructs a scalar adapter.
func NewCell(ctx context.Context, cfg Config) (*Cell, error) {
	c, err := newCollection(cfg)
	if err != nil {
		return nil, err
	}
	return &Cell{collection: c}, nil
}

// Get fetches the value and decodes it into dest. core.ErrKeyNotFound
// when nothing has been stored yet.
func (c *Cell) Get(ctx context.Context, dest any) error {
	stored, ok, err := c.st.Get(ctx, c.Key())
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %q", core.ErrKeyNotFound, c.Key())
	}
	return c.open(stored, dest)
}

// Set overwrites the value unconditionally.
func (c *Cell) Set(ctx context.Context, v any) error {
	stored, err := c.seal(v)
	if err != nil {
		return err
	}
	return c.st.Set(ctx, c.Key(), stored)
}

// Clear removes the value. Clearing an empty cell is not an error.
func (c *Cell) Clear(ctx context.Context) error {
	_, err := c.st.Del(ctx, c.Key())
	return err
}
