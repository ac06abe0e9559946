// Package sealkv provides dictionary and double-ended-queue collections
// whose storage lives in a remote key-value/list store. Every value is
// wrapped in a signed envelope; an instance only ever deserializes data
// written under its own secret.
//
// The adapters hold no local state: each operation is one (rarely a small
// constant number of) atomic store round trips. Composed sequences of
// operations are not transactional, and no cross-process locking is
// provided.
package sealkv

import (
	"fmt"

	"github.com/sealkv/sealkv/pkg/envelope"
	"github.com/sealkv/sealkv/pkg/identity"
	"github.com/sealkv/sealkv/pkg/store"
	"github.com/sealkv/sealkv/pkg/transform"
)

// collection is the shared plumbing under Dict and Deque: the store
// handle, the resolved identity, and the per-instance codec and transform.
type collection struct {
	st     store.Store
	codec  *envelope.Codec
	tr     transform.Transform
	id     identity.Identity
	secret []byte
}

func newCollection(cfg Config) (collection, error) {
	if cfg.Store == nil {
		return collection{}, fmt.Errorf("sealkv: Store is required")
	}

	secret := cfg.Secret
	if len(secret) == 0 {
		var err error
		secret, err = envelope.NewSecret()
		if err != nil {
			return collection{}, err
		}
	}

	codec, err := envelope.NewCodec(secret)
	if err != nil {
		return collection{}, err
	}

	tr, err := transform.New(cfg.Transform)
	if err != nil {
		return collection{}, err
	}

	return collection{
		st:     cfg.Store,
		codec:  codec,
		tr:     tr,
		id:     identity.Resolve(cfg.Prefix, cfg.Name),
		secret: append([]byte(nil), secret...),
	}, nil
}

// seal encodes a value into its stored form: signed envelope, then the
// at-rest transform.
func (c *collection) seal(v any) ([]byte, error) {
	env, err := c.codec.Encode(v)
	if err != nil {
		return nil, err
	}
	return c.tr.Encode(env)
}

// open reverses seal. Verification happens inside the codec before any
// deserialization.
func (c *collection) open(stored []byte, dest any) error {
	env, err := c.tr.Decode(stored)
	if err != nil {
		return err
	}
	return c.codec.Decode(env, dest)
}

// Name returns the collection's name, generated when none was configured.
// Sharing it (plus the prefix and secret) is how another process reaches
// the same collection.
func (c *collection) Name() string { return c.id.Name }

// Prefix returns the namespace segment, possibly empty.
func (c *collection) Prefix() string { return c.id.Prefix }

// Key returns the remote key the collection lives under.
func (c *collection) Key() string { return c.id.Key() }

// Secret returns a copy of the signing secret.
func (c *collection) Secret() []byte {
	return append([]byte(nil), c.secret...)
}
