package core

import (
	"github.com/sealkv/sealkv/pkg/store"
)

// Config carries everything an adapter needs at construction time. Only
// Store is required; a missing Name or Secret is generated and stays
// retrievable from the adapter afterward, since it is the only rendezvous
// handle another process has.
type Config struct {
	Store store.Store

	// Prefix is an optional namespace segment joined in front of Name to
	// form the remote key. Default empty.
	Prefix string

	// Name identifies the collection under Prefix. Empty means a fresh
	// random token, making the collection private until the generated name
	// is shared out-of-band.
	Name string

	// Secret is the signing key for every envelope written under this
	// identity. Empty means a fresh random key. Never sent to the store.
	Secret []byte

	Transform TransformConfig
}

type TransformConfig struct {
	Name      string // "none" (default) or "zstd"
	ZstdLevel int
}
