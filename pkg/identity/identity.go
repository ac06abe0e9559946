// Package identity derives the remote storage key a collection lives
// under from an optional prefix and a name. Two processes that resolve the
// same (prefix, name) rendezvous on the same remote collection.
package identity

import (
	"github.com/google/uuid"
)

// Identity is a resolved (prefix, name) pair.
type Identity struct {
	Prefix string
	Name   string
}

// Resolve builds an Identity, generating a fresh unique name when none is
// given. Pure function of its inputs plus entropy; no I/O.
func Resolve(prefix, name string) Identity {
	if name == "" {
		name = uuid.NewString()
	}
	return Identity{Prefix: prefix, Name: name}
}

// Key is the single remote key for this identity: "prefix:name", or just
// the name when the prefix is empty.
func (id Identity) Key() string {
	if id.Prefix == "" {
		return id.Name
	}
	return id.Prefix + ":" + id.Name
}
