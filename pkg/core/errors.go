package core

import (
	"errors"
)

var (
	// Absence errors. Recoverable; the caller decides what absence means.
	ErrKeyNotFound   = errors.New("sealkv: key not found")
	ErrIndexNotFound = errors.New("sealkv: index not found")
	ErrValueNotFound = errors.New("sealkv: value not found")

	// ErrIntegrity means the stored tag does not match the payload under
	// this instance's secret. Never conflated with absence.
	ErrIntegrity = errors.New("sealkv: integrity check failed")

	ErrSerialize   = errors.New("sealkv: cannot serialize value")
	ErrDeserialize = errors.New("sealkv: cannot deserialize payload")

	ErrEmpty       = errors.New("sealkv: collection is empty")
	ErrUnsupported = errors.New("sealkv: unsupported operation")

	// ErrCorrupt means the at-rest framing around an envelope is damaged.
	// Distinct from ErrIntegrity, which is about the tag inside it.
	ErrCorrupt = errors.New("sealkv: corrupt stored data")
)
