package sealkv

import (
	"github.com/sealkv/sealkv/pkg/core"
)

var (
	ErrKeyNotFound   = core.ErrKeyNotFound
	ErrIndexNotFound = core.ErrIndexNotFound
	ErrValueNotFound = core.ErrValueNotFound
	ErrIntegrity     = core.ErrIntegrity
	ErrSerialize     = core.ErrSerialize
	ErrDeserialize   = core.ErrDeserialize
	ErrEmpty         = core.ErrEmpty
	ErrUnsupported   = core.ErrUnsupported
	ErrCorrupt       = core.ErrCorrupt
)
