// Package transform applies optional at-rest framing to whole envelopes
// before they are written to the store. Compression only; the envelope's
// integrity tag is computed over the plain payload, so transforms never
// participate in verification.
package transform

import (
	"fmt"

	"github.com/klauspost/compress/zstd"

	"github.com/sealkv/sealkv/pkg/core"
)

const (
	Magic   = "SKV1"
	Version = 1
)

const (
	FlagCompressed = 1 << 0
)

const (
	AlgZstd = 1
)

// Transform encodes an envelope for storage and decodes it back.
type Transform interface {
	Name() string
	Encode(plain []byte) ([]byte, error)
	Decode(stored []byte) ([]byte, error)
}

// New builds the transform named by cfg. Empty and "none" mean the
// identity transform.
func New(cfg core.TransformConfig) (Transform, error) {
	switch cfg.Name {
	case "", "none":
		return NewNone(), nil
	case "zstd":
		level := cfg.ZstdLevel
		if level == 0 {
			level = int(zstd.SpeedDefault)
		}
		return NewZstd(level), nil
	default:
		return nil, fmt.Errorf("unsupported transform: %s", cfg.Name)
	}
}

type noneTransform struct{}

func NewNone() Transform {
	return &noneTransform{}
}

func (t *noneTransform) Name() string                         { return "none" }
func (t *noneTransform) Encode(plain []byte) ([]byte, error)  { return plain, nil }
func (t *noneTransform) Decode(stored []byte) ([]byte, error) { return stored, nil }

type zstdTransform struct {
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

// NewZstd returns a zstd transform at the given level. A fixed level keeps
// the output deterministic within a process, which byte-exact list removal
// relies on.
func NewZstd(level int) Transform {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.EncoderLevel(level)))
	if err != nil {
		panic(fmt.Sprintf("failed to create zstd writer: %v", err))
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		panic(fmt.Sprintf("failed to create zstd reader: %v", err))
	}
	return &zstdTransform{
		encoder: enc,
		decoder: dec,
	}
}

func (t *zstdTransform) Name() string { return "zstd" }

func (t *zstdTransform) Encode(plain []byte) ([]byte, error) {
	compressed := t.encoder.EncodeAll(plain, nil)

	framed := make([]byte, 0, 7+len(compressed))
	framed = append(framed, Magic...)
	framed = append(framed, Version, FlagCompressed, AlgZstd)
	framed = append(framed, compressed...)

	return framed, nil
}

func (t *zstdTransform) Decode(stored []byte) ([]byte, error) {
	if len(stored) < 7 {
		return nil, fmt.Errorf("%w: stored value too small for frame", core.ErrCorrupt)
	}

	if string(stored[:4]) != Magic {
		return nil, fmt.Errorf("%w: invalid magic", core.ErrCorrupt)
	}

	if stored[4] != Version {
		return nil, fmt.Errorf("%w: unsupported frame version %d", core.ErrCorrupt, stored[4])
	}

	flags := stored[5]
	alg := stored[6]
	payload := stored[7:]

	if flags&FlagCompressed != 0 {
		if alg != AlgZstd {
			return nil, fmt.Errorf("%w: unsupported compression algorithm %d", core.ErrCorrupt, alg)
		}
		plain, err := t.decoder.DecodeAll(payload, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", core.ErrCorrupt, err)
		}
		return plain, nil
	}

	return payload, nil
}
