package transform

import (
	"bytes"
	"errors"
	"testing"

	"github.com/sealkv/sealkv/internal/testkit"
	"github.com/sealkv/sealkv/pkg/core"
)

func TestTransformNone(t *testing.T) {
	tr := NewNone()

	if tr.Name() != "none" {
		t.Errorf("expected none, got %s", tr.Name())
	}

	data := []byte("hello world")
	encoded, err := tr.Encode(data)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	if !bytes.Equal(encoded, data) {
		t.Error("none transform should not change data")
	}

	decoded, err := tr.Decode(encoded)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	if !bytes.Equal(decoded, data) {
		t.Error("none transform should not change data")
	}
}

func TestTransformZstd(t *testing.T) {
	tr := NewZstd(3)

	if tr.Name() != "zstd" {
		t.Errorf("expected zstd, got %s", tr.Name())
	}

	t.Run("Roundtrip", func(t *testing.T) {
		data := bytes.Repeat([]byte("a very compressible envelope payload "), 4096)

		encoded, err := tr.Encode(data)
		if err != nil {
			t.Fatalf("Encode failed: %v", err)
		}

		if len(encoded) >= len(data) {
			t.Errorf("expected zstd to compress data, %d >= %d", len(encoded), len(data))
		}

		decoded, err := tr.Decode(encoded)
		if err != nil {
			t.Fatalf("Decode failed: %v", err)
		}

		if !bytes.Equal(decoded, data) {
			t.Error("zstd transform corrupted data on roundtrip")
		}
	})

	t.Run("SmallValue", func(t *testing.T) {
		data := []byte("tiny")

		encoded, err := tr.Encode(data)
		if err != nil {
			t.Fatalf("Encode failed: %v", err)
		}

		decoded, err := tr.Decode(encoded)
		if err != nil {
			t.Fatalf("Decode failed: %v", err)
		}

		if !bytes.Equal(decoded, data) {
			t.Error("roundtrip of small value failed")
		}
	})

	t.Run("Deterministic", func(t *testing.T) {
		r := testkit.RNG(7)
		data := testkit.RandomBytes(r, 4096)

		a, err := tr.Encode(data)
		if err != nil {
			t.Fatalf("Encode failed: %v", err)
		}
		b, err := tr.Encode(data)
		if err != nil {
			t.Fatalf("Encode failed: %v", err)
		}
		if !bytes.Equal(a, b) {
			t.Error("zstd encoding of identical input differs, byte-exact removal would break")
		}
	})
}

func TestTransformZstdDecodeErrors(t *testing.T) {
	tr := NewZstd(3)

	cases := []struct {
		name   string
		stored []byte
	}{
		{"TooShort", []byte("SKV")},
		{"BadMagic", append([]byte("NOPE"), 1, FlagCompressed, AlgZstd, 0)},
		{"BadVersion", append([]byte(Magic), 99, FlagCompressed, AlgZstd, 0)},
		{"BadAlg", append([]byte(Magic), Version, FlagCompressed, 42, 0)},
		{"BadFrame", append([]byte(Magic), Version, FlagCompressed, AlgZstd, 0xde, 0xad)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tr.Decode(tc.stored)
			if !errors.Is(err, core.ErrCorrupt) {
				t.Errorf("expected ErrCorrupt, got %v", err)
			}
		})
	}
}

func TestNewFactory(t *testing.T) {
	for _, name := range []string{"", "none"} {
		tr, err := New(core.TransformConfig{Name: name})
		if err != nil {
			t.Fatalf("New(%q) failed: %v", name, err)
		}
		if tr.Name() != "none" {
			t.Errorf("New(%q).Name() = %s, want none", name, tr.Name())
		}
	}

	tr, err := New(core.TransformConfig{Name: "zstd", ZstdLevel: 1})
	if err != nil {
		t.Fatalf("New(zstd) failed: %v", err)
	}
	if tr.Name() != "zstd" {
		t.Errorf("New(zstd).Name() = %s", tr.Name())
	}

	if _, err := New(core.TransformConfig{Name: "rot13"}); err == nil {
		t.Error("expected error for unknown transform")
	}
}
