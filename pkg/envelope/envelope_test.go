package envelope

import (
	"bytes"
	"errors"
	"testing"

	"github.com/sealkv/sealkv/internal/testkit"
	"github.com/sealkv/sealkv/pkg/core"
)

func newTestCodec(t *testing.T, secret string) *Codec {
	t.Helper()
	c, err := NewCodec([]byte(secret))
	if err != nil {
		t.Fatalf("NewCodec failed: %v", err)
	}
	return c
}

func TestRoundtrip(t *testing.T) {
	c := newTestCodec(t, "k1")

	t.Run("Int", func(t *testing.T) {
		env, err := c.Encode(23)
		if err != nil {
			t.Fatalf("Encode failed: %v", err)
		}
		var got int
		if err := c.Decode(env, &got); err != nil {
			t.Fatalf("Decode failed: %v", err)
		}
		if got != 23 {
			t.Errorf("got %d, want 23", got)
		}
	})

	t.Run("String", func(t *testing.T) {
		env, err := c.Encode("hello")
		if err != nil {
			t.Fatalf("Encode failed: %v", err)
		}
		var got string
		if err := c.Decode(env, &got); err != nil {
			t.Fatalf("Decode failed: %v", err)
		}
		if got != "hello" {
			t.Errorf("got %q, want hello", got)
		}
	})

	t.Run("Bytes", func(t *testing.T) {
		r := testkit.RNG(3)
		want := testkit.RandomBytes(r, 2048)

		env, err := c.Encode(want)
		if err != nil {
			t.Fatalf("Encode failed: %v", err)
		}
		var got []byte
		if err := c.Decode(env, &got); err != nil {
			t.Fatalf("Decode failed: %v", err)
		}
		if !bytes.Equal(got, want) {
			t.Error("byte slice did not round-trip")
		}
	})

	t.Run("Struct", func(t *testing.T) {
		type record struct {
			ID    uint64   `cbor:"id"`
			Label string   `cbor:"label"`
			Tags  []string `cbor:"tags,omitempty"`
		}
		want := record{ID: 7, Label: "seven", Tags: []string{"odd", "prime"}}

		env, err := c.Encode(want)
		if err != nil {
			t.Fatalf("Encode failed: %v", err)
		}
		var got record
		if err := c.Decode(env, &got); err != nil {
			t.Fatalf("Decode failed: %v", err)
		}
		if got.ID != want.ID || got.Label != want.Label || len(got.Tags) != 2 {
			t.Errorf("got %+v, want %+v", got, want)
		}
	})

	t.Run("Map", func(t *testing.T) {
		want := map[string]int{"a": 1, "b": 2}

		env, err := c.Encode(want)
		if err != nil {
			t.Fatalf("Encode failed: %v", err)
		}
		got := map[string]int{}
		if err := c.Decode(env, &got); err != nil {
			t.Fatalf("Decode failed: %v", err)
		}
		if len(got) != 2 || got["a"] != 1 || got["b"] != 2 {
			t.Errorf("got %v, want %v", got, want)
		}
	})
}

func TestEnvelopeLayout(t *testing.T) {
	c := newTestCodec(t, "k1")

	env, err := c.Encode("x")
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if len(env) <= TagSize {
		t.Fatalf("envelope length %d, want > %d", len(env), TagSize)
	}

	// Tag first: the same payload must re-tag to the stored prefix.
	if !bytes.Equal(env[:TagSize], c.tag(env[TagSize:])) {
		t.Error("first 32 bytes are not the tag of the remainder")
	}

	// Deterministic tag for identical payload bytes.
	env2, _ := c.Encode("x")
	if !bytes.Equal(env, env2) {
		t.Error("encoding the same value twice differed (canonical CBOR + HMAC should be deterministic)")
	}
}

func TestDecodeWrongSecret(t *testing.T) {
	c1 := newTestCodec(t, "k1")
	c2 := newTestCodec(t, "k2")

	env, err := c1.Encode("secret sauce")
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	var got string
	err = c2.Decode(env, &got)
	if !errors.Is(err, core.ErrIntegrity) {
		t.Fatalf("expected ErrIntegrity, got %v", err)
	}
	if got != "" {
		t.Error("destination was written despite a failed tag")
	}
}

func TestDecodeTampered(t *testing.T) {
	c := newTestCodec(t, "k1")

	env, err := c.Encode([]string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	t.Run("PayloadBit", func(t *testing.T) {
		var got []string
		err := c.Decode(testkit.FlipByte(env, TagSize+1), &got)
		if !errors.Is(err, core.ErrIntegrity) {
			t.Errorf("expected ErrIntegrity, got %v", err)
		}
	})

	t.Run("TagBit", func(t *testing.T) {
		var got []string
		err := c.Decode(testkit.FlipByte(env, 0), &got)
		if !errors.Is(err, core.ErrIntegrity) {
			t.Errorf("expected ErrIntegrity, got %v", err)
		}
	})

	t.Run("Truncated", func(t *testing.T) {
		var got []string
		err := c.Decode(env[:TagSize-1], &got)
		if !errors.Is(err, core.ErrIntegrity) {
			t.Errorf("expected ErrIntegrity for short envelope, got %v", err)
		}
	})
}

func TestDecodeBadPayloadAfterValidTag(t *testing.T) {
	c := newTestCodec(t, "k1")

	// A correctly tagged payload that is not valid CBOR for the
	// destination type: deserialization failure, not integrity failure.
	payload := []byte{0xff, 0xff, 0xff}
	env := append(c.tag(payload), payload...)

	var got int
	err := c.Decode(env, &got)
	if !errors.Is(err, core.ErrDeserialize) {
		t.Fatalf("expected ErrDeserialize, got %v", err)
	}
	if errors.Is(err, core.ErrIntegrity) {
		t.Fatal("deserialization failure must not be an integrity failure")
	}
}

func TestEncodeUnsupportedValue(t *testing.T) {
	c := newTestCodec(t, "k1")

	_, err := c.Encode(func() {})
	if !errors.Is(err, core.ErrSerialize) {
		t.Fatalf("expected ErrSerialize, got %v", err)
	}
}

func TestNewCodecEmptySecret(t *testing.T) {
	if _, err := NewCodec(nil); err == nil {
		t.Fatal("expected error for empty secret")
	}
}

func TestNewSecret(t *testing.T) {
	a, err := NewSecret()
	if err != nil {
		t.Fatalf("NewSecret failed: %v", err)
	}
	b, err := NewSecret()
	if err != nil {
		t.Fatalf("NewSecret failed: %v", err)
	}
	if len(a) != SecretSize || len(b) != SecretSize {
		t.Fatalf("secret lengths %d/%d, want %d", len(a), len(b), SecretSize)
	}
	if bytes.Equal(a, b) {
		t.Error("two generated secrets are identical")
	}
}
