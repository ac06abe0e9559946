// Package envelope implements the signed serialization envelope: a 32-byte
// HMAC-SHA256 tag followed by the canonical-CBOR payload it covers. A
// payload is never deserialized before its tag has been verified against
// the decoding instance's own secret.
package envelope

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/sealkv/sealkv/pkg/core"
)

// TagSize is the fixed length of the keyed integrity tag.
const TagSize = sha256.Size

// SecretSize is the length of a generated signing secret.
const SecretSize = 32

// NewSecret returns a fresh random signing secret.
func NewSecret() ([]byte, error) {
	secret := make([]byte, SecretSize)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("failed to generate secret: %w", err)
	}
	return secret, nil
}

// Codec produces and consumes envelopes under one secret.
type Codec struct {
	secret  []byte
	encMode cbor.EncMode
}

// NewCodec returns a Codec bound to the given secret.
func NewCodec(secret []byte) (*Codec, error) {
	if len(secret) == 0 {
		return nil, fmt.Errorf("envelope: empty secret")
	}
	// Canonical CBOR keeps the payload bytes deterministic for a given
	// value, which byte-exact list removal depends on.
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		return nil, err
	}
	return &Codec{
		secret:  append([]byte(nil), secret...),
		encMode: em,
	}, nil
}

// Encode serializes v and returns tag || payload.
func (c *Codec) Encode(v any) ([]byte, error) {
	payload, err := c.encMode.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrSerialize, err)
	}

	env := make([]byte, 0, TagSize+len(payload))
	env = append(env, c.tag(payload)...)
	env = append(env, payload...)
	return env, nil
}

// Decode verifies the envelope's tag and, only on a match, unmarshals the
// payload into dest. A mismatched or impossible tag is core.ErrIntegrity;
// an unmarshal failure after a valid tag is core.ErrDeserialize.
func (c *Codec) Decode(env []byte, dest any) error {
	if len(env) < TagSize {
		return fmt.Errorf("%w: envelope shorter than tag", core.ErrIntegrity)
	}

	tag := env[:TagSize]
	payload := env[TagSize:]

	if !hmac.Equal(tag, c.tag(payload)) {
		return fmt.Errorf("%w: tag does not match payload under this secret, not deserializing", core.ErrIntegrity)
	}

	if err := cbor.Unmarshal(payload, dest); err != nil {
		return fmt.Errorf("%w: %v", core.ErrDeserialize, err)
	}
	return nil
}

func (c *Codec) tag(payload []byte) []byte {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write(payload)
	return mac.Sum(nil)
}
