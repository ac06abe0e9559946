package sealkv

import (
	"context"
	"errors"
	"testing"

	"github.com/sealkv/sealkv/internal/testkit"
	"github.com/sealkv/sealkv/pkg/store/memstore"
)

// Two instances constructed with the same (prefix, name, secret) triple
// observe the same collection.
func TestCrossInstanceRendezvous(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	secret := []byte("shared-signing-key")

	c1, err := NewDict(ctx, Config{Store: st, Prefix: "ns", Name: "shared", Secret: secret}, nil)
	if err != nil {
		t.Fatalf("NewDict failed: %v", err)
	}
	c2, err := NewDict(ctx, Config{Store: st, Prefix: "ns", Name: "shared", Secret: secret}, nil)
	if err != nil {
		t.Fatalf("NewDict failed: %v", err)
	}

	if err := c1.Set(ctx, "x", 1); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, err := DictGet[int](ctx, c2, "x")
	if err != nil {
		t.Fatalf("Get via second instance failed: %v", err)
	}
	if got != 1 {
		t.Errorf("got %d, want 1", got)
	}

	// Deletion is immediately visible across instances.
	if err := c2.Delete(ctx, "x"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := c1.Get(ctx, "x", &got); !errors.Is(err, ErrKeyNotFound) {
		t.Fatalf("expected ErrKeyNotFound via first instance, got %v", err)
	}
}

func TestCrossInstanceGeneratedName(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()

	writer, err := NewDeque(ctx, Config{Store: st})
	if err != nil {
		t.Fatalf("NewDeque failed: %v", err)
	}
	if err := writer.Append(ctx, "hello"); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	// Communicating the generated name and secret out-of-band is the
	// rendezvous mechanism.
	reader, err := NewDeque(ctx, Config{
		Store:  st,
		Prefix: writer.Prefix(),
		Name:   writer.Name(),
		Secret: writer.Secret(),
	})
	if err != nil {
		t.Fatalf("NewDeque failed: %v", err)
	}

	got, err := DequeGet[string](ctx, reader, 0)
	if err != nil || got != "hello" {
		t.Fatalf("Get via rendezvous = %q err=%v", got, err)
	}
}

// A different secret on the same identity reads the same raw envelopes but
// rejects every tag; the failure is an integrity error, never a missing
// key or a wrong value.
func TestCrossSecretIsIntegrityFailure(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()

	d, err := NewDict(ctx, Config{Store: st, Name: "shared", Secret: []byte("K1")}, nil)
	if err != nil {
		t.Fatalf("NewDict failed: %v", err)
	}
	if err := d.Set(ctx, "k", "sensitive"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	e, err := NewDict(ctx, Config{Store: st, Name: "shared", Secret: []byte("K2")}, nil)
	if err != nil {
		t.Fatalf("NewDict failed: %v", err)
	}

	var got string
	err = e.Get(ctx, "k", &got)
	if !errors.Is(err, ErrIntegrity) {
		t.Fatalf("expected ErrIntegrity, got %v", err)
	}
	if errors.Is(err, ErrKeyNotFound) {
		t.Fatal("integrity failure must not be downgraded to absence")
	}
	if got != "" {
		t.Fatal("value was deserialized despite a failed tag")
	}
}

func TestTamperedStoreValueIsIntegrityFailure(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()

	d, err := NewDict(ctx, Config{Store: st, Name: "victim", Secret: []byte("K")}, nil)
	if err != nil {
		t.Fatalf("NewDict failed: %v", err)
	}
	if err := d.Set(ctx, "k", 42); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	// Flip one payload byte directly in the store, as a tampering peer
	// without the secret would.
	raw, ok, err := st.HGet(ctx, d.Key(), "k")
	if err != nil || !ok {
		t.Fatalf("raw HGet: ok=%v err=%v", ok, err)
	}
	if err := st.HSet(ctx, d.Key(), "k", testkit.FlipByte(raw, len(raw)-1)); err != nil {
		t.Fatalf("raw HSet: %v", err)
	}

	var got int
	if err := d.Get(ctx, "k", &got); !errors.Is(err, ErrIntegrity) {
		t.Fatalf("expected ErrIntegrity after tampering, got %v", err)
	}
}
