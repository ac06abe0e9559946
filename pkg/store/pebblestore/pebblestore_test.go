package pebblestore

import (
	"context"
	"testing"

	"github.com/sealkv/sealkv/pkg/store"
	"github.com/sealkv/sealkv/pkg/store/storetest"
)

func open(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestConformance(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store {
		return open(t)
	})
}

func TestPersistenceAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s, err := Open(dir)
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	if err := s.Set(ctx, "k", []byte("v")); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	for _, v := range []string{"a", "b", "c"} {
		if _, err := s.RPush(ctx, "l", []byte(v)); err != nil {
			t.Fatalf("RPush failed: %v", err)
		}
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	s, err = Open(dir)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer s.Close()

	v, ok, err := s.Get(ctx, "k")
	if err != nil || !ok || string(v) != "v" {
		t.Fatalf("Get after reopen: v=%q ok=%v err=%v", v, ok, err)
	}
	if n, _ := s.LLen(ctx, "l"); n != 3 {
		t.Fatalf("LLen after reopen = %d, want 3", n)
	}
	if v, ok, _ := s.LIndex(ctx, "l", -1); !ok || string(v) != "c" {
		t.Fatalf("LIndex(-1) after reopen = %q ok=%v", v, ok)
	}
}

func TestHashKeyFraming(t *testing.T) {
	s := open(t)
	ctx := context.Background()

	// Hash "a" with field "bc" must not collide with hash "ab" field "c".
	if err := s.HSet(ctx, "a", "bc", []byte("1")); err != nil {
		t.Fatalf("HSet failed: %v", err)
	}
	if err := s.HSet(ctx, "ab", "c", []byte("2")); err != nil {
		t.Fatalf("HSet failed: %v", err)
	}

	if n, _ := s.HLen(ctx, "a"); n != 1 {
		t.Fatalf("HLen(a) = %d, want 1", n)
	}
	if n, _ := s.HLen(ctx, "ab"); n != 1 {
		t.Fatalf("HLen(ab) = %d, want 1", n)
	}
	v, ok, _ := s.HGet(ctx, "a", "bc")
	if !ok || string(v) != "1" {
		t.Fatalf("HGet(a, bc) = %q ok=%v", v, ok)
	}
}

func TestLeftPushesKeepOrderAfterReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s, err := Open(dir)
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	// Negative sequence numbers must still sort before positive ones.
	s.RPush(ctx, "l", []byte("mid"))
	s.LPush(ctx, "l", []byte("head"))
	s.RPush(ctx, "l", []byte("tail"))
	s.Close()

	s, err = Open(dir)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer s.Close()

	want := []string{"head", "mid", "tail"}
	for i, w := range want {
		v, ok, err := s.LIndex(ctx, "l", int64(i))
		if err != nil || !ok || string(v) != w {
			t.Fatalf("LIndex(%d) = %q ok=%v err=%v, want %q", i, v, ok, err, w)
		}
	}
}
