// Package storetest holds a conformance suite every store.Store backend
// runs from its own tests.
package storetest

import (
	"bytes"
	"context"
	"sort"
	"testing"

	"github.com/sealkv/sealkv/pkg/store"
)

// Run exercises the full primitive contract against a fresh backend from
// open. Each subtest uses its own keys, so one backend instance is enough.
func Run(t *testing.T, open func(t *testing.T) store.Store) {
	t.Helper()
	s := open(t)
	ctx := context.Background()

	t.Run("Scalar", func(t *testing.T) {
		if _, ok, err := s.Get(ctx, "sc"); err != nil || ok {
			t.Fatalf("Get on missing key: ok=%v err=%v", ok, err)
		}
		if err := s.Set(ctx, "sc", []byte("v1")); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
		v, ok, err := s.Get(ctx, "sc")
		if err != nil || !ok || !bytes.Equal(v, []byte("v1")) {
			t.Fatalf("Get after Set: v=%q ok=%v err=%v", v, ok, err)
		}
		if err := s.Set(ctx, "sc", []byte("v2")); err != nil {
			t.Fatalf("overwrite failed: %v", err)
		}
		v, _, _ = s.Get(ctx, "sc")
		if !bytes.Equal(v, []byte("v2")) {
			t.Fatalf("expected overwrite, got %q", v)
		}
		deleted, err := s.Del(ctx, "sc")
		if err != nil || !deleted {
			t.Fatalf("Del: deleted=%v err=%v", deleted, err)
		}
		deleted, err = s.Del(ctx, "sc")
		if err != nil || deleted {
			t.Fatalf("Del on missing key: deleted=%v err=%v", deleted, err)
		}
	})

	t.Run("Hash", func(t *testing.T) {
		if _, ok, err := s.HGet(ctx, "h", "f"); err != nil || ok {
			t.Fatalf("HGet on missing field: ok=%v err=%v", ok, err)
		}
		if n, err := s.HLen(ctx, "h"); err != nil || n != 0 {
			t.Fatalf("HLen of missing hash: n=%d err=%v", n, err)
		}

		for _, f := range []string{"a", "b", "c"} {
			if err := s.HSet(ctx, "h", f, []byte("val-"+f)); err != nil {
				t.Fatalf("HSet %s failed: %v", f, err)
			}
		}
		v, ok, err := s.HGet(ctx, "h", "b")
		if err != nil || !ok || !bytes.Equal(v, []byte("val-b")) {
			t.Fatalf("HGet b: v=%q ok=%v err=%v", v, ok, err)
		}
		if n, _ := s.HLen(ctx, "h"); n != 3 {
			t.Fatalf("HLen = %d, want 3", n)
		}

		fields, err := s.HKeys(ctx, "h")
		if err != nil {
			t.Fatalf("HKeys failed: %v", err)
		}
		sort.Strings(fields)
		want := []string{"a", "b", "c"}
		if len(fields) != 3 || fields[0] != want[0] || fields[1] != want[1] || fields[2] != want[2] {
			t.Fatalf("HKeys = %v, want %v", fields, want)
		}

		if n, err := s.HDel(ctx, "h", "b"); err != nil || n != 1 {
			t.Fatalf("HDel b: n=%d err=%v", n, err)
		}
		if n, err := s.HDel(ctx, "h", "b"); err != nil || n != 0 {
			t.Fatalf("HDel on missing field: n=%d err=%v", n, err)
		}
		if n, _ := s.HLen(ctx, "h"); n != 2 {
			t.Fatalf("HLen after HDel = %d, want 2", n)
		}

		if deleted, err := s.Del(ctx, "h"); err != nil || !deleted {
			t.Fatalf("Del of hash key: deleted=%v err=%v", deleted, err)
		}
		if n, _ := s.HLen(ctx, "h"); n != 0 {
			t.Fatalf("HLen after Del = %d, want 0", n)
		}
	})

	t.Run("ListPushPop", func(t *testing.T) {
		if _, ok, err := s.RPop(ctx, "l"); err != nil || ok {
			t.Fatalf("RPop on missing list: ok=%v err=%v", ok, err)
		}
		if _, ok, err := s.LPop(ctx, "l"); err != nil || ok {
			t.Fatalf("LPop on missing list: ok=%v err=%v", ok, err)
		}

		if n, err := s.RPush(ctx, "l", []byte("b")); err != nil || n != 1 {
			t.Fatalf("RPush: n=%d err=%v", n, err)
		}
		if n, err := s.RPush(ctx, "l", []byte("c")); err != nil || n != 2 {
			t.Fatalf("RPush: n=%d err=%v", n, err)
		}
		if n, err := s.LPush(ctx, "l", []byte("a")); err != nil || n != 3 {
			t.Fatalf("LPush: n=%d err=%v", n, err)
		}
		// Order is now a, b, c.
		if v, ok, _ := s.LPop(ctx, "l"); !ok || !bytes.Equal(v, []byte("a")) {
			t.Fatalf("LPop = %q ok=%v, want a", v, ok)
		}
		if v, ok, _ := s.RPop(ctx, "l"); !ok || !bytes.Equal(v, []byte("c")) {
			t.Fatalf("RPop = %q ok=%v, want c", v, ok)
		}
		if n, _ := s.LLen(ctx, "l"); n != 1 {
			t.Fatalf("LLen = %d, want 1", n)
		}
		if v, ok, _ := s.RPop(ctx, "l"); !ok || !bytes.Equal(v, []byte("b")) {
			t.Fatalf("RPop = %q ok=%v, want b", v, ok)
		}
		if n, _ := s.LLen(ctx, "l"); n != 0 {
			t.Fatalf("LLen after draining = %d, want 0", n)
		}
	})

	t.Run("ListIndex", func(t *testing.T) {
		for _, v := range []string{"0", "1", "2", "3"} {
			if _, err := s.RPush(ctx, "li", []byte(v)); err != nil {
				t.Fatalf("RPush failed: %v", err)
			}
		}

		cases := []struct {
			index int64
			want  string
			ok    bool
		}{
			{0, "0", true},
			{3, "3", true},
			{-1, "3", true},
			{-4, "0", true},
			{4, "", false},
			{-5, "", false},
		}
		for _, tc := range cases {
			v, ok, err := s.LIndex(ctx, "li", tc.index)
			if err != nil {
				t.Fatalf("LIndex(%d) failed: %v", tc.index, err)
			}
			if ok != tc.ok || (ok && string(v) != tc.want) {
				t.Errorf("LIndex(%d) = %q ok=%v, want %q ok=%v", tc.index, v, ok, tc.want, tc.ok)
			}
		}

		if ok, err := s.LSet(ctx, "li", -2, []byte("two")); err != nil || !ok {
			t.Fatalf("LSet(-2): ok=%v err=%v", ok, err)
		}
		if v, _, _ := s.LIndex(ctx, "li", 2); string(v) != "two" {
			t.Fatalf("LIndex(2) after LSet = %q, want two", v)
		}
		if ok, err := s.LSet(ctx, "li", 9, []byte("x")); err != nil || ok {
			t.Fatalf("LSet out of range: ok=%v err=%v", ok, err)
		}
		if ok, err := s.LSet(ctx, "li-missing", 0, []byte("x")); err != nil || ok {
			t.Fatalf("LSet on missing key: ok=%v err=%v", ok, err)
		}

		if deleted, err := s.Del(ctx, "li"); err != nil || !deleted {
			t.Fatalf("Del of list: deleted=%v err=%v", deleted, err)
		}
		if n, _ := s.LLen(ctx, "li"); n != 0 {
			t.Fatalf("LLen after Del = %d, want 0", n)
		}
	})

	t.Run("ListRem", func(t *testing.T) {
		seed := func(t *testing.T, key string) {
			t.Helper()
			for _, v := range []string{"x", "y", "x", "z", "x"} {
				if _, err := s.RPush(ctx, key, []byte(v)); err != nil {
					t.Fatalf("RPush failed: %v", err)
				}
			}
		}
		contents := func(key string) []string {
			n, _ := s.LLen(ctx, key)
			out := make([]string, 0, n)
			for i := int64(0); i < n; i++ {
				v, _, _ := s.LIndex(ctx, key, i)
				out = append(out, string(v))
			}
			return out
		}
		equal := func(a, b []string) bool {
			if len(a) != len(b) {
				return false
			}
			for i := range a {
				if a[i] != b[i] {
					return false
				}
			}
			return true
		}

		seed(t, "lr1")
		if n, err := s.LRem(ctx, "lr1", 2, []byte("x")); err != nil || n != 2 {
			t.Fatalf("LRem count=2: n=%d err=%v", n, err)
		}
		if got := contents("lr1"); !equal(got, []string{"y", "z", "x"}) {
			t.Fatalf("after LRem head-to-tail: %v", got)
		}

		seed(t, "lr2")
		if n, err := s.LRem(ctx, "lr2", -1, []byte("x")); err != nil || n != 1 {
			t.Fatalf("LRem count=-1: n=%d err=%v", n, err)
		}
		if got := contents("lr2"); !equal(got, []string{"x", "y", "x", "z"}) {
			t.Fatalf("after LRem tail-to-head: %v", got)
		}

		seed(t, "lr3")
		if n, err := s.LRem(ctx, "lr3", 0, []byte("x")); err != nil || n != 3 {
			t.Fatalf("LRem count=0: n=%d err=%v", n, err)
		}
		if got := contents("lr3"); !equal(got, []string{"y", "z"}) {
			t.Fatalf("after LRem all: %v", got)
		}

		if n, err := s.LRem(ctx, "lr3", 0, []byte("absent")); err != nil || n != 0 {
			t.Fatalf("LRem of absent value: n=%d err=%v", n, err)
		}

		for _, key := range []string{"lr1", "lr2", "lr3"} {
			s.Del(ctx, key)
		}
	})

	t.Run("ListDrainRemovesKey", func(t *testing.T) {
		if _, err := s.RPush(ctx, "ld", []byte("only")); err != nil {
			t.Fatalf("RPush failed: %v", err)
		}
		if n, err := s.LRem(ctx, "ld", 0, []byte("only")); err != nil || n != 1 {
			t.Fatalf("LRem: n=%d err=%v", n, err)
		}
		if _, ok, _ := s.LPop(ctx, "ld"); ok {
			t.Fatal("expected drained list to behave as missing")
		}
	})
}
