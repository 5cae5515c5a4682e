package memory

import (
	"context"
	"testing"
)

func TestSessionStoreTakeConsumes(t *testing.T) {
	ctx := context.Background()
	store := NewSessionStore()

	if _, ok, _ := store.Take(ctx, "u1"); ok {
		t.Fatal("take on empty store should miss")
	}

	if err := store.Put(ctx, "u1", []int64{1, 2, 3}); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	ids, ok, err := store.Take(ctx, "u1")
	if err != nil || !ok {
		t.Fatalf("take failed: ok=%v err=%v", ok, err)
	}
	if len(ids) != 3 {
		t.Fatalf("expected 3 ids, got %v", ids)
	}
	if _, ok, _ := store.Take(ctx, "u1"); ok {
		t.Fatal("second take should miss")
	}
}

func TestSessionStorePutCopies(t *testing.T) {
	ctx := context.Background()
	store := NewSessionStore()

	src := []int64{1, 2, 3}
	if err := store.Put(ctx, "u1", src); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	src[0] = 99

	ids, _, _ := store.Take(ctx, "u1")
	if ids[0] != 1 {
		t.Fatalf("stored session aliased the caller's slice: %v", ids)
	}
}
