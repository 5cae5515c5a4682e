package redis

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestSessionStorePutAndTake(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewSessionStore(client, time.Minute)
	ctx := context.Background()

	if err := store.Put(ctx, "u1", []int64{3, 1, 4, 1, 5}); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	if !mr.Exists("quiz:session:u1") {
		t.Fatal("expected redis key to be set")
	}

	ids, ok, err := store.Take(ctx, "u1")
	if err != nil {
		t.Fatalf("take failed: %v", err)
	}
	if !ok || len(ids) != 5 || ids[0] != 3 {
		t.Fatalf("unexpected session payload: %v ok=%v", ids, ok)
	}
	if mr.Exists("quiz:session:u1") {
		t.Fatal("take must consume the key")
	}

	if _, ok, err := store.Take(ctx, "u1"); err != nil || ok {
		t.Fatalf("second take should miss, got ok=%v err=%v", ok, err)
	}
}

func TestSessionStoreExpires(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewSessionStore(client, time.Minute)
	ctx := context.Background()

	if err := store.Put(ctx, "u1", []int64{1, 2}); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	mr.FastForward(2 * time.Minute)

	if _, ok, err := store.Take(ctx, "u1"); err != nil || ok {
		t.Fatalf("expired session should miss, got ok=%v err=%v", ok, err)
	}
}
