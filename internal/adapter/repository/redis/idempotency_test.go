package redis

import (
	"context"
	"fmt"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
)

func newTestStore(t *testing.T) (*IdempotencyStore, *miniredis.Miniredis) {
	t.Helper()

	srv := miniredis.RunT(t)
	opts, err := goredis.ParseURL(fmt.Sprintf("redis://%s", srv.Addr()))
	if err != nil {
		t.Fatalf("parse redis URL: %v", err)
	}
	client := goredis.NewClient(opts)
	t.Cleanup(func() { client.Close() })

	return NewIdempotencyStore(client), srv
}

func TestCheckAndSetClaimsNewKey(t *testing.T) {
	store, srv := newTestStore(t)
	ctx := context.Background()

	exists, cached, err := store.CheckAndSet(ctx, "txn-1", nil, time.Minute)
	if err != nil {
		t.Fatalf("CheckAndSet: %v", err)
	}
	if exists {
		t.Fatal("expected fresh key to not exist")
	}
	if cached != nil {
		t.Fatalf("expected no cached response, got %q", cached)
	}

	// The claim must be visible to a concurrent duplicate.
	got, err := srv.Get("idempotency:txn-1")
	if err != nil {
		t.Fatalf("miniredis get: %v", err)
	}
	if got != "processing" {
		t.Fatalf("expected processing claim, got %q", got)
	}
}

func TestCheckAndSetReturnsStoredResponse(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	if err := store.Update(ctx, "txn-2", []byte(`{"id":"abc"}`), time.Minute); err != nil {
		t.Fatalf("Update: %v", err)
	}

	exists, cached, err := store.CheckAndSet(ctx, "txn-2", nil, time.Minute)
	if err != nil {
		t.Fatalf("CheckAndSet: %v", err)
	}
	if !exists {
		t.Fatal("expected key to exist")
	}
	if string(cached) != `{"id":"abc"}` {
		t.Fatalf("unexpected cached response: %q", cached)
	}
}

func TestCheckAndSetWritesResponseDirectly(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	exists, _, err := store.CheckAndSet(ctx, "txn-3", []byte("done"), time.Minute)
	if err != nil {
		t.Fatalf("CheckAndSet: %v", err)
	}
	if exists {
		t.Fatal("expected fresh key to not exist")
	}

	exists, cached, err := store.CheckAndSet(ctx, "txn-3", nil, time.Minute)
	if err != nil {
		t.Fatalf("CheckAndSet replay: %v", err)
	}
	if !exists || string(cached) != "done" {
		t.Fatalf("expected cached response, got exists=%v cached=%q", exists, cached)
	}
}

func TestCheckAndSetHonorsTTL(t *testing.T) {
	store, srv := newTestStore(t)
	ctx := context.Background()

	if _, _, err := store.CheckAndSet(ctx, "txn-4", []byte("done"), time.Minute); err != nil {
		t.Fatalf("CheckAndSet: %v", err)
	}

	srv.FastForward(2 * time.Minute)

	exists, _, err := store.CheckAndSet(ctx, "txn-4", nil, time.Minute)
	if err != nil {
		t.Fatalf("CheckAndSet after expiry: %v", err)
	}
	if exists {
		t.Fatal("expected key to expire")
	}
}
