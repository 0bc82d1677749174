package redis

import (
	"context"
	"fmt"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
)

func TestNewClient(t *testing.T) {
	srv := miniredis.RunT(t)
	defer srv.Close()

	ctx := context.Background()
	client, err := NewClient(ctx, fmt.Sprintf("redis://%s", srv.Addr()))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	defer client.Close()

	if err := client.Ping(ctx).Err(); err != nil {
		t.Fatalf("ping: %v", err)
	}
}

func TestNewClientRejectsMalformedURL(t *testing.T) {
	if _, err := NewClient(context.Background(), "://nope"); err == nil {
		t.Fatal("expected error for malformed URL")
	}
}

func TestNewClientUnreachableServer(t *testing.T) {
	srv := miniredis.RunT(t)
	url := fmt.Sprintf("redis://%s", srv.Addr())
	srv.Close()

	if _, err := NewClient(context.Background(), url); err == nil {
		t.Fatal("expected error when server is unreachable")
	}
}
