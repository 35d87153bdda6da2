package redis

import (
	"context"
	"fmt"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
)

func TestNewClientSuccess(t *testing.T) {
	s := miniredis.RunT(t)

	ctx := context.Background()
	client, err := NewClient(ctx, fmt.Sprintf("redis://%s", s.Addr()), 4)
	if err != nil {
		t.Fatalf("expected client, got error: %v", err)
	}
	defer client.Close()

	if got := client.Options().PoolSize; got != 4 {
		t.Fatalf("pool size = %d, want 4", got)
	}
}

func TestNewClientInvalidURL(t *testing.T) {
	if _, err := NewClient(context.Background(), "://bad-url", 0); err == nil {
		t.Fatalf("expected error for invalid URL")
	}
}

func TestNewClientPingFailure(t *testing.T) {
	s := miniredis.RunT(t)
	url := fmt.Sprintf("redis://%s", s.Addr())
	s.Close()

	if _, err := NewClient(context.Background(), url, 0); err == nil {
		t.Fatalf("expected ping error when server is down")
	}
}
