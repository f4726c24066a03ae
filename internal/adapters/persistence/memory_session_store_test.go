package persistence

import (
	"context"
	"testing"
	"time"
)

func TestInMemorySessionStoreGetSetPop(t *testing.T) {
	ctx := context.Background()
	store := NewInMemorySessionStore(0)

	got, err := store.Get(ctx, "s1", "quiz")
	if err != nil || got != nil {
		t.Fatalf("expected nil, nil for missing key, got %q, %v", got, err)
	}

	if err := store.Set(ctx, "s1", "quiz", []byte("estado")); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, _ = store.Get(ctx, "s1", "quiz")
	if string(got) != "estado" {
		t.Fatalf("expected stored value, got %q", got)
	}

	// Sessões diferentes não se misturam.
	if other, _ := store.Get(ctx, "s2", "quiz"); other != nil {
		t.Fatalf("value leaked to another session")
	}

	popped, err := store.Pop(ctx, "s1", "quiz")
	if err != nil || string(popped) != "estado" {
		t.Fatalf("pop returned %q, %v", popped, err)
	}
	if again, _ := store.Pop(ctx, "s1", "quiz"); again != nil {
		t.Fatalf("second pop must return nil")
	}
}

func TestInMemorySessionStoreCopiesValue(t *testing.T) {
	ctx := context.Background()
	store := NewInMemorySessionStore(0)

	buf := []byte("abc")
	_ = store.Set(ctx, "s1", "k", buf)
	buf[0] = 'x'

	got, _ := store.Get(ctx, "s1", "k")
	if string(got) != "abc" {
		t.Fatalf("store must keep its own copy, got %q", got)
	}
}

func TestInMemorySessionStoreExpiration(t *testing.T) {
	ctx := context.Background()
	store := NewInMemorySessionStore(time.Minute)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	_ = store.Set(ctx, "s1", "quiz", []byte("v"))
	_ = store.Set(ctx, "s2", "quiz", []byte("v"))

	now = now.Add(2 * time.Minute)
	if got, _ := store.Get(ctx, "s1", "quiz"); got != nil {
		t.Fatalf("expired entry must not be returned")
	}
	if removed := store.Cleanup(); removed != 1 {
		t.Fatalf("expected 1 entry removed, got %d", removed)
	}
	if got, _ := store.Pop(ctx, "s2", "quiz"); got != nil {
		t.Fatalf("expired entry must not be popped")
	}
}
