package dialog

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newRedisStore(t *testing.T) (*RedisSessionStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisSessionStore(client, time.Hour), mr
}

func TestRedisSessionStoreRoundTrip(t *testing.T) {
	store, _ := newRedisStore(t)
	ctx := context.Background()

	session := NewSession("s1")
	session.State = StateCollecting
	session.Record.Name = "Anna Smith"
	session.Record.Greeted = true

	if err := store.Put(ctx, session); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := store.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got == nil {
		t.Fatal("session missing after Put")
	}
	if got.State != StateCollecting || got.Record.Name != "Anna Smith" || !got.Record.Greeted {
		t.Errorf("round trip lost data: %+v", got)
	}
}

func TestRedisSessionStoreMissing(t *testing.T) {
	store, _ := newRedisStore(t)

	got, err := store.Get(context.Background(), "nope")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != nil {
		t.Errorf("got %+v, want nil for unknown session", got)
	}
}

func TestRedisSessionStoreTTL(t *testing.T) {
	store, mr := newRedisStore(t)
	ctx := context.Background()

	if err := store.Put(ctx, NewSession("s1")); err != nil {
		t.Fatal(err)
	}
	mr.FastForward(2 * time.Hour)

	got, err := store.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != nil {
		t.Error("session survived past its TTL")
	}
}

func TestRedisSessionStoreDelete(t *testing.T) {
	store, _ := newRedisStore(t)
	ctx := context.Background()

	if err := store.Put(ctx, NewSession("s1")); err != nil {
		t.Fatal(err)
	}
	if err := store.Delete(ctx, "s1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if got, _ := store.Get(ctx, "s1"); got != nil {
		t.Error("session still present after Delete")
	}
}
