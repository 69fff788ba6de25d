package leadchat

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newRedisStore(t *testing.T, ttl time.Duration) (*RedisSessionStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewRedisSessionStore(client, ttl, nil), mr
}

func TestRedisSessionStoreRoundTrip(t *testing.T) {
	store, _ := newRedisStore(t, 0)
	ctx := context.Background()

	session := NewSession("prop-9")
	session.Append(FromBot, greetingText, IntentOptions)
	session.Append(FromVisitor, "Inversión", nil)
	session.Intent.Intent = IntentInvest

	if err := store.Save(ctx, session); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := store.Load(ctx, session.ID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.PropertyID != "prop-9" {
		t.Errorf("property id = %q, want prop-9", loaded.PropertyID)
	}
	if len(loaded.Turns) != 2 || loaded.Turns[1].Text != "Inversión" {
		t.Errorf("turns not preserved: %+v", loaded.Turns)
	}
	if loaded.Intent.Intent != IntentInvest {
		t.Errorf("intent = %q, want %q", loaded.Intent.Intent, IntentInvest)
	}
}

func TestRedisSessionStoreMissingSession(t *testing.T) {
	store, _ := newRedisStore(t, 0)

	if _, err := store.Load(context.Background(), "absent"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestRedisSessionStoreSetsTTL(t *testing.T) {
	store, mr := newRedisStore(t, time.Hour)
	ctx := context.Background()

	session := NewSession("")
	if err := store.Save(ctx, session); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	if ttl := mr.TTL(sessionKey(session.ID)); ttl != time.Hour {
		t.Errorf("ttl = %v, want 1h", ttl)
	}

	// Each save refreshes the expiry.
	mr.FastForward(30 * time.Minute)
	if err := store.Save(ctx, session); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if ttl := mr.TTL(sessionKey(session.ID)); ttl != time.Hour {
		t.Errorf("ttl after refresh = %v, want 1h", ttl)
	}
}
