package conversation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestStateStore(t *testing.T) (*RedisStateStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStateStore(client, time.Hour), mr
}

func TestRedisStateStoreRoundTrip(t *testing.T) {
	store, _ := newTestStateStore(t)
	ctx := context.Background()

	state := sampleState()
	if err := store.Save(ctx, "conv-1", state); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := store.Load(ctx, "conv-1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.LeadInfo != state.LeadInfo {
		t.Errorf("lead info = %+v, want %+v", loaded.LeadInfo, state.LeadInfo)
	}
	if loaded.TourDetails != state.TourDetails {
		t.Errorf("tour details = %+v", loaded.TourDetails)
	}
	if len(loaded.Messages) != len(state.Messages) {
		t.Errorf("messages = %d, want %d", len(loaded.Messages), len(state.Messages))
	}
}

func TestRedisStateStoreMissing(t *testing.T) {
	store, _ := newTestStateStore(t)
	if _, err := store.Load(context.Background(), "nope"); !errors.Is(err, ErrStateNotFound) {
		t.Fatalf("expected ErrStateNotFound, got %v", err)
	}
}

func TestRedisStateStoreTTL(t *testing.T) {
	store, mr := newTestStateStore(t)
	if err := store.Save(context.Background(), "conv-ttl", NewState()); err != nil {
		t.Fatalf("save: %v", err)
	}
	if ttl := mr.TTL(stateKey("conv-ttl")); ttl != time.Hour {
		t.Errorf("ttl = %v, want 1h", ttl)
	}

	mr.FastForward(2 * time.Hour)
	if _, err := store.Load(context.Background(), "conv-ttl"); !errors.Is(err, ErrStateNotFound) {
		t.Errorf("expected expiry, got %v", err)
	}
}

func TestNewRedisStateStorePanicsOnNilClient(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	NewRedisStateStore(nil, time.Hour)
}
