package session

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestLoginLogout(t *testing.T) {
	s := New()
	if s.Authenticated() {
		t.Fatal("new session should be a guest")
	}
	if !s.Learn.IsExpanded(1) {
		t.Error("expected first stage expanded in a new session")
	}

	s.Quiz.Score = 10
	s.Learn.Completion.Toggle("b1")

	user, err := s.Login(" alice@example.com ", "")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if user.Name != "alice" || user.Email != "alice@example.com" {
		t.Errorf("unexpected user: %+v", user)
	}
	if user.Avatar != "https://i.pravatar.cc/48?u=alice%40example.com" {
		t.Errorf("unexpected avatar %q", user.Avatar)
	}

	s.Logout()
	if s.Authenticated() {
		t.Error("expected guest after logout")
	}
	if _, err := s.RequireUser(); !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("expected ErrUnauthenticated, got %v", err)
	}
	if s.Quiz.Score != 10 || !s.Learn.Completion.Done("b1") {
		t.Error("logout must not reset quiz or learning state")
	}

	if _, err := s.Login("   ", "Bob"); !errors.Is(err, ErrInvalidLogin) {
		t.Errorf("expected ErrInvalidLogin, got %v", err)
	}
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	if _, err := store.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	s := New()
	if _, err := s.Login("bob@example.com", "Bob"); err != nil {
		t.Fatal(err)
	}
	if err := store.Save(ctx, s); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// changes after save are not visible until saved again
	s.User.Name = "mutated"
	s.Learn.Completion.Toggle("b1")

	got, err := store.Get(ctx, s.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.User.Name != "Bob" || got.Learn.Completion.Done("b1") {
		t.Errorf("store shares memory with the saved session: %+v", got)
	}

	got.Quiz.Index = 3
	again, _ := store.Get(ctx, s.ID)
	if again.Quiz.Index != 0 {
		t.Error("store shares memory with a returned session")
	}

	if err := store.Delete(ctx, s.ID); err != nil {
		t.Fatal(err)
	}
	if store.Len() != 0 {
		t.Errorf("expected empty store, got %d", store.Len())
	}
}

func TestMemoryStoreDeleteIdle(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	old := New()
	old.LastSeen = time.Now().Add(-2 * time.Hour)
	fresh := New()

	_ = store.Save(ctx, old)
	_ = store.Save(ctx, fresh)

	removed, err := store.DeleteIdle(ctx, time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if removed != 1 {
		t.Errorf("expected 1 removed, got %d", removed)
	}
	if _, err := store.Get(ctx, fresh.ID); err != nil {
		t.Errorf("fresh session was removed: %v", err)
	}
}

func newRedisStore(t *testing.T, ttl time.Duration) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)

	store, err := NewRedisStore(context.Background(), RedisOptions{Address: mr.Addr(), TTL: ttl})
	if err != nil {
		t.Fatalf("NewRedisStore failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store, mr
}

func TestRedisStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t, 30*time.Minute)

	s := New()
	if _, err := s.Login("carol@example.com", ""); err != nil {
		t.Fatal(err)
	}
	s.Quiz.Score = 25
	s.Learn.Completion.Toggle("i2")
	s.Learn.Expand(3)

	if err := store.Save(ctx, s); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if ttl := mr.TTL(keyPrefix + s.ID); ttl != 30*time.Minute {
		t.Errorf("expected 30m TTL, got %v", ttl)
	}

	got, err := store.Get(ctx, s.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.User == nil || got.User.Email != "carol@example.com" {
		t.Errorf("unexpected user: %+v", got.User)
	}
	if got.Quiz.Score != 25 || !got.Learn.Completion.Done("i2") || !got.Learn.IsExpanded(3) {
		t.Errorf("state not restored: %+v", got)
	}

	if err := store.Ping(ctx); err != nil {
		t.Errorf("Ping failed: %v", err)
	}
}

func TestRedisStoreExpiry(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t, time.Minute)

	s := New()
	_ = store.Save(ctx, s)

	mr.FastForward(2 * time.Minute)

	if _, err := store.Get(ctx, s.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected expired session to be gone, got %v", err)
	}
}

func TestRedisStoreDeleteIdle(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t, 0)

	old := New()
	old.LastSeen = time.Now().Add(-3 * time.Hour)
	fresh := New()
	_ = store.Save(ctx, old)
	_ = store.Save(ctx, fresh)
	mr.Set(keyPrefix+"garbage", "not json")

	removed, err := store.DeleteIdle(ctx, time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatalf("DeleteIdle failed: %v", err)
	}
	if removed != 2 {
		t.Errorf("expected 2 removed, got %d", removed)
	}
	if _, err := store.Get(ctx, old.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected idle session removed, got %v", err)
	}
	if _, err := store.Get(ctx, fresh.ID); err != nil {
		t.Errorf("fresh session was removed: %v", err)
	}
}

// saveAfterGet runs save once, right after the first GET of key
type saveAfterGet struct {
	key  string
	once sync.Once
	save func()
}

func (h *saveAfterGet) DialHook(next redis.DialHook) redis.DialHook { return next }

func (h *saveAfterGet) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return next
}

func (h *saveAfterGet) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		err := next(ctx, cmd)
		if args := cmd.Args(); cmd.Name() == "get" && len(args) > 1 && args[1] == h.key {
			h.once.Do(h.save)
		}
		return err
	}
}

func TestRedisStoreDeleteIdleKeepsConcurrentSave(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t, 0)

	s := New()
	s.LastSeen = time.Now().Add(-3 * time.Hour)
	if err := store.Save(ctx, s); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	key := keyPrefix + s.ID
	store.client.AddHook(&saveAfterGet{key: key, save: func() {
		touched := s.Clone()
		touched.LastSeen = time.Now()
		data, err := json.Marshal(touched)
		if err != nil {
			t.Error(err)
			return
		}
		mr.Set(key, string(data))
	}})

	removed, err := store.DeleteIdle(ctx, time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatalf("DeleteIdle failed: %v", err)
	}
	if removed != 0 {
		t.Errorf("expected the re-saved session to be kept, removed %d", removed)
	}

	got, err := store.Get(ctx, s.ID)
	if err != nil {
		t.Fatalf("session was removed: %v", err)
	}
	if time.Since(got.LastSeen) > time.Minute {
		t.Errorf("expected the fresh save to survive, got LastSeen %v", got.LastSeen)
	}
}

func TestNewRedisStoreUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	if _, err := NewRedisStore(context.Background(), RedisOptions{Address: addr}); err == nil {
		t.Fatal("expected connection error")
	}
}
