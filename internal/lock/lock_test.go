package lock

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
)

// fakeStore implements Store in memory with a controllable clock so TTL
// expiry is deterministic.
type fakeStore struct {
	mu    sync.Mutex
	now   time.Time
	items map[string]fakeEntry
}

type fakeEntry struct {
	value     string
	expiresAt time.Time
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		now:   time.Date(2026, 9, 10, 12, 0, 0, 0, time.UTC),
		items: make(map[string]fakeEntry),
	}
}

func (s *fakeStore) advance(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = s.now.Add(d)
}

func (s *fakeStore) pruneLocked(key string) {
	if e, ok := s.items[key]; ok && !s.now.Before(e.expiresAt) {
		delete(s.items, key)
	}
}

func (s *fakeStore) SetNX(_ context.Context, key, value string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pruneLocked(key)
	if _, ok := s.items[key]; ok {
		return false, nil
	}
	s.items[key] = fakeEntry{value: value, expiresAt: s.now.Add(ttl)}
	return true, nil
}

func (s *fakeStore) CompareAndDelete(_ context.Context, key, value string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pruneLocked(key)
	if e, ok := s.items[key]; ok && e.value == value {
		delete(s.items, key)
		return true, nil
	}
	return false, nil
}

func TestAcquireThenBusy(t *testing.T) {
	ctx := context.Background()
	m := NewManager(newFakeStore())

	token, err := m.Acquire(ctx, "property:p1:lock", 5*time.Second)
	if err != nil {
		t.Fatal(err)
	}
	if token == "" {
		t.Fatal("expected a token")
	}

	if _, err := m.Acquire(ctx, "property:p1:lock", 5*time.Second); !errors.Is(err, ErrBusy) {
		t.Fatalf("second acquire = %v, want ErrBusy", err)
	}

	// independent keys do not contend
	if _, err := m.Acquire(ctx, "property:p2:lock", 5*time.Second); err != nil {
		t.Fatalf("different key should acquire, got %v", err)
	}
}

func TestReleaseFreesLock(t *testing.T) {
	ctx := context.Background()
	m := NewManager(newFakeStore())

	token, err := m.Acquire(ctx, "property:p1:lock", 5*time.Second)
	if err != nil {
		t.Fatal(err)
	}
	if err := m.Release(ctx, "property:p1:lock", token); err != nil {
		t.Fatal(err)
	}

	if _, err := m.Acquire(ctx, "property:p1:lock", 5*time.Second); err != nil {
		t.Fatalf("acquire after release = %v", err)
	}
}

func TestReleaseWithWrongTokenKeepsLock(t *testing.T) {
	ctx := context.Background()
	m := NewManager(newFakeStore())

	if _, err := m.Acquire(ctx, "property:p1:lock", 5*time.Second); err != nil {
		t.Fatal(err)
	}

	// a stale holder must not free someone else's lock
	if err := m.Release(ctx, "property:p1:lock", "stale-token"); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Acquire(ctx, "property:p1:lock", 5*time.Second); !errors.Is(err, ErrBusy) {
		t.Fatalf("lock should still be held, got %v", err)
	}
}

func TestTTLExpiry(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	m := NewManager(store)

	// simulated crash: the holder never releases
	if _, err := m.Acquire(ctx, "property:p1:lock", 5*time.Second); err != nil {
		t.Fatal(err)
	}

	store.advance(4 * time.Second)
	if _, err := m.Acquire(ctx, "property:p1:lock", 5*time.Second); !errors.Is(err, ErrBusy) {
		t.Fatalf("lock should be held before TTL, got %v", err)
	}

	store.advance(2 * time.Second)
	if _, err := m.Acquire(ctx, "property:p1:lock", 5*time.Second); err != nil {
		t.Fatalf("lock should expire after TTL, got %v", err)
	}
}

func TestPropertyKey(t *testing.T) {
	id := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	want := "property:6ba7b810-9dad-11d1-80b4-00c04fd430c8:lock"
	if got := PropertyKey(id); got != want {
		t.Errorf("PropertyKey = %q, want %q", got, want)
	}
}
