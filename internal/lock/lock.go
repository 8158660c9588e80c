package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/diagnosis/luxstay-rentals/pkg/logger"
)

// ErrBusy is returned when the lock is already held by another caller.
// The primitive never blocks or retries; callers decide what to do.
var ErrBusy = errors.New("lock: resource busy")

// Locker is a short-TTL mutual-exclusion primitive keyed by resource.
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (string, error)
	Release(ctx context.Context, key, token string) error
}

// Store is the minimal key-value contract the lock manager needs:
// atomic set-if-not-exists with expiry, and delete-if-value-matches.
type Store interface {
	SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
	CompareAndDelete(ctx context.Context, key, value string) (bool, error)
}

// Manager implements Locker over a Store. Each acquisition stores a random
// token; release deletes the key only when the stored token still matches,
// so a holder whose TTL expired cannot free a lock re-acquired by someone
// else.
type Manager struct {
	store Store
}

func NewManager(store Store) *Manager {
	return &Manager{store: store}
}

func (m *Manager) Acquire(ctx context.Context, key string, ttl time.Duration) (string, error) {
	token := uuid.NewString()

	ok, err := m.store.SetNX(ctx, key, token, ttl)
	if err != nil {
		return "", fmt.Errorf("failed to acquire lock %s: %w", key, err)
	}
	if !ok {
		return "", ErrBusy
	}
	return token, nil
}

func (m *Manager) Release(ctx context.Context, key, token string) error {
	ok, err := m.store.CompareAndDelete(ctx, key, token)
	if err != nil {
		return fmt.Errorf("failed to release lock %s: %w", key, err)
	}
	if !ok {
		// TTL already expired or the key changed hands; nothing to free.
		logger.WarnContext(ctx, "Lock not held at release", "key", key)
	}
	return nil
}

// PropertyKey is the lock key for a property's calendar.
func PropertyKey(propertyID uuid.UUID) string {
	return fmt.Sprintf("property:%s:lock", propertyID)
}

var _ Locker = (*Manager)(nil)
