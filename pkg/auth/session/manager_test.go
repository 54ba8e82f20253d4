package session

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"
)

type mockStore struct {
	mu   sync.Mutex
	data map[string]string
	ttls map[string]time.Duration
}

func newMockStore() *mockStore {
	return &mockStore{data: make(map[string]string), ttls: make(map[string]time.Duration)}
}

func (m *mockStore) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = fmt.Sprint(value)
	m.ttls[key] = ttl
	return nil
}

func (m *mockStore) Exists(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.data[key]
	return ok, nil
}

func (m *mockStore) RevokedTokenKey(tokenID string) string {
	return fmt.Sprintf("revoked:%s", tokenID)
}

func newTestManager(store *mockStore, now time.Time) *Manager {
	return &Manager{
		store: store,
		keyer: store,
		now:   func() time.Time { return now },
	}
}

func TestManagerRevokeAndCheck(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	store := newMockStore()
	manager := newTestManager(store, now)
	ctx := context.Background()

	revoked, err := manager.IsRevoked(ctx, "jti-1")
	if err != nil || revoked {
		t.Fatalf("expected fresh token to be active, got %v %v", revoked, err)
	}

	if err := manager.Revoke(ctx, "jti-1", now.Add(2*time.Hour)); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if got := store.ttls["revoked:jti-1"]; got != 2*time.Hour {
		t.Fatalf("expected denylist entry to live until token expiry, got %v", got)
	}

	revoked, err = manager.IsRevoked(ctx, "jti-1")
	if err != nil || !revoked {
		t.Fatalf("expected token to be revoked, got %v %v", revoked, err)
	}
}

func TestManagerRevokeSkipsExpiredTokens(t *testing.T) {
	now := time.Now()
	store := newMockStore()
	manager := newTestManager(store, now)

	if err := manager.Revoke(context.Background(), "jti-old", now.Add(-time.Minute)); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if len(store.data) != 0 {
		t.Fatalf("expired token should not be stored")
	}
}

func TestManagerRequiresTokenID(t *testing.T) {
	manager := newTestManager(newMockStore(), time.Now())
	if err := manager.Revoke(context.Background(), "", time.Now().Add(time.Hour)); err == nil {
		t.Fatalf("expected error for empty token id")
	}
	if _, err := manager.IsRevoked(context.Background(), " "); err == nil {
		t.Fatalf("expected error for empty token id")
	}
	if _, err := NewManager(nil); err == nil {
		t.Fatalf("expected error for nil client")
	}
}
