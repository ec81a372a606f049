package session

import (
	"context"
	"testing"
	"time"

	redislib "github.com/redis/go-redis/v9"
)

type fakeStore struct {
	data map[string]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: make(map[string]string)}
}

func (f *fakeStore) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	f.data[key] = value.(string)
	return nil
}

func (f *fakeStore) Get(ctx context.Context, key string) (string, error) {
	v, ok := f.data[key]
	if !ok {
		return "", redislib.Nil
	}
	return v, nil
}

func (f *fakeStore) Del(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.data, key)
	}
	return nil
}

type fakeKeyer struct{}

func (fakeKeyer) AccessSessionKey(accessID string) string { return "mrb:session:access:" + accessID }

func newTestManager() (*Manager, *fakeStore) {
	store := newFakeStore()
	return &Manager{store: store, keyer: fakeKeyer{}, ttl: time.Hour}, store
}

func TestGenerateAndRotate(t *testing.T) {
	ctx := context.Background()
	mgr, store := newTestManager()

	accessID := NewAccessID()
	token, err := mgr.Generate(ctx, accessID)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty refresh token")
	}

	newAccessID, newToken, err := mgr.Rotate(ctx, accessID, token)
	if err != nil {
		t.Fatalf("rotate failed: %v", err)
	}
	if newAccessID == accessID {
		t.Fatal("rotation must mint a new access id")
	}
	if newToken == token {
		t.Fatal("rotation must mint a new refresh token")
	}
	if _, ok := store.data["mrb:session:access:"+accessID]; ok {
		t.Fatal("old session must be deleted after rotation")
	}

	// the consumed token must not rotate twice
	if _, _, err := mgr.Rotate(ctx, accessID, token); err != ErrInvalidRefreshToken {
		t.Fatalf("expected ErrInvalidRefreshToken, got %v", err)
	}
}

func TestRotateWrongToken(t *testing.T) {
	ctx := context.Background()
	mgr, _ := newTestManager()

	accessID := NewAccessID()
	if _, err := mgr.Generate(ctx, accessID); err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	if _, _, err := mgr.Rotate(ctx, accessID, "forged-token"); err != ErrInvalidRefreshToken {
		t.Fatalf("expected ErrInvalidRefreshToken, got %v", err)
	}
}

func TestRevokeAndHasSession(t *testing.T) {
	ctx := context.Background()
	mgr, _ := newTestManager()

	accessID := NewAccessID()
	if _, err := mgr.Generate(ctx, accessID); err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	ok, err := mgr.HasSession(ctx, accessID)
	if err != nil || !ok {
		t.Fatalf("expected live session, got ok=%v err=%v", ok, err)
	}

	if err := mgr.Revoke(ctx, accessID); err != nil {
		t.Fatalf("revoke failed: %v", err)
	}

	ok, err = mgr.HasSession(ctx, accessID)
	if err != nil {
		t.Fatalf("has session failed: %v", err)
	}
	if ok {
		t.Fatal("expected session gone after revoke")
	}
}
