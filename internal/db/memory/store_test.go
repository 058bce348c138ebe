package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/homegrid/intentd/internal/db"
)

func TestStore_SetGet(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	if err := s.Set(ctx, "k", []byte("v")); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	got, err := s.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got) != "v" {
		t.Errorf("Get = %q, want %q", got, "v")
	}
}

func TestStore_MissingKey(t *testing.T) {
	s := NewStore()
	if _, err := s.Get(context.Background(), "absent"); !errors.Is(err, db.ErrKeyNotFound) {
		t.Fatalf("expected ErrKeyNotFound, got %v", err)
	}
}

func TestStore_TTLExpiry(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	now := time.Now()
	s.now = func() time.Time { return now }

	if err := s.SetWithTTL(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("SetWithTTL failed: %v", err)
	}
	if _, err := s.Get(ctx, "k"); err != nil {
		t.Fatalf("Get before expiry failed: %v", err)
	}

	now = now.Add(2 * time.Minute)
	if _, err := s.Get(ctx, "k"); !errors.Is(err, db.ErrKeyNotFound) {
		t.Fatalf("expected ErrKeyNotFound after expiry, got %v", err)
	}
}

func TestStore_GetReturnsCopy(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	_ = s.Set(ctx, "k", []byte("abc"))
	got, _ := s.Get(ctx, "k")
	got[0] = 'X'

	again, _ := s.Get(ctx, "k")
	if string(again) != "abc" {
		t.Errorf("stored value mutated through the returned slice: %q", again)
	}
}

func TestStore_ConcurrentAccess(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = s.Set(ctx, "shared", []byte("v"))
				_, _ = s.Get(ctx, "shared")
			}
		}()
	}
	wg.Wait()

	if _, err := s.Get(ctx, "shared"); err != nil {
		t.Fatalf("Get after concurrent writes failed: %v", err)
	}
}
