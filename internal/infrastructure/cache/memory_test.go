package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/petfit/backend/internal/domain"
)

func newTestCache(t *testing.T) *MemoryCache {
	t.Helper()
	c := NewMemoryCache(time.Hour)
	t.Cleanup(c.Close)
	return c
}

func TestMemoryCache_SetAndGet(t *testing.T) {
	ctx := context.Background()

	t.Run("stores a string", func(t *testing.T) {
		c := newTestCache(t)
		if err := c.Set(ctx, "k", "v", time.Minute); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
		got, err := c.Get(ctx, "k")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if got != "v" {
			t.Errorf("Get() = %v, want v", got)
		}
	})

	t.Run("stores a snapshot in generic form", func(t *testing.T) {
		c := newTestCache(t)
		snapshot := &domain.ConfigSnapshot{
			HarmfulIngredients: []string{"BHA", "BHT"},
			AllergenKeywords:   map[string][]string{"BEEF": {"beef"}},
		}
		if err := c.Set(ctx, "config:snapshot", snapshot, time.Minute); err != nil {
			t.Fatalf("Set() error = %v", err)
		}

		got, err := c.Get(ctx, "config:snapshot")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		m, ok := got.(map[string]interface{})
		if !ok {
			t.Fatalf("Get() type = %T, want map[string]interface{}", got)
		}
		list, ok := m["harmful_ingredients"].([]interface{})
		if !ok || len(list) != 2 {
			t.Errorf("harmful_ingredients = %v, want 2 entries", m["harmful_ingredients"])
		}
	})

	t.Run("caller mutation does not leak into the cache", func(t *testing.T) {
		c := newTestCache(t)
		list := []string{"BHA"}
		if err := c.Set(ctx, "list", list, time.Minute); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
		list[0] = "changed"

		got, _ := c.Get(ctx, "list")
		if got.([]interface{})[0] != "BHA" {
			t.Errorf("cached value = %v, want BHA", got)
		}
	})

	t.Run("rejects values that cannot be encoded", func(t *testing.T) {
		c := newTestCache(t)
		if err := c.Set(ctx, "bad", make(chan int), time.Minute); err == nil {
			t.Error("Set() error = nil, want encode error")
		}
	})
}

func TestMemoryCache_Expiry(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t)

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	if err := c.Set(ctx, "k", "v", time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	now = now.Add(2 * time.Minute)

	if _, err := c.Get(ctx, "k"); !errors.Is(err, domain.ErrCacheMiss) {
		t.Errorf("Get() after expiry error = %v, want ErrCacheMiss", err)
	}
	if ok, _ := c.Exists(ctx, "k"); ok {
		t.Error("Exists() = true after expiry, want false")
	}

	c.purgeExpired()
	if c.Size() != 0 {
		t.Errorf("Size() after purge = %d, want 0", c.Size())
	}
}

func TestMemoryCache_Get_CacheMiss(t *testing.T) {
	c := newTestCache(t)
	_, err := c.Get(context.Background(), "missing")
	if !errors.Is(err, domain.ErrCacheMiss) {
		t.Errorf("Get() error = %v, want %v", err, domain.ErrCacheMiss)
	}
}

func TestMemoryCache_DeleteAndClear(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t)

	for _, key := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, key, key, time.Minute); err != nil {
			t.Fatalf("Set(%s) error = %v", key, err)
		}
	}

	if err := c.Delete(ctx, "a"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if ok, _ := c.Exists(ctx, "a"); ok {
		t.Error("Exists(a) = true after delete")
	}
	if c.Size() != 2 {
		t.Errorf("Size() = %d, want 2", c.Size())
	}

	c.Clear()
	if c.Size() != 0 {
		t.Errorf("Size() after Clear = %d, want 0", c.Size())
	}
}

func TestMemoryCache_Concurrent(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			key := string(rune('a' + id))
			if err := c.Set(ctx, key, id, time.Minute); err != nil {
				t.Errorf("Set() error = %v", err)
			}
			if _, err := c.Get(ctx, key); err != nil {
				t.Errorf("Get() error = %v", err)
			}
		}(i)
	}
	wg.Wait()
}

func TestMemoryCache_CloseIsIdempotent(t *testing.T) {
	c := NewMemoryCache(time.Millisecond)
	c.Close()
	c.Close()
}
