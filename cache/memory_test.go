package cache

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestInMemoryCache_GetSet(t *testing.T) {
	ctx := context.Background()
	c := NewInMemoryCache(time.Hour)

	err := c.Set(ctx, "key1", "value1")
	if err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	val, ok := c.Get(ctx, "key1")
	if !ok {
		t.Error("Get should return true for existing key")
	}
	if val != "value1" {
		t.Errorf("Get returned %q, want %q", val, "value1")
	}

	val, ok = c.Get(ctx, "nonexistent")
	if ok {
		t.Error("Get should return false for missing key")
	}
	if val != "" {
		t.Errorf("Get should return empty string for missing key, got %q", val)
	}
}

func TestInMemoryCache_TTL(t *testing.T) {
	ctx := context.Background()
	c := NewInMemoryCache(time.Minute)

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	c.Set(ctx, "key1", "value1")

	val, ok := c.Get(ctx, "key1")
	if !ok || val != "value1" {
		t.Error("Value should be available immediately after set")
	}

	now = now.Add(61 * time.Second)

	val, ok = c.Get(ctx, "key1")
	if ok {
		t.Error("Value should be expired after TTL")
	}
	if val != "" {
		t.Errorf("Expired value should return empty string, got %q", val)
	}
	if c.Len() != 0 {
		t.Errorf("Expired entry should be removed, len=%d", c.Len())
	}
}

func TestInMemoryCache_NoTTL(t *testing.T) {
	ctx := context.Background()
	c := NewInMemoryCache(0)

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	c.Set(ctx, "key1", "value1")
	now = now.Add(365 * 24 * time.Hour)

	val, ok := c.Get(ctx, "key1")
	if !ok || val != "value1" {
		t.Error("Value should be available with no TTL")
	}
}

func TestInMemoryCache_Overwrite(t *testing.T) {
	ctx := context.Background()
	c := NewInMemoryCache(time.Hour)

	c.Set(ctx, "key1", "value1")
	c.Set(ctx, "key1", "value2")

	val, ok := c.Get(ctx, "key1")
	if !ok {
		t.Error("Key should exist")
	}
	if val != "value2" {
		t.Errorf("Value should be overwritten, got %q, want %q", val, "value2")
	}
}

func TestInMemoryCache_Len(t *testing.T) {
	ctx := context.Background()
	c := NewInMemoryCache(time.Hour)

	if c.Len() != 0 {
		t.Errorf("Empty cache should have length 0, got %d", c.Len())
	}

	c.Set(ctx, "key1", "value1")
	c.Set(ctx, "key2", "value2")

	if c.Len() != 2 {
		t.Errorf("Cache should have length 2, got %d", c.Len())
	}
}

func TestInMemoryCache_Clear(t *testing.T) {
	ctx := context.Background()
	c := NewInMemoryCache(time.Hour)

	c.Set(ctx, "key1", "value1")
	c.Set(ctx, "key2", "value2")
	c.Clear()

	if c.Len() != 0 {
		t.Errorf("Cleared cache should have length 0, got %d", c.Len())
	}

	_, ok := c.Get(ctx, "key1")
	if ok {
		t.Error("Cleared cache should not contain any keys")
	}
}

func TestInMemoryCache_EntriesSkipsExpired(t *testing.T) {
	ctx := context.Background()
	c := NewInMemoryCache(time.Minute)

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	c.Set(ctx, "old", "a")
	now = now.Add(2 * time.Minute)
	c.Set(ctx, "new", "b")

	entries := c.Entries()
	if len(entries) != 1 || entries["new"] != "b" {
		t.Errorf("Expected only the fresh entry, got %v", entries)
	}
}

func TestInMemoryCache_Concurrent(t *testing.T) {
	ctx := context.Background()
	c := NewInMemoryCache(time.Hour)
	var wg sync.WaitGroup

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := string(rune('a' + i%26))
			c.Set(ctx, key, "value")
		}(i)
	}

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := string(rune('a' + i%26))
			c.Get(ctx, key)
		}(i)
	}

	wg.Wait()
}
