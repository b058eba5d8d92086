package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func newTestCache(maxItems int, ttl time.Duration) (*Cache, *time.Time) {
	now := time.Date(2025, 3, 8, 10, 0, 0, 0, time.UTC)
	c := New(Config{MaxItems: maxItems, TTL: ttl})
	c.now = func() time.Time { return now }
	return c, &now
}

func TestCache_SetGet(t *testing.T) {
	c, _ := newTestCache(10, 0)
	defer c.Close()

	c.Set("h1", "main.em", []byte(`["statements",[]]`))

	entry, ok := c.Get("h1")
	if !ok {
		t.Fatal("Get() should hit")
	}
	if string(entry.Value) != `["statements",[]]` || entry.Name != "main.em" {
		t.Errorf("Get() = %+v", entry)
	}
	if _, ok := c.Get("missing"); ok {
		t.Error("Get(missing) should miss")
	}

	hits, misses, rate := c.Stats()
	if hits != 1 || misses != 1 || rate != 50 {
		t.Errorf("Stats() = %d, %d, %v; want 1, 1, 50", hits, misses, rate)
	}
}

func TestCache_Expiration(t *testing.T) {
	c, now := newTestCache(10, time.Minute)
	defer c.Close()

	c.Set("h1", "a.em", []byte("x"))
	*now = now.Add(30 * time.Second)
	if _, ok := c.Get("h1"); !ok {
		t.Fatal("entry expired too early")
	}

	*now = now.Add(31 * time.Second)
	if _, ok := c.Get("h1"); ok {
		t.Error("entry should have expired")
	}
	if c.Size() != 0 {
		t.Errorf("Size() = %d, want 0 after expired lookup", c.Size())
	}
}

func TestCache_Cleanup(t *testing.T) {
	c, now := newTestCache(10, time.Minute)
	defer c.Close()

	c.Set("h1", "a.em", []byte("x"))
	c.Set("h2", "b.em", []byte("y"))
	*now = now.Add(2 * time.Minute)
	c.cleanup()

	if c.Size() != 0 {
		t.Errorf("Size() = %d, want 0", c.Size())
	}
}

func TestCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c, now := newTestCache(2, 0)
	defer c.Close()

	c.Set("h1", "a.em", []byte("1"))
	*now = now.Add(time.Second)
	c.Set("h2", "b.em", []byte("2"))
	*now = now.Add(time.Second)
	c.Get("h1") // h2 is now the least recently used
	*now = now.Add(time.Second)
	c.Set("h3", "c.em", []byte("3"))

	if _, ok := c.Get("h2"); ok {
		t.Error("h2 should have been evicted")
	}
	for _, key := range []string{"h1", "h3"} {
		if _, ok := c.Get(key); !ok {
			t.Errorf("%s should still be cached", key)
		}
	}
}

func TestCache_OverwriteDoesNotEvict(t *testing.T) {
	c, _ := newTestCache(2, 0)
	defer c.Close()

	c.Set("h1", "a.em", []byte("1"))
	c.Set("h2", "b.em", []byte("2"))
	c.Set("h2", "b.em", []byte("2b"))

	if c.Size() != 2 {
		t.Errorf("Size() = %d, want 2", c.Size())
	}
	entry, _ := c.Get("h2")
	if string(entry.Value) != "2b" {
		t.Errorf("Value = %q, want 2b", entry.Value)
	}
}

func TestCache_DeleteClear(t *testing.T) {
	c, _ := newTestCache(10, 0)
	defer c.Close()

	c.Set("h1", "a.em", []byte("1"))
	c.Set("h2", "b.em", []byte("2"))
	c.Delete("h1")
	if c.Size() != 1 {
		t.Errorf("Size() after Delete = %d, want 1", c.Size())
	}
	c.Clear()
	if c.Size() != 0 {
		t.Errorf("Size() after Clear = %d, want 0", c.Size())
	}
}

func TestCache_CloseTwice(t *testing.T) {
	c := New(DefaultConfig())
	c.Close()
	c.Close()
}

type mapStore struct {
	data   map[string][]byte
	gets   int
	getErr error
}

func (m *mapStore) Get(ctx context.Context, hash string) ([]byte, bool, error) {
	m.gets++
	if m.getErr != nil {
		return nil, false, m.getErr
	}
	v, ok := m.data[hash]
	return v, ok, nil
}

func (m *mapStore) Put(ctx context.Context, hash, name string, encoded []byte) error {
	m.data[hash] = encoded
	return nil
}

func TestTiered(t *testing.T) {
	ctx := context.Background()

	t.Run("write through", func(t *testing.T) {
		store := &mapStore{data: map[string][]byte{}}
		tiered := NewTiered(New(Config{MaxItems: 4}), store)

		if err := tiered.Put(ctx, "h1", "a.em", []byte("tree")); err != nil {
			t.Fatalf("Put() error = %v", err)
		}
		if string(store.data["h1"]) != "tree" {
			t.Error("Put() did not reach the backing store")
		}
		data, ok, err := tiered.Get(ctx, "h1")
		if err != nil || !ok || string(data) != "tree" {
			t.Errorf("Get() = %q, %v, %v", data, ok, err)
		}
		if store.gets != 0 {
			t.Errorf("memory hit should not query the store, gets = %d", store.gets)
		}
	})

	t.Run("promotes store hits", func(t *testing.T) {
		store := &mapStore{data: map[string][]byte{"h2": []byte("old")}}
		tiered := NewTiered(New(Config{MaxItems: 4}), store)

		for i := 0; i < 2; i++ {
			data, ok, err := tiered.Get(ctx, "h2")
			if err != nil || !ok || string(data) != "old" {
				t.Fatalf("Get() = %q, %v, %v", data, ok, err)
			}
		}
		if store.gets != 1 {
			t.Errorf("store gets = %d, want 1", store.gets)
		}
		if tiered.Memory().Size() != 1 {
			t.Errorf("memory size = %d, want 1", tiered.Memory().Size())
		}
	})

	t.Run("store errors surface", func(t *testing.T) {
		store := &mapStore{data: map[string][]byte{}, getErr: errors.New("disk I/O error")}
		tiered := NewTiered(New(Config{MaxItems: 4}), store)

		if _, _, err := tiered.Get(ctx, "h3"); err == nil {
			t.Error("Get() should return the store error")
		}
	})

	t.Run("memory only", func(t *testing.T) {
		tiered := NewTiered(New(Config{MaxItems: 4}), nil)
		if _, ok, err := tiered.Get(ctx, "h4"); ok || err != nil {
			t.Errorf("Get() = %v, %v; want miss", ok, err)
		}
		if err := tiered.Put(ctx, "h4", "d.em", []byte("x")); err != nil {
			t.Fatalf("Put() error = %v", err)
		}
		if _, ok, _ := tiered.Get(ctx, "h4"); !ok {
			t.Error("Get() should hit after Put")
		}
	})
}
