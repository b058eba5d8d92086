package store

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	mdwerror "github.com/msto63/ember/foundation/core/error"
)

func openTestStore(t *testing.T, maxEntries int) *SQLiteStore {
	t.Helper()
	s, err := Open(Config{
		Path:       filepath.Join(t.TempDir(), "cache", "ast.db"),
		MaxEntries: maxEntries,
	})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// tick makes access times strictly increasing
func tick(s *SQLiteStore) {
	base := time.Date(2025, 3, 8, 9, 0, 0, 0, time.UTC)
	var mu sync.Mutex
	n := 0
	s.now = func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		n++
		return base.Add(time.Duration(n) * time.Second)
	}
}

func TestSQLiteStore_PutGet(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t, 0)

	tree := []byte(`["statements",[["identifier","x"]]]`)
	if err := s.Put(ctx, "abc", "main.em", tree); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	got, ok, err := s.Get(ctx, "abc")
	if err != nil || !ok {
		t.Fatalf("Get() = %v, %v", ok, err)
	}
	if string(got) != string(tree) {
		t.Errorf("Get() = %s, want %s", got, tree)
	}

	if _, ok, err := s.Get(ctx, "missing"); ok || err != nil {
		t.Errorf("Get(missing) = %v, %v; want miss without error", ok, err)
	}
}

func TestSQLiteStore_PutOverwrites(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t, 0)

	if err := s.Put(ctx, "abc", "old.em", []byte("1")); err != nil {
		t.Fatal(err)
	}
	if err := s.Put(ctx, "abc", "new.em", []byte("22")); err != nil {
		t.Fatal(err)
	}

	entries, err := s.List(ctx, 10)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("List() returned %d entries, want 1", len(entries))
	}
	if entries[0].Name != "new.em" || entries[0].Size != 2 {
		t.Errorf("entry = %+v, want name new.em size 2", entries[0])
	}
}

func TestSQLiteStore_PutRequiresHash(t *testing.T) {
	s := openTestStore(t, 0)

	err := s.Put(context.Background(), "", "x.em", []byte("1"))
	if !mdwerror.HasCode(err, mdwerror.CodeInvalidInput) {
		t.Errorf("Put() error = %v, want INVALID_INPUT", err)
	}
}

func TestSQLiteStore_PrunesLeastRecentlyAccessed(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t, 2)
	tick(s)

	for _, h := range []string{"a", "b"} {
		if err := s.Put(ctx, h, h+".em", []byte(h)); err != nil {
			t.Fatal(err)
		}
	}
	// touch a so that b becomes the oldest
	if _, ok, err := s.Get(ctx, "a"); !ok || err != nil {
		t.Fatalf("Get(a) = %v, %v", ok, err)
	}
	if err := s.Put(ctx, "c", "c.em", []byte("c")); err != nil {
		t.Fatal(err)
	}

	if _, ok, _ := s.Get(ctx, "b"); ok {
		t.Error("b should have been pruned")
	}
	for _, h := range []string{"a", "c"} {
		if _, ok, _ := s.Get(ctx, h); !ok {
			t.Errorf("%s should still be stored", h)
		}
	}
}

func TestSQLiteStore_Statistics(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t, 10)

	s.Put(ctx, "a", "a.em", []byte("123"))
	s.Put(ctx, "b", "b.em", []byte("45"))
	s.Get(ctx, "a")
	s.Get(ctx, "a")

	stats, err := s.Statistics(ctx)
	if err != nil {
		t.Fatalf("Statistics() error = %v", err)
	}
	if stats["entries"] != int64(2) {
		t.Errorf("entries = %v, want 2", stats["entries"])
	}
	if stats["bytes"] != int64(5) {
		t.Errorf("bytes = %v, want 5", stats["bytes"])
	}
	if stats["hits"] != int64(2) {
		t.Errorf("hits = %v, want 2", stats["hits"])
	}
}

func TestSQLiteStore_DeleteClear(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t, 0)

	s.Put(ctx, "a", "a.em", []byte("1"))
	s.Put(ctx, "b", "b.em", []byte("2"))

	if err := s.Delete(ctx, "a"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, ok, _ := s.Get(ctx, "a"); ok {
		t.Error("a should be deleted")
	}
	if err := s.Clear(ctx); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	entries, _ := s.List(ctx, 0)
	if len(entries) != 0 {
		t.Errorf("List() after Clear = %d entries, want 0", len(entries))
	}
}

func TestSQLiteStore_Reopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "ast.db")

	s, err := Open(Config{Path: path})
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Put(ctx, "a", "a.em", []byte("tree")); err != nil {
		t.Fatal(err)
	}
	s.Close()

	s, err = Open(Config{Path: path})
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	if got, ok, err := s.Get(ctx, "a"); !ok || err != nil || string(got) != "tree" {
		t.Errorf("Get() after reopen = %q, %v, %v", got, ok, err)
	}
}

func TestSQLiteStore_MemoryAndClosed(t *testing.T) {
	ctx := context.Background()
	s, err := Open(Config{Path: ":memory:"})
	if err != nil {
		t.Fatalf("Open(:memory:) error = %v", err)
	}
	if err := s.Ping(ctx); err != nil {
		t.Errorf("Ping() error = %v", err)
	}
	if err := s.Put(ctx, "a", "a.em", []byte("1")); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	s.Close()

	_, _, err = s.Get(ctx, "a")
	if !mdwerror.HasCode(err, mdwerror.CodeStorageError) {
		t.Errorf("Get() on closed store error = %v, want STORAGE_ERROR", err)
	}
}

func TestSQLiteStore_Concurrent(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t, 0)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			h := string(rune('a' + i))
			if err := s.Put(ctx, h, h+".em", []byte(h)); err != nil {
				t.Errorf("Put(%s) error = %v", h, err)
			}
			if _, ok, err := s.Get(ctx, h); !ok || err != nil {
				t.Errorf("Get(%s) = %v, %v", h, ok, err)
			}
		}(i)
	}
	wg.Wait()

	entries, err := s.List(ctx, 100)
	if err != nil || len(entries) != 8 {
		t.Errorf("List() = %d entries, %v; want 8", len(entries), err)
	}
}
