package swrcache

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

type fakePayload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// seed writes an entry with a given age directly, bypassing GetOrFetch.
func seed[T any](t *testing.T, c *Cache, key string, value T, age time.Duration) {
	t.Helper()
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		t.Fatal(err)
	}
	data, err := json.Marshal(envelope[T]{FetchedAt: time.Now().Add(-age), Data: value})
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(c.path(key), data, 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestGetOrFetchMissEntryFetchesAndStores(t *testing.T) {
	c := New(t.TempDir())
	var calls atomic.Int64

	want := fakePayload{Name: "example.com", Count: 3}
	got, err := GetOrFetch(c, context.Background(), "domains", func(context.Context) (fakePayload, error) {
		calls.Add(1)
		return want, nil
	})
	if err != nil {
		t.Fatalf("GetOrFetch: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("result mismatch (-want +got):\n%s", diff)
	}
	if calls.Load() != 1 {
		t.Errorf("fetch calls = %d, want 1", calls.Load())
	}

	// Second read must come from the cache.
	got, err = GetOrFetch(c, context.Background(), "domains", func(context.Context) (fakePayload, error) {
		calls.Add(1)
		return fakePayload{}, nil
	})
	if err != nil {
		t.Fatalf("GetOrFetch: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("cached result mismatch (-want +got):\n%s", diff)
	}
	if calls.Load() != 1 {
		t.Errorf("fetch calls after cached read = %d, want 1", calls.Load())
	}
}

func TestGetOrFetchStaleServesOldDataAndRevalidates(t *testing.T) {
	c := New(t.TempDir(), WithFreshTTL(time.Millisecond), WithMaxStale(time.Hour))
	stale := fakePayload{Name: "stale.example.com"}
	fresh := fakePayload{Name: "fresh.example.com"}
	seed(t, c, "domains", stale, time.Minute)

	done := make(chan struct{})
	got, err := GetOrFetch(c, context.Background(), "domains", func(context.Context) (fakePayload, error) {
		defer close(done)
		return fresh, nil
	})
	if err != nil {
		t.Fatalf("GetOrFetch: %v", err)
	}
	if diff := cmp.Diff(stale, got); diff != "" {
		t.Errorf("stale read mismatch (-want +got):\n%s", diff)
	}

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("background revalidation never ran")
	}

	// Refresh is async; wait for the file to hold the new value.
	deadline := time.Now().Add(5 * time.Second)
	for {
		env, ok := read[fakePayload](c, "domains")
		if ok && env.Data == fresh {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("cache file never updated with revalidated data")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestGetOrFetchExpiredFetchesSynchronously(t *testing.T) {
	c := New(t.TempDir(), WithFreshTTL(time.Millisecond), WithMaxStale(time.Millisecond))
	seed(t, c, "domains", fakePayload{Name: "ancient.example.com"}, 24*time.Hour)

	want := fakePayload{Name: "current.example.com"}
	got, err := GetOrFetch(c, context.Background(), "domains", func(context.Context) (fakePayload, error) {
		return want, nil
	})
	if err != nil {
		t.Fatalf("GetOrFetch: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("expired read mismatch (-want +got):\n%s", diff)
	}
}

func TestGetOrFetchFetchErrorPropagates(t *testing.T) {
	c := New(t.TempDir())
	wantErr := os.ErrPermission

	_, err := GetOrFetch(c, context.Background(), "domains", func(context.Context) (fakePayload, error) {
		return fakePayload{}, wantErr
	})
	if err != wantErr {
		t.Errorf("err = %v, want %v", err, wantErr)
	}

	// Errors must not leave a cache entry behind.
	if _, ok := read[fakePayload](c, "domains"); ok {
		t.Error("failed fetch left a cache entry")
	}
}

func TestNilCacheDegradesToFetch(t *testing.T) {
	var c *Cache
	want := fakePayload{Name: "direct.example.com"}
	got, err := GetOrFetch(c, context.Background(), "domains", func(context.Context) (fakePayload, error) {
		return want, nil
	})
	if err != nil {
		t.Fatalf("GetOrFetch: %v", err)
	}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestInvalidateRemovesEntry(t *testing.T) {
	c := New(t.TempDir())
	seed(t, c, "domains", fakePayload{Name: "example.com"}, 0)

	if err := c.Invalidate("domains"); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}
	if _, ok := read[fakePayload](c, "domains"); ok {
		t.Error("entry still readable after Invalidate")
	}

	// Invalidating a missing entry is fine.
	if err := c.Invalidate("domains"); err != nil {
		t.Errorf("Invalidate on missing entry: %v", err)
	}
}

func TestClearRemovesEverything(t *testing.T) {
	c := New(t.TempDir())
	seed(t, c, "domains", fakePayload{Name: "a.example.com"}, 0)
	seed(t, c, "domain:42", fakePayload{Name: "b.example.com"}, 0)

	if err := c.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("cache dir has %d entries after Clear, want 0", len(entries))
	}
}

func TestCorruptEntryTreatedAsMiss(t *testing.T) {
	c := New(t.TempDir())
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(c.path("domains"), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	want := fakePayload{Name: "repaired.example.com"}
	got, err := GetOrFetch(c, context.Background(), "domains", func(context.Context) (fakePayload, error) {
		return want, nil
	})
	if err != nil {
		t.Fatalf("GetOrFetch: %v", err)
	}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestPathIsFilesystemSafe(t *testing.T) {
	c := New(t.TempDir())
	got := c.path("domains?name=exam/../..&limit=25")
	if filepath.Dir(got) != c.dir {
		t.Errorf("path escaped cache dir: %s", got)
	}
}
