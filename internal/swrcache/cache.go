// Package swrcache provides stale-while-revalidate caching for read
// operations, backed by JSON files so cached data survives between CLI
// invocations.
//
// Entries younger than the fresh TTL are served without a network call.
// Entries older than that but within the stale window are served
// immediately while a background refresh updates the file. Anything
// older is fetched synchronously.
package swrcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

const (
	defaultFreshTTL = 5 * time.Minute
	defaultMaxStale = time.Hour
	refreshTimeout  = 30 * time.Second
)

// Cache is a file-backed SWR cache rooted at one directory.
type Cache struct {
	dir      string
	freshTTL time.Duration
	maxStale time.Duration
}

// Option configures a Cache.
type Option func(*Cache)

// WithFreshTTL sets how long an entry is served without revalidation.
func WithFreshTTL(d time.Duration) Option {
	return func(c *Cache) { c.freshTTL = d }
}

// WithMaxStale sets how long a stale entry may still be served while a
// background refresh runs. Zero or negative disables stale serving.
func WithMaxStale(d time.Duration) Option {
	return func(c *Cache) { c.maxStale = d }
}

// New returns a cache rooted at dir.
func New(dir string, opts ...Option) *Cache {
	c := &Cache{dir: dir, freshTTL: defaultFreshTTL, maxStale: defaultMaxStale}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewDefault returns a cache rooted at the OS user cache dir.
func NewDefault() *Cache {
	base, err := os.UserCacheDir()
	if err != nil {
		// No usable cache dir; a nil-dir cache degrades to fetching.
		return &Cache{}
	}
	return New(filepath.Join(base, "dnsm"))
}

// envelope is the on-disk shape of a cached entry.
type envelope[T any] struct {
	FetchedAt time.Time `json:"fetched_at"`
	Data      T         `json:"data"`
}

// GetOrFetch returns cached data using stale-while-revalidate semantics.
// A nil cache or an unusable cache directory degrades to calling fetch.
func GetOrFetch[T any](c *Cache, ctx context.Context, key string, fetch func(context.Context) (T, error)) (T, error) {
	if c == nil || c.dir == "" {
		return fetch(ctx)
	}

	env, ok := read[T](c, key)
	if !ok {
		return fetchInto(c, ctx, key, fetch)
	}

	age := time.Since(env.FetchedAt)
	switch {
	case age < 0:
		// Clock went backwards; do not trust the entry.
		return fetchInto(c, ctx, key, fetch)
	case age <= c.freshTTL:
		return env.Data, nil
	case c.maxStale > 0 && age <= c.freshTTL+c.maxStale:
		go refresh(c, key, fetch)
		return env.Data, nil
	default:
		return fetchInto(c, ctx, key, fetch)
	}
}

// Invalidate removes a single cached entry.
func (c *Cache) Invalidate(key string) error {
	if c == nil || c.dir == "" {
		return nil
	}
	err := os.Remove(c.path(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Clear removes every cached entry.
func (c *Cache) Clear() error {
	if c == nil || c.dir == "" {
		return nil
	}
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, entry := range entries {
		if err := os.Remove(filepath.Join(c.dir, entry.Name())); err != nil {
			return err
		}
	}
	return nil
}

// path maps a key onto a cache file. Keys are hashed so callers can use
// arbitrary strings without worrying about filesystem-hostile characters.
func (c *Cache) path(key string) string {
	sum := sha256.Sum256([]byte(key))
	return filepath.Join(c.dir, hex.EncodeToString(sum[:16])+".json")
}

func read[T any](c *Cache, key string) (envelope[T], bool) {
	var env envelope[T]
	data, err := os.ReadFile(c.path(key))
	if err != nil {
		return env, false
	}
	if err := json.Unmarshal(data, &env); err != nil {
		// A corrupt entry is the same as a missing one.
		return env, false
	}
	return env, true
}

func write[T any](c *Cache, key string, value T) {
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return
	}
	data, err := json.Marshal(envelope[T]{FetchedAt: time.Now(), Data: value})
	if err != nil {
		return
	}
	// Cache writes are best effort; a failure just means a refetch later.
	_ = os.WriteFile(c.path(key), data, 0o644)
}

func fetchInto[T any](c *Cache, ctx context.Context, key string, fetch func(context.Context) (T, error)) (T, error) {
	data, err := fetch(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	write(c, key, data)
	return data, nil
}

func refresh[T any](c *Cache, key string, fetch func(context.Context) (T, error)) {
	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()
	data, err := fetch(ctx)
	if err != nil {
		return
	}
	write(c, key, data)
}
