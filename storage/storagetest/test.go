// storagetest package provides generic test cases for keyed storage implementations.
package storagetest

import (
	"errors"
	"fmt"
	"maps"
	"math/rand/v2"
	"slices"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/karupanerura/item-service/storage"
	"golang.org/x/sync/errgroup"
)

// Record is the item type used by the test cases.
type Record struct {
	ID      string `json:"id"`
	Version int    `json:"version"`
}

// Provider creates a storage for a single test case and returns a function to release it.
type Provider func() (storage.KeyedStorage[string, Record], func())

// BenchmarkSave benchmarks the Save method of the storage.
func BenchmarkSave(b *testing.B, s storage.KeyedStorage[string, Record], keys []string) {
	items := records(8, 0)
	ctx := b.Context()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Save(ctx, keys[i%len(keys)], items)
	}
}

func records(n, version int) []Record {
	items := make([]Record, n)
	for i := range items {
		items[i] = Record{ID: strconv.Itoa(i), Version: version}
	}
	return items
}

// TestConsistency tests that the storage returns what was saved, per key.
func TestConsistency(t *testing.T, provider Provider) {
	t.Run("Consistency", func(t *testing.T) {
		t.Parallel()

		t.Run("SaveAndLoad", func(t *testing.T) {
			t.Parallel()

			s, release := provider()
			defer release()

			patterns := map[string][]Record{
				"alice": records(1, 1),
				"bob":   records(2, 2),
				"carol": records(3, 3),
				"dave":  records(4, 4),
				"empty": {},
			}
			keys := slices.Sorted(maps.Keys(patterns))
			rand.Shuffle(len(keys), func(i, j int) {
				keys[i], keys[j] = keys[j], keys[i]
			})

			var eg errgroup.Group
			for _, key := range keys {
				eg.Go(func() error {
					if _, err := s.Load(t.Context(), key); !errors.Is(err, storage.ErrNotFound) {
						return fmt.Errorf("expected ErrNotFound for key %s, got %v", key, err)
					}
					return nil
				})
			}
			if err := eg.Wait(); err != nil {
				t.Fatal(err)
			}

			eg = errgroup.Group{}
			for _, key := range keys {
				eg.Go(func() error {
					return s.Save(t.Context(), key, patterns[key])
				})
			}
			if err := eg.Wait(); err != nil {
				t.Fatal(err)
			}

			eg = errgroup.Group{}
			results := make([][]Record, len(keys))
			for i, key := range keys {
				eg.Go(func() error {
					items, err := s.Load(t.Context(), key)
					if err != nil {
						return err
					}
					results[i] = items
					return nil
				})
			}
			if err := eg.Wait(); err != nil {
				t.Fatal(err)
			}

			for i, key := range keys {
				if df := cmp.Diff(patterns[key], results[i]); df != "" {
					t.Errorf("key=%s items diff=%s", key, df)
				}
			}
		})

		t.Run("EmptyListIsNotAMiss", func(t *testing.T) {
			t.Parallel()

			s, release := provider()
			defer release()

			if err := s.Save(t.Context(), "alice", nil); err != nil {
				t.Fatal(err)
			}
			items, err := s.Load(t.Context(), "alice")
			if err != nil {
				t.Fatalf("expected empty list, got error %v", err)
			}
			if len(items) != 0 {
				t.Errorf("expected empty list, got %v", items)
			}
		})

		t.Run("Overwrite", func(t *testing.T) {
			t.Parallel()

			s, release := provider()
			defer release()

			if err := s.Save(t.Context(), "alice", records(3, 1)); err != nil {
				t.Fatal(err)
			}
			if err := s.Save(t.Context(), "alice", records(1, 2)); err != nil {
				t.Fatal(err)
			}
			items, err := s.Load(t.Context(), "alice")
			if err != nil {
				t.Fatal(err)
			}
			if df := cmp.Diff(records(1, 2), items); df != "" {
				t.Errorf("items diff=%s", df)
			}
		})

		t.Run("Isolation", func(t *testing.T) {
			t.Parallel()

			s, release := provider()
			defer release()

			saved := records(2, 1)
			if err := s.Save(t.Context(), "alice", saved); err != nil {
				t.Fatal(err)
			}
			saved[0].Version = 100

			loaded, err := s.Load(t.Context(), "alice")
			if err != nil {
				t.Fatal(err)
			}
			loaded[1].Version = 200

			again, err := s.Load(t.Context(), "alice")
			if err != nil {
				t.Fatal(err)
			}
			if df := cmp.Diff(records(2, 1), again); df != "" {
				t.Errorf("stored items must not be shared with callers, diff=%s", df)
			}
		})
	})
}

// TestConcurrentReadWrite tests that readers never observe a partially written list.
func TestConcurrentReadWrite(t *testing.T, provider Provider) {
	t.Run("ConcurrentReadWrite", func(t *testing.T) {
		t.Parallel()

		s, release := provider()
		defer release()

		const (
			size     = 16
			versions = 50
			readers  = 4
		)

		var eg errgroup.Group
		eg.Go(func() error {
			for v := range versions {
				if err := s.Save(t.Context(), "shared", records(size, v)); err != nil {
					return err
				}
			}
			return nil
		})
		for range readers {
			eg.Go(func() error {
				for range versions {
					items, err := s.Load(t.Context(), "shared")
					if errors.Is(err, storage.ErrNotFound) {
						continue
					} else if err != nil {
						return err
					}
					if len(items) != size {
						return fmt.Errorf("expected %d items, got %d", size, len(items))
					}
					for _, item := range items {
						if item.Version != items[0].Version {
							return fmt.Errorf("mixed versions in one list: %v", items)
						}
					}
				}
				return nil
			})
		}
		if err := eg.Wait(); err != nil {
			t.Fatal(err)
		}
	})
}

// ExpirationProvider creates a storage whose saved items expire after ttl,
// and returns a function to move its clock forward and a function to release it.
type ExpirationProvider func(ttl time.Duration) (s storage.KeyedStorage[string, Record], advance func(time.Duration), release func())

// FixedClock is a clock for expiration tests that only moves when told to.
type FixedClock struct {
	mu   sync.Mutex
	time time.Time
}

// NewFixedClock returns a FixedClock that starts at the given time.
func NewFixedClock(t time.Time) *FixedClock {
	return &FixedClock{time: t}
}

// Now returns the current time of the clock.
func (c *FixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.time
}

// Advance moves the clock forward.
func (c *FixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.time = c.time.Add(d)
}

// TestExpiration tests that saved items become unreadable once their TTL elapsed.
func TestExpiration(t *testing.T, provider ExpirationProvider) {
	t.Run("Expiration", func(t *testing.T) {
		t.Parallel()

		s, advance, release := provider(time.Hour)
		defer release()

		if err := s.Save(t.Context(), "alice", records(2, 1)); err != nil {
			t.Fatal(err)
		}

		advance(time.Hour - time.Second)
		items, err := s.Load(t.Context(), "alice")
		if err != nil {
			t.Fatalf("should exist before expiration, got %v", err)
		}
		if df := cmp.Diff(records(2, 1), items); df != "" {
			t.Errorf("items diff=%s", df)
		}

		advance(time.Second)
		if _, err := s.Load(t.Context(), "alice"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("should not exist after expiration, got %v", err)
		}

		if err := s.Save(t.Context(), "alice", records(1, 2)); err != nil {
			t.Fatal(err)
		}
		if _, err := s.Load(t.Context(), "alice"); err != nil {
			t.Errorf("saving again must reset the expiration, got %v", err)
		}
	})
}
