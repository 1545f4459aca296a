package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"
)

// DefaultSize bounds the number of keys a Store keeps.
const DefaultSize = 128

// ErrFetchCancelled is returned by Get when the fetch it waited on was
// cancelled by CancelPending and nothing is cached for the key.
var ErrFetchCancelled = errors.New("fetch cancelled")

// Fetcher loads the authoritative value for a key.
type Fetcher[V any] func(ctx context.Context, key Key) (V, error)

type entry[V any] struct {
	value     V
	stale     bool
	fetchedAt time.Time
}

type flight struct {
	cancel context.CancelFunc
}

// Store is an in-memory keyed cache. Values are replaced whole, never
// patched, so readers see either the old or the new value.
type Store[V any] struct {
	fetch Fetcher[V]
	group singleflight.Group

	mu      sync.Mutex
	entries *lru.Cache[Key, *entry[V]]
	gens    map[Key]uint64
	pending map[Key]map[*flight]struct{}
}

// New creates a Store holding at most size keys, loading misses with fetch.
func New[V any](size int, fetch Fetcher[V]) (*Store[V], error) {
	if size <= 0 {
		size = DefaultSize
	}
	entries, err := lru.New[Key, *entry[V]](size)
	if err != nil {
		return nil, fmt.Errorf("creating lru: %w", err)
	}
	return &Store[V]{
		fetch:   fetch,
		entries: entries,
		gens:    make(map[Key]uint64),
		pending: make(map[Key]map[*flight]struct{}),
	}, nil
}

// Read returns the cached value for key, stale or not.
func (s *Store[V]) Read(key Key) (V, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries.Peek(key)
	if !ok {
		var zero V
		return zero, false
	}
	return e.value, true
}

// Write replaces the cached value for key and marks it fresh.
func (s *Store[V]) Write(key Key, value V) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries.Add(key, &entry[V]{value: value, fetchedAt: time.Now()})
}

// Invalidate marks the value for key stale. The next Get refetches it.
func (s *Store[V]) Invalidate(key Key) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.entries.Peek(key); ok {
		e.stale = true
	}
}

// Remove drops key from the cache.
func (s *Store[V]) Remove(key Key) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries.Remove(key)
}

// Len returns the number of cached keys.
func (s *Store[V]) Len() int {
	return s.entries.Len()
}

// CancelPending aborts in-flight fetches for key. Their results are
// discarded even if the fetcher ignores cancellation.
func (s *Store[V]) CancelPending(key Key) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.gens[key]++
	for f := range s.pending[key] {
		f.cancel()
	}
	delete(s.pending, key)
	s.group.Forget(key.String())
}

// Get returns the fresh cached value for key, fetching it when missing or
// stale. Concurrent Gets for one key share a fetch.
func (s *Store[V]) Get(ctx context.Context, key Key) (V, error) {
	s.mu.Lock()
	if e, ok := s.entries.Get(key); ok && !e.stale {
		s.mu.Unlock()
		return e.value, nil
	}
	gen := s.gens[key]
	s.mu.Unlock()

	ch := s.group.DoChan(key.String(), func() (interface{}, error) {
		return s.load(key, gen)
	})

	var zero V
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if errors.Is(res.Err, ErrFetchCancelled) {
			if v, ok := s.Read(key); ok {
				return v, nil
			}
		}
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(V), nil
	}
}

// load runs one fetch for key and stores its result unless the key was
// cancelled after gen was observed.
func (s *Store[V]) load(key Key, gen uint64) (V, error) {
	var zero V

	fctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	f := &flight{cancel: cancel}

	s.mu.Lock()
	if s.gens[key] != gen {
		s.mu.Unlock()
		return zero, ErrFetchCancelled
	}
	if s.pending[key] == nil {
		s.pending[key] = make(map[*flight]struct{})
	}
	s.pending[key][f] = struct{}{}
	s.mu.Unlock()

	v, err := s.fetch(fctx, key)

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.pending[key], f)
	if len(s.pending[key]) == 0 {
		delete(s.pending, key)
	}

	if s.gens[key] != gen {
		slog.Debug("discarding cancelled fetch", "key", key.String())
		return zero, ErrFetchCancelled
	}
	if err != nil {
		return zero, err
	}

	s.entries.Add(key, &entry[V]{value: v, fetchedAt: time.Now()})
	return v, nil
}
